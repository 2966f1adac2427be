package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-riskform/pkg/model"
)

// Translator resolves UI strings for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler produces the string used when a key cannot be
// translated. args may carry a map with a "default" entry.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

var (
	// ErrMissingTranslator is passed to MissingTranslationHandler when no
	// translator was configured.
	ErrMissingTranslator = errors.New("render: translator not configured")
	// ErrMissingTranslation is returned by Messages for unknown keys.
	ErrMissingTranslation = errors.New("render: missing translation")
)

// UI message keys.
const (
	KeyTitle                = "form.title"
	KeySubtitle             = "form.subtitle"
	KeySubmit               = "form.submit"
	KeyResultTitle          = "result.title"
	KeyResultClass          = "result.class"
	KeyResultProbability    = "result.probability"
	KeyErrorsTitle          = "errors.title"
	KeyWarningsTitle        = "warnings.title"
	KeyWarningUnknownWidget = "warnings." + model.WarningUnknownWidget
)

// Messages is an in-memory translator keyed by lower-case locale, then by
// message key. Values are fmt format strings.
type Messages map[string]map[string]string

// Translate looks up key for locale, then for its base language.
func (m Messages) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeCandidates(locale) {
		table, ok := m[candidate]
		if !ok {
			continue
		}
		if format, ok := table[key]; ok {
			if len(args) == 0 {
				return format, nil
			}
			return fmt.Sprintf(format, args...), nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

func localeCandidates(locale string) []string {
	key := strings.ToLower(strings.TrimSpace(locale))
	if key == "" {
		key = "pt-br"
	}
	out := []string{key}
	if i := strings.IndexAny(key, "-_"); i > 0 {
		out = append(out, key[:i])
	}
	return out
}

// DefaultMessages returns the built-in Portuguese and English UI strings.
func DefaultMessages() Messages {
	return Messages{
		"pt-br": {
			KeyTitle:                "Previsão de Obesidade",
			KeySubtitle:             "Insira seus dados para a previsão",
			KeySubmit:               "Prever Obesidade",
			KeyResultTitle:          "Resultado da Previsão:",
			KeyResultClass:          "A previsão é:",
			KeyResultProbability:    "Probabilidade de ser Obeso:",
			KeyErrorsTitle:          "Erro ao fazer a previsão",
			KeyWarningsTitle:        "Atenção:",
			KeyWarningUnknownWidget: "Widget não definido para a coluna: %s",
		},
		"en": {
			KeyTitle:                "Obesity Prediction",
			KeySubtitle:             "Enter your data for the prediction",
			KeySubmit:               "Predict Obesity",
			KeyResultTitle:          "Prediction Result:",
			KeyResultClass:          "The prediction is:",
			KeyResultProbability:    "Probability of being Obese:",
			KeyErrorsTitle:          "Prediction error",
			KeyWarningsTitle:        "Warnings:",
			KeyWarningUnknownWidget: "No widget defined for column: %s",

			"fields.vegetais.label":       "How often do you eat vegetables? (1 to 3)",
			"fields.ref_principais.label": "How many main meals do you have per day? (1 to 4)",
			"fields.agua.label":           "How many litres of water do you drink per day? (1 to 3)",
			"fields.atv_fisica.label":     "How often do you exercise? (0 to 3)",
			"fields.atv_eletronica.label": "How often do you use electronic devices for leisure? (0 to 2)",
			"fields.idade.label":          "How old are you? (whole number)",
			"fields.peso.label":           "What is your weight in kg? (whole number)",
			"fields.altura.label":         "What is your height in metres? (e.g. 1.75)",
			"fields.historico.label":      "Do you have a family history of obesity?",
			"fields.al_calorico.label":    "Do you often eat high-calorie food?",
			"fields.ctrl_caloria.label":   "Do you monitor your calorie intake?",
			"fields.entre_ref.label":      "Do you eat between main meals?",
			"fields.fumante.label":        "Do you smoke?",
			"fields.alcool.label":         "Do you drink alcohol?",
			"fields.transporte.label":     "Does your main means of transport involve walking or cycling?",
			"fields.feminino.label":       "Is your gender female?",
			"fields.masculino.label":      "Is your gender male?",
		},
	}
}

// FieldLabelKey is the message key overriding a field's label.
func FieldLabelKey(name string) string {
	return "fields." + name + ".label"
}

// Localize translates key using the options' translator, falling back to
// fallback.
func Localize(opts RenderOptions, key, fallback string, args ...any) string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(opts.Locale, key, fallback, opts.Translator, onMissing, args...)
}

// LocalizeFormModel mutates the supplied form model in place, translating the
// title, field labels and warnings. Untranslated entries keep their text.
func LocalizeFormModel(form *model.FormModel, opts RenderOptions) {
	if form == nil {
		return
	}
	form.Summary = Localize(opts, KeyTitle, form.Summary)
	form.Description = Localize(opts, KeySubtitle, form.Description)

	if len(form.Fields) > 0 {
		fields := make([]model.Field, len(form.Fields))
		for i, field := range form.Fields {
			field.Label = Localize(opts, FieldLabelKey(field.Name), field.Label)
			fields[i] = field
		}
		form.Fields = fields
	}

	if len(form.Warnings) > 0 {
		warnings := make([]model.Warning, len(form.Warnings))
		for i, w := range form.Warnings {
			w.Message = Localize(opts, "warnings."+w.Code, w.Message, w.Field)
			warnings[i] = w
		}
		form.Warnings = warnings
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		return onMissing(locale, key, append(args, map[string]any{"default": fallback}), ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, append(args, map[string]any{"default": fallback}), err)
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if def, ok := m["default"].(string); ok {
				return def
			}
		}
	}
	return key
}
