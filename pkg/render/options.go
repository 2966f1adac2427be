package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/predict"
)

// RenderOptions describe per-request data that renderers use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Locale selects UI strings and class labels. Empty means pt-BR.
	Locale string
	// Translator resolves UI strings. Nil falls back to the built-in texts.
	Translator Translator
	// OnMissing controls the string used when a translation is missing.
	OnMissing MissingTranslationHandler
	// State carries the submitted values and per-field errors. Controls are
	// re-rendered from it so a round trip keeps the user's selections.
	State *form.State
	// Result is shown when a prediction succeeded.
	Result *predict.Result
	// Errors are form-level messages (for example an inference failure).
	Errors []string
	// Theme provides design tokens emitted as CSS variables.
	Theme *theme.RendererConfig
	// HiddenFields are emitted as hidden inputs, sorted by name.
	HiddenFields map[string]string
}
