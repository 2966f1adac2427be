// Package predict runs one guarded inference over an assembled record.
package predict

import (
	"fmt"
	"strings"
)

// Labels names the two classes for display.
type Labels struct {
	Positive string
	Negative string
}

var labelsByLocale = map[string]Labels{
	"pt-br": {Positive: "Obeso", Negative: "Não Obeso"},
	"en":    {Positive: "Obese", Negative: "Not Obese"},
}

// DefaultLocale is used when no locale or an unknown locale is requested.
const DefaultLocale = "pt-BR"

// LabelsFor returns the class labels for locale. "en-US" falls back to "en";
// unknown locales fall back to Portuguese.
func LabelsFor(locale string) Labels {
	key := strings.ToLower(strings.TrimSpace(locale))
	if l, ok := labelsByLocale[key]; ok {
		return l
	}
	if i := strings.IndexAny(key, "-_"); i > 0 {
		if l, ok := labelsByLocale[key[:i]]; ok {
			return l
		}
	}
	return labelsByLocale["pt-br"]
}

// For maps a class to its label.
func (l Labels) For(class int) string {
	if class == 1 {
		return l.Positive
	}
	return l.Negative
}

// Result is the outcome of one prediction.
type Result struct {
	Class       int     `json:"class"`
	Probability float64 `json:"probability"`
	Label       string  `json:"label"`
}

// ProbabilityText formats the positive-class probability with two decimals.
func (r Result) ProbabilityText() string {
	return fmt.Sprintf("%.2f", r.Probability)
}
