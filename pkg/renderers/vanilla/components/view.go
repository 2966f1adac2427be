package components

// FieldView is the template-facing projection of one field plus its current
// value. All values are strings so templates print them verbatim.
type FieldView struct {
	Name     string       `json:"name"`
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Widget   string       `json:"widget"`
	Value    string       `json:"value"`
	Error    string       `json:"error,omitempty"`
	Min      string       `json:"min,omitempty"`
	Max      string       `json:"max,omitempty"`
	Step     string       `json:"step,omitempty"`
	Required bool         `json:"required"`
	Unknown  bool         `json:"unknown"`
	Choices  []ChoiceView `json:"choices,omitempty"`
	// Control is the rendered widget markup, filled in by the renderer.
	Control string `json:"control,omitempty"`
}

// ChoiceView is one option of a choice field.
type ChoiceView struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Code    string `json:"code"`
	Checked bool   `json:"checked"`
}
