package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeChoice  FieldType = "choice"
	// FieldTypeUnknown marks a schema column with no descriptor. It is
	// collected as free text.
	FieldTypeUnknown FieldType = "unknown"
)

const (
	ValidationRuleMin = "min"
	ValidationRuleMax = "max"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds encode their threshold in Params["value"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Choice is one selectable option of a choice field.
type Choice struct {
	Label string `json:"label"`
	Code  int    `json:"code"`
}

// Field models an individual input inside the form. Name is the feature key
// and doubles as the control identity across re-renders.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Choices     []Choice          `json:"choices,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Warning is a non-fatal problem found while building the form.
type Warning struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// WarningUnknownWidget flags a schema column without a descriptor.
const WarningUnknownWidget = "unknown_widget"

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	OperationID string            `json:"operationId"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Warnings    []Warning         `json:"warnings,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Field returns the field keyed by name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Rule returns the value of the first validation rule of the given kind.
func (f Field) Rule(kind string) (string, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			v, ok := rule.Params["value"]
			return v, ok
		}
	}
	return "", false
}

// Unknown reports whether the field has no descriptor behind it.
func (f Field) Unknown() bool {
	return f.Type == FieldTypeUnknown
}

// ChoiceByCode returns the option carrying code.
func (f Field) ChoiceByCode(code int) (Choice, bool) {
	for _, c := range f.Choices {
		if c.Code == code {
			return c, true
		}
	}
	return Choice{}, false
}
