package components

// Canonical component names used by the vanilla renderer and default registry.
// They match the widget identifiers resolved by pkg/widgets.
const (
	NameNumber = "number"
	NameRadio  = "radio"
	NameSelect = "select"
	NameText   = "text"
)
