package model

import internalmodel "github.com/goliatone/go-riskform/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeChoice  = internalmodel.FieldTypeChoice
	FieldTypeUnknown = internalmodel.FieldTypeUnknown
)

const (
	ValidationRuleMin = internalmodel.ValidationRuleMin
	ValidationRuleMax = internalmodel.ValidationRuleMax

	WarningUnknownWidget = internalmodel.WarningUnknownWidget
)

type ValidationRule = internalmodel.ValidationRule
type Choice = internalmodel.Choice
type Field = internalmodel.Field
type Warning = internalmodel.Warning
type FormModel = internalmodel.FormModel
