package model

import "fmt"

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler        func(string) string
	OperationID    string
	Endpoint       string
	Method         string
	Summary        string
	Description    string
	UnknownWarning func(key string) string
}

func defaultOptions() Options {
	return Options{
		Labeler:     DefaultLabeler,
		OperationID: "predictObesity",
		Endpoint:    "/",
		Method:      "POST",
		Summary:     "Previsão de Obesidade",
		Description: "Insira seus dados para a previsão",
		UnknownWarning: func(key string) string {
			return fmt.Sprintf("Widget não definido para a coluna: %s", key)
		},
	}
}
