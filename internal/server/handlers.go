package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/pkg/openapi"
	"github.com/goliatone/go-riskform/pkg/orchestrator"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/record"
	"github.com/goliatone/go-riskform/pkg/render"
)

const (
	channelHTML = "html"
	channelAPI  = "api"

	contentTypeHTML = "text/html; charset=utf-8"

	maxBodyBytes = 64 << 10

	// formErrorsKey holds messages in error details that name no field.
	formErrorsKey = "_form"
	// localeFieldName is the hidden input emitted by render.LocaleField.
	localeFieldName = "locale"
)

func (s *Server) handleForm(c *gin.Context) {
	s.renderForm(c, http.StatusOK, nil, s.orch.Locale())
}

// handleFormSubmit re-renders the form with the submitted values and either
// the result or the errors.
func (s *Server) handleFormSubmit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.Request.ParseForm(); err != nil {
		BadRequest(c, "malformed form body")
		return
	}
	locale := s.orch.Locale()
	raw := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) == 0 {
			continue
		}
		if key == localeFieldName {
			if requested, ok := pageLocale(values[0]); ok {
				locale = requested
			}
			continue
		}
		raw[key] = values[0]
	}

	start := time.Now()
	sub, err := s.orch.Submit(c.Request.Context(), raw)
	s.metrics.ObserveSubmission(channelHTML, sub, err, time.Since(start))

	status := http.StatusOK
	var inference *predict.InferenceError
	switch {
	case err == nil:
		if locale != s.orch.Locale() {
			sub.Result.Label = predict.LabelsFor(locale).For(sub.Result.Class)
		}
	case errors.Is(err, orchestrator.ErrInvalidInput), errors.Is(err, record.ErrUnknownFeature):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &inference):
		status = http.StatusInternalServerError
		s.logger.Error("inference failed", zap.String("request_id", RequestIDFrom(c)), zap.Error(err))
	default:
		_ = c.Error(err)
		if sub == nil {
			InternalError(c, "could not process submission")
			return
		}
		status = http.StatusInternalServerError
	}
	s.renderForm(c, status, sub, locale)
}

// renderForm echoes locale back as a hidden field so the next submit is
// answered in the same language.
func (s *Server) renderForm(c *gin.Context, status int, sub *orchestrator.Submission, locale string) {
	body, err := s.orch.Render(c.Request.Context(), orchestrator.Request{
		Submission: sub,
		RenderOptions: render.RenderOptions{
			Locale:       locale,
			HiddenFields: render.MergeHiddenFields(nil, render.LocaleField(locale)),
		},
	})
	if err != nil {
		_ = c.Error(err)
		InternalError(c, "could not render form")
		return
	}
	c.Data(status, contentTypeHTML, body)
}

// pageLocale accepts tags such as "en" or "pt-BR".
func pageLocale(value string) (string, bool) {
	tag := strings.TrimSpace(value)
	if tag == "" || len(tag) > 16 {
		return "", false
	}
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return "", false
		}
	}
	return tag, true
}

// handlePredict is the JSON counterpart of handleFormSubmit.
func (s *Server) handlePredict(c *gin.Context) {
	var payload map[string]any
	decoder := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err := decoder.Decode(&payload); err != nil || payload == nil {
		BadRequest(c, "request body must be a JSON object")
		return
	}

	if err := s.validator.Validate(payload); err != nil {
		var verr *openapi.ValidationError
		if errors.As(err, &verr) {
			s.metrics.ObserveSubmission(channelAPI, nil, orchestrator.ErrInvalidInput, 0)
			RespondErrorWithDetails(c, http.StatusUnprocessableEntity, ErrCodeValidationFailed,
				"request does not match schema", errorDetails(render.MapErrorPayload(s.form, verr.Paths)))
			return
		}
		_ = c.Error(err)
		InternalError(c, "could not validate request")
		return
	}

	start := time.Now()
	sub, err := s.orch.SubmitJSON(c.Request.Context(), payload)
	s.metrics.ObserveSubmission(channelAPI, sub, err, time.Since(start))

	var inference *predict.InferenceError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, sub.Result)
	case errors.Is(err, orchestrator.ErrInvalidInput):
		RespondErrorWithDetails(c, http.StatusUnprocessableEntity, ErrCodeValidationFailed,
			"invalid input", render.StateErrors(sub.State))
	case errors.Is(err, record.ErrUnknownFeature):
		RespondErrorWithDetails(c, http.StatusUnprocessableEntity, ErrCodeValidationFailed,
			"unknown feature rejected", errorDetails(render.ErrorMapping{Form: render.MergeFormErrors(sub.Errors)}))
	case errors.As(err, &inference):
		s.logger.Error("inference failed", zap.String("request_id", RequestIDFrom(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, ErrCodeInferenceFailed, inference.Error())
	default:
		_ = c.Error(err)
		InternalError(c, "could not process submission")
	}
}

// errorDetails flattens a mapping into the details object: field messages
// keyed by feature name, the rest under "_form".
func errorDetails(mapping render.ErrorMapping) map[string][]string {
	out := make(map[string][]string, len(mapping.Fields)+1)
	for name, messages := range mapping.Fields {
		out[name] = messages
	}
	if len(mapping.Form) > 0 {
		out[formErrorsKey] = mapping.Form
	}
	return out
}

func (s *Server) handleOpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", s.document)
}

func (s *Server) handleHealth(c *gin.Context) {
	sch := s.orch.Schema()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"features":      sch.Len(),
		"schema_source": sch.Source(),
	})
}
