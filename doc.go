// Package riskform serves an obesity-risk questionnaire whose fields follow
// the feature order of a fitted classifier. Open loads the model artifact,
// applies any catalog overlay, resolves the feature order and returns an
// orchestrator ready to render forms and run predictions.
package riskform
