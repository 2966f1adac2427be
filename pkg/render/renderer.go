package render

import (
	"context"

	"github.com/goliatone/go-riskform/pkg/model"
)

// Renderer converts a FormModel plus per-request state into bytes (HTML,
// terminal transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
