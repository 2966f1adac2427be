// Package server exposes the risk form over HTTP: the HTML form, a JSON
// prediction endpoint validated against a generated OpenAPI document, and
// health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	riskform "github.com/goliatone/go-riskform"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/openapi"
	"github.com/goliatone/go-riskform/pkg/orchestrator"
)

// Route paths.
const (
	PathForm    = "/"
	PathPredict = "/api/predict"
	PathOpenAPI = "/openapi.json"
	PathHealth  = "/healthz"
	PathMetrics = "/metrics"
	PathAssets  = "/assets"
)

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics replaces the metrics set, mainly so tests can inspect it.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithOpenAPIOptions forwards options to the OpenAPI document builder.
func WithOpenAPIOptions(opts ...openapi.Option) Option {
	return func(s *Server) {
		s.openapiOpts = append(s.openapiOpts, opts...)
	}
}

// Server wires an orchestrator to a gin engine.
type Server struct {
	orch        *orchestrator.Orchestrator
	logger      *zap.Logger
	metrics     *Metrics
	openapiOpts []openapi.Option

	form      model.FormModel
	validator *openapi.RequestValidator
	document  []byte
	engine    *gin.Engine
}

// New builds the form once to derive the OpenAPI document and request
// validator, then registers the routes.
func New(ctx context.Context, orch *orchestrator.Orchestrator, opts ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: orchestrator is nil")
	}
	s := &Server{
		orch:   orch,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	fm, err := orch.Form(ctx)
	if err != nil {
		return nil, fmt.Errorf("server: build form: %w", err)
	}
	s.form = fm
	doc, err := openapi.Document(ctx, fm, s.openapiOpts...)
	if err != nil {
		return nil, fmt.Errorf("server: openapi document: %w", err)
	}
	if s.document, err = json.Marshal(doc); err != nil {
		return nil, fmt.Errorf("server: encode openapi document: %w", err)
	}
	if s.validator, err = openapi.NewRequestValidator(fm); err != nil {
		return nil, fmt.Errorf("server: request validator: %w", err)
	}

	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Metrics returns the metrics set served under /metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(s.logger))
	r.Use(Instrument(s.metrics))

	r.NoRoute(func(c *gin.Context) {
		NotFound(c, "route not found")
	})

	r.GET(PathForm, s.handleForm)
	r.POST(PathForm, s.handleFormSubmit)
	r.POST(PathPredict, s.handlePredict)
	r.GET(PathOpenAPI, s.handleOpenAPI)
	r.GET(PathHealth, s.handleHealth)
	r.GET(PathMetrics, gin.WrapH(s.metrics.Handler()))
	r.StaticFS(PathAssets, http.FS(riskform.EmbeddedAssets()))
	return r
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
