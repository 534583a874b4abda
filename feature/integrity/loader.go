package integrity

import (
	"data-integrity/core/dataset"
	"data-integrity/core/reconcile"
	"data-integrity/core/runner"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Integrity feature.
func NewFeature(store dataset.Store, run runner.Runner, defaults reconcile.Config, logger *zap.Logger) *Feature {
	svc := NewService(store, run, defaults, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service for use outside HTTP, e.g. the check command.
func (f *Feature) Service() *Service {
	return f.service
}
