package datasets

import (
	"data-integrity/core/dataset"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
	enabled bool
}

// NewFeature creates a new Datasets feature. Disabled features register no routes.
func NewFeature(store dataset.Store, logger *zap.Logger, enabled bool) *Feature {
	return &Feature{handler: NewHandler(NewService(store, logger)), enabled: enabled}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "datasets"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
