package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// Leave empty to disable authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps the request body size. Compare requests carry whole collections.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"16"`
	// DatasetsAPI exposes the /datasets routes.
	DatasetsAPI bool `mapstructure:"datasets_api" default:"true"`
}

// DefaultBodyLimitMB is used when BodyLimitMB is not positive.
const DefaultBodyLimitMB = 16

// BodyLimitBytes returns the body limit in bytes for the Fiber config.
func (c Config) BodyLimitBytes() int {
	if c.BodyLimitMB <= 0 {
		return DefaultBodyLimitMB * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}
