package dataset

import "time"

// Backend drivers.
const (
	DriverFile = "file"
	DriverS3   = "s3"
	DriverSQL  = "sql"
)

// Config holds configuration for the dataset store.
type Config struct {
	// Driver selects the backend (file, s3, sql).
	Driver string `mapstructure:"driver" default:"file"`
	// Dir is the root directory of the file backend.
	Dir string `mapstructure:"dir" default:"./data"`
	// Prefix is prepended to object names in the s3 backend.
	Prefix string `mapstructure:"prefix" default:""`
	// CacheTTLSeconds enables the fetch cache when positive.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"0"`
}

// CacheTTL returns the fetch cache TTL.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
