package reconcile

// DefaultStatsKey is the key-value entry the run statistics are published under.
const DefaultStatsKey = "DATA_INTEGRITY_STATS"

// Config holds the default comparison settings. Request level values override them.
type Config struct {
	// IdentityFields are the default fields identifying a record.
	// From the environment they are read as a comma separated list.
	IdentityFields []string `mapstructure:"identity_fields"`
	// IgnoredFields are excluded from comparison by default.
	IgnoredFields []string `mapstructure:"ignored_fields"`
	// WarnFields produce WARN rows by default.
	WarnFields []string `mapstructure:"warn_fields"`
	// MaxEntries is the default reference capacity.
	MaxEntries int `mapstructure:"max_entries" default:"20"`
	// RemoveStale enables reference refresh by default.
	RemoveStale bool `mapstructure:"remove_stale" default:"true"`
	// StatsKey is the key-value entry holding the last run statistics.
	StatsKey string `mapstructure:"stats_key" default:"DATA_INTEGRITY_STATS"`
	// OutputDataset is the dataset mismatch rows are appended to.
	OutputDataset string `mapstructure:"output_dataset" default:"default"`
}

// Options converts the configuration into reconciliation options.
func (c Config) Options() Options {
	opts := DefaultOptions()
	opts.IdentityFields = c.IdentityFields
	opts.IgnoredFields = c.IgnoredFields
	opts.WarnFields = c.WarnFields
	opts.RemoveStale = c.RemoveStale
	if c.MaxEntries > 0 {
		opts.MaxReferenceEntries = c.MaxEntries
	}
	return opts
}

// StatsKeyOrDefault returns the configured stats key, falling back to DefaultStatsKey.
func (c Config) StatsKeyOrDefault() string {
	if c.StatsKey == "" {
		return DefaultStatsKey
	}
	return c.StatsKey
}
