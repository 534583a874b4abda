package runner

import "time"

// Config holds configuration for the HTTP runner.
type Config struct {
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.apify.com"`
	// Token authenticates API calls.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds how long a run may take, including polling.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"300"`
	// PollSeconds is the server side wait per poll request.
	PollSeconds int `mapstructure:"poll_seconds" default:"60"`
}

// Timeout returns the run timeout, defaulting to five minutes.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) pollSeconds() int {
	if c.PollSeconds <= 0 {
		return 60
	}
	return c.PollSeconds
}
