package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/chronolens/")
	v.AddConfigPath("$HOME/.chronolens")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("CHRONOLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values. Every analysis
// parameter named here is the documented default for its detector and may
// be overridden by file or environment.
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("source.type", "export")
	v.SetDefault("source.email_path", "data/email_events.json")
	v.SetDefault("source.calendar_path", "data/calendar_events.json")
	v.SetDefault("source.spool_path", "data/spool/events.jsonl")

	// Ingest daemon defaults
	v.SetDefault("ingest.listen_address", "0.0.0.0:10025")
	v.SetDefault("ingest.domain", "localhost")
	v.SetDefault("ingest.max_message_bytes", 30*1024*1024)
	v.SetDefault("ingest.max_body_size", 65536)

	// Burst detector defaults
	v.SetDefault("analysis.burst.adaptive", true)
	v.SetDefault("analysis.burst.window", "168h")
	v.SetDefault("analysis.burst.min_events", 5)
	v.SetDefault("analysis.burst.min_participants", 3)
	v.SetDefault("analysis.burst.max_participants", 15)

	// Milestone detector defaults
	v.SetDefault("analysis.milestone.deliverable_lexicon", []string{
		"presentation", "demo", "review", "showcase", "deliverable",
		"launch", "release", "delivery", "final", "approval",
	})
	v.SetDefault("analysis.milestone.planning_lexicon", []string{
		"workshop", "briefing", "kickoff", "strategy", "planning",
		"brainstorm", "discovery", "scoping", "roadmap", "alignment",
	})
	v.SetDefault("analysis.milestone.large_meeting_threshold", 7)
	v.SetDefault("analysis.milestone.follow_up_window", "48h")
	v.SetDefault("analysis.milestone.min_follow_ups", 3)
	v.SetDefault("analysis.milestone.calm_window", "72h")
	v.SetDefault("analysis.milestone.calm_max", 3)

	// Phase detector defaults
	v.SetDefault("analysis.phase.window_days", 30)
	v.SetDefault("analysis.phase.stride_days", 15)
	v.SetDefault("analysis.phase.min_events_per_window", 3)
	v.SetDefault("analysis.phase.top_keywords", 5)
	v.SetDefault("analysis.phase.similarity_threshold", 0.4)

	// Handoff detector defaults
	v.SetDefault("analysis.handoff.gap_threshold", "336h")
	v.SetDefault("analysis.handoff.turnover_min", 3)
	v.SetDefault("analysis.handoff.max_pair_gap", "0")

	// Sentiment analyzer defaults (lexicons fall back to the built-ins
	// when left empty)
	v.SetDefault("analysis.sentiment.positive_lexicon", []string{})
	v.SetDefault("analysis.sentiment.negative_lexicon", []string{})
	v.SetDefault("analysis.sentiment.positive_threshold", 0.6)
	v.SetDefault("analysis.sentiment.negative_threshold", 0.4)

	// Influence mapper defaults
	v.SetDefault("analysis.influence.damping", 0.85)
	v.SetDefault("analysis.influence.max_iterations", 100)
	v.SetDefault("analysis.influence.tolerance", 1e-6)
	v.SetDefault("analysis.influence.high_influence", 0.03)
	v.SetDefault("analysis.influence.high_activity", 10)

	// Exclusion defaults
	v.SetDefault("exclusions.addresses", []string{})
	v.SetDefault("exclusions.domains", []string{})

	// Storage defaults
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.sqlite_path", "data/chronolens.db")
	v.SetDefault("storage.mysql_dsn", "user:password@tcp(localhost:3306)/chronolens")

	// Report defaults
	v.SetDefault("report.formats", []string{"text"})
	v.SetDefault("report.output_dir", "outputs")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
