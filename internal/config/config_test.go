package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	assert.Equal(t, "export", cfg.GetString("source.type"))
	assert.Equal(t, "memory", cfg.GetString("storage.type"))
	assert.Equal(t, []string{"text"}, cfg.GetStringSlice("report.formats"))
	assert.Equal(t, "outputs", cfg.GetString("report.output_dir"))

	assert.True(t, cfg.GetBool("analysis.burst.adaptive"))
	assert.Equal(t, 5, cfg.GetInt("analysis.burst.min_events"))
	assert.Equal(t, 15, cfg.GetInt("analysis.burst.max_participants"))

	window, err := cfg.GetDuration("analysis.burst.window")
	require.NoError(t, err)
	assert.Equal(t, 168*time.Hour, window)

	gap, err := cfg.GetDuration("analysis.handoff.gap_threshold")
	require.NoError(t, err)
	assert.Equal(t, 14*24*time.Hour, gap)

	assert.Equal(t, 0.4, cfg.GetFloat64("analysis.phase.similarity_threshold"))
	assert.Equal(t, 0.85, cfg.GetFloat64("analysis.influence.damping"))
	assert.Contains(t, cfg.GetStringSlice("analysis.milestone.deliverable_lexicon"), "demo")
	assert.Contains(t, cfg.GetStringSlice("analysis.milestone.planning_lexicon"), "kickoff")
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("analysis.burst.min_events", 8)
	v.Set("storage.type", "sqlite")
	cfg := NewFromViper(v)

	assert.Equal(t, 8, cfg.GetInt("analysis.burst.min_events"))
	assert.Equal(t, "sqlite", cfg.GetString("storage.type"))
}

func TestGetDuration_Invalid(t *testing.T) {
	v := NewEmptyViper()
	v.Set("analysis.burst.window", "not a duration")
	cfg := NewFromViper(v)

	_, err := cfg.GetDuration("analysis.burst.window")
	assert.Error(t, err)
}
