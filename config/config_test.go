package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv(func(string) string { return "" })
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "plantcare.db", cfg.DBPath)
	assert.True(t, cfg.RemindersEnabled)
	assert.Equal(t, 30*time.Second, cfg.ReminderPollInterval)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestFromEnvOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":                   "9090",
		"REMINDERS_ENABLED":      "false",
		"REMINDER_POLL_INTERVAL": "5s",
		"PRETTY_LOGS":            "true",
		"SHUTDOWN_TIMEOUT":       "nonsense",
		"TZ":                     "Not/AZone",
	}
	cfg := FromEnv(func(k string) string { return env[k] })
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.RemindersEnabled)
	assert.True(t, cfg.PrettyLogs)
	assert.Equal(t, 5*time.Second, cfg.ReminderPollInterval)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.UTC, cfg.Location())
}
