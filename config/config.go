package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port                 string
	Timezone             string
	DBPath               string
	LogLevel             string
	PrettyLogs           bool
	RemindersEnabled     bool
	ReminderPollInterval time.Duration
	CareProfilesPath     string
	ShutdownTimeout      time.Duration
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a getenv-style lookup.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	getBool := func(k string, def bool) bool {
		b, err := strconv.ParseBool(get(k, strconv.FormatBool(def)))
		if err != nil {
			return def
		}
		return b
	}
	getDur := func(k string, def time.Duration) time.Duration {
		d, err := time.ParseDuration(get(k, def.String()))
		if err != nil || d <= 0 {
			return def
		}
		return d
	}
	return AppConfig{
		Port:                 get("PORT", "8080"),
		Timezone:             get("TZ", "UTC"),
		DBPath:               get("DB_PATH", "plantcare.db"),
		LogLevel:             get("LOG_LEVEL", "info"),
		PrettyLogs:           getBool("PRETTY_LOGS", false),
		RemindersEnabled:     getBool("REMINDERS_ENABLED", true),
		ReminderPollInterval: getDur("REMINDER_POLL_INTERVAL", 30*time.Second),
		CareProfilesPath:     get("CARE_PROFILES_PATH", ""),
		ShutdownTimeout:      getDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Location resolves Timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
