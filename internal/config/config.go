package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	// Optional env vars fall back to the empty string; the features they
	// enable (Turso replica, Slack notifications, Pub/Sub) stay off.
	getEnvOpt := func(key string) string {
		return os.Getenv(key)
	}

	sessionHours := 24
	if v := os.Getenv("SESSION_HOURS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			log.Warn("Invalid SESSION_HOURS, keeping default", "value", v)
		} else {
			sessionHours = parsed
		}
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: getEnvOpt("TURSO_PRIMARY_URL"),
			AuthToken:  getEnvOpt("TURSO_AUTH_TOKEN"),
		},
		Slack: SlackConfig{
			Token:     getEnvOpt("SLACK_BOT_TOKEN"),
			ChannelID: getEnvOpt("SLACK_CHANNEL_ID"),
		},
		ProjectID:    getEnvOpt("GCP_PROJECT"),
		SessionHours: sessionHours,
	}
	return cfg
}
