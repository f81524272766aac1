package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type DiscordConfig struct {
	BotToken         string
	TargetCategoryID string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != "" && c.TargetCategoryID != ""
}

type IntakeConfig struct {
	// FirstMessageTimeout bounds how long a new channel may stay silent before
	// the pending intake is discarded
	FirstMessageTimeout time.Duration
	// CloseDelay is the time between ticket completion and automatic closure
	CloseDelay time.Duration
	// StatusInterval is the period of the status reporter
	StatusInterval time.Duration
}

type AppConfig struct {
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	Debug              bool
	AlertWebhookURL    string // Optional Slack webhook for error alerts

	DiscordConfig DiscordConfig
	IntakeConfig  IntakeConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Required configuration - the bot cannot start without these
	botToken, err := getEnvRequired("DISCORD_BOT_TOKEN")
	if err != nil {
		return nil, err
	}

	targetCategoryID, err := getEnvRequired("TARGET_CATEGORY_ID")
	if err != nil {
		return nil, err
	}

	firstMessageTimeout, err := getEnvDuration("FIRST_MESSAGE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	closeDelay, err := getEnvDuration("CLOSE_DELAY", 1*time.Hour)
	if err != nil {
		return nil, err
	}

	statusInterval, err := getEnvDuration("STATUS_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		Debug:              getEnvWithDefault("DEBUG", "false") == "true",
		AlertWebhookURL:    os.Getenv("SLACK_ALERT_WEBHOOK_URL"),

		DiscordConfig: DiscordConfig{
			BotToken:         botToken,
			TargetCategoryID: targetCategoryID,
		},

		IntakeConfig: IntakeConfig{
			FirstMessageTimeout: firstMessageTimeout,
			CloseDelay:          closeDelay,
			StatusInterval:      statusInterval,
		},
	}

	log.Printf("✅ Discord intake configured - category %s, first-message timeout %s, close delay %s",
		config.DiscordConfig.TargetCategoryID, config.IntakeConfig.FirstMessageTimeout, config.IntakeConfig.CloseDelay)
	if config.AlertWebhookURL != "" {
		log.Printf("✅ Error alerting webhook configured")
	} else {
		log.Printf("⚠️ Error alerting webhook not configured - alerts will be disabled")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return d, nil
}
