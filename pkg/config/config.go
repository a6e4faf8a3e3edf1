package config

import (
	"os"
	"strings"
)

// Default n8n automation endpoints, overridable via environment.
const (
	defaultWebhookURL          = "https://n8n.techifyserver.com/webhook/1ffccbab-f785-438e-b85e-b831271e6d58"
	defaultSecondaryWebhookURL = "https://n8n.techifyserver.com/webhook/19c4b559-64ea-4b6a-ab11-eb98745d58f9"
)

// Config holds all application configuration values
type Config struct {
	AirtableAPIKey      string
	AirtableBaseID      string
	AirtableTableName   string
	AttachmentsMode     string // "attachment" or "text"
	WebhookURL          string
	SecondaryWebhookURL string
	Port                string
}

// LoadConfig reads configuration from environment variables. Missing
// Airtable values are not an error here; the operations that need them
// fail with a descriptive error instead.
func LoadConfig() *Config {
	cfg := &Config{
		AirtableAPIKey:      os.Getenv("AIRTABLE_API_KEY"),
		AirtableBaseID:      os.Getenv("AIRTABLE_BASE_ID"),
		AirtableTableName:   os.Getenv("AIRTABLE_TABLE_NAME"),
		AttachmentsMode:     strings.ToLower(os.Getenv("AIRTABLE_ATTACHMENTS_MODE")),
		WebhookURL:          os.Getenv("N8N_WEBHOOK_URL"),
		SecondaryWebhookURL: os.Getenv("N8N_FORM_WEBHOOK_URL"),
		Port:                os.Getenv("PORT"),
	}
	if cfg.AttachmentsMode == "" {
		cfg.AttachmentsMode = "attachment"
	}
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = defaultWebhookURL
	}
	if cfg.SecondaryWebhookURL == "" {
		cfg.SecondaryWebhookURL = defaultSecondaryWebhookURL
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg
}
