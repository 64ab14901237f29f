package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Secrets (fill up for local development)
	ReceiptEmailAddress   string `envconfig:"DIVVY_RECEIPT_EMAIL_ADDRESS" required:"true"`
	PostmarkServerToken   string `envconfig:"POSTMARK_TOKEN" required:"true"`
	DigiKeySenderAddress  string `envconfig:"DIGIKEY_SENDER_EMAIL_ADDRESS" required:"true"`
	McMasterSenderAddress string `envconfig:"MCMASTER_SENDER_EMAIL_ADDRESS" required:"true"`
	TopKartSenderAddress  string `envconfig:"TOP_KART_SENDER_EMAIL_ADDRESS" required:"true"`

	// Defaults are fine for local development
	Environment string `envconfig:"ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8080"`

	// Upstream endpoints, overridable so tests can point at local servers
	PostmarkBaseURL string `envconfig:"POSTMARK_BASE_URL" default:"https://api.postmarkapp.com"`
	DigiKeyPDFURL   string `envconfig:"DIGIKEY_PDF_URL" default:"https://www.digikey.com/MyDigiKey/Invoice/PDF"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
