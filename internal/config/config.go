package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"kortex-blueprint/internal/ai"
	"kortex-blueprint/internal/api"
	"kortex-blueprint/internal/email"
	"kortex-blueprint/internal/mail"
)

// DefaultNotificationEmail receives the internal lead notification unless overridden.
const DefaultNotificationEmail = "info@kortexlabs.ai"

// Config holds all process configuration, read once at start.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	Server    api.Config
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("load .env file")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() Config {
	aiCfg := ai.Config{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   os.Getenv("GEMINI_MODEL"),
		BaseURL: os.Getenv("GEMINI_BASE_URL"),
	}
	if temp := strings.TrimSpace(os.Getenv("GEMINI_TEMPERATURE")); temp != "" {
		if v, err := strconv.ParseFloat(temp, 64); err == nil {
			aiCfg.Temperature = v
		} else {
			logrus.WithField("value", temp).Warn("ignoring invalid GEMINI_TEMPERATURE")
		}
	}
	if timeout := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT")); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			aiCfg.Timeout = d
		} else {
			logrus.WithField("value", timeout).Warn("ignoring invalid GEMINI_TIMEOUT")
		}
	}

	mailCfg := mail.Config{
		Provider:       strings.ToLower(strings.TrimSpace(os.Getenv("EMAIL_PROVIDER"))),
		FromEmail:      strings.TrimSpace(os.Getenv("SENDER_EMAIL")),
		FromName:       strings.TrimSpace(os.Getenv("SENDER_NAME")),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		SendGridHost:   os.Getenv("SENDGRID_HOST"),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		AWSRegion:      strings.TrimSpace(os.Getenv("AWS_REGION")),
	}
	if mailCfg.Provider == "" {
		mailCfg.Provider = mail.ProviderSendGrid
	}

	branding := email.DefaultBranding()
	if v := strings.TrimSpace(os.Getenv("CTA_URL")); v != "" {
		branding.CTAURL = v
	}
	if v := strings.TrimSpace(os.Getenv("BRAND_NAME")); v != "" {
		branding.BrandName = v
	}

	notify := DefaultNotificationEmail
	if v, ok := os.LookupEnv("NOTIFICATION_EMAIL"); ok {
		notify = strings.TrimSpace(v)
		if strings.EqualFold(notify, "none") {
			notify = ""
		}
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3000"
	}

	return Config{
		Port:      port,
		LogLevel:  strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		LogFormat: strings.TrimSpace(os.Getenv("LOG_FORMAT")),
		Server: api.Config{
			AIConfig:          aiCfg,
			MailConfig:        mailCfg,
			Branding:          branding,
			NotificationEmail: notify,
			AllowedOrigins:    parseOrigins(os.Getenv("ALLOWED_ORIGINS")),
		},
	}
}

// parseOrigins splits a comma separated list. "*" or an empty list allows every origin.
func parseOrigins(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		origin := strings.TrimRight(strings.TrimSpace(item), "/")
		switch {
		case origin == "":
			continue
		case origin == "*":
			return nil
		case strings.HasPrefix(origin, "http://"), strings.HasPrefix(origin, "https://"):
			out = append(out, origin)
		default:
			logrus.WithField("origin", origin).Warn("ignoring allowed origin without http(s) scheme")
		}
	}
	return out
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (c Config) ConfigureLogging() {
	if strings.EqualFold(c.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if c.LogLevel == "" {
		return
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.WithField("value", c.LogLevel).Warn("ignoring invalid LOG_LEVEL")
		return
	}
	logrus.SetLevel(level)
}
