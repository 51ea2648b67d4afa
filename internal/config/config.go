package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration. It is read once at startup and
// treated as immutable afterwards; components receive the values they need
// through their constructors rather than reading the environment themselves.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Origin gate. CORSOrigins is "*" or a comma-separated list of exact
	// origins. When CORSOriginSuffix is set (e.g. ".karba.dev") it takes
	// precedence and any origin whose host matches the suffix is admitted.
	CORSOrigins      string
	CORSOriginSuffix string

	// reCAPTCHA verification. An empty secret disables the gate entirely.
	RecaptchaSecret    string
	RecaptchaThreshold float64
	RecaptchaTimeout   time.Duration

	// Outbound email channel.
	EmailProvider     string // "sendgrid" or "ses"
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string
	LeadRecipient     string
	LeadRecipientName string

	// What to do when the email channel is not fully configured:
	// "skip" acknowledges the lead without sending, "fail" returns a 500.
	NotifyMisconfigPolicy string

	// AWS settings, used when EmailProvider is "ses".
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		CORSOriginSuffix: getEnv("CORS_ORIGIN_SUFFIX", ""),

		RecaptchaSecret:    getEnv("RECAPTCHA_SECRET", ""),
		RecaptchaThreshold: getEnvAsFloat("RECAPTCHA_SCORE_THRESHOLD", 0.3),
		RecaptchaTimeout:   getEnvAsDuration("RECAPTCHA_TIMEOUT", 10*time.Second),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Karba Leads"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Karba Leads"),
		LeadRecipient:     getEnv("EMAIL_TO", ""),
		LeadRecipientName: getEnv("EMAIL_TO_NAME", ""),

		NotifyMisconfigPolicy: strings.ToLower(strings.TrimSpace(getEnv("NOTIFY_MISCONFIG_POLICY", "skip"))),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// AllowedOrigins splits CORSOrigins into a trimmed list. A single "*" entry
// means every origin is allowed.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
