package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer           string        // Optional: issuer and audience of session tokens (default: pregmap)
	DatabaseFile     string        // Optional: credential store sqlite file (default: ./pregmap.db)
	PINCacheFile     string        // Optional: durable PIN cache sqlite file; "off" disables the tier (default: ./pin_cache.db)
	PepperFile       string        // Optional: path to file containing pepper for password and PIN hashing (default: ./pepper)
	SessionTTL       time.Duration // Optional: session token lifetime (default: 24h)
	VerificationTTL  time.Duration // Optional: phone verification code lifetime (default: 5m)
	PhoneCountryCode string        // Optional: country code for local phone numbers (default: 254)

	FederatedIssuer   string // Optional: ID token issuer; federated sign-in is disabled when empty
	FederatedJWKSURL  string // Optional: JWKS URL of the federated provider
	FederatedAudience string // Optional: OAuth client id ID tokens are minted for

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	TrustProxyHeaders    bool          // Rate limit on X-Forwarded-For / X-Real-IP; set only behind a proxy (default: false)
}

// FederatedEnabled reports whether enough is configured to verify ID tokens.
func (c Config) FederatedEnabled() bool {
	return c.FederatedIssuer != "" && c.FederatedJWKSURL != "" && c.FederatedAudience != ""
}

func LoadConfig() Config {
	return Config{
		Issuer:           getEnvOrDefault("PREGMAP_ISSUER", "pregmap"),
		DatabaseFile:     getEnvOrDefault("PREGMAP_DATABASE_FILE", "pregmap.db"),
		PINCacheFile:     getEnvOrDefault("PREGMAP_PIN_CACHE_FILE", "pin_cache.db"),
		PepperFile:       getEnvOrDefault("PREGMAP_PEPPER_FILE", "pepper"),
		SessionTTL:       getEnvDurationOrDefault("PREGMAP_SESSION_TTL", 24*time.Hour),
		VerificationTTL:  getEnvDurationOrDefault("PREGMAP_VERIFICATION_TTL", 5*time.Minute),
		PhoneCountryCode: getEnvOrDefault("PREGMAP_PHONE_COUNTRY_CODE", "254"),

		FederatedIssuer:   os.Getenv("PREGMAP_FEDERATED_ISSUER"),
		FederatedJWKSURL:  os.Getenv("PREGMAP_FEDERATED_JWKS_URL"),
		FederatedAudience: os.Getenv("PREGMAP_FEDERATED_AUDIENCE"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		TrustProxyHeaders:    getEnvBoolOrDefault("TRUST_PROXY_HEADERS", false),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
