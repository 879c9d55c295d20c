package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	APIURL       string
	CSRFKey      []byte
	SessionKey   []byte
	CookieDomain string
	CookieSecure bool

	APITimeout      time.Duration
	SessionTTL      time.Duration
	LoginRateWindow time.Duration
	ImageMaxWidth   uint
}

// Defaults used when neither the YAML file nor the environment set a value.
const (
	DefaultPort            = "8585"
	DefaultAPIURL          = "http://localhost:5000"
	DefaultAPITimeout      = 15 * time.Second
	DefaultSessionTTL      = 24 * time.Hour
	DefaultLoginRateWindow = 2 * time.Second
	DefaultImageMaxWidth   = 400
)

// LoadConfig reads CONFIG_FILE (if set) and then applies environment overrides.
func LoadConfig() (*Config, error) {
	file := FileConfig{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	cfg := &Config{
		Port:         getEnv("PORT", orDefault(file.Server.Port, DefaultPort)),
		APIURL:       getEnv("API_URL", orDefault(file.API.URL, DefaultAPIURL)),
		CookieDomain: getEnv("COOKIE_DOMAIN", file.Server.CookieDomain),
		CookieSecure: getEnv("COOKIE_SECURE", strconv.FormatBool(file.Server.CookieSecure)) == "true",
	}

	cfg.APITimeout = durationSetting("API_TIMEOUT", file.API.Timeout, DefaultAPITimeout)
	cfg.SessionTTL = durationSetting("SESSION_TTL", file.Server.SessionTTL, DefaultSessionTTL)
	cfg.LoginRateWindow = durationSetting("LOGIN_RATE_WINDOW", file.Server.LoginRateWindow, DefaultLoginRateWindow)

	widthStr := getEnv("IMAGE_MAX_WIDTH", "")
	if widthStr == "" && file.Images.MaxWidth > 0 {
		widthStr = strconv.Itoa(file.Images.MaxWidth)
	}
	cfg.ImageMaxWidth = DefaultImageMaxWidth
	if widthStr != "" {
		if w, err := strconv.Atoi(widthStr); err != nil || w <= 0 {
			slog.Warn("Invalid IMAGE_MAX_WIDTH. Falling back to default.", "IMAGE_MAX_WIDTH", widthStr)
		} else {
			cfg.ImageMaxWidth = uint(w)
		}
	}

	cfg.CSRFKey = keySetting("CSRF_KEY", file.Server.CSRFKey)
	cfg.SessionKey = keySetting("SESSION_KEY", file.Server.SessionKey)

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", cfg.Port)
		cfg.Port = DefaultPort
	}

	return cfg, nil
}

// keySetting decodes a base64 key of at least 32 bytes, or generates a random one.
func keySetting(envKey, fileValue string) []byte {
	keyStr := getEnv(envKey, fileValue)
	if keyStr == "" {
		slog.Warn(envKey + " not set. Generating a random key for development. This key will change on each restart. PLEASE SET " + envKey + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decodedKey, err := base64.StdEncoding.DecodeString(keyStr)
	if err != nil || len(decodedKey) < 32 {
		slog.Warn(envKey + " is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE " + envKey + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decodedKey
}

func durationSetting(envKey, fileValue string, def time.Duration) time.Duration {
	raw := getEnv(envKey, fileValue)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("Invalid duration. Falling back to default.", "key", envKey, "value", raw, "default", def)
		return def
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		paddedKey := make([]byte, n)
		copy(paddedKey, fallbackKey)
		return paddedKey
	}
	return b
}
