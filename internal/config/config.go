package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env            string
	APIBaseURL     string
	LoginURL       string
	SessionBackend string
	SessionFile    string
	RedisAddr      string
	RequestTimeout time.Duration
	RefreshDelay   time.Duration
	MetricsPort    string

	// Portal stub settings.
	StubPort        string
	JWTIssuer       string
	JWTSigningKey   string
	AccessTTL       time.Duration
	RateLimitPerMin int

	// Avatar hosting; the dashboard disables avatar upload when unset.
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// Load returns application config populated from environment variables with sensible defaults.
func Load() App {
	return App{
		Env:                 getEnv("APP_ENV", "dev"),
		APIBaseURL:          getEnv("API_BASE_URL", "http://127.0.0.1:5000/api"),
		LoginURL:            getEnv("LOGIN_URL", "student_login.html"),
		SessionBackend:      getEnv("SESSION_BACKEND", "file"),
		SessionFile:         getEnv("SESSION_FILE", defaultSessionFile()),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RequestTimeout:      durationEnv("REQUEST_TIMEOUT", 15*time.Second),
		RefreshDelay:        durationEnv("REFRESH_DELAY", time.Second),
		MetricsPort:         getEnv("METRICS_PORT", ""),
		StubPort:            getEnv("STUB_PORT", "5000"),
		JWTIssuer:           getEnv("JWT_ISSUER", "evalportal"),
		JWTSigningKey:       getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		AccessTTL:           durationEnv("ACCESS_TTL", 8*time.Hour),
		RateLimitPerMin:     intEnv("RATE_LIMIT_PER_MIN", 120),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "evalportal/avatars"),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".evalportal-session.json"
	}
	return home + "/.evalportal-session.json"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
