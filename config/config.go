package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config holds everything the service reads from the environment
type Config struct {
	Port           string
	Env            string
	RequestTimeout time.Duration

	StoreBackend  string
	MongoURI      string
	MongoDatabase string
	SeedDemo      bool

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	RabbitURL string

	JWTSecret string
	TokenTTL  time.Duration

	PostmarkToken string
	EmailSender   string
	AlertEmail    string

	TaxRate decimal.Decimal

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Development reports whether the service runs in development mode
func (c Config) Development() bool {
	return c.Env == "development"
}

// Load reads the configuration from the environment
func Load() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", "8000"),
		Env:           getenv("APP_ENV", "production"),
		StoreBackend:  strings.ToLower(getenv("STORE_BACKEND", BackendMemory)),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGO_DATABASE", "supermarket"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:   getenv("EMAIL_SENDER", "alerts@supermarket.local"),
		AlertEmail:    os.Getenv("ALERT_EMAIL"),
		AdminName:     getenv("ADMIN_NAME", "Administrateur"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@supermarket.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", "5s"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", "10m"); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = parseDuration("TOKEN_TTL", "12h"); err != nil {
		return Config{}, err
	}
	if cfg.SeedDemo, err = parseBool("SEED_DEMO", cfg.StoreBackend == BackendMemory); err != nil {
		return Config{}, err
	}

	rate, err := decimal.NewFromString(getenv("TAX_RATE", "0.20"))
	if err != nil {
		return Config{}, fmt.Errorf("TAX_RATE: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Config{}, fmt.Errorf("TAX_RATE must be in [0, 1), got %s", rate)
	}
	cfg.TaxRate = rate

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if cfg.JWTSecret == "" {
			return Config{}, fmt.Errorf("JWT_SECRET is required with the mongo backend")
		}
		if cfg.AdminPassword == "" {
			return Config{}, fmt.Errorf("ADMIN_PASSWORD is required with the mongo backend")
		}
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendMongo, cfg.StoreBackend)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin"
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(k, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenv(k, def))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", k)
	}
	return d, nil
}

func parseBool(k string, def bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(k)))
	switch v {
	case "":
		return def, nil
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("%s: invalid boolean %q", k, v)
}
