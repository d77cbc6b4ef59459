package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port              string
	APIPrefix         string
	Store             string
	MongoURI          string
	MongoDatabase     string
	MongoTransactions bool
	JWTSecret         string
	JWTTTL            time.Duration
	CookieSecure      bool
	CORSOrigins       []string
	LogLevel          string
	LogFormat         string
	RabbitMQURL       string
	AuthRateLimit     float64
	AuthRateBurst     int
	MaxUploadBytes    int64
}

// LoadEnv loads environment variables from a .env file. A missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		logging.Debug().Err(err).Msg("no .env file loaded")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("API_PREFIX", "/market-mate")
	v.SetDefault("STORE", StoreMongo)
	v.SetDefault("MONGODB_DATABASE", "market-mate")
	v.SetDefault("MONGODB_TRANSACTIONS", true)
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("AUTH_RATE_LIMIT", 5)
	v.SetDefault("AUTH_RATE_BURST", 10)
	v.SetDefault("MAX_UPLOAD_BYTES", 5<<20)
}

// Load reads .env and the process environment into a validated Config.
func Load() (*Config, error) {
	LoadEnv()
	return FromViper(viper.New())
}

// FromViper builds a Config from v after applying defaults and binding the environment.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:              v.GetString("PORT"),
		APIPrefix:         strings.TrimRight(v.GetString("API_PREFIX"), "/"),
		Store:             strings.ToLower(v.GetString("STORE")),
		MongoURI:          v.GetString("MONGODB_URI"),
		MongoDatabase:     v.GetString("MONGODB_DATABASE"),
		MongoTransactions: v.GetBool("MONGODB_TRANSACTIONS"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		AuthRateLimit:     v.GetFloat64("AUTH_RATE_LIMIT"),
		AuthRateBurst:     v.GetInt("AUTH_RATE_BURST"),
		MaxUploadBytes:    v.GetInt64("MAX_UPLOAD_BYTES"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.Store {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required when STORE=mongo"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE %q", c.Store))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
