package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config carries every setting the server needs. It is built once at startup
// and handed to the packages that need it; nothing reads the environment
// after Load returns.
type Config struct {
	ListenAddr     string
	DatabaseURL    string
	JWTSecret      string
	ClientURL      string
	AllowedOrigins []string
	Production     bool

	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	BcryptCost    int

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	From string `yaml:"from"`
}

// fileConfig is the shape of the optional CONFIG_FILE yaml. Only settings
// that are awkward as single env vars live here.
type fileConfig struct {
	AllowedOrigins []string   `yaml:"allowed_origins"`
	SMTP           SMTPConfig `yaml:"smtp"`
}

// Load reads .env.local (if present), then the environment, then the
// optional yaml file named by CONFIG_FILE.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")

	cfg := &Config{
		ListenAddr:    "0.0.0.0:" + envOr("PORT", "5000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ClientURL:     envOr("CLIENT_URL", "http://localhost:5173"),
		Production:    os.Getenv("APP_ENV") == "production",
		SessionTTL:    7 * 24 * time.Hour,
		ResetTokenTTL: 10 * time.Minute,
		BcryptCost:    bcrypt.DefaultCost,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	cfg.SMTP = SMTPConfig{
		Host: os.Getenv("SMTP_HOST"),
		Port: envInt("SMTP_PORT", 587),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: os.Getenv("SMTP_FROM"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{cfg.ClientURL}
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}

	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.SMTP.Host != "" {
		c.SMTP = fc.SMTP
		if c.SMTP.Port == 0 {
			c.SMTP.Port = 587
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
