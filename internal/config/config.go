package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port                  int      `mapstructure:"port"`
		CorsAllowedOrigins    []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods    []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders    []string `mapstructure:"cors_allowed_headers"`
		RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxConns int32  `mapstructure:"max_conns"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Redis struct {
		Enabled    bool   `mapstructure:"enabled"`
		Addr       string `mapstructure:"addr"`
		Password   string `mapstructure:"password"`
		DB         int    `mapstructure:"db"`
		TTLMinutes int    `mapstructure:"ttl_minutes"`
	} `mapstructure:"redis"`

	WhatsApp struct {
		Provider      string `mapstructure:"provider"` // "twilio", "meta" or empty to disable
		AccountSID    string `mapstructure:"account_sid"`
		AuthToken     string `mapstructure:"auth_token"`
		From          string `mapstructure:"from"`
		AccessToken   string `mapstructure:"access_token"`
		PhoneNumberID string `mapstructure:"phone_number_id"`
		BaseURL       string `mapstructure:"base_url"`
	} `mapstructure:"whatsapp"`

	Receipts struct {
		Backend       string `mapstructure:"backend"` // "local" or "s3"
		Dir           string `mapstructure:"dir"`
		Bucket        string `mapstructure:"bucket"`
		Prefix        string `mapstructure:"prefix"`
		Endpoint      string `mapstructure:"endpoint"`
		Region        string `mapstructure:"region"`
		AccessKey     string `mapstructure:"access_key"`
		SecretKey     string `mapstructure:"secret_key"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"receipts"`

	Admin struct {
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"admin"`

	Timezone string `mapstructure:"timezone"`
}

// RequestTimeout is the per-request deadline applied to API handlers.
func (c *Config) RequestTimeout() time.Duration {
	if c.Server.RequestTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(configPath())

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("server.request_timeout_seconds", 15)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "rental-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "rental_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.ttl_minutes", 10)
	v.SetDefault("whatsapp.from", "whatsapp:+14155238886")
	v.SetDefault("receipts.backend", "local")
	v.SetDefault("receipts.dir", "uploads/receipts")
	v.SetDefault("receipts.prefix", "receipts/")
	v.SetDefault("receipts.region", "auto")
	v.SetDefault("receipts.public_base_url", "http://localhost:8080")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("timezone", "UTC")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	applyEnv(&cfg)

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		log.Fatal("JWT_SECRET not found in environment or config file")
	}

	return &cfg
}

func configPath() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

// applyEnv lets plain environment variables override the config file
func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.JWT.Secret, "JWT_SECRET")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = b
		}
	}

	setString(&cfg.WhatsApp.Provider, "WHATSAPP_PROVIDER")
	setString(&cfg.WhatsApp.AccountSID, "TWILIO_ACCOUNT_SID")
	setString(&cfg.WhatsApp.AuthToken, "TWILIO_AUTH_TOKEN")
	setString(&cfg.WhatsApp.From, "TWILIO_WHATSAPP_FROM")
	setString(&cfg.WhatsApp.AccessToken, "WHATSAPP_ACCESS_TOKEN")
	setString(&cfg.WhatsApp.PhoneNumberID, "WHATSAPP_PHONE_NUMBER_ID")

	setString(&cfg.Receipts.Backend, "RECEIPTS_BACKEND")
	setString(&cfg.Receipts.Dir, "RECEIPTS_DIR")
	setString(&cfg.Receipts.Bucket, "RECEIPTS_BUCKET")
	setString(&cfg.Receipts.Endpoint, "RECEIPTS_ENDPOINT")
	setString(&cfg.Receipts.AccessKey, "RECEIPTS_ACCESS_KEY")
	setString(&cfg.Receipts.SecretKey, "RECEIPTS_SECRET_KEY")
	setString(&cfg.Receipts.PublicBaseURL, "PUBLIC_BASE_URL")

	setString(&cfg.Admin.Username, "ADMIN_USERNAME")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setString(&cfg.Timezone, "TZ")
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
