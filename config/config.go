package config

import (
	"errors"
	"strings"
	"time"

	"hotel-frontdesk/billing"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is only acceptable when APP_ENV is development.
const DefaultJWTSecret = "change-me"

var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set outside development")

// Config holds runtime configuration. Every field maps to an env var.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"` // development | production
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	MySQLURL    string `mapstructure:"MYSQL_URL"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPass      string `mapstructure:"DB_PASS"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBName      string `mapstructure:"DB_NAME"`

	// Optional; empty disables the distributed room lock / event publishing.
	RedisURL    string `mapstructure:"REDIS_URL"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int           `mapstructure:"JWT_EXPIRATION_HOURS"`
	CorsOrigins        string        `mapstructure:"CORS_ORIGINS"`
	RoomLockTTL        time.Duration `mapstructure:"ROOM_LOCK_TTL"`

	// GST percentages per call site. Checkout and pro-forma differ on the
	// room rate; both are kept until the correct room rate is confirmed.
	CheckoutRoomGST    float64 `mapstructure:"CHECKOUT_ROOM_GST"`
	CheckoutServiceGST float64 `mapstructure:"CHECKOUT_SERVICE_GST"`
	ProformaRoomGST    float64 `mapstructure:"PROFORMA_ROOM_GST"`
	ProformaServiceGST float64 `mapstructure:"PROFORMA_SERVICE_GST"`

	InvoiceCurrency string `mapstructure:"INVOICE_CURRENCY"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "hotel_db")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION_HOURS", 12)
	v.SetDefault("ROOM_LOCK_TTL", "10s")
	v.SetDefault("CHECKOUT_ROOM_GST", 12)
	v.SetDefault("CHECKOUT_SERVICE_GST", 5)
	v.SetDefault("PROFORMA_ROOM_GST", 18)
	v.SetDefault("PROFORMA_SERVICE_GST", 5)
	v.SetDefault("INVOICE_CURRENCY", "RUPEES")

	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range []string{"DATABASE_URL", "MYSQL_URL", "DB_PASS", "REDIS_URL", "RABBITMQ_URL", "CORS_ORIGINS"} {
		v.SetDefault(k, "")
	}
}

// Load reads configuration from the environment (and an optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if !cfg.IsDevelopment() && (cfg.JWTSecret == "" || cfg.JWTSecret == DefaultJWTSecret) {
		return nil, ErrDefaultJWTSecret
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// CheckoutRates are used by bill preview and checkout.
func (c *Config) CheckoutRates() billing.Rates {
	return billing.NewRates(c.CheckoutRoomGST, c.CheckoutServiceGST)
}

// ProformaRates are used for the pro-forma invoice of an open stay.
func (c *Config) ProformaRates() billing.Rates {
	return billing.NewRates(c.ProformaRoomGST, c.ProformaServiceGST)
}

func (c *Config) CorsOriginList() []string {
	raw := strings.TrimSpace(c.CorsOrigins)
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
