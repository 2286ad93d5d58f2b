package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"PORT"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	// DBDSN overrides the per-driver settings below when set.
	DBDSN         string `mapstructure:"DB_DSN"`
	MySQLUser     string `mapstructure:"MYSQL_USER"`
	MySQLPassword string `mapstructure:"MYSQL_PASSWORD"`
	MySQLHost     string `mapstructure:"MYSQL_HOST"`
	MySQLPort     string `mapstructure:"MYSQL_PORT"`
	MySQLDatabase string `mapstructure:"MYSQL_DATABASE"`
	PgUser        string `mapstructure:"POSTGRES_USER"`
	PgPassword    string `mapstructure:"POSTGRES_PASSWORD"`
	PgHost        string `mapstructure:"POSTGRES_HOST"`
	PgPort        string `mapstructure:"POSTGRES_PORT"`
	PgDatabase    string `mapstructure:"POSTGRES_DB"`

	RedisHost       string        `mapstructure:"REDIS_HOST"`
	RedisPort       string        `mapstructure:"REDIS_PORT"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	ProductCacheTTL time.Duration `mapstructure:"PRODUCT_CACHE_TTL"`

	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	RabbitMQExchange string `mapstructure:"RABBITMQ_EXCHANGE"`

	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	AdminEmails     []string      `mapstructure:"ADMIN_EMAILS"`

	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	LogPretty   bool     `mapstructure:"LOG_PRETTY"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

var defaults = map[string]any{
	"PORT":              "8080",
	"DB_DRIVER":         "mysql",
	"DB_DSN":            "",
	"MYSQL_USER":        "root",
	"MYSQL_PASSWORD":    "",
	"MYSQL_HOST":        "localhost",
	"MYSQL_PORT":        "3306",
	"MYSQL_DATABASE":    "shop",
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_DB":       "shop",
	"REDIS_HOST":        "",
	"REDIS_PORT":        "6379",
	"REDIS_DB":          0,
	"PRODUCT_CACHE_TTL": "30s",
	"RABBITMQ_URL":      "",
	"RABBITMQ_EXCHANGE": "shop.exchange",
	"JWT_SECRET":        "",
	"REFRESH_TOKEN_TTL": "24h",
	"ADMIN_EMAILS":      "",
	"LOG_LEVEL":         "info",
	"LOG_PRETTY":        false,
	"CORS_ORIGINS":      "*",
}

// Load reads configuration from the environment. Every key has a default so
// viper's AutomaticEnv can resolve it during Unmarshal.
func Load() (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cf.AdminEmails = splitList(v.GetString("ADMIN_EMAILS"))
	cf.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := cf.validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("config: REFRESH_TOKEN_TTL must be positive")
	}
	return nil
}

func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.PgHost, c.PgUser, c.PgPassword, c.PgDatabase, c.PgPort)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
