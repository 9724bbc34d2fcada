package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultConfigFile = "configs/config.yaml"

type Config struct {
	Server struct {
		Port               int           `mapstructure:"port"`
		CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string      `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string      `mapstructure:"cors_allowed_headers"`
		ReadTimeout        time.Duration `mapstructure:"read_timeout"`
		WriteTimeout       time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Database DatabaseConfig `mapstructure:"database"`

	ERP ERPConfig `mapstructure:"erp"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Cache struct {
		PageTTL      time.Duration `mapstructure:"page_ttl"`
		DashboardTTL time.Duration `mapstructure:"dashboard_ttl"`
		StockTTL     time.Duration `mapstructure:"stock_ttl"`
		ItemTTL      time.Duration `mapstructure:"item_ttl"`
	} `mapstructure:"cache"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		Channel  string `mapstructure:"channel"`
	} `mapstructure:"redis"`

	Export ExportConfig `mapstructure:"export"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// DatabaseConfig describes the Postgres store holding indents and users.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// DSN renders a pgx connection string.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	if d.MaxConns > 0 {
		q.Set("pool_max_conns", strconv.Itoa(int(d.MaxConns)))
	}
	if d.MinConns > 0 {
		q.Set("pool_min_conns", strconv.Itoa(int(d.MinConns)))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ERPConfig describes the legacy Oracle ERP database.
type ERPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Service  string `mapstructure:"service"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// ExportConfig describes the optional S3 bucket generated downloads are copied to.
type ExportConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// Load reads configs/config.yaml (optional), .env and the environment.
func Load() (*Config, error) {
	return LoadFrom(defaultConfigFile)
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path string) (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "store_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("erp.enabled", true)
	v.SetDefault("erp.port", 1521)
	v.SetDefault("erp.max_conns", 10)

	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "store-backend")

	v.SetDefault("cache.page_ttl", 60*time.Second)
	v.SetDefault("cache.dashboard_ttl", 5*time.Minute)
	v.SetDefault("cache.stock_ttl", 5*time.Minute)
	v.SetDefault("cache.item_ttl", 10*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.channel", "store-backend:cache:invalidate")

	v.SetDefault("export.region", "auto")
	v.SetDefault("export.prefix", "exports/")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}

	// PG_* variables override database settings
	overrideString(&cfg.Database.Host, "PG_HOST")
	overrideInt(&cfg.Database.Port, "PG_PORT")
	overrideString(&cfg.Database.User, "PG_USER")
	overrideString(&cfg.Database.Password, "PG_PASSWORD")
	overrideString(&cfg.Database.Name, "PG_DATABASE")
	overrideString(&cfg.Database.SSLMode, "PG_SSLMODE")

	overrideString(&cfg.ERP.Host, "ORACLE_HOST")
	overrideInt(&cfg.ERP.Port, "ORACLE_PORT")
	overrideString(&cfg.ERP.Service, "ORACLE_SERVICE")
	overrideString(&cfg.ERP.User, "ORACLE_USER")
	overrideString(&cfg.ERP.Password, "ORACLE_PASSWORD")

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")

	overrideString(&cfg.Export.Bucket, "EXPORT_BUCKET")
	overrideString(&cfg.Export.Endpoint, "EXPORT_ENDPOINT")
	overrideString(&cfg.Export.AccessKey, "EXPORT_ACCESS_KEY")
	overrideString(&cfg.Export.SecretKey, "EXPORT_SECRET_KEY")
	if cfg.Export.Bucket != "" && os.Getenv("EXPORT_BUCKET") != "" {
		cfg.Export.Enabled = true
	}

	overrideString(&cfg.Log.Level, "LOG_LEVEL")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
