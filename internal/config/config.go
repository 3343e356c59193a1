package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/weiawesome/foodgram/pkg/config"
	"github.com/weiawesome/foodgram/pkg/database"
	pkglog "github.com/weiawesome/foodgram/pkg/log"
	"github.com/weiawesome/foodgram/pkg/storage"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Kafka      KafkaConfig
	Storage    storage.Config
	Auth       AuthConfig
	Shopping   ShoppingConfig
	Pagination PaginationConfig
	Image      ImageConfig
	Log        pkglog.Config
}

type ServerConfig struct {
	Host            string
	Port            int
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	TimeZone        string `mapstructure:"timezone"`
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

// Database converts to the pkg/database connection config.
func (c DatabaseConfig) Database() *database.Config {
	return &database.Config{
		Driver:          c.Driver,
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		DBName:          c.DBName,
		SSLMode:         c.SSLMode,
		TimeZone:        c.TimeZone,
		FilePath:        c.FilePath,
		MaxIdleConns:    c.MaxIdleConns,
		MaxOpenConns:    c.MaxOpenConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		LogLevel:        c.LogLevel,
	}
}

// RedisConfig leaves Address empty to run without a cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	RegistryTTL time.Duration `mapstructure:"registry_ttl"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

// KafkaConfig leaves Brokers empty to disable event publishing.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	Issuer             string        `mapstructure:"issuer"`
	AccessTokenTTL     time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL    time.Duration `mapstructure:"refresh_token_ttl"`
	BcryptCost         int           `mapstructure:"bcrypt_cost"`
	RevocationSweepTTL time.Duration `mapstructure:"revocation_sweep_interval"`
}

type ShoppingConfig struct {
	FontPath string `mapstructure:"font_path"`
	Title    string `mapstructure:"title"`
}

type PaginationConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

type ImageConfig struct {
	MaxWidth  int `mapstructure:"max_width"`
	MaxHeight int `mapstructure:"max_height"`
	Quality   int `mapstructure:"quality"`
	MaxBytes  int `mapstructure:"max_bytes"`
}

// Load reads the configuration and validates what the API server needs.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the API server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret (JWT_SECRET) is required")
	}
	return nil
}

// Read loads ./config/config.yaml and the environment without validating,
// for command line tools that only touch the database.
func Read() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "foodgram")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.file_path", "./data/foodgram.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.registry_ttl", "10m")
	v.SetDefault("cache.key_prefix", "foodgram")
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "foodgram.events")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "./data/media")
	v.SetDefault("storage.local.public_prefix", "/media")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "foodgram")
	v.SetDefault("storage.s3.use_path_style", true)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "foodgram")
	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.revocation_sweep_interval", "1h")
	v.SetDefault("shopping.font_path", "")
	v.SetDefault("shopping.title", "Список покупок")
	v.SetDefault("pagination.default_limit", 6)
	v.SetDefault("pagination.max_limit", 100)
	v.SetDefault("image.max_width", 1280)
	v.SetDefault("image.max_height", 1280)
	v.SetDefault("image.quality", 85)
	v.SetDefault("image.max_bytes", 10<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "foodgram")

	// Bind environment variables
	err = pkgconfig.BindEnvs(v, map[string]string{
		"server.port":                  "PORT",
		"server.mode":                  "GIN_MODE",
		"database.driver":              "DB_DRIVER",
		"database.host":                "DB_HOST",
		"database.port":                "DB_PORT",
		"database.user":                "DB_USER",
		"database.password":            "DB_PASSWORD",
		"database.dbname":              "DB_NAME",
		"database.sslmode":             "DB_SSLMODE",
		"database.file_path":           "DB_FILE_PATH",
		"database.max_idle_conns":      "DB_MAX_IDLE_CONNS",
		"database.max_open_conns":      "DB_MAX_OPEN_CONNS",
		"database.conn_max_lifetime":   "DB_CONN_MAX_LIFETIME",
		"redis.address":                "REDIS_ADDRESS",
		"redis.password":               "REDIS_PASSWORD",
		"redis.db":                     "REDIS_DB",
		"kafka.brokers":                "KAFKA_BROKERS",
		"kafka.topic":                  "KAFKA_TOPIC",
		"storage.driver":               "STORAGE_DRIVER",
		"storage.local.base_path":      "STORAGE_LOCAL_PATH",
		"storage.s3.endpoint":          "S3_ENDPOINT",
		"storage.s3.region":            "S3_REGION",
		"storage.s3.bucket":            "S3_BUCKET",
		"storage.s3.access_key_id":     "S3_ACCESS_KEY_ID",
		"storage.s3.secret_access_key": "S3_SECRET_ACCESS_KEY",
		"storage.s3.public_url":        "S3_PUBLIC_URL",
		"auth.jwt_secret":              "JWT_SECRET",
		"auth.access_token_ttl":        "JWT_ACCESS_TTL",
		"auth.refresh_token_ttl":       "JWT_REFRESH_TTL",
		"shopping.font_path":           "SHOPPING_FONT_PATH",
		"pagination.default_limit":     "PAGE_SIZE",
		"log.level":                    "LOG_LEVEL",
		"log.pretty":                   "LOG_PRETTY",
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
