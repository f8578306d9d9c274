package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Srv      *Serviceconfig
	App      *Appconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	MaxRetries int    `yaml:"max_retries"`
	SQLitePath string `yaml:"sqlite_path"`
}

type RabbitMqconfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	Exchange string `yaml:"exchange"`
}

type Serviceconfig struct {
	AuthServicePort string `yaml:"auth_service"`
}

type Appconfig struct {
	PublicJwtSecret   string        `yaml:"jwt_secret"`
	AccessTokenTTL    time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL   time.Duration `yaml:"refresh_token_ttl"`
	AdminAuthRequired bool          `yaml:"admin_auth_required"`
}

type Loggerconfig struct {
	Level string `yaml:"level"`
}

// DSN returns the connection string for the configured driver.
func (c *DBconfig) DSN() string {
	if c.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite", c.SQLitePath)
	}
	return fmt.Sprintf(
		"postgres://%v:%v@%v:%v/%v?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c *RabbitMqconfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.VHost)
}

func New() (*Config, error) {
	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			fmt.Printf("using default value for %s\n", key)
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			fmt.Printf("using default value for %s\n", key)
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("cannot parse %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	getEnvBool := func(key string, def bool) bool {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseBool(valStr)
		if err != nil {
			fmt.Printf("cannot parse %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	getEnvDuration := func(key string, def time.Duration) time.Duration {
		valStr := os.Getenv(key)
		if valStr == "" {
			fmt.Printf("using default value for %s\n", key)
			return def
		}
		val, err := time.ParseDuration(valStr)
		if err != nil || val <= 0 {
			fmt.Printf("cannot parse %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "auth_user"),
			Password:   getEnv("DB_PASSWORD", "auth_pass"),
			Database:   getEnv("DB_NAME", "auth_db"),
			MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
			SQLitePath: getEnv("SQLITE_PATH", "var/auth.db"),
		},
		RabbitMq: &RabbitMqconfig{
			Enabled:  getEnvBool("RABBITMQ_ENABLED", false),
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    os.Getenv("RABBITMQ_VHOST"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "user_topic"),
		},
		Srv: &Serviceconfig{
			AuthServicePort: getEnv("AUTH_SERVICE_PORT", "3000"),
		},
		App: &Appconfig{
			PublicJwtSecret:   getEnv("JWT_SECRET", "change-me"),
			AccessTokenTTL:    getEnvDuration("ACCESS_TOKEN_TTL", 5*time.Minute),
			RefreshTokenTTL:   getEnvDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
			AdminAuthRequired: getEnvBool("ADMIN_AUTH_REQUIRED", false),
		},
		Log: &Loggerconfig{
			Level: strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		},
	}

	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	return cnf, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %q or %q)", c.DB.Driver, DriverPostgres, DriverSQLite)
	}
	if c.DB.MaxRetries < 1 {
		return fmt.Errorf("DB_MAX_RETRIES must be positive, got %d", c.DB.MaxRetries)
	}
	if c.App.PublicJwtSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.App.RefreshTokenTTL < c.App.AccessTokenTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL (%v) must not be shorter than ACCESS_TOKEN_TTL (%v)", c.App.RefreshTokenTTL, c.App.AccessTokenTTL)
	}
	return nil
}
