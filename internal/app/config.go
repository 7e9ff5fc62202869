package app

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigPathEnv names an optional YAML file. Environment variables override
// values read from it.
const ConfigPathEnv = "SROTS_CONFIG"

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	APIURL  string        `yaml:"api_url" env:"SROTS_API_URL" env-default:"http://localhost:8081/api/v1" env-description:"portal API base URL including /api/v1"`
	Timeout time.Duration `yaml:"timeout" env:"SROTS_TIMEOUT" env-default:"30s" env-description:"per-request timeout"`
	UPIVPA  string        `yaml:"upi_vpa" env:"SROTS_UPI_VPA" env-default:"srots@upi" env-description:"UPI address for manual premium payments"`

	Env       string `yaml:"env" env:"SROTS_ENV" env-default:"dev"`
	LogLevel  string `yaml:"log_level" env:"SROTS_LOG_LEVEL" env-default:"warn"`
	LogFormat string `yaml:"log_format" env:"SROTS_LOG_FORMAT" env-default:"text"`

	Session SessionConfig `yaml:"session"`
}

// SessionConfig selects where the session survives between runs.
type SessionConfig struct {
	Driver string `yaml:"driver" env:"SROTS_SESSION_DRIVER" env-default:"sqlite" env-description:"memory, sqlite or redis"`
	File   string `yaml:"file" env:"SROTS_SESSION_FILE" env-default:"srots-session.db"`

	RedisAddr     string        `yaml:"redis_addr" env:"SROTS_REDIS_ADDR" env-default:"localhost:6379"`
	RedisUsername string        `yaml:"redis_username" env:"SROTS_REDIS_USERNAME"`
	RedisPassword string        `yaml:"redis_password" env:"SROTS_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"SROTS_REDIS_DB" env-default:"0"`
	RedisPrefix   string        `yaml:"redis_prefix" env:"SROTS_REDIS_PREFIX" env-default:"srots:session:"`
	RedisTTL      time.Duration `yaml:"redis_ttl" env:"SROTS_REDIS_TTL" env-default:"0s"`
	DialTimeout   time.Duration `yaml:"dial_timeout" env:"SROTS_REDIS_DIAL_TIMEOUT" env-default:"5s"`
	IOTimeout     time.Duration `yaml:"io_timeout" env:"SROTS_REDIS_TIMEOUT" env-default:"3s"`
}

// LoadConfig reads the YAML file named by SROTS_CONFIG, if any, then the
// environment.
func LoadConfig() (Config, error) {
	var cfg Config

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("config: api_url is required")
	}
	switch c.Session.Driver {
	case DriverMemory, DriverRedis:
	case DriverSQLite:
		if c.Session.File == "" {
			return fmt.Errorf("config: session file is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unknown session driver %q", c.Session.Driver)
	}
	return nil
}

// Usage describes every environment variable.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
