package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"home_bills/internal/models"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendWorkbook = "xlsx"
)

// Rate sources.
const (
	RatesFromConfig = "config"
	RatesFromSheet  = "sheet"
)

const envPrefix = "HOME_BILLS"

// Config is the decoded configs/config.yml with env overrides applied.
type Config struct {
	Port      string          `mapstructure:"port"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Rates     RatesConfig     `mapstructure:"rates"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Writeback WritebackConfig `mapstructure:"writeback"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // console | json
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	Backend      string `mapstructure:"backend"` // sqlite | xlsx
	WorkbookPath string `mapstructure:"workbook_path"`
}

// RatesConfig holds inline rates, used unless Source is "sheet".
type RatesConfig struct {
	Source       string `mapstructure:"source"`
	models.Rates `mapstructure:",squash"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type WritebackConfig struct {
	QueueSize int `mapstructure:"queue_size"`
}

// MQTTConfig enables publishing computed bills to a broker.
type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"` // host:port
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// SetDefaults registers defaults so every key is also reachable through env vars.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("db.path", "home_bills.db")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.workbook_path", "home_bills.xlsx")
	v.SetDefault("rates.source", RatesFromConfig)
	v.SetDefault("rates.cold_water", 0)
	v.SetDefault("rates.hot_water", 0)
	v.SetDefault("rates.drain", 0)
	v.SetDefault("rates.el_t1", 0)
	v.SetDefault("rates.el_t2", 0)
	v.SetDefault("rates.el_t3", 0)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("writeback.queue_size", 16)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.client_id", "home_bills")
	v.SetDefault("mqtt.topic_prefix", "home_bills")
}

// Load reads config.yml from dir (a missing file is not an error) and decodes it.
func Load(v *viper.Viper, dir string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints. Rate values are validated when the
// rate table is loaded because they may come from the workbook.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
	case BackendWorkbook:
		if c.Storage.WorkbookPath == "" {
			return errors.New("storage.workbook_path is required for the xlsx backend")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	switch c.Rates.Source {
	case RatesFromConfig:
	case RatesFromSheet:
		if c.Storage.Backend != BackendWorkbook {
			return errors.New("rates.source=sheet requires storage.backend=xlsx")
		}
	default:
		return fmt.Errorf("unknown rates.source %q", c.Rates.Source)
	}
	if c.Writeback.QueueSize <= 0 {
		return fmt.Errorf("writeback.queue_size must be positive, got %d", c.Writeback.QueueSize)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return errors.New("mqtt.broker is required when mqtt is enabled")
	}
	return nil
}
