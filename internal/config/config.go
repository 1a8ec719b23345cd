package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Notification sinks
const (
	SinkLog      = "log"
	SinkGmail    = "gmail"
	SinkRabbitMQ = "rabbitmq"
	SinkKafka    = "kafka"
)

// Environment variables that override the config file
const (
	EnvDatabaseURL   = "DATABASE_URL"
	EnvJWTSecret     = "JWT_SECRET"
	EnvAdminPassword = "ADMIN_PASSWORD"
)

// StorageConfig selects where state lives
type StorageConfig struct {
	Driver      string `yaml:"driver" validate:"required,oneof=memory postgres"`
	DatabaseURL string `yaml:"databaseURL" validate:"required_if=Driver postgres"`
}

// HTTPConfig configures the API server
type HTTPConfig struct {
	Addr           string        `yaml:"addr" validate:"required"`
	AllowedOrigins []string      `yaml:"allowedOrigins,omitempty"`
	RequestTimeout time.Duration `yaml:"requestTimeout" validate:"gte=0"`
}

// AuthConfig configures session tokens
type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret" validate:"required,min=16"`
	TokenTTL  time.Duration `yaml:"tokenTTL" validate:"gte=0"`
}

// RabbitMQConfig names the queue notifications are published to
type RabbitMQConfig struct {
	URL   string `yaml:"url" validate:"required"`
	Queue string `yaml:"queue" validate:"required"`
}

// KafkaConfig names the topic notification events are written to
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" validate:"required,min=1"`
	Topic   string   `yaml:"topic" validate:"required"`
}

// NotificationsConfig configures the dispatcher and where messages go
type NotificationsConfig struct {
	Sinks       []string        `yaml:"sinks" validate:"dive,oneof=log gmail rabbitmq kafka"`
	QueueSize   int             `yaml:"queueSize" validate:"gte=0"`
	Workers     int             `yaml:"workers" validate:"gte=0"`
	GmailSender string          `yaml:"gmailSender,omitempty"`
	RabbitMQ    *RabbitMQConfig `yaml:"rabbitmq,omitempty"`
	Kafka       *KafkaConfig    `yaml:"kafka,omitempty"`
}

// HasSink reports whether the named sink is enabled
func (n NotificationsConfig) HasSink(name string) bool {
	for _, s := range n.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// AdminConfig seeds the super admin account
type AdminConfig struct {
	Email    string `yaml:"email" validate:"omitempty,email"`
	Password string `yaml:"password,omitempty"`
}

// RosterConfig configures roster publishing
type RosterConfig struct {
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
}

// SeriesConfig bounds recurring opportunity creation
type SeriesConfig struct {
	MaxOccurrences int    `yaml:"maxOccurrences" validate:"gte=0"`
	DefaultRule    string `yaml:"defaultRule,omitempty"`
}

// Config represents the application configuration
type Config struct {
	BaseURL       string              `yaml:"baseURL" validate:"required,url"`
	Storage       StorageConfig       `yaml:"storage"`
	HTTP          HTTPConfig          `yaml:"http"`
	Auth          AuthConfig          `yaml:"auth"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Admin         AdminConfig         `yaml:"admin"`
	Roster        RosterConfig        `yaml:"roster"`
	Series        SeriesConfig        `yaml:"series"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads .env if present, then reads and validates voluntarios_config.<env>.yaml.
// It looks for the config file in the current directory first, then in the user's home directory
func Load(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and environment
// overrides, and validates the result
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageMemory
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 30 * time.Second
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if len(cfg.Notifications.Sinks) == 0 {
		cfg.Notifications.Sinks = []string{SinkLog}
	}
	if cfg.Notifications.QueueSize == 0 {
		cfg.Notifications.QueueSize = 256
	}
	if cfg.Notifications.Workers == 0 {
		cfg.Notifications.Workers = 2
	}
	if cfg.Series.MaxOccurrences == 0 {
		cfg.Series.MaxOccurrences = 52
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Storage.DatabaseURL = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		cfg.Admin.Password = v
	}
}

// Validate validates the configuration struct and the sink settings it depends on
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	n := cfg.Notifications
	if n.HasSink(SinkRabbitMQ) && n.RabbitMQ == nil {
		return fmt.Errorf("config validation failed: notifications.rabbitmq is required for the rabbitmq sink")
	}
	if n.HasSink(SinkKafka) && n.Kafka == nil {
		return fmt.Errorf("config validation failed: notifications.kafka is required for the kafka sink")
	}
	if n.HasSink(SinkGmail) && n.GmailSender == "" {
		return fmt.Errorf("config validation failed: notifications.gmailSender is required for the gmail sink")
	}

	if cfg.Series.DefaultRule != "" {
		if _, err := rrule.StrToRRule(cfg.Series.DefaultRule); err != nil {
			return fmt.Errorf("invalid rrule in series.defaultRule: %w", err)
		}
	}

	return nil
}

// findConfigFile looks for voluntarios_config.<env>.yaml
func findConfigFile(env string) (string, error) {
	configFileName := "voluntarios_config.yaml"
	if env != "" {
		configFileName = "voluntarios_config." + strings.ToLower(env) + ".yaml"
	}
	return locate(configFileName)
}
