package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownProgressBackend      = errors.New("unknown progress backend")
)

// Progress backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`           // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`             // Telegram API token loaded from environment
	QuestionsDir     string   `mapstructure:"questions_dir"` // directory overriding the embedded question banks
	HTTP             HTTP     `mapstructure:"http"`          // web server section
	Progress         Progress `mapstructure:"progress"`      // progress store section
	DB               DB       `mapstructure:"database"`      // database configuration section
	Quiz             Quiz     `mapstructure:"quiz"`          // quiz session settings
	Circuit          Circuit  `mapstructure:"circuit"`       // circuit simulator limits
}

// HTTP configures the web server.
type HTTP struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	BasicAuthUser     string        `mapstructure:"-"` // empty user or pass disables the gate
	BasicAuthPass     string        `mapstructure:"-"`
}

// Progress selects where best scores are kept.
type Progress struct {
	Backend string `mapstructure:"backend"` // memory, file or postgres
	Dir     string `mapstructure:"dir"`     // directory of the file backend
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Quiz contains quiz session settings.
type Quiz struct {
	ExamSize      int           `mapstructure:"exam_size"`      // questions in the practice exam
	SessionTTL    time.Duration `mapstructure:"session_ttl"`    // idle time before a session is dropped
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // how often idle sessions are swept
}

// Circuit contains the simulator input ranges.
type Circuit struct {
	VoltageMin    float64 `mapstructure:"voltage_min"`
	VoltageMax    float64 `mapstructure:"voltage_max"`
	ResistanceMin float64 `mapstructure:"resistance_min"`
	ResistanceMax float64 `mapstructure:"resistance_max"`
	Decimals      int     `mapstructure:"decimals"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// RequireTelegram checks the secrets the bot cannot start without.
func (c *Config) RequireTelegram() error {
	if c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	return nil
}

// Validate checks the settings shared by every binary.
func (c *Config) Validate() error {
	switch c.Progress.Backend {
	case BackendMemory, BackendFile:
	case BackendPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProgressBackend, c.Progress.Backend)
	}
	return nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Values from .env never override the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("basic_auth_user", "BASIC_AUTH_USER")
	_ = v.BindEnv("basic_auth_pass", "BASIC_AUTH_PASS")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Sensitive values come from the environment only.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.HTTP.BasicAuthUser = v.GetString("basic_auth_user")
	cfg.HTTP.BasicAuthPass = v.GetString("basic_auth_pass")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("questions_dir", "")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_header_timeout", "5s")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("progress.backend", BackendFile)
	v.SetDefault("progress.dir", "data/progress")

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("quiz.exam_size", 25)
	v.SetDefault("quiz.session_ttl", "2h")
	v.SetDefault("quiz.sweep_interval", "10m")

	v.SetDefault("circuit.voltage_min", 0)
	v.SetDefault("circuit.voltage_max", 120)
	v.SetDefault("circuit.resistance_min", 1)
	v.SetDefault("circuit.resistance_max", 100)
	v.SetDefault("circuit.decimals", 2)
}
