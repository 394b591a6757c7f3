package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/spendsort/internal/merchant"
)

// FileName is the config file at the root of a project directory.
const FileName = "spendsort.yaml"

// Environment variables that override the file.
const (
	EnvUser      = "SPENDSORT_USER"
	EnvDatabase  = "SPENDSORT_DB"
	EnvLogLevel  = "SPENDSORT_LOG_LEVEL"
	EnvLogFormat = "SPENDSORT_LOG_FORMAT"
	EnvWorkers   = "SPENDSORT_WORKERS"
)

// Config represents the top-level spendsort.yaml configuration.
type Config struct {
	User       UserConfig      `yaml:"user"`
	Database   DatabaseConfig  `yaml:"database"`
	Import     ImportConfig    `yaml:"import"`
	Normalizer merchant.Policy `yaml:"normalizer"`
	Transfer   TransferConfig  `yaml:"transfer"`
	Log        LogConfig       `yaml:"log"`
	Git        GitConfig       `yaml:"git"`
}

// UserConfig identifies whose reference data the project uses.
type UserConfig struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email,omitempty"`
}

// DatabaseConfig locates the SQLite file, relative to the project root.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ImportConfig controls statement ingestion.
type ImportConfig struct {
	Workers       int    `yaml:"workers"`
	DefaultFormat string `yaml:"default_format"` // auto, csv, chase, xlsx
	KeepProcessed bool   `yaml:"keep_processed"` // leave files in import/ after a run
}

// TransferConfig lists the phrases that mark person-to-person payments.
type TransferConfig struct {
	Phrases []string `yaml:"phrases"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // human or json
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a spendsort.yaml file from disk. Fields missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Import.Workers <= 0 {
		cfg.Import.Workers = 1
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(userID, email string) *Config {
	return &Config{
		User: UserConfig{
			ID:    userID,
			Email: email,
		},
		Database: DatabaseConfig{
			Path: "data/spendsort.db",
		},
		Import: ImportConfig{
			Workers:       4,
			DefaultFormat: "auto",
		},
		Normalizer: merchant.DefaultPolicy(),
		Transfer: TransferConfig{
			Phrases: []string{"zelle payment to"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "human",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "spendsort",
			AuthorEmail: "spendsort@localhost",
		},
	}
}

// ReadEnv returns the variables from an optional .env file merged with the
// process environment. Process variables win, matching godotenv.Load.
func ReadEnv(dotenvPath string) (map[string]string, error) {
	env := map[string]string{}
	if dotenvPath != "" {
		fileEnv, err := godotenv.Read(dotenvPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", dotenvPath, err)
		default:
			env = fileEnv
		}
	}
	for _, k := range []string{EnvUser, EnvDatabase, EnvLogLevel, EnvLogFormat, EnvWorkers} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides config fields from env. Unknown keys are ignored.
func (c *Config) ApplyEnv(env map[string]string) error {
	if v := env[EnvUser]; v != "" {
		c.User.ID = v
	}
	if v := env[EnvDatabase]; v != "" {
		c.Database.Path = v
	}
	if v := env[EnvLogLevel]; v != "" {
		c.Log.Level = v
	}
	if v := env[EnvLogFormat]; v != "" {
		c.Log.Format = v
	}
	if v := env[EnvWorkers]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvWorkers, v)
		}
		c.Import.Workers = n
	}
	return nil
}
