package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Poll    PollConfig    `yaml:"poll"`
	Session SessionConfig `yaml:"session"`
	Groq    GroqConfig    `yaml:"groq"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	URL string `yaml:"url"`
}

// PollConfig holds job polling settings.
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
	PageSize int           `yaml:"page_size"`
}

// SessionConfig holds local session persistence settings.
type SessionConfig struct {
	StatePath string `yaml:"state_path"`
}

// GroqConfig holds optional text-generation settings. The credential comes
// from the GROQ_API_KEY environment variable, never from the config file.
type GroqConfig struct {
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig loads configuration from a YAML file. A .env file in the
// working directory is applied to the environment first, if present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Missing file just means defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Set defaults
	if cfg.API.URL == "" {
		cfg.API.URL = "https://system.kingcontent.pro/api/v1"
	}
	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = 15 * time.Second
	}
	if cfg.Poll.PageSize == 0 {
		cfg.Poll.PageSize = 100
	}
	if cfg.Session.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Session.StatePath = filepath.Join(home, ".videoai", "session.json")
	}
	if cfg.Groq.BaseURL == "" {
		cfg.Groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = "llama-3.3-70b-versatile"
	}
	cfg.Groq.APIKey = os.Getenv("GROQ_API_KEY")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("API URL not configured")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.Poll.Interval)
	}
	if c.Poll.PageSize <= 0 {
		return fmt.Errorf("poll page size must be positive, got %d", c.Poll.PageSize)
	}
	if c.Session.StatePath == "" {
		return fmt.Errorf("session state path not configured")
	}
	return nil
}
