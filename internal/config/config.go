package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// SuggestConfig configures the task suggestion service
type SuggestConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Model   string        `yaml:"model" json:"model"`
	APIKey  string        `yaml:"api_key,omitempty" json:"-"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// ServerConfig configures the local studio API
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Config holds user preferences
type Config struct {
	DataDir        string `yaml:"data_dir" json:"data_dir"`               // Where the studio lives
	DBPath         string `yaml:"db_path" json:"db_path"`                 // SQLite file holding the slots
	ReportDir      string `yaml:"report_dir" json:"report_dir"`           // Where exports are written
	ConfirmDelete  bool   `yaml:"confirm_delete" json:"confirm_delete"`   // Require confirmation for delete
	ConfirmImport  bool   `yaml:"confirm_import" json:"confirm_import"`   // Ask before an import overwrites a project
	UserEmail      string `yaml:"user_email" json:"user_email"`           // Shown in the profile header
	DefaultSubject string `yaml:"default_subject" json:"default_subject"` // Preselected subject for new projects
	SortBy         string `yaml:"sort_by" json:"sort_by"`                 // Project list order

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	Suggest SuggestConfig `yaml:"suggest" json:"suggest"`
	Server  ServerConfig  `yaml:"server" json:"server"`
}

// Dir returns the awaree home directory (~/.awaree), or AWAREE_HOME
func Dir() (string, error) {
	if dir := os.Getenv("AWAREE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".awaree"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir, _ := Dir()
	dbPath, logPath := "", ""
	if dir != "" {
		dbPath = filepath.Join(dir, "studio.db")
		logPath = filepath.Join(dir, "logs", "awaree.log")
	}

	return &Config{
		DataDir:        dir,
		DBPath:         getEnv("AWAREE_DB_PATH", dbPath),
		ReportDir:      getEnv("AWAREE_REPORT_DIR", "."),
		ConfirmDelete:  true,
		ConfirmImport:  true,
		UserEmail:      getEnv("AWAREE_USER_EMAIL", ""),
		DefaultSubject: "Studio Créa",
		SortBy:         "recent",
		LogLevel:       getEnv("AWAREE_LOG_LEVEL", "INFO"),
		LogFile:        getEnv("AWAREE_LOG_FILE", logPath),
		LogConsole:     getEnv("AWAREE_LOG_CONSOLE", "false") == "true",
		Suggest: SuggestConfig{
			Enabled: true,
			Model:   getEnv("AWAREE_SUGGEST_MODEL", "gemini-3-flash-preview"),
			Timeout: 20 * time.Second,
		},
		Server: ServerConfig{
			Addr: getEnv("AWAREE_SERVER_ADDR", "127.0.0.1:4178"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// applyEnv lets the environment win over the file for secrets and switches
func (c *Config) applyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Suggest.APIKey = key
	}
	if key := os.Getenv("AWAREE_SUGGEST_API_KEY"); key != "" {
		c.Suggest.APIKey = key
	}
	if v := os.Getenv("AWAREE_SUGGEST_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Suggest.Enabled = enabled
		}
	}
}

// Path returns the config file path
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from ~/.awaree/config.yaml
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(configPath)
}

// LoadFile loads config from path, using defaults when it does not exist
func LoadFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

// Save saves config to ~/.awaree/config.yaml
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(configPath)
}

// SaveFile saves config to path
func (c *Config) SaveFile(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
