// Package config holds taskflow's configuration, loaded from
// ~/.taskflow/settings.yaml with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings holds all configuration values
type Settings struct {
	// Server configuration
	Server struct {
		Host string
		Port int
	}

	// Ollama configuration
	Ollama struct {
		Host        string
		Model       string
		Temperature float64
		TopP        float64
		MaxTokens   int
		Timeout     int
	}

	// Database configuration
	Database struct {
		Path string
	}

	// Logging configuration
	Logging struct {
		LogFile string
		Persist bool
		Level   string
	}

	// Cache configuration
	Cache struct {
		Enabled  bool
		Capacity int
	}

	// Planner configuration
	Planner struct {
		HoursPerDay      float64
		DefaultTimeframe string
	}

	// ConfigFile stores the path to the config file used
	ConfigFile string
}

// Global settings instance
var Global *Settings

// Init initializes the configuration system
func Init(cfgFile string) error {
	Global = &Settings{}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		Global.ConfigFile = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		configDir := filepath.Join(home, ".taskflow")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
		Global.ConfigFile = filepath.Join(configDir, "settings.yaml")
	}

	setDefaults()

	// Enable environment variable support
	viper.SetEnvPrefix("TASKFLOW")
	viper.AutomaticEnv()

	// Bind specific environment variables to config keys
	viper.BindEnv("ollama.host", "OLLAMA_HOST")
	viper.BindEnv("ollama.model", "OLLAMA_MODEL")
	viper.BindEnv("server.port", "TASKFLOW_PORT")
	viper.BindEnv("database.path", "TASKFLOW_DB_PATH")
	viper.BindEnv("logging.level", "TASKFLOW_LOG_LEVEL")

	// Read config file if it exists
	viper.ReadInConfig()

	return Load()
}

// setDefaults sets all default configuration values
func setDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".taskflow")

	// Server defaults
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8000)

	// Ollama defaults
	viper.SetDefault("ollama.host", "http://localhost:11434")
	viper.SetDefault("ollama.model", "llama3.2:3b")
	viper.SetDefault("ollama.temperature", 0.7)
	viper.SetDefault("ollama.top_p", 0.9)
	viper.SetDefault("ollama.max_tokens", 2000)
	viper.SetDefault("ollama.timeout", 120)

	// Database defaults
	viper.SetDefault("database.path", filepath.Join(dataDir, "taskflow.db"))

	// Logging defaults
	viper.SetDefault("logging.log_file", filepath.Join(dataDir, "taskflow.log"))
	viper.SetDefault("logging.persist", true)
	viper.SetDefault("logging.level", "info")

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.capacity", 100)

	// Planner defaults
	viper.SetDefault("planner.hours_per_day", 8.0)
	viper.SetDefault("planner.default_timeframe", "1 week")
}

// Load loads configuration from viper into the Settings struct
func Load() error {
	Global.Server.Host = viper.GetString("server.host")
	Global.Server.Port = viper.GetInt("server.port")

	Global.Ollama.Host = viper.GetString("ollama.host")
	Global.Ollama.Model = viper.GetString("ollama.model")
	Global.Ollama.Temperature = viper.GetFloat64("ollama.temperature")
	Global.Ollama.TopP = viper.GetFloat64("ollama.top_p")
	Global.Ollama.MaxTokens = viper.GetInt("ollama.max_tokens")
	Global.Ollama.Timeout = viper.GetInt("ollama.timeout")

	Global.Database.Path = viper.GetString("database.path")

	Global.Logging.LogFile = viper.GetString("logging.log_file")
	Global.Logging.Persist = viper.GetBool("logging.persist")
	Global.Logging.Level = viper.GetString("logging.level")

	Global.Cache.Enabled = viper.GetBool("cache.enabled")
	Global.Cache.Capacity = viper.GetInt("cache.capacity")

	Global.Planner.HoursPerDay = viper.GetFloat64("planner.hours_per_day")
	Global.Planner.DefaultTimeframe = viper.GetString("planner.default_timeframe")

	return nil
}

// WriteDefaultConfig writes default configuration values to disk, preserving existing settings
func WriteDefaultConfig() error {
	if Global.ConfigFile == "" {
		return fmt.Errorf("config file path not set")
	}

	configDir := filepath.Dir(Global.ConfigFile)
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := viper.WriteConfigAs(Global.ConfigFile); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}

	return nil
}

// Get returns the global settings instance
func Get() *Settings {
	if Global == nil {
		panic("config not initialized - call Init() first")
	}
	return Global
}

// Addr returns the server's listen address.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}
