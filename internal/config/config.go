// Package config loads runtime configuration from a YAML file, .env files
// and environment variables, with environment taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings. Fields carry both yaml tags
// (for Save, which writes YAML directly) and mapstructure tags (viper's
// Unmarshal decodes through mapstructure, not yaml).
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// GitHub configuration
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Cache configuration
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	// Analysis configuration
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" mapstructure:"listen_addr"`
}

type StorageConfig struct {
	Type        string `yaml:"type" mapstructure:"type"` // "sqlite", "postgres"
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

type GitHubConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second
}

type CacheConfig struct {
	MetadataTTL time.Duration `yaml:"metadata_ttl" mapstructure:"metadata_ttl"`
	ResultTTL   time.Duration `yaml:"result_ttl" mapstructure:"result_ttl"`
}

type AnalysisConfig struct {
	WindowDays  int `yaml:"window_days" mapstructure:"window_days"`
	MaxCommits  int `yaml:"max_commits" mapstructure:"max_commits"`
	MaxDetailed int `yaml:"max_detailed" mapstructure:"max_detailed"`
}

// Default returns default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Storage: StorageConfig{
			Type:       "sqlite",
			SQLitePath: filepath.Join(homeDir, ".gitgauge", "gitgauge.db"),
		},
		GitHub: GitHubConfig{
			RateLimit: 10, // 10 requests per second
		},
		Cache: CacheConfig{
			MetadataTTL: 5 * time.Minute,
			ResultTTL:   time.Hour,
		},
		Analysis: AnalysisConfig{
			WindowDays:  90,
			MaxCommits:  500,
			MaxDetailed: 100,
		},
	}
}

// Load loads configuration from file, .env files and environment variables.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("server", cfg.Server)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("analysis", cfg.Analysis)

	v.SetEnvPrefix("GITGAUGE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".gitgauge")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".gitgauge"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".gitgauge", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	// GitHub configuration
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rate, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rate
		}
	}

	// Server configuration
	if addr := os.Getenv("GITGAUGE_LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.ListenAddr = ":" + port
	}

	// Storage configuration
	if storageType := os.Getenv("STORAGE_TYPE"); storageType != "" {
		cfg.Storage.Type = storageType
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		cfg.Storage.SQLitePath = expandPath(path)
	}

	// Cache configuration
	if ttl := os.Getenv("CACHE_METADATA_TTL_MINUTES"); ttl != "" {
		if minutes, err := strconv.Atoi(ttl); err == nil {
			cfg.Cache.MetadataTTL = time.Duration(minutes) * time.Minute
		}
	}
	if ttl := os.Getenv("CACHE_RESULT_TTL_MINUTES"); ttl != "" {
		if minutes, err := strconv.Atoi(ttl); err == nil {
			cfg.Cache.ResultTTL = time.Duration(minutes) * time.Minute
		}
	}

	// Analysis configuration
	if days := os.Getenv("ANALYSIS_WINDOW_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			cfg.Analysis.WindowDays = n
		}
	}
	if max := os.Getenv("ANALYSIS_MAX_COMMITS"); max != "" {
		if n, err := strconv.Atoi(max); err == nil {
			cfg.Analysis.MaxCommits = n
		}
	}
	if max := os.Getenv("ANALYSIS_MAX_DETAILED"); max != "" {
		if n, err := strconv.Atoi(max); err == nil {
			cfg.Analysis.MaxDetailed = n
		}
	}
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves configuration to file.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("server", c.Server)
	v.Set("storage", c.Storage)
	v.Set("github", c.GitHub)
	v.Set("cache", c.Cache)
	v.Set("analysis", c.Analysis)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
