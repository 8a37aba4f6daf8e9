package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Manju4599/data-cleaner-app/internal/clean"
)

// Global configuration structure.
type Global struct {
	UploadDir       string `mapstructure:"upload_dir" yaml:"upload_dir"`
	ListenAddr      string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadBytes  int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	FileLifetimeSec int    `mapstructure:"file_lifetime_sec" yaml:"file_lifetime_sec"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Default cleaning options, overridable per flag or per request.
	MissingThreshold float64 `mapstructure:"missing_threshold" yaml:"missing_threshold"`
	HandleMissing    string  `mapstructure:"handle_missing" yaml:"handle_missing"`
	HandleDuplicates string  `mapstructure:"handle_duplicates" yaml:"handle_duplicates"`
	StandardizeText  bool    `mapstructure:"standardize_text" yaml:"standardize_text"`
}

// CleaningDefaults maps the configured defaults onto an engine config.
func (c *Global) CleaningDefaults() clean.Config {
	return clean.Config{
		MissingThreshold: c.MissingThreshold,
		HandleMissing:    clean.MissingPolicy(c.HandleMissing),
		HandleDuplicates: clean.DuplicatePolicy(c.HandleDuplicates),
		StandardizeText:  c.StandardizeText,
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datacleaner/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".datacleaner")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATACLEANER")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("max_upload_bytes", int64(50*1024*1024))
	v.SetDefault("file_lifetime_sec", 3600)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	def := clean.DefaultConfig()
	v.SetDefault("missing_threshold", def.MissingThreshold)
	v.SetDefault("handle_missing", string(def.HandleMissing))
	v.SetDefault("handle_duplicates", string(def.HandleDuplicates))
	v.SetDefault("standardize_text", def.StandardizeText)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".datacleaner")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve upload_dir default: ~/.datacleaner/uploads
	if c.UploadDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.UploadDir = filepath.Join(home, ".datacleaner", "uploads")
	}
	return &c, nil
}
