package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/Manju4599/data-cleaner-app/internal/config"
)

var (
	// Global flags (wired to config/viper in loadConfig)
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "datacleaner",
	Short: "Clean messy tabular files (CSV, Excel, JSON)",
	Long: `datacleaner ingests tabular files of unknown encoding and structure,
repairs what it can, and produces a cleaned copy plus a report of every
change: normalized column names, imputed missing values, dropped sparse
columns, and removed duplicate rows.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datacleaner/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults baked into each command
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	logger = buildLogger(cfg)
}

// buildLogger constructs the process logger from config, honoring the
// --debug flag over the configured level.
func buildLogger(c *cfgpkg.Global) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(c.LogLevel); err != nil {
		level = zapcore.InfoLevel
	}
	if debug {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	if c.LogFormat != "json" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	l, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// effectiveConfig returns the loaded config, or defaults when loading
// failed.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c, err := cfgpkg.Load("")
	if err != nil {
		return &cfgpkg.Global{
			ListenAddr:       ":8080",
			MaxUploadBytes:   50 * 1024 * 1024,
			FileLifetimeSec:  3600,
			MissingThreshold: 0.5,
			HandleMissing:    "auto",
			HandleDuplicates: "drop",
		}
	}
	return c
}
