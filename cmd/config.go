package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/Manju4599/data-cleaner-app/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set datacleaner configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		fmt.Printf("upload_dir: %s\n", c.UploadDir)
		fmt.Printf("listen_addr: %s\n", c.ListenAddr)
		fmt.Printf("max_upload_bytes: %d\n", c.MaxUploadBytes)
		fmt.Printf("file_lifetime_sec: %d\n", c.FileLifetimeSec)
		fmt.Printf("log_level: %s\n", c.LogLevel)
		fmt.Printf("log_format: %s\n", c.LogFormat)
		fmt.Printf("missing_threshold: %.3f\n", c.MissingThreshold)
		fmt.Printf("handle_missing: %s\n", c.HandleMissing)
		fmt.Printf("handle_duplicates: %s\n", c.HandleDuplicates)
		fmt.Printf("standardize_text: %t\n", c.StandardizeText)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := effectiveConfig()

		switch key {
		case "upload_dir":
			c.UploadDir = val
		case "listen_addr":
			c.ListenAddr = val
		case "max_upload_bytes":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid max_upload_bytes: %s", val)
			}
			c.MaxUploadBytes = n
		case "file_lifetime_sec":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid file_lifetime_sec: %s", val)
			}
			c.FileLifetimeSec = n
		case "log_level":
			c.LogLevel = val
		case "log_format":
			c.LogFormat = val
		case "missing_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid missing_threshold: %s (must be in [0,1])", val)
			}
			c.MissingThreshold = f
		case "handle_missing":
			switch strings.ToLower(val) {
			case "auto", "mean", "median", "mode":
				c.HandleMissing = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid handle_missing: %s (use auto|mean|median|mode)", val)
			}
		case "handle_duplicates":
			switch strings.ToLower(val) {
			case "drop", "keep":
				c.HandleDuplicates = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid handle_duplicates: %s (use drop|keep)", val)
			}
		case "standardize_text":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid standardize_text: %s", val)
			}
			c.StandardizeText = b
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
