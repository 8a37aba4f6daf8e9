package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Manju4599/data-cleaner-app/internal/clean"
	"github.com/Manju4599/data-cleaner-app/internal/ingest"
	"github.com/Manju4599/data-cleaner-app/internal/observe"
)

var (
	cleanThreshold   float64
	cleanMissing     string
	cleanDuplicates  string
	cleanStandardize bool
	cleanOutput      string
	cleanReportPath  string
	cleanFormat      string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Ingest a tabular file and write a cleaned copy plus a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		cc := effectiveConfig().CleaningDefaults()
		f := cmd.Flags()
		if f.Changed("missing-threshold") {
			if cleanThreshold < 0 || cleanThreshold > 1 {
				return fmt.Errorf("--missing-threshold must be in [0,1], got %v", cleanThreshold)
			}
			cc.MissingThreshold = cleanThreshold
		}
		if f.Changed("handle-missing") {
			switch p := clean.MissingPolicy(strings.ToLower(cleanMissing)); p {
			case clean.MissingAuto, clean.MissingMean, clean.MissingMedian, clean.MissingMode:
				cc.HandleMissing = p
			default:
				return fmt.Errorf("unsupported --handle-missing: %s (use auto|mean|median|mode)", cleanMissing)
			}
		}
		if f.Changed("handle-duplicates") {
			switch p := clean.DuplicatePolicy(strings.ToLower(cleanDuplicates)); p {
			case clean.DuplicatesDrop, clean.DuplicatesKeep:
				cc.HandleDuplicates = p
			default:
				return fmt.Errorf("unsupported --handle-duplicates: %s (use drop|keep)", cleanDuplicates)
			}
		}
		if f.Changed("standardize-text") {
			cc.StandardizeText = cleanStandardize
		}

		obs := observe.NewLogObserver(logger)
		t, err := ingest.NewResolver(obs).Resolve(path)
		if err != nil {
			return err
		}

		cleaned, rep := clean.NewEngine(obs).Clean(t, cc)

		out := cleanOutput
		if out == "" {
			ext := filepath.Ext(path)
			out = strings.TrimSuffix(path, ext) + "_cleaned" + outputExt()
		}
		switch strings.ToLower(cleanFormat) {
		case "", "csv":
			err = cleaned.WriteCSV(out)
		case "json":
			err = cleaned.WriteJSON(out)
		default:
			return fmt.Errorf("unsupported --format: %s (use csv|json)", cleanFormat)
		}
		if err != nil {
			return err
		}

		body, err := rep.JSON()
		if err != nil {
			return err
		}
		if cleanReportPath != "" {
			if err := os.WriteFile(cleanReportPath, body, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}

		fmt.Printf("✓ Cleaned %s → %s\n", path, out)
		fmt.Println(string(body))
		return nil
	},
}

func outputExt() string {
	if strings.ToLower(cleanFormat) == "json" {
		return ".json"
	}
	return ".csv"
}

func init() {
	cleanCmd.Flags().Float64Var(&cleanThreshold, "missing-threshold", 0.5, "drop columns whose missing fraction exceeds this")
	cleanCmd.Flags().StringVar(&cleanMissing, "handle-missing", "auto", "imputation policy: auto|mean|median|mode")
	cleanCmd.Flags().StringVar(&cleanDuplicates, "handle-duplicates", "drop", "duplicate rows: drop|keep")
	cleanCmd.Flags().BoolVar(&cleanStandardize, "standardize-text", false, "trim surrounding whitespace in text columns")
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "output path (default <input>_cleaned.<ext>)")
	cleanCmd.Flags().StringVar(&cleanReportPath, "report", "", "also write the cleaning report to this path")
	cleanCmd.Flags().StringVar(&cleanFormat, "format", "csv", "output format: csv|json")
	rootCmd.AddCommand(cleanCmd)
}
