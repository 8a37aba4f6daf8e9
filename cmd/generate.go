package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Manju4599/data-cleaner-app/internal/generate"
)

var (
	genRecords int
	genSeed    int64
	genOutput  string
	genFormat  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic messy dataset for testing the pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := generate.Dataset(generate.Options{Records: genRecords, Seed: genSeed})

		out := genOutput
		format := strings.ToLower(genFormat)
		if out == "" {
			out = "uncleaned_dataset.csv"
			if format == "json" {
				out = "uncleaned_dataset.json"
			}
		}
		if format == "" {
			if strings.ToLower(filepath.Ext(out)) == ".json" {
				format = "json"
			} else {
				format = "csv"
			}
		}

		var err error
		switch format {
		case "csv":
			err = t.WriteCSV(out)
		case "json":
			err = t.WriteJSON(out)
		default:
			return fmt.Errorf("unsupported --format: %s (use csv|json)", genFormat)
		}
		if err != nil {
			return err
		}
		fmt.Printf("✓ Generated %d records → %s\n", len(t.Rows), out)
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVar(&genRecords, "records", 100, "number of base records")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed (0 = time-based)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output path (default uncleaned_dataset.csv)")
	generateCmd.Flags().StringVar(&genFormat, "format", "", "output format: csv|json (default from extension)")
	rootCmd.AddCommand(generateCmd)
}
