package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Manju4599/data-cleaner-app/internal/ingest"
)

var fixOutput string

var fixCmd = &cobra.Command{
	Use:   "fix <file>",
	Short: "Run the content repair pass on a delimited file without parsing it",
	Long: `fix applies the raw-content repairs the ingestion cascade would apply
as its last resort: normalized line endings, BOM removal, mojibake
substitution, stray quote spacing, and per-line delimiter reconciliation
against the header. The repaired text is written out as-is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		repaired := ingest.RepairContent(string(data))
		if repaired == "" {
			return fmt.Errorf("no content left after repair")
		}

		out := fixOutput
		if out == "" {
			ext := filepath.Ext(path)
			out = strings.TrimSuffix(path, ext) + "_fixed" + ext
		}
		if err := os.WriteFile(out, []byte(repaired+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Printf("✓ Repaired %s → %s\n", path, out)
		return nil
	},
}

func init() {
	fixCmd.Flags().StringVarP(&fixOutput, "output", "o", "", "output path (default <input>_fixed.<ext>)")
	rootCmd.AddCommand(fixCmd)
}
