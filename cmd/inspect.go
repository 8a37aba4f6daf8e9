package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Manju4599/data-cleaner-app/internal/clean"
	"github.com/Manju4599/data-cleaner-app/internal/ingest"
	"github.com/Manju4599/data-cleaner-app/internal/observe"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Resolve a file and show its shape and per-column profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := ingest.NewResolver(observe.NewLogObserver(logger)).Resolve(args[0])
		if err != nil {
			return err
		}
		profile := clean.Profile(t)

		if inspectJSON {
			b, err := json.MarshalIndent(map[string]any{
				"columns":   t.Columns,
				"row_count": len(t.Rows),
				"profile":   profile,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}

		fmt.Printf("%s: %d rows × %d columns\n\n", args[0], len(t.Rows), len(t.Columns))
		fmt.Printf("%-30s %-8s %8s %8s\n", "COLUMN", "KIND", "MISSING", "FRAC")
		for _, p := range profile {
			fmt.Printf("%-30s %-8s %8d %8.2f\n", p.Name, p.Kind, p.Missing, p.MissingFrac)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "emit the profile as JSON")
	rootCmd.AddCommand(inspectCmd)
}
