package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	for _, name := range []string{"output", "report", "format", "missing-threshold", "handle-missing", "handle-duplicates", "standardize-text"} {
		if fl := cleanCmd.Flags().Lookup(name); fl != nil {
			fl.Changed = false
		}
	}
	for _, name := range []string{"output", "format", "records", "seed"} {
		if fl := generateCmd.Flags().Lookup(name); fl != nil {
			fl.Changed = false
		}
	}
	if fl := fixCmd.Flags().Lookup("output"); fl != nil {
		fl.Changed = false
	}
	cleanOutput, cleanReportPath, cleanFormat = "", "", "csv"
	genOutput, genFormat = "", ""
	fixOutput = ""

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func setTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestCLI_CleanCommand(t *testing.T) {
	home := setTempHome(t)
	input := filepath.Join(home, "messy.csv")
	body := "First Name,Age,Sparse\nAlice,30,\nAlice,30,\nBob,,x\n"
	if err := os.WriteFile(input, []byte(body), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	output := filepath.Join(home, "clean.csv")
	reportPath := filepath.Join(home, "report.json")

	runCmd(t, "clean", input, "--output", output, "--report", reportPath)

	cleaned, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(cleaned), "first_name,age") {
		t.Errorf("cleaned header = %q", strings.SplitN(string(cleaned), "\n", 2)[0])
	}

	var rep map[string]any
	raw, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep["original_rows"] != float64(3) {
		t.Errorf("original_rows = %v", rep["original_rows"])
	}
	if rep["duplicates_removed"] != float64(1) {
		t.Errorf("duplicates_removed = %v", rep["duplicates_removed"])
	}
}

func TestCLI_GenerateThenClean(t *testing.T) {
	home := setTempHome(t)
	dataset := filepath.Join(home, "uncleaned.csv")

	runCmd(t, "generate", "--records", "30", "--seed", "5", "--output", dataset)
	if _, err := os.Stat(dataset); err != nil {
		t.Fatalf("dataset not written: %v", err)
	}

	output := filepath.Join(home, "cleaned.csv")
	runCmd(t, "clean", dataset, "--output", output)
	cleaned, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read cleaned: %v", err)
	}
	header := strings.SplitN(string(cleaned), "\n", 2)[0]
	if strings.Contains(header, "Empty_Column") || strings.Contains(header, " ") {
		t.Errorf("header not cleaned: %q", header)
	}
}

func TestCLI_FixCommand(t *testing.T) {
	home := setTempHome(t)
	input := filepath.Join(home, "broken.csv")
	body := "\uFEFFname,city\r\nJosÃ©, \"Madrid\" \r\n"
	if err := os.WriteFile(input, []byte(body), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	output := filepath.Join(home, "fixed.csv")

	runCmd(t, "fix", input, "--output", output)

	fixed, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read fixed: %v", err)
	}
	got := string(fixed)
	if strings.Contains(got, "\uFEFF") || strings.Contains(got, "\r") {
		t.Errorf("BOM or CR survived: %q", got)
	}
	if !strings.Contains(got, "José") {
		t.Errorf("mojibake survived: %q", got)
	}
}

func TestCLI_InspectCommand(t *testing.T) {
	home := setTempHome(t)
	input := filepath.Join(home, "data.csv")
	if err := os.WriteFile(input, []byte("a,b\n1,x\n2,y\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	runCmd(t, "inspect", input, "--json")
}
