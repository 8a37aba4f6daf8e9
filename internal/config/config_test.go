package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Manju4599/data-cleaner-app/internal/clean"
)

func TestLoadDefaults(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", c.ListenAddr)
	}
	if c.MaxUploadBytes != 50*1024*1024 {
		t.Errorf("MaxUploadBytes = %d", c.MaxUploadBytes)
	}
	if c.FileLifetimeSec != 3600 {
		t.Errorf("FileLifetimeSec = %d", c.FileLifetimeSec)
	}
	if c.UploadDir == "" {
		t.Error("UploadDir not defaulted")
	}
	if c.MissingThreshold != 0.5 || c.HandleMissing != "auto" {
		t.Errorf("cleaning defaults not applied: %+v", c)
	}
}

func TestLoadFromFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	body := "listen_addr: \":9000\"\nmissing_threshold: 0.25\nhandle_duplicates: keep\nupload_dir: /tmp/up\n"
	if err := os.WriteFile(cfgFile, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q", c.ListenAddr)
	}
	if c.MissingThreshold != 0.25 {
		t.Errorf("MissingThreshold = %v", c.MissingThreshold)
	}
	if c.HandleDuplicates != "keep" {
		t.Errorf("HandleDuplicates = %q", c.HandleDuplicates)
	}
	if c.UploadDir != "/tmp/up" {
		t.Errorf("UploadDir = %q", c.UploadDir)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{
		UploadDir:        "/data/uploads",
		ListenAddr:       ":7070",
		MaxUploadBytes:   1024,
		FileLifetimeSec:  60,
		LogLevel:         "debug",
		LogFormat:        "json",
		MissingThreshold: 0.75,
		HandleMissing:    "median",
		HandleDuplicates: "drop",
		StandardizeText:  true,
	}
	if err := Save(in, cfgFile); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.ListenAddr != in.ListenAddr || out.MissingThreshold != in.MissingThreshold ||
		out.HandleMissing != in.HandleMissing || !out.StandardizeText {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestCleaningDefaults(t *testing.T) {
	c := &Global{
		MissingThreshold: 0.3,
		HandleMissing:    "mean",
		HandleDuplicates: "keep",
		StandardizeText:  true,
	}
	got := c.CleaningDefaults()
	if got.MissingThreshold != 0.3 {
		t.Errorf("MissingThreshold = %v", got.MissingThreshold)
	}
	if got.HandleMissing != clean.MissingMean {
		t.Errorf("HandleMissing = %v", got.HandleMissing)
	}
	if got.HandleDuplicates != clean.DuplicatesKeep {
		t.Errorf("HandleDuplicates = %v", got.HandleDuplicates)
	}
	if !got.StandardizeText {
		t.Error("StandardizeText lost")
	}
}
