package tool

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config was not written: %v", err)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "formAction: https://nca.example.org/upload/scan\nuid: \"12\"\nsniffContent: true\nport: 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.FormAction != "https://nca.example.org/upload/scan" || cfg.UID != "12" || !cfg.SniffContent {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Port != DefaultAgentPort || cfg.TaskRetention != DefaultTaskRetention {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if got := GetCurrentConfig(); got != cfg {
		t.Errorf("current config = %+v", got)
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestPersistAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.UID = "77"
	cfg.TaskRetention = 5
	if err := PersistAppConfig(cfg); err != nil {
		t.Fatalf("PersistAppConfig: %v", err)
	}
	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.UID != "77" || TaskRetentionDuration(reloaded) != 5*time.Minute {
		t.Errorf("reloaded = %+v", reloaded)
	}
}

func TestParseFlagsAndApply(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags, err := ParseFlags(fs, []string{
		"-useFormAction", "http://localhost/upload", "-useUID", "3", "-useSniff", "-recursive", "a.pdf", "scans/",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if !reflect.DeepEqual(flags.Paths, []string{"a.pdf", "scans/"}) || !flags.Recursive {
		t.Errorf("flags = %+v", flags)
	}

	cfg := DefaultConfig()
	cfg.UID = "1"
	ApplyFlags(&cfg, flags)
	if cfg.FormAction != "http://localhost/upload" || cfg.UID != "3" || !cfg.SniffContent || cfg.Port != DefaultAgentPort {
		t.Errorf("cfg = %+v", cfg)
	}

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseFlags(fs, []string{"-unknown"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}
