package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func TestPrintVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintVersion(&buf, "dragons", true); err != nil {
		t.Fatal(err)
	}
	var out struct {
		Tool string      `json:"tool"`
		Info VersionInfo `json:"version_info"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if out.Tool != "dragons" || out.Info.Version != Version || out.Info.LanguageVersion != LanguageVersion {
		t.Errorf("unexpected version output %+v", out)
	}
}

func TestPrintVersionText(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintVersion(&buf, "dragons", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "dragons v"+Version) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLoggerLevels(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := &Logger{Out: &buf, now: func() time.Time {
		return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}}

	l.Info("hidden")
	l.Debug("hidden")
	l.Warn("careful %d", 1)
	if buf.String() != "[WARN] 03:04:05: careful 1\n" {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	l.Verbose, l.DebugMode = true, true
	l.Info("a")
	l.Debug("b")
	l.Error("c")
	want := "[INFO] 03:04:05: a\n[DEBUG] 03:04:05: b\n[ERROR] 03:04:05: c\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dragons.yaml")
	content := "verbose: true\ncolor: never\nshow_source: true\nlanguage: \">= 1.0, < 2.0\"\nmax_depth: 200\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Verbose || cfg.Color != "never" || !cfg.ShowSource || cfg.MaxDepth != 200 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Prompt != "dragons> " || cfg.InputPrompt != "? " {
		t.Errorf("default prompts lost: %q %q", cfg.Prompt, cfg.InputPrompt)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "verbose: [", "failed to parse"},
		{"bad color", "color: rainbow", "invalid color mode"},
		{"unsatisfied language", "language: \"^2.0\"", "does not satisfy"},
		{"bad constraint", "language: \"not a version\"", "invalid language constraint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("an explicit missing config file should be an error")
	}
}

func TestCheckLanguage(t *testing.T) {
	for _, c := range []string{"", "1.x", ">= 1.0", "~1.1.0"} {
		if err := CheckLanguage(c); err != nil {
			t.Errorf("CheckLanguage(%q) = %v", c, err)
		}
	}
	if err := CheckLanguage("< 1.0"); err == nil {
		t.Error("CheckLanguage(< 1.0) should fail")
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf, CommandInfo{
		Name:        "dragons",
		Usage:       "dragons [options] [file]",
		Description: "run a program",
		Flags:       []FlagInfo{{Short: 'c', Arg: "file", Usage: "config file"}},
	})
	if !strings.Contains(buf.String(), "    -c file      config file") {
		t.Errorf("usage = %q", buf.String())
	}
}
