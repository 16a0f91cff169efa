package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/wippyai/salience-go/codec"
	"github.com/wippyai/salience-go/markup"
	"github.com/wippyai/salience-go/option"
	"github.com/wippyai/salience-go/session"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salience.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleConfig = `
[engine]
module = "/opt/salience/salience.wasm"
mounts = { "/opt/salience/data" = "/data" }
memory_limit_pages = 4096

[session]
license = "/data/license.v5"
data = "/data"
mode = "shortform"
encoding = "windows-1252"

[markup]
positive = 0.5
prefix = "X_"

[[configuration]]
id = "support"
user_dir = "/data/support"

[[option]]
name = "EntityThreshold"
value = 70

[[option]]
name = "ConceptSlop"
value = 0.25
scope = "support"

[[option]]
name = "ClassificationModel"
value = "/data/model"
flag = 1
`

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	ec := cfg.engineConfig()
	if ec.MemoryLimitPages != 4096 {
		t.Errorf("MemoryLimitPages = %d, want 4096", ec.MemoryLimitPages)
	}
	if ec.Mounts["/opt/salience/data"] != "/data" {
		t.Errorf("Mounts = %v", ec.Mounts)
	}

	sc, err := cfg.sessionConfig()
	if err != nil {
		t.Fatalf("sessionConfig: %v", err)
	}
	if sc.LicensePath != "/data/license.v5" || sc.DataDirectory != "/data" {
		t.Errorf("paths = %q, %q", sc.LicensePath, sc.DataDirectory)
	}
	if sc.Mode != session.ModeShortform {
		t.Errorf("Mode = %v, want shortform", sc.Mode)
	}
	if sc.Encoding != codec.ANSI {
		t.Errorf("Encoding = %v, want ANSI", sc.Encoding)
	}

	// Unscoped options go to the session config, scoped ones wait for
	// their configuration.
	if len(sc.Options) != 2 {
		t.Fatalf("global options = %d, want 2", len(sc.Options))
	}
	if sc.Options[0].ID != option.EntityThreshold || sc.Options[0].Value.Int() != 70 {
		t.Errorf("option 0 = %v %v", sc.Options[0].ID, sc.Options[0].Value)
	}
	model := sc.Options[1].Value
	if model.Kind() != option.KindTextFlag || model.Text() != "/data/model" || model.Flag() != 1 {
		t.Errorf("ClassificationModel = %v", model)
	}

	_, scoped, err := cfg.settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if len(scoped) != 1 || scoped[0].scope != "support" || scoped[0].ID != option.ConceptSlop {
		t.Fatalf("scoped = %+v", scoped)
	}
	if scoped[0].Value.Float() != 0.25 {
		t.Errorf("ConceptSlop = %v, want 0.25", scoped[0].Value.Float())
	}

	so := cfg.sentimentOptions()
	want := markup.SentimentOptions{
		Prefix:     "X_",
		Thresholds: markup.Thresholds{Negative: markup.DefaultThresholds.Negative, Positive: 0.5},
	}
	if so != want {
		t.Errorf("sentimentOptions = %+v, want %+v", so, want)
	}
}

func TestLoadConfig_NoPath(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Engine.Module != "" || len(cfg.Options) != 0 {
		t.Errorf("empty path should give the zero config, got %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown key",
			body:    "[session]\nlicence = \"x\"\n",
			wantErr: "unknown keys session.licence",
		},
		{
			name:    "syntax",
			body:    "[session\n",
			wantErr: "read config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opt     optionSection
		wantErr string
	}{
		{"unknown option", optionSection{Name: "NoSuchOption", Value: int64(1)}, "unknown option"},
		{"wrong shape", optionSection{Name: "EntityThreshold", Value: "high"}, "EntityThreshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &fileConfig{Options: []optionSection{tt.opt}}
			_, _, err := cfg.settings()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSessionConfig_BadMode(t *testing.T) {
	cfg := &fileConfig{Session: sessionSection{Mode: "turbo"}}
	if _, err := cfg.sessionConfig(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var f flags
	cmd.Flags().StringVar(&f.license, "license", "", "")
	cmd.Flags().StringVar(&f.data, "data", "", "")
	cmd.Flags().StringVar(&f.mode, "mode", "", "")
	cmd.Flags().StringToStringVar(&f.mounts, "mount", nil, "")
	if err := cmd.ParseFlags([]string{"--license", "/cli/license", "--mount", "/host=/guest"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := &fileConfig{Session: sessionSection{License: "/file/license", Data: "/file/data", Mode: "shortform"}}
	f.apply(cmd, cfg)

	if cfg.Session.License != "/cli/license" {
		t.Errorf("License = %q, want the flag value", cfg.Session.License)
	}
	if cfg.Session.Data != "/file/data" {
		t.Errorf("Data = %q, unset flags must keep the file value", cfg.Session.Data)
	}
	if cfg.Session.Mode != "shortform" {
		t.Errorf("Mode = %q", cfg.Session.Mode)
	}
	if cfg.Engine.Mounts["/host"] != "/guest" {
		t.Errorf("Mounts = %v", cfg.Engine.Mounts)
	}
}
