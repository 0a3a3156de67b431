package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "DATASET_PATH", "DATASET_TABLE", "PREVIEW_ROWS"} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":8080")
	}
	if !filepath.IsAbs(got.DatasetPath) || filepath.Base(got.DatasetPath) != "day.csv" {
		t.Errorf("DatasetPath = %q, want absolute path ending in day.csv", got.DatasetPath)
	}
	if got.DatasetTable != "day" {
		t.Errorf("DatasetTable = %q, want %q", got.DatasetTable, "day")
	}
	if got.PreviewRows != 5 {
		t.Errorf("PreviewRows = %d, want 5", got.PreviewRows)
	}
}

func TestLoadFromEnv_AppEnv(t *testing.T) {
	tests := []struct {
		name    string
		appEnv  string
		want    string
		wantErr bool
	}{
		{name: "dev", appEnv: "dev", want: "dev"},
		{name: "prod with whitespace", appEnv: "\nprod\t", want: "prod"},
		{name: "staging", appEnv: "staging", wantErr: true},
		{name: "uppercase invalid", appEnv: "DEV", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)

			got, err := LoadFromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadFromEnv() error = nil, want non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFromEnv() error = %v, want nil", err)
			}
			if got.AppEnv != tt.want {
				t.Errorf("AppEnv = %q, want %q", got.AppEnv, tt.want)
			}
		})
	}
}

func TestLoadFromEnv_DatasetPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	want := filepath.Join(dir, "bikes.csv")
	t.Setenv("DATASET_PATH", "  "+want+"  ")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.DatasetPath != want {
		t.Errorf("DatasetPath = %q, want %q", got.DatasetPath, want)
	}
}

func TestLoadFromEnv_DatasetTable(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "plain", in: "rentals"},
		{name: "underscore and digits", in: "day_2011"},
		{name: "leading digit", in: "2011day", wantErr: true},
		{name: "injection", in: "day; DROP TABLE day", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DATASET_TABLE", tt.in)

			got, err := LoadFromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadFromEnv() error = nil, want non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFromEnv() error = %v, want nil", err)
			}
			if got.DatasetTable != tt.in {
				t.Errorf("DatasetTable = %q, want %q", got.DatasetTable, tt.in)
			}
		})
	}
}

func TestLoadFromEnv_PreviewRows(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "explicit", in: "10", want: 10},
		{name: "upper bound", in: "100", want: 100},
		{name: "zero", in: "0", wantErr: true},
		{name: "too many", in: "101", wantErr: true},
		{name: "not a number", in: "five", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PREVIEW_ROWS", tt.in)

			got, err := LoadFromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadFromEnv() error = nil, want non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFromEnv() error = %v, want nil", err)
			}
			if got.PreviewRows != tt.want {
				t.Errorf("PreviewRows = %d, want %d", got.PreviewRows, tt.want)
			}
		})
	}
}

func TestWithDatasetPath(t *testing.T) {
	base := Config{DatasetPath: "/data/day.csv"}

	same, err := base.WithDatasetPath("   ")
	if err != nil {
		t.Fatalf("WithDatasetPath(blank) error = %v", err)
	}
	if same.DatasetPath != base.DatasetPath {
		t.Errorf("DatasetPath = %q, want unchanged %q", same.DatasetPath, base.DatasetPath)
	}

	override := filepath.Join(t.TempDir(), "other.xlsx")
	got, err := base.WithDatasetPath(override)
	if err != nil {
		t.Fatalf("WithDatasetPath error = %v", err)
	}
	if got.DatasetPath != override {
		t.Errorf("DatasetPath = %q, want %q", got.DatasetPath, override)
	}
	if base.DatasetPath != "/data/day.csv" {
		t.Errorf("receiver mutated: %q", base.DatasetPath)
	}
}

func TestParseLogLevel_Valid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want slog.Level
	}{
		{name: "debug", in: "debug", want: slog.LevelDebug},
		{name: "info", in: "info", want: slog.LevelInfo},
		{name: "warning", in: "warning", want: slog.LevelWarn},
		{name: "error", in: "error", want: slog.LevelError},
		{name: "case insensitive", in: "DeBuG", want: slog.LevelDebug},
		{name: "trims whitespace", in: "  warn \n", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if err != nil {
				t.Fatalf("parseLogLevel(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel_Invalid(t *testing.T) {
	for _, in := range []string{"", "nope", "warns", "1"} {
		got, err := parseLogLevel(in)
		if err == nil {
			t.Fatalf("parseLogLevel(%q) error = nil, want non-nil", in)
		}
		if got != slog.LevelInfo {
			t.Errorf("parseLogLevel(%q) = %v, want %v on error", in, got, slog.LevelInfo)
		}
	}
}
