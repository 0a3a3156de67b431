package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// DatasetPath is the absolute path of the dataset file read on every render pass.
	// Set via DATASET_PATH (relative paths are resolved against the process working directory at startup).
	DatasetPath string

	// DatasetTable names the table read when DatasetPath points at a SQLite file.
	DatasetTable string

	PreviewRows int
}

const (
	defaultDatasetPath  = "day.csv"
	defaultDatasetTable = "day"
	defaultPreviewRows  = 5
	maxPreviewRows      = 100
)

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	datasetPath := strings.TrimSpace(os.Getenv("DATASET_PATH"))
	if datasetPath == "" {
		datasetPath = defaultDatasetPath
	}
	datasetPath, err = filepath.Abs(datasetPath)
	if err != nil {
		return Config{}, fmt.Errorf("DATASET_PATH %q: %w", datasetPath, err)
	}

	datasetTable := strings.TrimSpace(os.Getenv("DATASET_TABLE"))
	if datasetTable == "" {
		datasetTable = defaultDatasetTable
	}
	if !isIdentifier(datasetTable) {
		return Config{}, fmt.Errorf("invalid DATASET_TABLE %q (letters, digits and underscore only)", datasetTable)
	}

	previewRowsStr := strings.TrimSpace(os.Getenv("PREVIEW_ROWS"))
	if previewRowsStr == "" {
		previewRowsStr = strconv.Itoa(defaultPreviewRows)
	}
	previewRows, err := strconv.Atoi(previewRowsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PREVIEW_ROWS %q: %w", previewRowsStr, err)
	}
	if previewRows < 1 || previewRows > maxPreviewRows {
		return Config{}, fmt.Errorf("invalid PREVIEW_ROWS %d (allowed: 1..%d)", previewRows, maxPreviewRows)
	}

	return Config{
		AppEnv:       appEnv,
		LogLevel:     level,
		HTTPAddr:     httpAddr,
		DatasetPath:  datasetPath,
		DatasetTable: datasetTable,
		PreviewRows:  previewRows,
	}, nil
}

// WithDatasetPath returns a copy of cfg reading from path instead. Empty path keeps cfg as is.
func (cfg Config) WithDatasetPath(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("dataset path %q: %w", path, err)
	}
	cfg.DatasetPath = abs
	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
