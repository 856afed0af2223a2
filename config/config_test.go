package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "logs/trades.csv", cfg.Source.Path)
	assert.Equal(t, "ts", cfg.Columns.Timestamp)
	assert.Equal(t, "pnl", cfg.Columns.PnL)
	assert.Equal(t, ',', cfg.Source.Delim())
	assert.Equal(t, DefaultTimeLayout, cfg.Source.Layout())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown source type",
			mutate:  func(c *Config) { c.Source.Type = "parquet" },
			wantErr: true,
			errMsg:  "source.type must be 'csv' or 'sqlite'",
		},
		{
			name:    "missing path",
			mutate:  func(c *Config) { c.Source.Path = "" },
			wantErr: true,
			errMsg:  "source.path is required",
		},
		{
			name:    "sqlite without table",
			mutate:  func(c *Config) { c.Source.Type = "sqlite" },
			wantErr: true,
			errMsg:  "source.table required",
		},
		{
			name:    "multi character delimiter",
			mutate:  func(c *Config) { c.Source.Delimiter = ";;" },
			wantErr: true,
			errMsg:  "single character",
		},
		{
			name: "every missing column listed",
			mutate: func(c *Config) {
				c.Columns.Entry = ""
				c.Columns.Equity = " "
			},
			wantErr: true,
			errMsg:  "columns.entry, columns.equity",
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Output.Format = "gif" },
			wantErr: true,
			errMsg:  "output.format",
		},
		{
			name:    "zero height",
			mutate:  func(c *Config) { c.Output.HeightIn = 0 },
			wantErr: true,
			errMsg:  "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Columns.Timestamp = "close_time"
			cfg.Output.Format = "svg"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Source, loaded.Source)
			assert.Equal(t, cfg.Columns, loaded.Columns)
			assert.Equal(t, cfg.Output, loaded.Output)
		})
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns:\n  pnl: profit\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "profit", cfg.Columns.PnL)
	assert.Equal(t, "ts", cfg.Columns.Timestamp)
	assert.Equal(t, "logs/trades.csv", cfg.Source.Path)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  type: xls\n"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
