package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTimeLayout is the timestamp format written by the paper trader:
// 2024-01-02T15:04:05 with optional fractional seconds, always UTC.
const DefaultTimeLayout = "2006-01-02T15:04:05"

// Config is the complete analysis configuration
type Config struct {
	Source  SourceConfig `json:"source" yaml:"source"`
	Columns Columns      `json:"columns" yaml:"columns"`
	Output  OutputConfig `json:"output" yaml:"output"`
	Log     LogConfig    `json:"log" yaml:"log"`
}

// SourceConfig describes where the trade log lives
type SourceConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	Path       string `json:"path" yaml:"path"`
	Table      string `json:"table,omitempty" yaml:"table,omitempty"`
	Delimiter  string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	TimeLayout string `json:"time_layout,omitempty" yaml:"time_layout,omitempty"`
}

// Columns maps the logical trade fields onto the column names of the log.
type Columns struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Entry     string `json:"entry" yaml:"entry"`
	Exit      string `json:"exit" yaml:"exit"`
	PnL       string `json:"pnl" yaml:"pnl"`
	Equity    string `json:"equity" yaml:"equity"`
}

// Fields returns the logical field names paired with their mapped column, in
// a stable order.
func (c Columns) Fields() [][2]string {
	return [][2]string{
		{"timestamp", c.Timestamp},
		{"entry", c.Entry},
		{"exit", c.Exit},
		{"pnl", c.PnL},
		{"equity", c.Equity},
	}
}

// OutputConfig controls where and how charts are written
type OutputConfig struct {
	Dir      string  `json:"dir" yaml:"dir"`
	Format   string  `json:"format" yaml:"format"` // png, svg or pdf
	WidthIn  float64 `json:"width_in" yaml:"width_in"`
	HeightIn float64 `json:"height_in" yaml:"height_in"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON).
// Fields missing from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, else JSON)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid. Every unmapped column is
// reported in a single error.
func (c *Config) Validate() error {
	if c.Source.Type != "csv" && c.Source.Type != "sqlite" {
		return fmt.Errorf("source.type must be 'csv' or 'sqlite'")
	}
	if c.Source.Path == "" {
		return fmt.Errorf("source.path is required")
	}
	if c.Source.Type == "sqlite" && c.Source.Table == "" {
		return fmt.Errorf("source.table required for SQLite type")
	}
	if len([]rune(c.Source.Delimiter)) > 1 {
		return fmt.Errorf("source.delimiter must be a single character")
	}

	var missing []string
	for _, f := range c.Columns.Fields() {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, "columns."+f[0])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("column mapping required for: %s", strings.Join(missing, ", "))
	}

	switch c.Output.Format {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("output.format must be one of png, svg, pdf")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Output.WidthIn <= 0 || c.Output.HeightIn <= 0 {
		return fmt.Errorf("output width_in and height_in must be positive")
	}
	return nil
}

// Delim returns the field delimiter as a rune, defaulting to a comma.
func (s SourceConfig) Delim() rune {
	if s.Delimiter == "" {
		return ','
	}
	return []rune(s.Delimiter)[0]
}

// Layout returns the timestamp layout, defaulting to DefaultTimeLayout.
func (s SourceConfig) Layout() string {
	if s.TimeLayout == "" {
		return DefaultTimeLayout
	}
	return s.TimeLayout
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Type:       "csv",
			Path:       "logs/trades.csv",
			Delimiter:  ",",
			TimeLayout: DefaultTimeLayout,
		},
		Columns: Columns{
			Timestamp: "ts",
			Entry:     "entry",
			Exit:      "exit",
			PnL:       "pnl",
			Equity:    "equity",
		},
		Output: OutputConfig{
			Dir:      "charts",
			Format:   "png",
			WidthIn:  8,
			HeightIn: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
