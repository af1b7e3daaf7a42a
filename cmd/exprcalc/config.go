package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the optional exprcalc.yaml configuration.
type Config struct {
	// Log configures diagnostics. Logging is off unless Level is set.
	Log LogConfig `yaml:"log"`

	// Prompt is shown in front of the interactive input line.
	Prompt string `yaml:"prompt,omitempty"`

	// Precision is the number of significant digits printed for results;
	// 0 prints the shortest exact representation.
	Precision int `yaml:"precision,omitempty"`

	// Simplify folds constants before evaluation and prints the folded tree.
	Simplify bool `yaml:"simplify,omitempty"`

	// Vars are predefined variable bindings.
	Vars map[string]float64 `yaml:"vars,omitempty"`

	// Colors are lipgloss colour strings for the styled output.
	Colors Colors `yaml:"colors,omitempty"`
}

// LogConfig selects the zap logger.
type LogConfig struct {
	// Level is a zap level name (debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// Development switches to zap's development encoder.
	Development bool `yaml:"development,omitempty"`

	// File receives the log instead of stderr. The interactive mode needs it,
	// since stderr shares the terminal with the UI.
	File string `yaml:"file,omitempty"`
}

// Colors holds the output palette.
type Colors struct {
	Title  string `yaml:"title,omitempty"`
	Result string `yaml:"result,omitempty"`
	Error  string `yaml:"error,omitempty"`
	Help   string `yaml:"help,omitempty"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and validates a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses config content. path is used only in error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.Precision < 0 || c.Precision > 17 {
		return fmt.Errorf("%s: precision must be between 0 and 17, got %d", path, c.Precision)
	}
	if c.Log.Level != "" {
		if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%s: log level: %w", path, err)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Prompt == "" {
		c.Prompt = "> "
	}
	if c.Colors.Title == "" {
		c.Colors.Title = "#7D56F4"
	}
	if c.Colors.Result == "" {
		c.Colors.Result = "#90EE90"
	}
	if c.Colors.Error == "" {
		c.Colors.Error = "#FF6B6B"
	}
	if c.Colors.Help == "" {
		c.Colors.Help = "#666666"
	}
}

// newLogger builds the logger described by c. Without a level it returns a
// no-op logger.
func (c *LogConfig) newLogger() (*zap.Logger, error) {
	if c.Level == "" {
		return zap.NewNop(), nil
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if c.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if c.File != "" {
		zcfg.OutputPaths = []string{c.File}
		zcfg.ErrorOutputPaths = []string{c.File}
	}
	return zcfg.Build()
}
