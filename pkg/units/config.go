package units

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/mash-units/pkg/format"
	"github.com/mash-protocol/mash-units/pkg/log"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config configures an Env.
type Config struct {
	// RuleFiles are loaded in order when the Env is created.
	RuleFiles []string

	// Rules are definitions applied after RuleFiles.
	Rules []string

	// Style is the default output style of Format.
	Style format.Style

	// Reduce enables rule reduction in Format.
	Reduce bool

	// TraceFile, if set, receives a CBOR trace of every operation. The
	// file is closed by Env.Close.
	TraceFile string

	// TraceFailedOnly limits TraceFile to failed operations. EventLogger
	// still receives every event.
	TraceFailedOnly bool

	// EventLogger receives trace events in addition to TraceFile.
	// If nil, events are only written to TraceFile.
	EventLogger log.Logger

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with no rules, plain output and no
// reduction.
func DefaultConfig() Config {
	return Config{
		Style: format.Plain,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Style > format.LaTeXFrac {
		return fmt.Errorf("%w: style %v", ErrInvalidConfig, c.Style)
	}
	for i, f := range c.RuleFiles {
		if f == "" {
			return fmt.Errorf("%w: rule file %d has no path", ErrInvalidConfig, i+1)
		}
	}
	return nil
}

// fileConfig is the YAML structure of a configuration file.
type fileConfig struct {
	RuleFiles []string `yaml:"rule_files"`
	Rules     []string `yaml:"rules"`
	Style     string   `yaml:"style"`
	Reduce    bool     `yaml:"reduce"`
	TraceFile string   `yaml:"trace_file"`

	TraceFailedOnly bool `yaml:"trace_failed_only"`
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// Relative rule file and trace paths are resolved against the directory
// of the configuration file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	if fc.Style != "" {
		if cfg.Style, err = format.ParseStyle(fc.Style); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	dir := filepath.Dir(path)
	for _, rf := range fc.RuleFiles {
		cfg.RuleFiles = append(cfg.RuleFiles, resolve(dir, rf))
	}
	cfg.Rules = fc.Rules
	cfg.Reduce = fc.Reduce
	if fc.TraceFile != "" {
		cfg.TraceFile = resolve(dir, fc.TraceFile)
	}
	cfg.TraceFailedOnly = fc.TraceFailedOnly

	return cfg, cfg.Validate()
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
