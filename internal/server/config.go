package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/turbine-invest/internal/config"
	"github.com/iwvelando/turbine-invest/internal/session"
	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/units"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address     string               `yaml:"address"`
	MaxBodySize string               `yaml:"maxBodySize"`
	Parameters  string               `yaml:"parameters"` // parameter file seeding the session
	Logging     config.LoggingConfig `yaml:"logging"`

	bodySizeBytes int64
	analysis      *config.Configuration
}

var sizeMultipliers = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxBodySize:   strconv.FormatInt(constants.DefaultMaxBodySizeBytes, 10),
		bodySizeBytes: constants.DefaultMaxBodySizeBytes,
	}
}

// LoadConfig reads the server configuration at path; a missing file yields
// DefaultConfig. Unknown keys are rejected. A relative parameters path is
// resolved against the directory of path, and the parameter file is loaded
// and validated here so that a broken file stops the server at startup.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if strings.TrimSpace(cfg.Address) == "" {
		cfg.Address = constants.DefaultServerAddress
	}
	if err := cfg.SetMaxBodySize(cfg.MaxBodySize); err != nil {
		return nil, err
	}
	if cfg.Parameters != "" && !filepath.IsAbs(cfg.Parameters) {
		cfg.Parameters = filepath.Join(filepath.Dir(path), cfg.Parameters)
	}
	if err := cfg.loadParameters(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetMaxBodySize parses value (e.g., "64K") and makes it the request body
// limit. An empty or zero size restores the default.
func (c *Config) SetMaxBodySize(value string) error {
	size, err := ParseSize(value)
	if err != nil {
		return err
	}
	if size == 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = size
	c.MaxBodySize = strconv.FormatInt(size, 10)
	return nil
}

func (c *Config) loadParameters() error {
	c.analysis = nil
	if c.Parameters == "" {
		return nil
	}
	conf, err := config.LoadConfiguration(c.Parameters)
	if err != nil {
		return fmt.Errorf("failed to load parameter file %s: %w", c.Parameters, err)
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid parameter file %s: %w", c.Parameters, err)
	}
	c.analysis = conf
	return nil
}

// ParameterWarnings returns the advisory warnings of the parameter file.
func (c *Config) ParameterWarnings() []string {
	if c.analysis == nil {
		return nil
	}
	return c.analysis.ValidateConfiguration()
}

// Session builds the session the server starts with: the one described by
// the parameter file, or the defaults when none is configured.
func (c *Config) Session() (*session.Session, error) {
	if c.analysis == nil {
		return session.Default(units.ExchangeRate{USDToCNY: constants.DefaultExchangeRate})
	}
	return c.analysis.ToSession()
}

// ParseSize converts a byte count with an optional binary suffix (e.g.,
// "256K", "10MB") into bytes. An empty value yields the default limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	split := strings.IndexFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	if split == -1 {
		split = len(trimmed)
	}
	if split == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(trimmed[:split], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	suffix := strings.TrimSpace(trimmed[split:])
	multiplier, ok := sizeMultipliers[suffix]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", suffix)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
