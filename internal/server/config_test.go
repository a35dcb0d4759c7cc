package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// parameterFile copies the config package's sample parameters into dir,
// applying replacements of the form old, new.
func parameterFile(t *testing.T, dir string, replacements ...string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "config", "testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("failed to read sample parameters: %v", err)
	}
	contents := strings.NewReplacer(replacements...).Replace(string(data))
	writeFile(t, dir, "config.yaml", contents)
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body limit, got %d", cfg.BodySizeBytes())
	}
	if cfg.Parameters != "" || cfg.ParameterWarnings() != nil {
		t.Fatalf("expected no parameter file by default, got %q", cfg.Parameters)
	}

	s, err := cfg.Session()
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if s.ExchangeRate().USDToCNY != constants.DefaultExchangeRate || s.Maintenance().Len() != 2 {
		t.Fatalf("expected the default session, got rate %v with %d items",
			s.ExchangeRate().USDToCNY, s.Maintenance().Len())
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body limit, got %d", cfg.BodySizeBytes())
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, t.TempDir(), "server-config.yaml", ""))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	parameterFile(t, dir)
	path := writeFile(t, dir, "server-config.yaml", `address: 127.0.0.1:9000
maxBodySize: 64K
parameters: config.yaml
logging:
  level: debug
  format: console
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.BodySizeBytes() != 64*1024 {
		t.Fatalf("expected body limit override, got %d", cfg.BodySizeBytes())
	}
	if cfg.Parameters != filepath.Join(dir, "config.yaml") {
		t.Fatalf("expected parameter path relative to the server config, got %s", cfg.Parameters)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging block %+v", cfg.Logging)
	}

	s, err := cfg.Session()
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	p := s.Parameters()
	if p.UnitCount != 2 || p.UnitPrice.Unit != units.TenThousandCNY {
		t.Fatalf("session not seeded from the parameter file: %+v", p)
	}
}

func TestLoadConfigRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		replace   []string
		expectErr string
	}{
		{"Unknown unit", []string{"unit: 万元", "unit: EUR"}, "failed to load parameter file"},
		{"Zero heating value", []string{"fuelLowerHeatingValue: 35000", "fuelLowerHeatingValue: 0"}, "invalid parameter file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			parameterFile(t, dir, tt.replace...)
			path := writeFile(t, dir, "server-config.yaml", "parameters: config.yaml\n")

			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.expectErr) {
				t.Fatalf("expected error containing %q, got %v", tt.expectErr, err)
			}
		})
	}
}

func TestLoadConfigMissingParameterFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "server-config.yaml", "parameters: absent.yaml\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for a missing parameter file")
	}
}

func TestLoadConfigParameterWarnings(t *testing.T) {
	dir := t.TempDir()
	parameterFile(t, dir, "periodHours: 24000", "periodHours: 4000")
	path := writeFile(t, dir, "server-config.yaml", "parameters: config.yaml\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	warnings := cfg.ParameterWarnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "overhaul period") {
		t.Fatalf("expected one overhaul warning, got %v", warnings)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "server-config.yaml", "maxUploadSize: 1M\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for an unknown key")
	}
}

func TestLoadConfigInvalidSize(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "maxBodySize: invalid")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid size but got nil")
	}
}

func TestSetMaxBodySize(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.SetMaxBodySize("2M"); err != nil {
		t.Fatalf("SetMaxBodySize() error = %v", err)
	}
	if cfg.BodySizeBytes() != 2*1024*1024 || cfg.MaxBodySize != "2097152" {
		t.Fatalf("expected 2M, got %d (%s)", cfg.BodySizeBytes(), cfg.MaxBodySize)
	}

	if err := cfg.SetMaxBodySize("0"); err != nil {
		t.Fatalf("SetMaxBodySize() error = %v", err)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("zero must restore the default, got %d", cfg.BodySizeBytes())
	}

	if err := cfg.SetMaxBodySize("lots"); err == nil {
		t.Fatal("expected error for an invalid size")
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("a rejected size must not change the limit, got %d", cfg.BodySizeBytes())
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":            constants.DefaultMaxBodySizeBytes,
		"1024":        1024,
		"512b":        512,
		"256K":        256 * 1024,
		"1m":          1024 * 1024,
		"3MB":         3 * 1024 * 1024,
		"12 KB":       12 * 1024,
		"  4096   ":   4096,
		"8589934591G": 8589934591 * 1024 * 1024 * 1024,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, bad := range []string{"1TB", "abc", "K", "-5", "1.5M"} {
		if _, err := ParseSize(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseSizeOverflow(t *testing.T) {
	// 2^64 + 2^30 bytes wraps to a small positive int64 when multiplied.
	for _, input := range []string{"17179869185G", "8589934592G", "9007199254740992K", "99999999999999999999"} {
		if got, err := ParseSize(input); err == nil {
			t.Fatalf("ParseSize(%q) = %d, expected an overflow error", input, got)
		}
	}
}
