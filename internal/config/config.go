// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting and validating the parameter
// file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/turbine-invest/internal/session"
	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/maintenance"
	"github.com/iwvelando/turbine-invest/pkg/units"
	"github.com/iwvelando/turbine-invest/pkg/validation"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for turbine-invest.
type Configuration struct {
	Analysis Analysis      `yaml:"analysis"`
	Logging  LoggingConfig `yaml:"logging,omitempty"`
	Output   OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string `yaml:"format,omitempty"`   // pretty, csv
	Workbook string `yaml:"workbook,omitempty"` // optional xlsx path
	Chart    string `yaml:"chart,omitempty"`    // optional png path
}

// Analysis is the parameter block of the file. The session parameters are
// inlined next to the exchange rate and the maintenance items.
type Analysis struct {
	session.Parameters `yaml:",inline" mapstructure:",squash"`
	ExchangeRate       float64           `yaml:"exchangeRate"` // CNY per USD
	Maintenance        []MaintenanceItem `yaml:"maintenance"`
}

// MaintenanceItem is one maintenance cost line of the file.
type MaintenanceItem struct {
	Name string     `yaml:"name"`
	Cost float64    `yaml:"cost"`
	Unit units.Unit `yaml:"unit"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values may be overridden with TURBINE_* environment
// variables, e.g. TURBINE_ANALYSIS_EXCHANGERATE.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.ApplyDefaults(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// ApplyDefaults fills in omitted values and resolves unit aliases.
func (c *Configuration) ApplyDefaults() error {
	a := &c.Analysis
	a.Normalize()

	if a.ExchangeRate == 0 {
		a.ExchangeRate = constants.DefaultExchangeRate
	}
	if a.UnitCount == 0 {
		a.UnitCount = 1
	}
	if a.Power.Unit == "" {
		a.Power.Unit = units.KW
	}
	if a.HeatRate.Unit == "" {
		a.HeatRate.Unit = units.KJPerKWh
	}
	if len(a.Labor.Roles) == 0 {
		a.Labor.Roles = session.DefaultLaborRoles()
	}
	if a.Overhaul.PeriodHours == 0 {
		a.Overhaul.PeriodHours = 1
	}
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}

	var err error
	for _, u := range []*units.Unit{
		&a.DisplayUnit,
		&a.UnitPrice.Unit,
		&a.GasPrice.Unit,
		&a.ElectricityPrice.Unit,
		&a.Labor.Unit,
		&a.Overhaul.Cost.Unit,
		&a.ABInspection.Unit,
	} {
		err = multierr.Append(err, resolveUnit(u))
	}
	for i := range a.Maintenance {
		err = multierr.Append(err, resolveUnit(&a.Maintenance[i].Unit))
	}
	return err
}

// resolveUnit replaces an alias with its unit key. An empty unit becomes
// CNY.
func resolveUnit(u *units.Unit) error {
	if *u == "" {
		*u = units.Yuan
		return nil
	}
	resolved, err := units.ParseUnit(string(*u))
	if err != nil {
		return err
	}
	*u = resolved
	return nil
}

// Validate returns every hard error in the configuration.
func (c *Configuration) Validate() error {
	err := c.Analysis.Parameters.Validate()
	if c.Analysis.ExchangeRate < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %v", units.ErrInvalidRate, c.Analysis.ExchangeRate))
	}
	if len(c.Analysis.Maintenance) == 0 {
		err = multierr.Append(err, fmt.Errorf("at least one maintenance item is required"))
	}
	for _, item := range c.Analysis.Maintenance {
		err = multierr.Append(err, validation.Amount(
			fmt.Sprintf("maintenance item %q", item.Name),
			units.MonetaryAmount{Amount: item.Cost, Unit: item.Unit},
		))
	}
	if formatErr := validation.ValidateOutputFormat(c.Output.Format); formatErr != nil {
		err = multierr.Append(err, formatErr)
	}
	return err
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	return c.Analysis.Warnings(c.MaintenanceItems())
}

// Marshal renders the configuration back to YAML.
func (c *Configuration) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return buf.Bytes(), nil
}

// MaintenanceItems returns the configured items as list items.
func (c *Configuration) MaintenanceItems() []maintenance.Item {
	items := make([]maintenance.Item, 0, len(c.Analysis.Maintenance))
	for _, item := range c.Analysis.Maintenance {
		items = append(items, maintenance.Item{
			Name: item.Name,
			Cost: units.MonetaryAmount{Amount: item.Cost, Unit: item.Unit},
		})
	}
	return items
}
