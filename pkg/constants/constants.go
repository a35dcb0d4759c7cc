// Package constants provides shared constants for the turbine-invest application.
package constants

// Projection constants
const (
	// OperatingHoursPerYear is the fixed annual running-hours assumption.
	OperatingHoursPerYear = 8000

	// ProjectionPeriods is the number of yearly periods in every projection.
	ProjectionPeriods = 12

	// KWhPerGWh converts generation in GWh to kWh for revenue.
	KWhPerGWh = 1_000_000

	// DefaultCombinedCycleUplift is the revenue multiplier applied in combined
	// cycle mode. It is an estimate, not a modelled recovery.
	DefaultCombinedCycleUplift = 1.10

	// DefaultExchangeRate is the default number of CNY per 1 USD.
	DefaultExchangeRate = 7.00
)

// Precision constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// MoneyPlaces is the number of decimals shown for monetary and power values.
	MoneyPlaces = 2

	// UnitPricePlaces is the number of decimals shown for prices per physical
	// unit (per Nm3, per kWh).
	UnitPricePlaces = 6
)

// Maintenance list defaults
const (
	// DefaultMaintenanceItemName is the name given to appended items.
	DefaultMaintenanceItemName = "new item"

	// DefaultCondition labels the operating condition when none is given.
	DefaultCondition = "base load"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// ReportFileName is the conventional name of the exported workbook.
	ReportFileName = "gas-turbine-investment-report.xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of the parameter file.
	EnvPrefix = "TURBINE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
