// Package constants provides shared constants for the carbon-lens application.
package constants

// Annualization constants
const (
	// DaysPerYear annualizes daily habits (travel, meals)
	DaysPerYear = 365

	// MonthsPerYear annualizes monthly habits (electricity)
	MonthsPerYear = 12

	// WeeksPerYear annualizes weekly habits (waste)
	WeeksPerYear = 52

	// KgPerTonne converts kg CO2 to tonnes CO2
	KgPerTonne = 1000.0

	// DecimalPrecision is the precision for footprint rounding (2 decimal places)
	DecimalPrecision = 100

	// TonnesTolerance is the tolerance for footprint comparisons (0.01 t)
	TonnesTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Region constants
const (
	// DefaultRegion is the region assumed when none is provided
	DefaultRegion = "India"

	// IndiaPerCapitaTonnes is India's per-capita CO2 emissions (2021), used
	// as the comparison benchmark in reports and the web UI
	IndiaPerCapitaTonnes = 1.9
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024

	// SessionCookieName carries the session identifier for the result cache
	SessionCookieName = "carbon_lens_session"
)
