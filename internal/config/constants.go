package config

import "time"

// Application constants
const (
	AppName    = "HaulPulse"
	AppVersion = "1.0.0"
	AppTitle   = "Dashboard de Rendimiento de Camiones"

	// EnvPrefix namespaces every environment variable, e.g. HAUL_SERVER_PORT.
	EnvPrefix = "HAUL"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	DefaultHTTPTimeout = 30 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir     = "data"
	DefaultReportsDir  = "data/reports"
	DefaultLogsDir     = "logs"
	DefaultLogFile     = "logs/app.log"
	DefaultDatasetPath = "./data/timeseries_data_cleaned.csv"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Haulage scoring
	DefaultBaselineCapacity  = 120.0
	DefaultWarningThreshold  = 0.2
	DefaultCriticalThreshold = 0.4
)

// DefaultLoaderLabels are the loading stations broken out per truck-day.
var DefaultLoaderLabels = []string{"PH06", "PH48", "PH55", "PH58"}

// DefaultDateLayouts are tried in order when parsing the date column.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// API paths
const (
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
	ChartsEndpoint  = "/charts"
)
