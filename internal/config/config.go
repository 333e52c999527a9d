package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dashviz/internal/errors"
)

// Dashboard names accepted in DASHBOARDS
const (
	DashboardWildfire  = "wildfire"
	DashboardAutoSales = "autosales"
)

// Default dataset locations; both are fetched once at startup.
const (
	DefaultWildfireData  = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/IBMDeveloperSkillsNetwork-DV0101EN-SkillsNetwork/Data%20Files/Historical_Wildfires.csv"
	DefaultAutoSalesData = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/IBMDeveloperSkillsNetwork-DV0101EN-SkillsNetwork/Data%20Files/historical_automobile_sales.csv"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Charts  ChartConfig
	Metrics MetricsConfig
	Log     LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig holds dataset sources and which dashboards to serve
type DataConfig struct {
	WildfireSource  string
	AutoSalesSource string
	FetchTimeout    time.Duration
	Dashboards      []string
}

// ChartConfig holds rendered chart dimensions in pixels
type ChartConfig struct {
	Width  int
	Height int
}

// MetricsConfig toggles the /metrics endpoint
type MetricsConfig struct {
	Enabled bool
}

// LogConfig holds the LOG_LEVEL name
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it.
// A set but malformed number, duration or boolean is an error rather than
// a silent fallback to the default.
func Load() (*Config, error) {
	env := &envReader{}
	config := &Config{
		Server:  *loadServerConfig(env),
		Data:    *loadDataConfig(env),
		Charts:  *loadChartConfig(env),
		Metrics: MetricsConfig{Enabled: env.boolOrDefault("METRICS_ENABLED", true)},
		Log:     LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if len(env.malformed) > 0 {
		return nil, errors.ConfigInvalid("malformed value for " + strings.Join(env.malformed, ", "))
	}
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Enabled reports whether the named dashboard should be served
func (c *Config) Enabled(dashboard string) bool {
	for _, d := range c.Data.Dashboards {
		if d == dashboard {
			return true
		}
	}
	return false
}

// Only restricts the config to a single dashboard; used by the
// single-dashboard entry points.
func (c *Config) Only(dashboard string) *Config {
	cp := *c
	cp.Data.Dashboards = []string{dashboard}
	return &cp
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

func loadServerConfig(env *envReader) *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8050"),
		GinMode:         getEnvOrDefault("GIN_MODE", gin.DebugMode),
		ShutdownTimeout: env.durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDataConfig(env *envReader) *DataConfig {
	return &DataConfig{
		WildfireSource:  getEnvOrDefault("WILDFIRE_DATA", DefaultWildfireData),
		AutoSalesSource: getEnvOrDefault("AUTOSALES_DATA", DefaultAutoSalesData),
		FetchTimeout:    env.durationOrDefault("FETCH_TIMEOUT", 30*time.Second),
		Dashboards:      splitList(getEnvOrDefault("DASHBOARDS", DashboardWildfire+","+DashboardAutoSales)),
	}
}

func loadChartConfig(env *envReader) *ChartConfig {
	return &ChartConfig{
		Width:  env.intOrDefault("CHART_WIDTH", 640),
		Height: env.intOrDefault("CHART_HEIGHT", 400),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test, got " + strconv.Quote(config.Server.GinMode))
	}
	if len(config.Data.Dashboards) == 0 {
		return errors.ConfigInvalid("DASHBOARDS must name at least one dashboard")
	}
	for _, d := range config.Data.Dashboards {
		if d != DashboardWildfire && d != DashboardAutoSales {
			return errors.ConfigInvalid("unknown dashboard " + strconv.Quote(d))
		}
	}
	if config.Enabled(DashboardWildfire) && config.Data.WildfireSource == "" {
		return errors.ConfigInvalid("WILDFIRE_DATA is required")
	}
	if config.Enabled(DashboardAutoSales) && config.Data.AutoSalesSource == "" {
		return errors.ConfigInvalid("AUTOSALES_DATA is required")
	}
	if config.Server.ShutdownTimeout <= 0 {
		return errors.ConfigInvalid("SHUTDOWN_TIMEOUT must be positive")
	}
	if config.Data.FetchTimeout <= 0 {
		return errors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}
	if config.Charts.Width < 100 || config.Charts.Height < 100 {
		return errors.ConfigInvalid("CHART_WIDTH and CHART_HEIGHT must be at least 100")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed variables and remembers the keys whose value
// could not be parsed
type envReader struct {
	malformed []string
}

func (e *envReader) intOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.Atoi(value)
		if err != nil {
			e.malformed = append(e.malformed, key)
			return defaultValue
		}
		return intValue
	}
	return defaultValue
}

func (e *envReader) boolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			e.malformed = append(e.malformed, key)
			return defaultValue
		}
		return boolValue
	}
	return defaultValue
}

func (e *envReader) durationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			e.malformed = append(e.malformed, key)
			return defaultValue
		}
		return duration
	}
	return defaultValue
}
