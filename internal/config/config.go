package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	SODA   SODAConfig   `yaml:"soda" mapstructure:"soda"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SODAConfig holds open data portal settings.
type SODAConfig struct {
	BaseURL   string         `yaml:"base_url" mapstructure:"base_url"`
	AppToken  string         `yaml:"app_token" mapstructure:"app_token"`
	RateLimit float64        `yaml:"rate_limit" mapstructure:"rate_limit"`
	Datasets  DatasetsConfig `yaml:"datasets" mapstructure:"datasets"`
}

// DatasetsConfig names the portal resources the analysis queries.
type DatasetsConfig struct {
	Crashes  string `yaml:"crashes" mapstructure:"crashes"`
	Persons  string `yaml:"persons" mapstructure:"persons"`
	Vehicles string `yaml:"vehicles" mapstructure:"vehicles"`
}

// ReportConfig selects which optional sheets reports carry by default.
type ReportConfig struct {
	IncludeInputCMFs    bool `yaml:"include_input_cmfs" mapstructure:"include_input_cmfs"`
	IncludeCrashData    bool `yaml:"include_crash_data" mapstructure:"include_crash_data"`
	IncludeCrashSummary bool `yaml:"include_crash_summary" mapstructure:"include_crash_summary"`
}

// ServerConfig configures the analysis form server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CMF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("soda.base_url", "https://opendata.maryland.gov/resource")
	v.SetDefault("soda.rate_limit", 5)
	v.SetDefault("soda.datasets.crashes", "65du-s3qu.json")
	v.SetDefault("soda.datasets.persons", "py4c-dicf.json")
	v.SetDefault("soda.datasets.vehicles", "mhft-5t5y.json")
	v.SetDefault("report.include_input_cmfs", true)
	v.SetDefault("report.include_crash_data", true)
	v.SetDefault("report.include_crash_summary", true)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings the given run mode depends on. The rules
// command reads only the local workbook, so it skips the portal checks.
func (c *Config) Validate(mode string) error {
	switch mode {
	case "rules":
		return nil
	case "analyze", "batch", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.SODA.BaseURL == "" {
		return eris.New("config: soda.base_url is required")
	}
	if c.SODA.RateLimit < 0 {
		return eris.New("config: soda.rate_limit must be >= 0")
	}
	if mode == "serve" && c.Server.Port <= 0 {
		return eris.New("config: server.port must be > 0")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
