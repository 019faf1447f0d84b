package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"macromanager/internal/ratelimit"
)

// Defaults shared with the FDC adapter when a field is left blank.
const (
	DefaultBaseURL  = "https://api.nal.usda.gov/fdc/v1"
	DefaultDataType = "Survey (FNDDS)"
	DefaultTimeout  = 15 * time.Second
)

const (
	defaultHTTPAddr = ":8080"

	configPathEnv = "MACROMANAGER_CONFIG"
	dotenvPathEnv = "MACROMANAGER_DOTENV"
	apiKeyEnv     = "FDC_API_KEY"
	baseURLEnv    = "FDC_BASE_URL"
	logLevelEnv   = "MACROMANAGER_LOG_LEVEL"
	logFormatEnv  = "MACROMANAGER_LOG_FORMAT"
	httpAddrEnv   = "MACROMANAGER_HTTP_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	FDC     FDCConfig     `yaml:"fdc"`
	Logging LoggingConfig `yaml:"logging"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// FDCConfig describes how to reach FoodData Central.
type FDCConfig struct {
	BaseURL          string                `yaml:"baseUrl"`
	APIKey           string                `yaml:"apiKey"`
	DataType         string                `yaml:"dataType"`
	Timeout          Duration              `yaml:"timeout"`
	RateLimitHeaders RateLimitHeaderConfig `yaml:"rateLimitHeaders"`
}

// RateLimitHeaderConfig names the response headers carrying the quota.
type RateLimitHeaderConfig struct {
	Limit     string `yaml:"limit"`
	Remaining string `yaml:"remaining"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig is used by the API binary only.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Duration accepts Go duration strings ("15s") in YAML.
type Duration time.Duration

// UnmarshalYAML parses a scalar duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads YAML configuration (if present), a .env file (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := Parse(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	loadDotenv()
	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, err
	}
	return fileCfg, nil
}

// loadDotenv never overrides variables already present in the environment.
func loadDotenv() {
	path := os.Getenv(dotenvPathEnv)
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("config: cannot load %s: %v", path, err)
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.FDC.APIKey = v
	}

	if v := os.Getenv(baseURLEnv); v != "" {
		c.FDC.BaseURL = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.FDC.BaseURL != "" {
		base.FDC.BaseURL = strings.TrimRight(override.FDC.BaseURL, "/")
	}
	if override.FDC.APIKey != "" {
		base.FDC.APIKey = override.FDC.APIKey
	}
	if override.FDC.DataType != "" {
		base.FDC.DataType = override.FDC.DataType
	}
	if override.FDC.Timeout > 0 {
		base.FDC.Timeout = override.FDC.Timeout
	}
	if override.FDC.RateLimitHeaders.Limit != "" {
		base.FDC.RateLimitHeaders.Limit = override.FDC.RateLimitHeaders.Limit
	}
	if override.FDC.RateLimitHeaders.Remaining != "" {
		base.FDC.RateLimitHeaders.Remaining = override.FDC.RateLimitHeaders.Remaining
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}

	return base
}

func defaultConfig() Config {
	return Config{
		FDC: FDCConfig{
			BaseURL:  DefaultBaseURL,
			DataType: DefaultDataType,
			Timeout:  Duration(DefaultTimeout),
			RateLimitHeaders: RateLimitHeaderConfig{
				Limit:     ratelimit.DefaultLimitHeader,
				Remaining: ratelimit.DefaultRemainingHeader,
			},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		HTTP:    HTTPConfig{Addr: defaultHTTPAddr},
	}
}
