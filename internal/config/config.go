package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/exportdesk/advisor-cli/internal/resilience"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	TradeAPI   TradeAPIConfig   `yaml:"tradeapi" mapstructure:"tradeapi"`
	Compliance ComplianceConfig `yaml:"compliance" mapstructure:"compliance"`
	Datasets   DatasetsConfig   `yaml:"datasets" mapstructure:"datasets"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
}

// StoreConfig selects the cache's persistence backend.
type StoreConfig struct {
	// Driver is sqlite, file, or postgres.
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CacheConfig tunes the result cache.
type CacheConfig struct {
	TTLHours           int `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	SweepIntervalHours int `yaml:"sweep_interval_hours" mapstructure:"sweep_interval_hours"`
}

// TTL returns the entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// SweepInterval returns the background sweep period.
func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalHours) * time.Hour
}

// TradeAPIConfig holds upstream API credentials and resilience tuning.
type TradeAPIConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateRPS     float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	RateBurst   int     `yaml:"rate_burst" mapstructure:"rate_burst"`

	RetryMaxAttempts    int `yaml:"retry_max_attempts" mapstructure:"retry_max_attempts"`
	RetryInitialMS      int `yaml:"retry_initial_ms" mapstructure:"retry_initial_ms"`
	RetryMaxBackoffSecs int `yaml:"retry_max_backoff_secs" mapstructure:"retry_max_backoff_secs"`

	BreakerFailureThreshold int `yaml:"breaker_failure_threshold" mapstructure:"breaker_failure_threshold"`
	BreakerResetSecs        int `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// RetryConfig maps the tuning knobs onto the resilience layer.
func (c TradeAPIConfig) RetryConfig() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	if c.RetryMaxAttempts > 0 {
		cfg.MaxAttempts = c.RetryMaxAttempts
	}
	if c.RetryInitialMS > 0 {
		cfg.InitialBackoff = time.Duration(c.RetryInitialMS) * time.Millisecond
	}
	if c.RetryMaxBackoffSecs > 0 {
		cfg.MaxBackoff = time.Duration(c.RetryMaxBackoffSecs) * time.Second
	}
	return cfg
}

// BreakerConfig maps the tuning knobs onto the resilience layer.
func (c TradeAPIConfig) BreakerConfig() resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig()
	if c.BreakerFailureThreshold > 0 {
		cfg.FailureThreshold = c.BreakerFailureThreshold
	}
	if c.BreakerResetSecs > 0 {
		cfg.ResetTimeout = time.Duration(c.BreakerResetSecs) * time.Second
	}
	return cfg
}

// ComplianceConfig points at a policy override file; empty means the
// built-in default policy.
type ComplianceConfig struct {
	PolicyPath string `yaml:"policy_path" mapstructure:"policy_path"`
}

// DatasetsConfig configures bundled-catalog snapshot sync.
type DatasetsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Sources maps snapshot names (partners, cases, markets) to HTTP or
	// FTP URLs.
	Sources map[string]string `yaml:"sources" mapstructure:"sources"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AnthropicConfig holds Claude API settings for the analyst brief. An
// empty key disables the feature.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// NotionConfig holds Notion credentials for report publishing. An empty
// token disables the feature.
type NotionConfig struct {
	Token    string `yaml:"token" mapstructure:"token"`
	ReportDB string `yaml:"report_db" mapstructure:"report_db"`
}

// SalesforceConfig holds Salesforce JWT auth settings for lead push. An
// empty client id disables the feature.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// Validate checks the fields the given mode depends on. Modes: serve,
// score (recommend/simulate/match), sync, brief, publish, leads.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
		if c.Cache.TTLHours <= 0 {
			problems = append(problems, "cache.ttl_hours must be > 0")
		}
		problems = append(problems, c.storeProblems()...)
	case "score":
		problems = append(problems, c.storeProblems()...)
	case "sync":
		if c.Datasets.Dir == "" {
			problems = append(problems, "datasets.dir is required")
		}
		if len(c.Datasets.Sources) == 0 {
			problems = append(problems, "datasets.sources must name at least one snapshot url")
		}
	case "brief":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
	case "publish":
		if c.Notion.Token == "" {
			problems = append(problems, "notion.token is required")
		}
		if c.Notion.ReportDB == "" {
			problems = append(problems, "notion.report_db is required")
		}
	case "leads":
		if c.Salesforce.ClientID == "" {
			problems = append(problems, "salesforce.client_id is required")
		}
		if c.Salesforce.Username == "" {
			problems = append(problems, "salesforce.username is required")
		}
		if c.Salesforce.KeyPath == "" {
			problems = append(problems, "salesforce.key_path is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) storeProblems() []string {
	switch c.Store.Driver {
	case "sqlite", "file":
		if c.Store.Path == "" {
			return []string{"store.path is required for driver " + c.Store.Driver}
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required for driver postgres"}
		}
	default:
		return []string{fmt.Sprintf("store.driver must be sqlite, file, or postgres (got %q)", c.Store.Driver)}
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "advisor_cache.db")
	v.SetDefault("cache.ttl_hours", 336)
	v.SetDefault("cache.sweep_interval_hours", 6)
	v.SetDefault("tradeapi.base_url", "https://api.exportdesk.io")
	v.SetDefault("tradeapi.timeout_secs", 10)
	v.SetDefault("tradeapi.rate_rps", 10)
	v.SetDefault("tradeapi.rate_burst", 20)
	v.SetDefault("tradeapi.retry_max_attempts", 3)
	v.SetDefault("tradeapi.retry_initial_ms", 500)
	v.SetDefault("tradeapi.retry_max_backoff_secs", 30)
	v.SetDefault("tradeapi.breaker_failure_threshold", 5)
	v.SetDefault("tradeapi.breaker_reset_secs", 30)
	v.SetDefault("datasets.dir", "datasets")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")

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
