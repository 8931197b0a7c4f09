// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	Chains     ChainsConfig     `mapstructure:"chains"`
	Signing    SigningConfig    `mapstructure:"signing"`
	Gas        GasConfig        `mapstructure:"gas"`
	Server     ServerConfig     `mapstructure:"server"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// AggregatorConfig holds aggregator API access configuration shared by the
// classic swap, intent, and cross-chain clients.
type AggregatorConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RatePerSecond  float64       `mapstructure:"rate_per_second"`
	RateBurst      int           `mapstructure:"rate_burst"`
	WebSocketURL   string        `mapstructure:"websocket_url"`
}

// ChainsConfig holds per-chain node endpoints keyed by chain id.
type ChainsConfig struct {
	DefaultChainID uint64            `mapstructure:"default_chain_id"`
	RPCURLs        map[string]string `mapstructure:"rpc_urls"`
}

// RPCURL returns the configured node URL for a chain, or "" when absent.
func (c *ChainsConfig) RPCURL(chainID uint64) string {
	return c.RPCURLs[fmt.Sprintf("%d", chainID)]
}

// SigningConfig holds wallet signing configuration.
type SigningConfig struct {
	WalletConnectProjectID string        `mapstructure:"walletconnect_project_id"`
	PrivateKey             string        `mapstructure:"private_key"`
	WalletAddress          string        `mapstructure:"wallet_address"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout"`
}

// WalletAddressHex returns the wallet address as common.Address.
func (c *SigningConfig) WalletAddressHex() common.Address {
	return common.HexToAddress(c.WalletAddress)
}

// GasConfig holds gas estimation configuration for route costing.
type GasConfig struct {
	EstimateMultiplier float64 `mapstructure:"estimate_multiplier"`
	SwapGasLimit       uint64  `mapstructure:"swap_gas_limit"`
}

// EstimateMultiplierDecimal returns the multiplier as decimal.Decimal.
func (c *GasConfig) EstimateMultiplierDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.EstimateMultiplier)
}

// ServerConfig holds the HTTP gateway configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SWAP")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SWAP_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SWAP_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SWAP_LOG_LEVEL", "LOG_LEVEL")

	// Aggregator
	v.BindEnv("aggregator.base_url", "SWAP_AGGREGATOR_BASE_URL", "AGGREGATOR_BASE_URL")
	v.BindEnv("aggregator.api_key", "SWAP_AGGREGATOR_API_KEY", "AGGREGATOR_API_KEY")
	v.BindEnv("aggregator.websocket_url", "SWAP_AGGREGATOR_WS_URL", "AGGREGATOR_WS_URL")

	// Chains
	v.BindEnv("chains.default_chain_id", "SWAP_DEFAULT_CHAIN_ID", "DEFAULT_CHAIN_ID")

	// Signing
	v.BindEnv("signing.walletconnect_project_id", "SWAP_WALLETCONNECT_PROJECT_ID", "WALLETCONNECT_PROJECT_ID")
	v.BindEnv("signing.private_key", "SWAP_SIGNER_PRIVATE_KEY", "SIGNER_PRIVATE_KEY")
	v.BindEnv("signing.wallet_address", "SWAP_WALLET_ADDRESS", "WALLET_ADDRESS")

	// Server
	v.BindEnv("server.port", "SWAP_SERVER_PORT", "PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SWAP_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SWAP_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SWAP_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "swaprouter")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Aggregator defaults
	v.SetDefault("aggregator.base_url", "https://api.1inch.dev")
	v.SetDefault("aggregator.request_timeout", "10s")
	v.SetDefault("aggregator.rate_per_second", 1.0)
	v.SetDefault("aggregator.rate_burst", 1)

	// Chain defaults
	v.SetDefault("chains.default_chain_id", 1)

	// Signing defaults
	v.SetDefault("signing.request_timeout", "120s")

	// Gas defaults
	v.SetDefault("gas.estimate_multiplier", 1.25)
	v.SetDefault("gas.swap_gas_limit", 250000)

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "15s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "swaprouter")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Aggregator.BaseURL == "" {
		return fmt.Errorf("aggregator.base_url is required")
	}
	if c.Aggregator.APIKey == "" {
		return fmt.Errorf("aggregator.api_key is required")
	}
	if c.Gas.EstimateMultiplier <= 0 {
		return fmt.Errorf("gas.estimate_multiplier must be positive")
	}
	if c.Signing.WalletAddress != "" && !common.IsHexAddress(c.Signing.WalletAddress) {
		return fmt.Errorf("invalid signing.wallet_address: %s", c.Signing.WalletAddress)
	}
	return nil
}
