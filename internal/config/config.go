package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration. Built-in defaults
// load first, then a YAML file overlays them, then environment variables
// (prefix BANKPIPE) override both.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PipelineConfig contains cleaning, correction and validation policy.
type PipelineConfig struct {
	// StrictTypes rejects rows with an unrecognized transaction type
	// instead of defaulting them to Other.
	StrictTypes bool `yaml:"strict_types" envconfig:"STRICT_TYPES"`
	// StrictIdentity additionally requires a source transaction id.
	StrictIdentity bool `yaml:"strict_identity" envconfig:"STRICT_IDENTITY"`
	// DateOrder picks the slash-date priority for ambiguous inputs.
	DateOrder string `yaml:"date_order" envconfig:"DATE_ORDER" validate:"oneof=MDY DMY"`
	// Epsilon is the absolute balance-chain tolerance.
	Epsilon float64 `yaml:"epsilon" envconfig:"EPSILON" validate:"gt=0"`
	// DestructiveReconcile rewrites balance chains during correction.
	DestructiveReconcile bool `yaml:"destructive_reconcile" envconfig:"DESTRUCTIVE_RECONCILE"`
	// Workers caps cleaning parallelism. Zero means GOMAXPROCS.
	Workers int `yaml:"workers" envconfig:"WORKERS" validate:"gte=0"`
}

// AnalyticsConfig contains analytics engine parameters.
type AnalyticsConfig struct {
	DepositFeeRate    float64 `yaml:"deposit_fee_rate" envconfig:"DEPOSIT_FEE_RATE" validate:"gte=0"`
	WithdrawalFeeRate float64 `yaml:"withdrawal_fee_rate" envconfig:"WITHDRAWAL_FEE_RATE" validate:"gte=0"`
	TransferFeeRate   float64 `yaml:"transfer_fee_rate" envconfig:"TRANSFER_FEE_RATE" validate:"gte=0"`
	MarginBps         float64 `yaml:"margin_bps" envconfig:"MARGIN_BPS" validate:"gte=0"`
	LTVModel          string  `yaml:"ltv_model" envconfig:"LTV_MODEL" validate:"oneof=fees projection"`
	ZScoreThreshold   float64 `yaml:"z_score_threshold" envconfig:"Z_SCORE_THRESHOLD" validate:"gt=0"`
	HighValueQuantile float64 `yaml:"high_value_quantile" envconfig:"HIGH_VALUE_QUANTILE" validate:"gt=0,lte=1"`
	ActiveQuantile    float64 `yaml:"active_quantile" envconfig:"ACTIVE_QUANTILE" validate:"gt=0,lte=1"`
}

// Load builds the configuration: built-in defaults, then the YAML file
// at path (when non-empty), then environment overrides, then validation.
// A missing file at an explicitly given path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Only variables actually set in the environment override; the struct
	// carries no envconfig defaults so unset variables leave the merged
	// values alone.
	if err := envconfig.Process("BANKPIPE", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Output: "stdout", FilePath: "logs/app.log"},
		Pipeline: PipelineConfig{
			DateOrder: "MDY",
			Epsilon:   0.01,
		},
		Analytics: AnalyticsConfig{
			DepositFeeRate:    0.001,
			WithdrawalFeeRate: 0.001,
			TransferFeeRate:   0.0005,
			MarginBps:         10,
			LTVModel:          "fees",
			ZScoreThreshold:   3,
			HighValueQuantile: 0.20,
			ActiveQuantile:    0.30,
		},
	}
}
