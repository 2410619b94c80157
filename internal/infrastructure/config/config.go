package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Input  InputConfig
	Output OutputConfig
	Tiers  TiersConfig
	Range  RangeConfig
	Log    LogConfig
}

// InputConfig names the tabular sources for one run
type InputConfig struct {
	CustomersFile string
	OrdersFile    string
}

// OutputConfig controls where result tables go and which columns they keep
type OutputConfig struct {
	Dir                    string
	CustomerColumns        []string // empty = all columns
	OrderColumns           []string // empty = all columns
	FilterChangedCustomers bool     // apply CustomerColumns to the changed-customers table
}

// TiersConfig declares the tier schedule, lowest tier first.
// Names and Thresholds must align 1:1 and Thresholds must ascend.
type TiersConfig struct {
	Names      []string
	Thresholds []string
}

// RangeConfig is the inclusive calendar date window, YYYY-MM-DD
type RangeConfig struct {
	Start string
	End   string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with TIERING_ prefix (e.g., TIERING_RANGE_START)
// 2. config.toml
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("TIERING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Input: InputConfig{
			CustomersFile: v.GetString("input.customers_file"),
			OrdersFile:    v.GetString("input.orders_file"),
		},
		Output: OutputConfig{
			Dir:                    v.GetString("output.dir"),
			CustomerColumns:        v.GetStringSlice("output.customer_columns"),
			OrderColumns:           v.GetStringSlice("output.order_columns"),
			FilterChangedCustomers: v.GetBool("output.filter_changed_customers"),
		},
		Tiers: TiersConfig{
			Names:      v.GetStringSlice("tiers.names"),
			Thresholds: v.GetStringSlice("tiers.thresholds"),
		},
		Range: RangeConfig{
			Start: v.GetString("range.start"),
			End:   v.GetString("range.end"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.Input.CustomersFile == "" {
		cfg.Input.CustomersFile = "customers.csv"
	}
	if cfg.Input.OrdersFile == "" {
		cfg.Input.OrdersFile = "orders.csv"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "results"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// validate performs validation on the configuration. Tier and range defects
// here are fatal: the run aborts before any output is produced.
func (c *Config) validate() error {
	if len(c.Tiers.Names) == 0 {
		return fmt.Errorf("tiers.names must declare at least one tier")
	}
	if len(c.Tiers.Names) != len(c.Tiers.Thresholds) {
		return fmt.Errorf("tiers.names and tiers.thresholds must align: %d names, %d thresholds",
			len(c.Tiers.Names), len(c.Tiers.Thresholds))
	}
	for i, raw := range c.Tiers.Thresholds {
		if _, err := decimal.NewFromString(raw); err != nil {
			return fmt.Errorf("tiers.thresholds[%d] %q is not a number", i, raw)
		}
	}
	if c.Range.Start == "" || c.Range.End == "" {
		return fmt.Errorf("range.start and range.end are required (YYYY-MM-DD)")
	}
	return nil
}

// ThresholdDecimals returns the configured thresholds parsed as decimals,
// in declaration order. Call only after Load has validated them.
func (c *Config) ThresholdDecimals() []decimal.Decimal {
	out := make([]decimal.Decimal, len(c.Tiers.Thresholds))
	for i, raw := range c.Tiers.Thresholds {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			// validate() already rejected unparseable thresholds
			d = decimal.Zero
		}
		out[i] = d
	}
	return out
}
