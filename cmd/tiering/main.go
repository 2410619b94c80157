package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/erp/tiering/internal/application/reconcile"
	"github.com/erp/tiering/internal/domain/tiering"
	"github.com/erp/tiering/internal/infrastructure/config"
	"github.com/erp/tiering/internal/infrastructure/logger"
	"github.com/erp/tiering/internal/infrastructure/tabular"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath string
		logLevel   string
		outDir     string
	)

	flag.StringVar(&configPath, "config", "", "Path to config file (default: ./config.toml)")
	flag.StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flag.StringVar(&outDir, "out", "", "Output directory override")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	schedule, err := tiering.NewSchedule(cfg.Tiers.Names, cfg.ThresholdDecimals())
	if err != nil {
		log.Fatal("Invalid tier schedule", zap.Error(err))
	}
	window, err := tiering.NewDateRange(cfg.Range.Start, cfg.Range.End)
	if err != nil {
		log.Fatal("Invalid date range", zap.Error(err))
	}

	customers, err := readCustomers(cfg.Input.CustomersFile)
	if err != nil {
		log.Fatal("Failed to read customers dataset", zap.Error(err))
	}
	orders, err := readOrders(cfg.Input.OrdersFile)
	if err != nil {
		log.Fatal("Failed to read orders dataset", zap.Error(err))
	}

	service := reconcile.NewService(schedule, window, log)
	result := service.Run(reconcile.Input{Customers: customers, Orders: orders})

	if err := writeResult(cfg, log, result); err != nil {
		log.Fatal("Failed to write result tables", zap.Error(err))
	}
}

func readCustomers(path string) ([]tiering.Customer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()
	return tabular.DecodeCustomers(file)
}

func readOrders(path string) ([]tiering.Order, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()
	return tabular.DecodeOrders(file)
}

// writeResult emits every table in the run's output order. Numeric prefixes
// keep the directory listing aligned with the pipeline stages.
func writeResult(cfg *config.Config, log *zap.Logger, result *reconcile.Result) error {
	writer := tabular.NewWriter(cfg.Output.Dir, log)
	customerCols := customerColumns(cfg)
	orderCols := orderColumns(cfg)

	if err := writer.Write("[2]filtered_orders.csv", orderCols, tabular.OrderRecords(result.FilteredOrders)); err != nil {
		return err
	}
	if err := writer.Write("[3]filtered_and_sorted_orders.csv", orderCols, tabular.OrderRecords(result.SortedOrders)); err != nil {
		return err
	}
	if err := writer.Write("[1]spend_qualified_customers.csv", customerCols, tabular.CustomerRecords(result.SpendQualified)); err != nil {
		return err
	}
	if err := writer.Write("[4]tier_customers_current.csv", customerCols, tabular.CustomerRecords(result.CurrentTier)); err != nil {
		return err
	}
	if err := writer.Write("[5]tier_customers_new.csv", customerCols, tabular.CustomerRecords(result.NewTier)); err != nil {
		return err
	}
	for _, segment := range result.Segments {
		name := fmt.Sprintf("[5-1]tier_customers_new_%s.csv", segment.Tier)
		if err := writer.Write(name, customerCols, tabular.CustomerRecords(segment.Customers)); err != nil {
			return err
		}
	}

	changedCols := tabular.CustomerColumns()
	if cfg.Output.FilterChangedCustomers {
		changedCols = customerCols
	}
	return writer.Write("[6]changed_customers.csv", changedCols, tabular.CustomerRecords(result.Changed))
}

// customerColumns resolves the customer output columns: the configured
// filter always gains the computed net-spend column, no filter means every
// column.
func customerColumns(cfg *config.Config) []string {
	if len(cfg.Output.CustomerColumns) == 0 {
		return tabular.CustomerColumns()
	}
	cols := make([]string, 0, len(cfg.Output.CustomerColumns)+1)
	cols = append(cols, cfg.Output.CustomerColumns...)
	for _, c := range cols {
		if c == tabular.ColCustomerNetSpend {
			return cols
		}
	}
	return append(cols, tabular.ColCustomerNetSpend)
}

func orderColumns(cfg *config.Config) []string {
	if len(cfg.Output.OrderColumns) == 0 {
		return tabular.OrderColumns()
	}
	return cfg.Output.OrderColumns
}
