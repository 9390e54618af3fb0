package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bankpipe/internal/analytics"
	"bankpipe/internal/config"
	"bankpipe/internal/dataprocessing"
	"bankpipe/internal/exporter"
	"bankpipe/internal/infrastructure"
	"bankpipe/internal/ingest"
	"bankpipe/internal/operations"
	"bankpipe/pkg/contracts"
)

func main() {
	inPath := flag.String("in", "", "input transaction file (.csv or .xlsx)")
	outDir := flag.String("out", "output", "output directory for reports")
	configPath := flag.String("config", "", "optional YAML config file")
	withAnalytics := flag.Bool("analytics", true, "run analytics over the valid set")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -in <file.csv|file.xlsx> [-out dir] [-config file.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting transaction processing",
		slog.String("input", *inPath),
		slog.String("output_dir", *outDir))

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("Error creating output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rows, err := readInput(*inPath)
	if err != nil {
		logger.Error("Failed to read input file",
			slog.String("input", *inPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Input rows loaded", slog.Int("count", len(rows)))
	fmt.Printf("Loaded %d raw rows\n", len(rows))

	opts := pipelineOptions(cfg)
	runner := operations.NewRunner(logger, opts)

	ctx := context.Background()
	state, err := runner.Run(ctx, rows)
	if err != nil {
		logger.Error("Pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	ctx = infrastructure.WithRunID(ctx, state.ID)

	fmt.Printf("Cleaned %d of %d rows, %d valid after validation\n",
		state.Report.SuccessfullyCleaned,
		state.Report.TotalRawRecords,
		state.Report.ValidRecords)

	csvOut := exporter.NewCSVWriter(*outDir)
	jsonOut := exporter.NewJSONWriter(*outDir)

	if err := csvOut.WriteTransactions("valid_transactions.csv", state.Valid); err != nil {
		logger.Error("Error writing valid transactions", slog.String("error", err.Error()))
	}
	if len(state.Issues) > 0 {
		if err := csvOut.WriteIssues("validation_issues.csv", state.Issues); err != nil {
			logger.Error("Error writing validation issues", slog.String("error", err.Error()))
		}
	}
	if err := jsonOut.Write("processing_report.json", state.Report); err != nil {
		logger.Error("Error writing processing report", slog.String("error", err.Error()))
	}

	if *withAnalytics && len(state.Valid) > 0 {
		runAnalytics(ctx, logger, cfg, state, csvOut, jsonOut)
	}

	logger.InfoContext(ctx, "Processing complete",
		slog.Int("valid_records", state.Report.ValidRecords),
		slog.Int("invalid_records", state.Report.InvalidRecords))
	fmt.Println("Processing complete")
}

// readInput dispatches on the file extension. CSV is the primary path;
// XLSX covers branch exports that arrive as workbooks.
func readInput(path string) ([]dataprocessing.RawRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ingest.ReadCSVFile(path)
	case ".xlsx":
		return ingest.ReadXLSXFile(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
}

func pipelineOptions(cfg *config.Config) operations.Options {
	opts := operations.DefaultOptions()
	opts.Cleaner.StrictTypes = cfg.Pipeline.StrictTypes
	opts.Cleaner.Workers = cfg.Pipeline.Workers
	if cfg.Pipeline.DateOrder == "DMY" {
		opts.Cleaner.DateOrder = dataprocessing.DateOrderDMY
	}
	opts.Validator.Epsilon = cfg.Pipeline.Epsilon
	opts.Validator.StrictIdentity = cfg.Pipeline.StrictIdentity
	opts.DestructiveReconcile = cfg.Pipeline.DestructiveReconcile
	return opts
}

func runAnalytics(ctx context.Context, logger *slog.Logger, cfg *config.Config, state *operations.State, csvOut *exporter.CSVWriter, jsonOut *exporter.JSONWriter) {
	engine := analytics.NewEngine(logger, analyticsConfig(cfg))

	anomalies := engine.DetectAnomalies(state.Valid)
	logger.InfoContext(ctx, "Anomaly detection complete", slog.Int("anomalies", len(anomalies)))
	if err := csvOut.WriteAnomalies("anomalies.csv", anomalies); err != nil {
		logger.Error("Error writing anomalies", slog.String("error", err.Error()))
	}

	summary := map[string]interface{}{
		"monthly_branch_volume": engine.MonthlyVolumeByBranch(state.Valid),
		"branch_performance":    engine.BranchPerformances(state.Valid),
		"customer_ltv":          engine.CustomerLTVs(state.Valid),
		"customer_segments":     engine.Segments(state.Valid),
		"seasonal_trends":       engine.SeasonalTrends(state.Valid),
	}
	if err := jsonOut.Write("analytics_summary.json", summary); err != nil {
		logger.Error("Error writing analytics summary", slog.String("error", err.Error()))
	}
}

func analyticsConfig(cfg *config.Config) analytics.Config {
	out := analytics.DefaultConfig()
	out.DepositFeeRate = cfg.Analytics.DepositFeeRate
	out.WithdrawalFeeRate = cfg.Analytics.WithdrawalFeeRate
	out.TransferFeeRate = cfg.Analytics.TransferFeeRate
	out.MarginBps = cfg.Analytics.MarginBps
	out.LTVModel = analytics.LTVModel(cfg.Analytics.LTVModel)
	out.ZScoreThreshold = cfg.Analytics.ZScoreThreshold
	out.HighValueQuantile = cfg.Analytics.HighValueQuantile
	out.ActiveQuantile = cfg.Analytics.ActiveQuantile
	return out
}
