package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/iwvelando/carbon-lens/internal/config"
	"github.com/iwvelando/carbon-lens/internal/footprint"
	"github.com/iwvelando/carbon-lens/internal/server"
	"github.com/iwvelando/carbon-lens/pkg/constants"
	"github.com/iwvelando/carbon-lens/pkg/output"
	"github.com/iwvelando/carbon-lens/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is injected at build time via -ldflags.
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "start the web UI server instead of a one-shot calculation")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	addr := flag.String("addr", "", "listen address override for the web UI server")
	flag.Parse()

	if *serve {
		runServer(*configLocation, *serverConfigLocation, *addr, *logLevel)
		return
	}

	// Load the config file to get habits, scenarios, and logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Build the emission factor registry from built-in and configured regions.
	reg, err := conf.BuildRegistry()
	if err != nil {
		logger.Fatal("failed to build emission factor registry",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	factors, err := reg.Lookup(conf.Habits.Region)
	if err != nil {
		logger.Fatal("failed to look up emission factors",
			zap.String("op", "main"),
			zap.String("region", conf.Habits.Region),
			zap.Error(err),
		)
	}

	// Compute the baseline footprint.
	baseline, err := footprint.Estimate(conf.Habits, factors)
	if err != nil {
		logger.Fatal("failed to compute baseline footprint",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	report := output.Report{
		Region:   conf.Habits.Region,
		Baseline: baseline,
	}

	// Project every active scenario against the baseline.
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "main"),
			)
			continue
		}

		projection, err := footprint.Project(baseline, conf.Habits, scenario.Reduction(), factors)
		if err != nil {
			if errors.Is(err, footprint.ErrDivisionUndefined) {
				logger.Warn("skipping scenario: percent savings is undefined against a zero baseline",
					zap.String("op", "main"),
					zap.String("scenario", scenario.Name),
				)
				continue
			}
			logger.Fatal("failed to project scenario",
				zap.String("op", "main"),
				zap.String("scenario", scenario.Name),
				zap.Error(err),
			)
		}

		report.Scenarios = append(report.Scenarios, output.ScenarioResult{
			Name:       scenario.Name,
			Projection: projection,
		})
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(report)
	case constants.OutputFormatCSV:
		output.CsvFormat(report)
	case constants.OutputFormatJSON:
		rendered, err := output.JSONString(report)
		if err != nil {
			logger.Fatal("failed to render JSON output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		fmt.Print(rendered)
	}
}

// runServer starts the web UI server. The main configuration file is
// optional here; it only contributes extra regions when present.
func runServer(configLocation, serverConfigLocation, addrOverride, logLevelOverride string) {
	serverConf, err := server.LoadConfig(serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration\", \"error\": \"%v\"}\n", err)
		return
	}

	logger, err := initializeLogger(serverConf.Logging, logLevelOverride)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	appConf := &config.Configuration{}
	if loaded, err := config.LoadConfiguration(configLocation); err == nil {
		appConf = loaded
	} else {
		logger.Warn("no application configuration loaded; using built-in regions only",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	reg, err := appConf.BuildRegistry()
	if err != nil {
		logger.Fatal("failed to build emission factor registry",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	address := serverConf.Address
	if addrOverride != "" {
		address = addrOverride
	}

	handler := server.NewHandler(logger, reg, serverConf.RequestSizeBytes(), version)

	logger.Info("starting web UI server",
		zap.String("op", "main"),
		zap.String("address", address),
		zap.String("version", version),
	)

	if err := http.ListenAndServe(address, handler); err != nil {
		logger.Fatal("server terminated",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
