package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/turbine-invest/internal/analysis"
	"github.com/iwvelando/turbine-invest/internal/config"
	"github.com/iwvelando/turbine-invest/internal/logging"
	"github.com/iwvelando/turbine-invest/internal/report"
	"github.com/iwvelando/turbine-invest/pkg/chart"
	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/output"
	"github.com/iwvelando/turbine-invest/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	workbookFlag := flag.String("workbook", "", "write the xlsx report to this path")
	chartFlag := flag.String("chart", "", "write the trend chart PNG to this path")
	envFile := flag.String("env-file", ".env", "optional file of TURBINE_* environment overrides")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	methodologyFlag := flag.Bool("methodology", false, "print the calculation notes and exit")
	flag.Parse()

	if *methodologyFlag {
		fmt.Print(report.Methodology())
		return
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load env file %s\", \"error\": \"%v\"}\n", *envFile, err)
		return
	}

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
		conf.Output.Format = outputFormat
	}
	workbookPath := conf.Output.Workbook
	if *workbookFlag != "" {
		workbookPath = *workbookFlag
	}
	chartPath := conf.Output.Chart
	if *chartFlag != "" {
		chartPath = *chartFlag
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	s, err := conf.ToSession()
	if err != nil {
		logger.Fatal("failed to build session",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	result, err := analysis.Run(logger, s.Snapshot())
	if err != nil {
		logger.Fatal("failed to compute analysis",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range result.Warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	rep, err := report.Assemble(result)
	if err != nil {
		logger.Fatal("failed to assemble report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, rep)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, rep)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if workbookPath != "" {
		if err := rep.SaveWorkbook(workbookPath); err != nil {
			logger.Fatal("failed to write workbook",
				zap.String("op", "main"),
				zap.String("path", workbookPath),
				zap.Error(err),
			)
		}
		logger.Info("workbook written", zap.String("op", "main"), zap.String("path", workbookPath))
	}

	if chartPath != "" {
		if err := chart.SavePNG(chartPath, result.Projection); err != nil {
			logger.Fatal("failed to write chart",
				zap.String("op", "main"),
				zap.String("path", chartPath),
				zap.Error(err),
			)
		}
		logger.Info("chart written", zap.String("op", "main"), zap.String("path", chartPath))
	}
}
