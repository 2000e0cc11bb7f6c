// Command forecast runs one fetch-classify-report cycle and writes the
// result to disk, for cron jobs and local inspection.
//
// Usage:
//
//	go run ./cmd/forecast -config config.yaml -json report.json -html report.html
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/levantkite/windforecast/internal/config"
	"github.com/levantkite/windforecast/internal/observability"
	"github.com/levantkite/windforecast/internal/openmeteo"
	"github.com/levantkite/windforecast/internal/pipeline"
	"github.com/levantkite/windforecast/internal/report"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to spot configuration file")
	jsonOut := flag.String("json", "", "write the report as JSON to this path ('-' for stdout)")
	htmlOut := flag.String("html", "", "write the report as HTML to this path")
	timeout := flag.Duration("timeout", 60*time.Second, "overall fetch timeout")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	if *jsonOut == "" && *htmlOut == "" {
		*jsonOut = "-"
	}

	if err := run(*configPath, *jsonOut, *htmlOut, *timeout, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "forecast:", err)
		os.Exit(1)
	}
}

func run(configPath, jsonOut, htmlOut string, timeout time.Duration, logLevel string) error {
	logger := observability.NewLogger(logLevel, "text")

	spots, err := config.LoadSpotsFile(configPath)
	if err != nil {
		return err
	}

	client := openmeteo.NewClient(spots.DomainSpots(), openmeteo.Params{
		Model:         spots.Forecast.Model,
		HourlyVars:    spots.Forecast.HourlyVars,
		WaveVars:      spots.Forecast.WaveVars,
		ForecastHours: spots.Forecast.ForecastHoursHourly,
		ForecastMin15: spots.Forecast.ForecastMin15,
	}, timeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	bundle, err := client.FetchForecasts(ctx)
	if err != nil {
		return fmt.Errorf("fetch forecasts: %w", err)
	}

	doc, stats, err := pipeline.Build(bundle, spots.DomainConditions(), spots.Window())
	if err != nil {
		return err
	}
	logger.Info("report built",
		"spots", len(doc.Spots),
		"kiteable_hours", len(doc.Views.KiteableHours),
		"samples_dropped", stats.SamplesDropped,
	)

	if jsonOut != "" {
		if err := writeJSON(jsonOut, &doc); err != nil {
			return err
		}
	}
	if htmlOut != "" {
		if err := writeHTML(htmlOut, &doc); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, doc *report.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeHTML(path string, doc *report.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := report.RenderHTML(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}
