package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jrh3k5/tokentx-export/internal/date"
	"github.com/jrh3k5/tokentx-export/internal/etherscan"
	"github.com/jrh3k5/tokentx-export/internal/export"
	"github.com/jrh3k5/tokentx-export/internal/history"
	ctsio "github.com/jrh3k5/tokentx-export/internal/io"
	"github.com/jrh3k5/tokentx-export/internal/metrics"
	"github.com/jrh3k5/tokentx-export/internal/transfer"
	"github.com/urfave/cli/v2"
)

func runExport(cCtx *cli.Context) error {
	ctx := cCtx.Context
	networkName := cCtx.String("network")

	registry, err := loadRegistry(cCtx)
	if err != nil {
		return err
	}

	// fail before prompting or touching the history when the network cannot be queried
	if _, err := registry.Lookup(networkName); err != nil {
		return err
	}

	criteria, err := criteriaFromFlags(cCtx)
	if err != nil {
		return err
	}

	historyStore := history.NewFileStore(cCtx.String("history-file"))

	address := cCtx.String("address")
	if address == "" && isTerminal(os.Stdin) {
		address, err = promptAddress(ctx, historyStore, networkName)
		if err != nil {
			return err
		}
	}

	recorder := metrics.NewRecorder()

	fetcher := etherscan.NewFetcher(
		etherscan.NewHTTPClient(http.DefaultClient, cCtx.String("api-url")),
		registry,
		etherscan.WithPageDelay(cCtx.Duration("page-delay")),
		etherscan.WithPageObserver(recorder),
	)

	exporter := export.NewExporter(
		fetcher,
		historyStore,
		ctsio.NewDirectorySink(cCtx.String("output-dir")),
		newStatusLine(cCtx.App.Writer),
		export.WithObserver(recorder),
	)

	result, exportErr := exporter.Export(ctx, export.Request{
		Address:  address,
		Network:  networkName,
		Criteria: criteria,
	})

	if metricsFile := cCtx.String("metrics-textfile"); metricsFile != "" {
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			slog.WarnContext(ctx, "Failed to write metrics", "error", err)
		}
	}

	if exportErr != nil {
		slog.ErrorContext(ctx, "Export failed", "network", networkName, "address", address, "error", exportErr)

		return cli.Exit("", 1)
	}

	slog.DebugContext(
		ctx,
		"Export finished",
		"outcome", result.Outcome,
		"fetched", result.Fetched,
		"rows", result.Rows,
		"location", result.Location,
	)

	return nil
}

func criteriaFromFlags(cCtx *cli.Context) (transfer.Criteria, error) {
	start, err := date.ToEpoch(cCtx.String("start-date"), date.StartOfDay)
	if err != nil {
		return transfer.Criteria{}, fmt.Errorf("invalid --start-date: %w", err)
	}

	end, err := date.ToEpoch(cCtx.String("end-date"), date.EndOfDay)
	if err != nil {
		return transfer.Criteria{}, fmt.Errorf("invalid --end-date: %w", err)
	}

	return transfer.Criteria{
		TokenSymbol:     cCtx.String("symbol"),
		ContractAddress: cCtx.String("contract"),
		StartTimestamp:  start,
		EndTimestamp:    end,
	}, nil
}

func isTerminal(file *os.File) bool {
	info, err := file.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
