package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	ctsio "github.com/jrh3k5/tokentx-export/internal/io"
	ctsslog "github.com/jrh3k5/tokentx-export/internal/logging/slog"
	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
)

const defaultEnvFile = ".env"

func main() {
	ctx := context.Background()

	slog.SetDefault(slog.New(ctsslog.NewHandler(os.Stderr, nil)))

	// the dotenv file has to be loaded before the flags read their environment variables
	if err := loadEnvFile(getEnvFile()); err != nil {
		slog.ErrorContext(ctx, "Failed to load environment file", "error", err)

		os.Exit(1)
	}

	app := &cli.App{
		Name:  "tokentx-export",
		Usage: "Export the ERC-20 token transfers of an address to CSV",
		Description: `Retrieves every ERC-20 token transfer of an address from the Etherscan multichain API,
filters them by token and date, and writes them to a CSV file.

API keys are read from ETHERSCAN_API_KEY, BASESCAN_API_KEY and ARBISCAN_API_KEY,
which may also be set in a .env file.`,
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Flags:   append(commonFlags(), exportFlags()...),
		Before:  configureLogging,
		Action:  runExport,
		Commands: []*cli.Command{
			historyCommand(),
			networksCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.ErrorContext(ctx, "Command failed", "error", err)

		os.Exit(1)
	}
}

// getEnvFile finds the --env-file argument, falling back to TOKENTX_ENV_FILE and then ".env".
func getEnvFile() string {
	for _, arg := range os.Args[1:] {
		envFile, hasPrefix := strings.CutPrefix(arg, "--env-file=")
		if hasPrefix {
			return envFile
		}
	}

	if envFile := os.Getenv("TOKENTX_ENV_FILE"); envFile != "" {
		return envFile
	}

	return defaultEnvFile
}

// loadEnvFile loads the dotenv file if it exists; variables already set in the environment win.
func loadEnvFile(envFile string) error {
	exists, err := ctsio.FileExists(envFile)
	if err != nil {
		return err
	}

	if !exists {
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load environment file '%s': %w", envFile, err)
	}

	return nil
}

func configureLogging(cCtx *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cCtx.String("log-level"))); err != nil {
		return fmt.Errorf("invalid log level '%s': %w", cCtx.String("log-level"), err)
	}

	slog.SetDefault(slog.New(ctsslog.NewHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return nil
}
