package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrh3k5/tokentx-export/internal/etherscan"
	"github.com/jrh3k5/tokentx-export/internal/network"
	"github.com/urfave/cli/v2"
)

const defaultNetwork = "etherscan"

// commonFlags apply to every command.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "network",
			Aliases: []string{"n"},
			Usage:   "Network to query (etherscan, basescan, arbitrum, or one defined in --networks-file)",
			EnvVars: []string{"TOKENTX_NETWORK"},
			Value:   defaultNetwork,
		},
		&cli.StringFlag{
			Name:    "networks-file",
			Usage:   "YAML file adding or overriding networks",
			EnvVars: []string{"TOKENTX_NETWORKS_FILE"},
		},
		&cli.StringFlag{
			Name:    "history-file",
			Usage:   "YAML file holding previously exported addresses",
			EnvVars: []string{"TOKENTX_HISTORY_FILE"},
			Value:   defaultHistoryFile(),
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "dotenv file to load API keys from (must be given as --env-file=PATH)",
			Value: defaultEnvFile,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"TOKENTX_LOG_LEVEL"},
			Value:   "info",
		},
	}
}

// exportFlags configure an export.
func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "address",
			Aliases: []string{"a"},
			Usage:   "Address whose token transfers are exported; prompted for when omitted on a terminal",
			EnvVars: []string{"TOKENTX_ADDRESS"},
		},
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "Only export transfers of this token symbol (ignored when --contract is given)",
		},
		&cli.StringFlag{
			Name:  "contract",
			Usage: "Only export transfers of this token contract address",
		},
		&cli.StringFlag{
			Name:  "start-date",
			Usage: "Only export transfers on or after this UTC date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "end-date",
			Usage: "Only export transfers on or before this UTC date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Directory the CSV file is written to",
			EnvVars: []string{"TOKENTX_OUTPUT_DIR"},
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "Etherscan multichain API endpoint",
			EnvVars: []string{"TOKENTX_API_URL"},
			Value:   etherscan.DefaultAPIURL,
		},
		&cli.DurationFlag{
			Name:    "page-delay",
			Usage:   "Minimum time between page requests",
			EnvVars: []string{"TOKENTX_PAGE_DELAY"},
			Value:   etherscan.DefaultPageDelay,
		},
		&cli.StringFlag{
			Name:    "metrics-textfile",
			Usage:   "Write Prometheus metrics to this file after the export",
			EnvVars: []string{"TOKENTX_METRICS_TEXTFILE"},
		},
	}
}

func defaultHistoryFile() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "address_history.yaml"
	}

	return filepath.Join(configDir, "tokentx-export", "address_history.yaml")
}

// loadRegistry returns the default networks merged with the networks file, if one was given.
func loadRegistry(cCtx *cli.Context) (*network.Registry, error) {
	registry := network.DefaultRegistry()

	networksFile := cCtx.String("networks-file")
	if networksFile == "" {
		return registry, nil
	}

	file, err := os.Open(networksFile) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open networks file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := registry.MergeYAML(file); err != nil {
		return nil, fmt.Errorf("failed to load networks file '%s': %w", networksFile, err)
	}

	return registry, nil
}
