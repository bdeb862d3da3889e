package main

import (
	"fmt"

	"github.com/jrh3k5/tokentx-export/internal/history"
	"github.com/urfave/cli/v2"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List the addresses previously exported on the selected network, most recent first",
		Action: func(cCtx *cli.Context) error {
			networkName := cCtx.String("network")

			addresses, err := history.NewFileStore(cCtx.String("history-file")).Addresses(networkName)
			if err != nil {
				return err
			}

			if len(addresses) == 0 {
				_, _ = fmt.Fprintf(cCtx.App.Writer, "No addresses exported on %s yet.\n", networkName)

				return nil
			}

			for _, address := range addresses {
				_, _ = fmt.Fprintln(cCtx.App.Writer, address)
			}

			return nil
		},
	}
}

func networksCommand() *cli.Command {
	return &cli.Command{
		Name:  "networks",
		Usage: "List the networks that can be queried",
		Action: func(cCtx *cli.Context) error {
			registry, err := loadRegistry(cCtx)
			if err != nil {
				return err
			}

			for _, name := range registry.Names() {
				n, err := registry.Lookup(name)
				if err != nil {
					return err
				}

				keyState := "API key set"
				if n.APIKey == "" {
					keyState = "no API key"
				}

				_, _ = fmt.Fprintf(cCtx.App.Writer, "%s\tchain %d\t%s\n", n.Name, n.ChainID, keyState)
			}

			return nil
		},
	}
}
