package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jrh3k5/tokentx-export/internal/history"
	"github.com/manifoldco/promptui"
)

var errUserCanceled = errors.New("user canceled operation")

// promptAddress asks for the address to export, offering the network's history when there is one.
// A blank answer is returned as-is so that the export reports the missing address.
func promptAddress(ctx context.Context, store *history.FileStore, networkName string) (string, error) {
	addresses, err := store.Addresses(networkName)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read address history", "error", err)
	}

	if len(addresses) == 0 {
		return promptNewAddress()
	}

	selector := promptui.SelectWithAdd{
		Label:    fmt.Sprintf("Address on %s", networkName),
		Items:    addresses,
		AddLabel: "Enter a new address",
	}

	_, address, err := selector.Run()
	if err != nil {
		return "", promptError(err)
	}

	return strings.TrimSpace(address), nil
}

func promptNewAddress() (string, error) {
	addressPrompt := promptui.Prompt{
		Label: "Address",
	}

	address, err := addressPrompt.Run()
	if err != nil {
		return "", promptError(err)
	}

	return strings.TrimSpace(address), nil
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errUserCanceled
	}

	return fmt.Errorf("address prompt failed: %w", err)
}
