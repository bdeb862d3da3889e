package etherscan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jrh3k5/tokentx-export/internal/network"
	"golang.org/x/time/rate"
)

const (
	// DefaultPageSize is the number of transfers requested per page; larger pages risk rejection by the explorer.
	DefaultPageSize = 1000
	// DefaultPageDelay is the pause between successive page requests.
	DefaultPageDelay = 300 * time.Millisecond
)

// PageObserver is notified of every page the fetcher retrieves.
type PageObserver interface {
	ObservePage(network string, page int, transfers int)
}

// Fetcher pages through every token transfer of an address.
type Fetcher struct {
	client    Client
	networks  *network.Registry
	pageSize  int
	pageDelay time.Duration
	observer  PageObserver
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithPageSize overrides DefaultPageSize.
func WithPageSize(pageSize int) FetcherOption {
	return func(f *Fetcher) {
		if pageSize > 0 {
			f.pageSize = pageSize
		}
	}
}

// WithPageDelay overrides DefaultPageDelay. A non-positive delay disables pacing.
func WithPageDelay(delay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.pageDelay = delay
	}
}

// WithPageObserver registers an observer of retrieved pages.
func WithPageObserver(observer PageObserver) FetcherOption {
	return func(f *Fetcher) {
		f.observer = observer
	}
}

// NewFetcher creates a Fetcher that resolves networks through the given registry.
func NewFetcher(client Client, networks *network.Registry, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    client,
		networks:  networks,
		pageSize:  DefaultPageSize,
		pageDelay: DefaultPageDelay,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchAllTransfers retrieves every token transfer of the address on the named network, oldest first.
// Paging stops at the first short page or when the explorer reports that no more data exists.
// A failure on any page aborts the whole fetch with a *PageError; nothing is retried.
func (f *Fetcher) FetchAllTransfers(
	ctx context.Context,
	address string,
	networkName string,
) ([]ERC20TokenTransfer, error) {
	net, err := f.networks.Lookup(networkName)
	if err != nil {
		return nil, err
	}

	// the first request goes out immediately; later ones are at least pageDelay apart
	pacer := rate.NewLimiter(rate.Every(f.pageDelay), 1)

	var transfers []ERC20TokenTransfer
	for page := 1; ; page++ {
		if err := pacer.Wait(ctx); err != nil {
			return nil, &PageError{Page: page, Err: err}
		}

		result, err := f.client.GetERC20TokenTransfers(ctx, PageRequest{
			Network:  net,
			Address:  address,
			Page:     page,
			PageSize: f.pageSize,
		})
		if err != nil {
			return nil, &PageError{Page: page, Err: err}
		}

		if result.EndOfData {
			slog.DebugContext(ctx, "No more transfers reported", "page", page, "network", net.Name)

			break
		}

		slog.DebugContext(
			ctx,
			fmt.Sprintf("Retrieved %d transfers", len(result.Transfers)),
			"page", page,
			"network", net.Name,
		)

		if f.observer != nil {
			f.observer.ObservePage(net.Name, page, len(result.Transfers))
		}

		transfers = append(transfers, result.Transfers...)

		if len(result.Transfers) < f.pageSize {
			break
		}
	}

	return transfers, nil
}
