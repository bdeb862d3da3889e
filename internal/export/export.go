package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jrh3k5/tokentx-export/internal/csv"
	"github.com/jrh3k5/tokentx-export/internal/etherscan"
	"github.com/jrh3k5/tokentx-export/internal/transfer"
)

const (
	StatusReady          = "Ready."
	StatusAddressMissing = "Please enter an address."
	StatusFetching       = "Fetching transfers..."
	StatusNoTransfers    = "No token transfers found for this address."
	StatusNoMatches      = "No transfers match the filters."
)

var (
	// ErrAddressRequired is returned when an export is requested without an address.
	ErrAddressRequired = errors.New("address is required")
	// ErrExportInProgress is returned when an export is requested while another is still running.
	ErrExportInProgress = errors.New("an export is already in progress")
)

// Outcome describes how an export ended.
type Outcome string

const (
	OutcomeExported    Outcome = "exported"
	OutcomeNoTransfers Outcome = "no_transfers"
	OutcomeNoMatches   Outcome = "no_matches"
	OutcomeFailed      Outcome = "failed"
)

// Fetcher retrieves every token transfer of an address.
type Fetcher interface {
	FetchAllTransfers(ctx context.Context, address string, network string) ([]etherscan.ERC20TokenTransfer, error)
}

// HistoryRecorder remembers the addresses that were exported.
type HistoryRecorder interface {
	RecordAddress(network string, address string) error
}

// Sink receives the finished CSV file.
type Sink interface {
	// Save stores the content under the given file name and returns where it was stored.
	Save(ctx context.Context, filename string, content []byte) (string, error)
}

// StatusReporter shows the user a single current status line; each call replaces the previous status.
type StatusReporter interface {
	SetStatus(ctx context.Context, status string)
}

// Observer is notified of every export that gets past validation.
type Observer interface {
	ObserveExport(network string, outcome string, rows int)
}

// Request describes one export.
type Request struct {
	Address  string
	Network  string
	Criteria transfer.Criteria
}

// Result describes a finished export. Only OutcomeExported produces a file.
type Result struct {
	Outcome  Outcome
	Fetched  int    // transfers retrieved before filtering
	Rows     int    // transfers written to the CSV
	Filename string // the name of the exported file
	Location string // where the sink stored the file
}

// Exporter fetches, filters and saves the token transfers of one address at a time.
type Exporter struct {
	fetcher  Fetcher
	history  HistoryRecorder
	sink     Sink
	status   StatusReporter
	observer Observer
	now      func() time.Time

	inFlight sync.Mutex
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithClock overrides the clock used to name exported files.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// WithObserver registers an observer of export outcomes.
func WithObserver(observer Observer) Option {
	return func(e *Exporter) {
		e.observer = observer
	}
}

// NewExporter creates an Exporter from its collaborators.
func NewExporter(
	fetcher Fetcher,
	history HistoryRecorder,
	sink Sink,
	status StatusReporter,
	opts ...Option,
) *Exporter {
	e := &Exporter{
		fetcher: fetcher,
		history: history,
		sink:    sink,
		status:  status,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Export runs one export. Only one export runs at a time; a concurrent call fails with ErrExportInProgress
// without touching the status.
// Finding no transfers, or none matching the criteria, is not an error: the Result's Outcome says so and no file is written.
func (e *Exporter) Export(ctx context.Context, request Request) (*Result, error) {
	if !e.inFlight.TryLock() {
		return nil, ErrExportInProgress
	}
	defer e.inFlight.Unlock()

	address := strings.TrimSpace(request.Address)
	if address == "" {
		e.status.SetStatus(ctx, StatusAddressMissing)

		return nil, ErrAddressRequired
	}

	if !common.IsHexAddress(address) {
		slog.WarnContext(ctx, fmt.Sprintf("'%s' does not look like a hex address; the explorer may reject it", address))
	}

	// history is updated even if the export later fails
	if err := e.history.RecordAddress(request.Network, address); err != nil {
		slog.WarnContext(ctx, "Failed to record address in history", "error", err)
	}

	e.status.SetStatus(ctx, StatusFetching)

	transfers, err := e.fetcher.FetchAllTransfers(ctx, address, request.Network)
	if err != nil {
		return nil, e.fail(ctx, request.Network, fmt.Errorf("failed to fetch transfers: %w", err), err)
	}

	result := &Result{Fetched: len(transfers)}

	if len(transfers) == 0 {
		result.Outcome = OutcomeNoTransfers
		e.finish(ctx, request.Network, result, StatusNoTransfers)

		return result, nil
	}

	filtered := request.Criteria.Apply(transfers)
	if len(filtered) == 0 {
		result.Outcome = OutcomeNoMatches
		e.finish(ctx, request.Network, result, StatusNoMatches)

		return result, nil
	}

	filename := Filename(address, request.Network, e.now())

	location, err := e.sink.Save(ctx, filename, []byte(csv.FromTransfers(filtered)))
	if err != nil {
		return nil, e.fail(ctx, request.Network, fmt.Errorf("failed to save '%s': %w", filename, err), err)
	}

	result.Outcome = OutcomeExported
	result.Rows = len(filtered)
	result.Filename = filename
	result.Location = location
	e.finish(ctx, request.Network, result, fmt.Sprintf("Exported %d rows to %s", result.Rows, filename))

	return result, nil
}

// fail reports the cause to the user and returns the wrapped error for the caller.
func (e *Exporter) fail(ctx context.Context, network string, wrapped error, cause error) error {
	e.status.SetStatus(ctx, "Error: "+cause.Error())
	e.observe(network, OutcomeFailed, 0)

	return wrapped
}

func (e *Exporter) finish(ctx context.Context, network string, result *Result, status string) {
	e.status.SetStatus(ctx, status)
	e.observe(network, result.Outcome, result.Rows)
}

func (e *Exporter) observe(network string, outcome Outcome, rows int) {
	if e.observer != nil {
		e.observer.ObserveExport(network, string(outcome), rows)
	}
}

var filenameUnsafe = strings.NewReplacer(":", "-", ".", "-")

// Filename names an export file after the address, the network and the export time,
// e.g. "transfers_0xabc_etherscan_2024-05-01T12-00-00-000Z.csv".
func Filename(address string, network string, at time.Time) string {
	stamp := filenameUnsafe.Replace(at.UTC().Format("2006-01-02T15:04:05.000Z"))

	return fmt.Sprintf("transfers_%s_%s_%s.csv", address, network, stamp)
}
