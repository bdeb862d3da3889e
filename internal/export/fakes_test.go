package export_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jrh3k5/tokentx-export/internal/etherscan"
)

type fakeFetcher struct {
	transfers []etherscan.ERC20TokenTransfer
	err       error
	calls     int

	// when set, FetchAllTransfers signals started and then blocks until release is closed
	started chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) FetchAllTransfers(
	_ context.Context,
	_ string,
	_ string,
) ([]etherscan.ERC20TokenTransfer, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
		<-f.release
	}

	return f.transfers, f.err
}

type recordedAddress struct {
	network string
	address string
}

type fakeHistory struct {
	recorded []recordedAddress
	err      error
}

func (h *fakeHistory) RecordAddress(network string, address string) error {
	h.recorded = append(h.recorded, recordedAddress{network: network, address: address})

	return h.err
}

type savedFile struct {
	filename string
	content  string
}

type fakeSink struct {
	saved []savedFile
	err   error
}

func (s *fakeSink) Save(_ context.Context, filename string, content []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, savedFile{filename: filename, content: string(content)})

	return "/exports/" + filename, nil
}

type fakeStatus struct {
	mu       sync.Mutex
	statuses []string
}

func (s *fakeStatus) SetStatus(_ context.Context, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}

func (s *fakeStatus) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.statuses) == 0 {
		return ""
	}

	return s.statuses[len(s.statuses)-1]
}

type observedExport struct {
	network string
	outcome string
	rows    int
}

type fakeObserver struct {
	observed []observedExport
}

func (o *fakeObserver) ObserveExport(network string, outcome string, rows int) {
	o.observed = append(o.observed, observedExport{network: network, outcome: outcome, rows: rows})
}

var errBoom = errors.New("boom")
