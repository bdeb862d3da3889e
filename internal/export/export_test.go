package export_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jrh3k5/tokentx-export/internal/etherscan"
	"github.com/jrh3k5/tokentx-export/internal/export"
	"github.com/jrh3k5/tokentx-export/internal/transfer"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const address = "0x9134fc7112b478e97eE6F0E6A7bf81EcAfef19ED"

var _ = Describe("Exporter", func() {
	var (
		ctx      context.Context
		fetcher  *fakeFetcher
		history  *fakeHistory
		sink     *fakeSink
		status   *fakeStatus
		observer *fakeObserver
		exporter *export.Exporter
		now      time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2025, 12, 10, 11, 53, 23, 456000000, time.UTC)
		fetcher = &fakeFetcher{
			transfers: []etherscan.ERC20TokenTransfer{
				{Hash: "0x1", TimeStamp: "1704067200", TokenSymbol: "USDC", TokenName: "USD Coin"},
				{Hash: "0x2", TimeStamp: "1704153600", TokenSymbol: "USDC", TokenName: "USD Coin"},
				{Hash: "0x3", TimeStamp: "1704240000", TokenSymbol: "USDT", TokenName: "Tether USD"},
			},
		}
		history = &fakeHistory{}
		sink = &fakeSink{}
		status = &fakeStatus{}
		observer = &fakeObserver{}
		exporter = export.NewExporter(
			fetcher,
			history,
			sink,
			status,
			export.WithClock(func() time.Time { return now }),
			export.WithObserver(observer),
		)
	})

	It("exports the transfers within the date range", func() {
		start := int64(1704153600)
		end := int64(1704239999)

		result, err := exporter.Export(ctx, export.Request{
			Address:  address,
			Network:  "etherscan",
			Criteria: transfer.Criteria{StartTimestamp: &start, EndTimestamp: &end},
		})
		Expect(err).ToNot(HaveOccurred())

		expectedFilename := "transfers_" + address + "_etherscan_2025-12-10T11-53-23-456Z.csv"
		Expect(result.Outcome).To(Equal(export.OutcomeExported))
		Expect(result.Fetched).To(Equal(3))
		Expect(result.Rows).To(Equal(1))
		Expect(result.Filename).To(Equal(expectedFilename))
		Expect(result.Location).To(Equal("/exports/" + expectedFilename))

		Expect(sink.saved).To(HaveLen(1))
		lines := strings.Split(sink.saved[0].content, "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(HavePrefix("blockNumber,timeStamp,hash,"))
		Expect(lines[1]).To(ContainSubstring(",1704153600,0x2,"))

		Expect(status.current()).To(Equal("Exported 1 rows to " + expectedFilename))
		Expect(status.statuses).To(Equal([]string{export.StatusFetching, "Exported 1 rows to " + expectedFilename}))
		Expect(observer.observed).To(ConsistOf(observedExport{network: "etherscan", outcome: "exported", rows: 1}))
	})

	It("applies the symbol filter before the date range", func() {
		result, err := exporter.Export(ctx, export.Request{
			Address:  address,
			Network:  "etherscan",
			Criteria: transfer.Criteria{TokenSymbol: "usdt"},
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Rows).To(Equal(1))
		Expect(sink.saved[0].content).To(ContainSubstring(",0x3,"))
	})

	It("rejects an empty address without fetching or recording history", func() {
		result, err := exporter.Export(ctx, export.Request{Address: "   ", Network: "etherscan"})
		Expect(result).To(BeNil())
		Expect(errors.Is(err, export.ErrAddressRequired)).To(BeTrue())
		Expect(status.current()).To(Equal(export.StatusAddressMissing))
		Expect(fetcher.calls).To(Equal(0))
		Expect(history.recorded).To(BeEmpty())
		Expect(sink.saved).To(BeEmpty())
		Expect(observer.observed).To(BeEmpty())
	})

	It("records the trimmed address in the network's history before fetching", func() {
		_, err := exporter.Export(ctx, export.Request{Address: "  " + address + "  ", Network: "basescan"})
		Expect(err).ToNot(HaveOccurred())
		Expect(history.recorded).To(Equal([]recordedAddress{{network: "basescan", address: address}}))
	})

	It("records history even when the fetch fails", func() {
		fetcher.err = &etherscan.PageError{Page: 2, Err: &etherscan.TransportError{StatusCode: 503}}

		result, err := exporter.Export(ctx, export.Request{Address: address, Network: "etherscan"})
		Expect(result).To(BeNil())
		Expect(err).To(HaveOccurred())

		var pageErr *etherscan.PageError
		Expect(errors.As(err, &pageErr)).To(BeTrue())
		Expect(pageErr.Page).To(Equal(2))

		Expect(history.recorded).To(HaveLen(1))
		Expect(status.current()).To(Equal("Error: Failed fetching page 2: HTTP 503"))
		Expect(sink.saved).To(BeEmpty())
		Expect(observer.observed).To(ConsistOf(observedExport{network: "etherscan", outcome: "failed"}))
	})

	It("continues when the history cannot be saved", func() {
		history.err = errBoom

		result, err := exporter.Export(ctx, export.Request{Address: address, Network: "etherscan"})
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Outcome).To(Equal(export.OutcomeExported))
		Expect(result.Rows).To(Equal(3))
	})

	It("reports when no transfers exist", func() {
		fetcher.transfers = nil

		result, err := exporter.Export(ctx, export.Request{Address: address, Network: "etherscan"})
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Outcome).To(Equal(export.OutcomeNoTransfers))
		Expect(status.current()).To(Equal(export.StatusNoTransfers))
		Expect(sink.saved).To(BeEmpty())
	})

	It("reports when no transfers match the filters", func() {
		result, err := exporter.Export(ctx, export.Request{
			Address:  address,
			Network:  "etherscan",
			Criteria: transfer.Criteria{ContractAddress: "0xdeadbeef", TokenSymbol: "USDC"},
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Outcome).To(Equal(export.OutcomeNoMatches))
		Expect(result.Fetched).To(Equal(3))
		Expect(status.current()).To(Equal(export.StatusNoMatches))
		Expect(sink.saved).To(BeEmpty())
		Expect(observer.observed).To(ConsistOf(observedExport{network: "etherscan", outcome: "no_matches"}))
	})

	It("reports a failure to save the file", func() {
		sink.err = errBoom

		result, err := exporter.Export(ctx, export.Request{Address: address, Network: "etherscan"})
		Expect(result).To(BeNil())
		Expect(errors.Is(err, errBoom)).To(BeTrue())
		Expect(status.current()).To(Equal("Error: boom"))
	})

	It("rejects an export while another is in flight", func() {
		fetcher.started = make(chan struct{})
		fetcher.release = make(chan struct{})

		type outcome struct {
			result *export.Result
			err    error
		}
		done := make(chan outcome, 1)
		go func() {
			defer GinkgoRecover()
			result, err := exporter.Export(ctx, export.Request{Address: address, Network: "etherscan"})
			done <- outcome{result: result, err: err}
		}()

		Eventually(fetcher.started).Should(BeClosed())

		result, err := exporter.Export(ctx, export.Request{Address: address, Network: "basescan"})
		Expect(result).To(BeNil())
		Expect(errors.Is(err, export.ErrExportInProgress)).To(BeTrue())
		Expect(status.current()).To(Equal(export.StatusFetching))

		close(fetcher.release)

		var first outcome
		Eventually(done).Should(Receive(&first))
		Expect(first.err).ToNot(HaveOccurred())
		Expect(first.result.Outcome).To(Equal(export.OutcomeExported))
		Expect(fetcher.calls).To(Equal(1))

		// the guard is released once the export completes
		fetcher.started = nil
		now = now.Add(time.Second)
		_, err = exporter.Export(ctx, export.Request{Address: address, Network: "etherscan"})
		Expect(err).ToNot(HaveOccurred())
	})
})

var _ = Describe("Filename", func() {
	It("embeds the address, network and a filesystem-safe UTC timestamp", func() {
		at := time.Date(2024, 5, 1, 14, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60))
		Expect(export.Filename("0xabc", "arbitrum", at)).To(Equal("transfers_0xabc_arbitrum_2024-05-01T12-00-00-000Z.csv"))
	})
})
