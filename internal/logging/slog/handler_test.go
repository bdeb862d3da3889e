package slog_test

import (
	"bytes"
	"errors"
	"log/slog"

	ctsslog "github.com/jrh3k5/tokentx-export/internal/logging/slog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("writes the time, level, message and attributes on one line", func() {
		logger := slog.New(ctsslog.NewHandler(buf, nil))
		logger.Info("Retrieved transfers", "page", 2, "network", "basescan")

		Expect(buf.String()).To(MatchRegexp(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} INFO Retrieved transfers page=2 network=basescan\n$`))
	})

	It("quotes values containing spaces", func() {
		logger := slog.New(ctsslog.NewHandler(buf, nil))
		logger.Error("Export failed", "error", errors.New("HTTP 503"))

		Expect(buf.String()).To(HaveSuffix(`ERROR Export failed error="HTTP 503"` + "\n"))
	})

	It("includes attributes and groups added to the logger", func() {
		logger := slog.New(ctsslog.NewHandler(buf, nil)).With("network", "arbitrum").WithGroup("page")
		logger.Info("Fetched", "number", 3)

		Expect(buf.String()).To(HaveSuffix("INFO Fetched network=arbitrum page.number=3\n"))
	})

	It("drops records below the configured level", func() {
		logger := slog.New(ctsslog.NewHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Info("hidden")
		logger.Debug("hidden")
		logger.Warn("shown")

		Expect(buf.String()).To(HaveSuffix("WARN shown\n"))
		Expect(buf.String()).ToNot(ContainSubstring("hidden"))
	})
})
