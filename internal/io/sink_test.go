package io_test

import (
	"context"
	"os"
	"path/filepath"

	ctsio "github.com/jrh3k5/tokentx-export/internal/io"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DirectorySink", func() {
	var (
		ctx context.Context
		dir string
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = filepath.Join(GinkgoT().TempDir(), "exports")
	})

	It("writes the file into the directory, creating it if needed", func() {
		path, err := ctsio.NewDirectorySink(dir).Save(ctx, "transfers.csv", []byte("a,b"))
		Expect(err).ToNot(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, "transfers.csv")))

		content, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("a,b"))
	})

	It("refuses to overwrite an existing file", func() {
		sink := ctsio.NewDirectorySink(dir)
		_, err := sink.Save(ctx, "transfers.csv", []byte("first"))
		Expect(err).ToNot(HaveOccurred())

		_, err = sink.Save(ctx, "transfers.csv", []byte("second"))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("refusing to overwrite"))

		content, err := os.ReadFile(filepath.Join(dir, "transfers.csv"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("first"))
	})

	It("rejects file names that escape the directory", func() {
		_, err := ctsio.NewDirectorySink(dir).Save(ctx, "../transfers.csv", []byte("a"))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid file name"))
	})
})

var _ = Describe("FileExists", func() {
	It("reports whether a file exists", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "present.txt")
		Expect(os.WriteFile(path, []byte("x"), 0o600)).To(Succeed())

		exists, err := ctsio.FileExists(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeTrue())

		exists, err = ctsio.FileExists(filepath.Join(dir, "absent.txt"))
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeFalse())
	})
})
