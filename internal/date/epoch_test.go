package date_test

import (
	"github.com/jrh3k5/tokentx-export/internal/date"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ToEpoch", func() {
	It("converts a date to UTC midnight for the start of the day", func() {
		ts, err := date.ToEpoch("2024-01-02", date.StartOfDay)
		Expect(err).ToNot(HaveOccurred())
		Expect(ts).ToNot(BeNil())
		Expect(*ts).To(Equal(int64(1704153600)))
	})

	It("converts a date to 23:59:59 UTC for the end of the day", func() {
		ts, err := date.ToEpoch("2024-01-02", date.EndOfDay)
		Expect(err).ToNot(HaveOccurred())
		Expect(ts).ToNot(BeNil())
		Expect(*ts).To(Equal(int64(1704239999)))
	})

	It("spans 86399 seconds between the start and end of any day", func() {
		for _, d := range []string{"1970-01-01", "2000-02-29", "2023-12-31", "2025-06-15"} {
			start, err := date.ToEpoch(d, date.StartOfDay)
			Expect(err).ToNot(HaveOccurred())
			end, err := date.ToEpoch(d, date.EndOfDay)
			Expect(err).ToNot(HaveOccurred())
			Expect(*end - *start).To(Equal(int64(86399)), "day %s", d)
		}
	})

	DescribeTable("returns nil for an empty date",
		func(boundary date.Boundary) {
			ts, err := date.ToEpoch("", boundary)
			Expect(err).ToNot(HaveOccurred())
			Expect(ts).To(BeNil())
		},
		Entry("start of day", date.StartOfDay),
		Entry("end of day", date.EndOfDay),
	)

	It("rejects a malformed date", func() {
		ts, err := date.ToEpoch("01/02/2024", date.StartOfDay)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("parse date"))
		Expect(ts).To(BeNil())
	})
})
