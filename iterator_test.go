// Copyright (c) 2024 Neomantra Corp

package dbn_test

import (
	"bytes"

	"github.com/databento/dbn-sub000"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RecordIterator", func() {
	It("yields every record then a clean end of stream", func() {
		stream := encodeSampleStream(dbn.DbnVersion2, 3)
		it := dbn.NewRecordIterator[dbn.TradeMsg, *dbn.TradeMsg](bytes.NewReader(stream))

		var count int
		for it.Advance() {
			count++
		}
		Expect(it.Err()).To(BeNil())
		Expect(count).To(Equal(3))
	})

	It("errors mentioning a partial record when the stream is truncated mid-record", func() {
		stream := encodeSampleStream(dbn.DbnVersion2, 3)
		truncated := stream[:len(stream)-5] // cuts into the last record's bytes

		it := dbn.NewRecordIterator[dbn.TradeMsg, *dbn.TradeMsg](bytes.NewReader(truncated))
		for it.Advance() {
		}
		Expect(it.Err()).ToNot(BeNil())
		Expect(it.Err().Error()).To(ContainSubstring("partial record"))
	})
})
