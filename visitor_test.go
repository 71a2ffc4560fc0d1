// Copyright (c) 2025 Neomantra Corp

package dbn_test

import (
	"encoding/binary"

	"github.com/databento/dbn-sub000"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Visitor", func() {
	Context("interfaces", func() {
		It("NullVisitor should implement dbn.Visitor", func() {
			v := dbn.NullVisitor{}
			var _ dbn.Visitor = &v
		})
	})

	Context("Dispatch", func() {
		It("routes a decoded TradeMsg to OnTrade", func() {
			rec := make([]byte, dbn.TradeMsg_Size)
			rec[0] = uint8(dbn.TradeMsg_Size / 4)
			rec[1] = uint8(dbn.RType_Mbp0)
			binary.LittleEndian.PutUint32(rec[4:8], 5482)

			d := dbn.NewDecoder(dbn.DecoderConfig{SkipMetadata: true})
			_, err := d.Write(rec)
			Expect(err).To(BeNil())

			result, err := d.Process()
			Expect(err).To(BeNil())
			Expect(result).To(Equal(dbn.ResultRecord))

			counted := &countingVisitor{}
			Expect(dbn.Dispatch(counted, d.LastRecord())).To(Succeed())
			Expect(counted.trades).To(Equal(1))
		})
	})
})

type countingVisitor struct {
	dbn.NullVisitor
	trades int
}

func (c *countingVisitor) OnTrade(record *dbn.TradeMsg) error {
	c.trades++
	return nil
}
