// Copyright (c) 2024 Neomantra Corp

package dbn_test

import (
	"unsafe"

	dbn "github.com/databento/dbn-sub000"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Struct", func() {
	Context("correctness", func() {
		It("pins every fixed-layout struct to its wire size", func() {
			Expect(unsafe.Sizeof(dbn.RHeader{})).To(Equal(uintptr(dbn.RHeader_Size)))
			Expect(unsafe.Sizeof(dbn.BidAskPair{})).To(Equal(uintptr(dbn.BidAskPair_Size)))
			Expect(unsafe.Sizeof(dbn.ConsolidatedBidAskPair{})).To(Equal(uintptr(dbn.ConsolidatedBidAskPair_Size)))
			Expect(unsafe.Sizeof(dbn.MboMsg{})).To(Equal(uintptr(dbn.MboMsg_Size)))
			Expect(unsafe.Sizeof(dbn.TradeMsg{})).To(Equal(uintptr(dbn.TradeMsg_Size)))
			Expect(unsafe.Sizeof(dbn.Mbp1Msg{})).To(Equal(uintptr(dbn.Mbp1Msg_Size)))
			Expect(unsafe.Sizeof(dbn.Mbp10Msg{})).To(Equal(uintptr(dbn.Mbp10Msg_Size)))
			Expect(unsafe.Sizeof(dbn.Cmbp1Msg{})).To(Equal(uintptr(dbn.Cmbp1Msg_Size)))
			Expect(unsafe.Sizeof(dbn.BboMsg{})).To(Equal(uintptr(dbn.BboMsg_Size)))
			Expect(unsafe.Sizeof(dbn.CbboMsg{})).To(Equal(uintptr(dbn.CbboMsg_Size)))
			Expect(unsafe.Sizeof(dbn.OhlcvMsg{})).To(Equal(uintptr(dbn.OhlcvMsg_Size)))
			Expect(unsafe.Sizeof(dbn.ImbalanceMsg{})).To(Equal(uintptr(dbn.ImbalanceMsg_Size)))
			Expect(unsafe.Sizeof(dbn.StatusMsg{})).To(Equal(uintptr(dbn.StatusMsg_Size)))

			Expect(int((&dbn.RHeader{}).RSize())).To(Equal(dbn.RHeader_Size))
			Expect(int((&dbn.MboMsg{}).RSize())).To(Equal(dbn.MboMsg_Size))
			Expect(int((&dbn.TradeMsg{}).RSize())).To(Equal(dbn.TradeMsg_Size))
			Expect(int((&dbn.Mbp1Msg{}).RSize())).To(Equal(dbn.Mbp1Msg_Size))
			Expect(int((&dbn.Mbp10Msg{}).RSize())).To(Equal(dbn.Mbp10Msg_Size))
			Expect(int((&dbn.Cmbp1Msg{}).RSize())).To(Equal(dbn.Cmbp1Msg_Size))
			Expect(int((&dbn.BboMsg{}).RSize())).To(Equal(dbn.BboMsg_Size))
			Expect(int((&dbn.CbboMsg{}).RSize())).To(Equal(dbn.CbboMsg_Size))
			Expect(int((&dbn.OhlcvMsg{}).RSize())).To(Equal(dbn.OhlcvMsg_Size))
			Expect(int((&dbn.ImbalanceMsg{}).RSize())).To(Equal(dbn.ImbalanceMsg_Size))
			Expect(int((&dbn.StatusMsg{}).RSize())).To(Equal(dbn.StatusMsg_Size))
		})

		It("pins every versioned gateway/stat message to its wire size", func() {
			Expect(int((&dbn.ErrorMsgV1{}).RSize())).To(Equal(dbn.ErrorMsgV1_Size))
			Expect(int((&dbn.ErrorMsgV2{}).RSize())).To(Equal(dbn.ErrorMsgV2_Size))
			Expect(int((&dbn.SystemMsgV1{}).RSize())).To(Equal(dbn.SystemMsgV1_Size))
			Expect(int((&dbn.SystemMsgV2{}).RSize())).To(Equal(dbn.SystemMsgV2_Size))
			Expect(int((&dbn.SymbolMappingMsgV1{}).RSize())).To(Equal(dbn.SymbolMappingMsgV1_Size))
			Expect(int((&dbn.SymbolMappingMsgV2{}).RSize(71))).To(Equal(dbn.SymbolMappingMsgV2_MinSize + 2*71))
			Expect(int((&dbn.StatMsg{}).RSize())).To(Equal(dbn.StatMsg_Size))
			Expect(int((&dbn.StatMsgV3{}).RSize())).To(Equal(dbn.StatMsgV3_Size))
		})

		It("agrees on rtype across every record type", func() {
			Expect((&dbn.MboMsg{}).RType()).To(Equal(dbn.RType_Mbo))
			Expect((&dbn.TradeMsg{}).RType()).To(Equal(dbn.RType_Mbp0))
			Expect((&dbn.Mbp1Msg{}).RType()).To(Equal(dbn.RType_Mbp1))
			Expect((&dbn.Mbp10Msg{}).RType()).To(Equal(dbn.RType_Mbp10))
			Expect((&dbn.Cmbp1Msg{}).RType()).To(Equal(dbn.RType_Cmbp1))
			Expect((&dbn.ImbalanceMsg{}).RType()).To(Equal(dbn.RType_Imbalance))
			Expect((&dbn.StatusMsg{}).RType()).To(Equal(dbn.RType_Status))
			Expect((&dbn.ErrorMsgV1{}).RType()).To(Equal(dbn.RType_Error))
			Expect((&dbn.ErrorMsgV2{}).RType()).To(Equal(dbn.RType_Error))
			Expect((&dbn.SystemMsgV1{}).RType()).To(Equal(dbn.RType_System))
			Expect((&dbn.SystemMsgV2{}).RType()).To(Equal(dbn.RType_System))
			Expect((&dbn.SymbolMappingMsgV1{}).RType()).To(Equal(dbn.RType_SymbolMapping))
			Expect((&dbn.SymbolMappingMsgV2{}).RType()).To(Equal(dbn.RType_SymbolMapping))
			Expect((&dbn.StatMsg{}).RType()).To(Equal(dbn.RType_Statistics))
			Expect((&dbn.StatMsgV3{}).RType()).To(Equal(dbn.RType_Statistics))
			Expect((&dbn.InstrumentDefMsgV1{}).RType()).To(Equal(dbn.RType_InstrumentDef))
			Expect((&dbn.InstrumentDefMsgV2{}).RType()).To(Equal(dbn.RType_InstrumentDef))
			Expect((&dbn.InstrumentDefMsgV3{}).RType()).To(Equal(dbn.RType_InstrumentDef))
		})
	})

	Context("trade message", func() {
		It("round-trips a synthetic TradeMsg through Fill_Raw", func() {
			var hdr dbn.RHeader
			hdr.Length = uint8(dbn.TradeMsg_Size / 4)
			hdr.RType = dbn.RType_Mbp0
			hdr.PublisherID = 1
			hdr.InstrumentID = 5482
			hdr.TsEvent = 1609160400000000000

			raw := make([]byte, dbn.TradeMsg_Size)
			dbn.PutRHeader_Raw(raw[0:dbn.RHeader_Size], &hdr)

			var trade dbn.TradeMsg
			Expect(trade.Fill_Raw(raw)).To(Succeed())
			Expect(trade.Header.RType).To(Equal(dbn.RType_Mbp0))
			Expect(trade.Header.PublisherID).To(Equal(uint16(1)))
			Expect(trade.Header.InstrumentID).To(Equal(uint32(5482)))
			Expect(trade.Header.TsEvent).To(Equal(uint64(1609160400000000000)))
		})

		It("rejects a buffer shorter than its fixed size", func() {
			var trade dbn.TradeMsg
			Expect(trade.Fill_Raw(make([]byte, dbn.TradeMsg_Size-1))).ToNot(Succeed())
		})
	})

	Context("ohlcv message", func() {
		It("round-trips open/high/low/close/volume", func() {
			var hdr dbn.RHeader
			hdr.Length = uint8(dbn.OhlcvMsg_Size / 4)
			hdr.RType = dbn.RType_Ohlcv1S
			hdr.InstrumentID = 5482

			raw := make([]byte, dbn.OhlcvMsg_Size)
			dbn.PutRHeader_Raw(raw[0:dbn.RHeader_Size], &hdr)
			body := raw[dbn.RHeader_Size:]
			putInt64LE(body[0:8], 372025000000000)
			putInt64LE(body[8:16], 372050000000000)
			putInt64LE(body[16:24], 372025000000000)
			putInt64LE(body[24:32], 372050000000000)
			putUint64LE(body[32:40], 57)

			var bar dbn.OhlcvMsg
			Expect(bar.Fill_Raw(raw)).To(Succeed())
			Expect(bar.Open).To(Equal(int64(372025000000000)))
			Expect(bar.High).To(Equal(int64(372050000000000)))
			Expect(bar.Low).To(Equal(int64(372025000000000)))
			Expect(bar.Close).To(Equal(int64(372050000000000)))
			Expect(bar.Volume).To(Equal(uint64(57)))
		})
	})

	Context("gateway message version widening", func() {
		It("widens an ErrorMsgV1 to V2 with the unknown code and is_last set", func() {
			v1 := dbn.ErrorMsgV1{Err: "connection reset"}
			v1.Header.RType = dbn.RType_Error

			v2 := dbn.UpgradeErrorMsgToV2(&v1)
			Expect(v2.Err).To(Equal("connection reset"))
			Expect(v2.Code).To(Equal(uint8(0)))
			Expect(v2.IsLast).To(Equal(uint8(1)))
		})

		It("widens a SystemMsgV1 to V2", func() {
			v1 := dbn.SystemMsgV1{Msg: "heartbeat"}
			v1.Header.RType = dbn.RType_System

			v2 := dbn.UpgradeSystemMsgToV2(&v1)
			Expect(v2.Msg).To(Equal("heartbeat"))
		})

		It("widens a SymbolMappingMsgV1 to V2", func() {
			v1 := dbn.SymbolMappingMsgV1{
				StypeInSymbol:  "ESZ4",
				StypeOutSymbol: "12345",
				StartDate:      20241001,
				EndDate:        20241101,
			}
			v1.Header.RType = dbn.RType_SymbolMapping

			v2 := dbn.UpgradeSymbolMappingMsgToV2(&v1)
			Expect(v2.StypeInSymbol).To(Equal("ESZ4"))
			Expect(v2.StypeOutSymbol).To(Equal("12345"))
		})

		It("widens a v1/v2 StatMsg quantity into a StatMsgV3's wider field", func() {
			v1 := dbn.StatMsg{Quantity: 42, Price: 100}
			v1.Header.RType = dbn.RType_Statistics

			v3 := dbn.UpgradeStatMsgToV3(&v1)
			Expect(v3.Quantity).To(Equal(int64(42)))
			Expect(v3.Price).To(Equal(int64(100)))
		})
	})

	Context("instrument definition versions", func() {
		It("shares the same rtype across v1/v2/v3", func() {
			var v1 dbn.InstrumentDefMsgV1
			var v2 dbn.InstrumentDefMsgV2
			var v3 dbn.InstrumentDefMsgV3
			Expect(v1.RType()).To(Equal(v2.RType()))
			Expect(v2.RType()).To(Equal(v3.RType()))
		})

		It("carries an empty leg slice by default on v3", func() {
			var v3 dbn.InstrumentDefMsgV3
			Expect(v3.Legs).To(BeEmpty())
		})
	})
})

func putInt64LE(b []byte, v int64) { putUint64LE(b, uint64(v)) }
func putUint64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
