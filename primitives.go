// Copyright (c) 2024 Neomantra Corp
//
// primitives.go holds small little-endian put helpers shared by the record
// encoders and the compat upgrade table, plus the fixed-width ASCII-field
// encode/validate helpers records with cstr fields need on write.

package dbn

import (
	"encoding/binary"
	"unicode"
)

func putUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func putUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func putUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
func putInt32(b []byte, v int32)   { binary.LittleEndian.PutUint32(b, uint32(v)) }
func putInt64(b []byte, v int64)   { binary.LittleEndian.PutUint64(b, uint64(v)) }

// putCstr writes s left-justified into a fixed-width, NUL-padded field. It
// returns an error if s contains non-ASCII bytes or doesn't fit, matching
// the wire format's requirement that every cstr field be plain ASCII.
func putCstr(dst []byte, s string, width int) error {
	if len(s) > width-1 {
		return newConversionErrorf("string %q exceeds field width %d", s, width-1)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return newConversionErrorf("string %q contains non-ASCII byte at index %d", s, i)
		}
	}
	n := copy(dst[:width], s)
	for i := n; i < width; i++ {
		dst[i] = 0
	}
	return nil
}

// appendInstrumentDefV2 encodes v2 into dst, appending trailer verbatim
// after the fixed body (the optional ts_out send-timestamp carried through
// from a version upgrade, or nil outside upgrade contexts).
func appendInstrumentDefV2(dst *growBuffer, v2 *InstrumentDefMsgV2, cstrLen uint16, trailer []byte) int {
	fixedSize := instrumentDefFixedSize(cstrLen, true) - RHeader_Size
	body := make([]byte, fixedSize+len(trailer))
	putInstrumentDefCore(body, &v2.instrumentDefCore, cstrLen, true)
	copy(body[fixedSize:], trailer)
	return appendRecord(dst, &v2.Header, body)
}

func appendInstrumentDefV3(dst *growBuffer, v3 *InstrumentDefMsgV3, cstrLen uint16, trailer []byte) int {
	prefix := instrumentDefFixedSize(cstrLen, true) - RHeader_Size
	legsEnd := prefix + 2 + len(v3.Legs)*instrumentDefLegSize
	body := make([]byte, legsEnd+len(trailer))
	putInstrumentDefCore(body, &v3.instrumentDefCore, cstrLen, true)
	putUint16(body[prefix:prefix+2], uint16(len(v3.Legs)))
	for i, leg := range v3.Legs {
		off := prefix + 2 + i*instrumentDefLegSize
		putUint32(body[off:off+4], leg.LegInstrumentID)
		putInt32(body[off+4:off+8], leg.LegRatioPriceNumerator)
		putInt32(body[off+8:off+12], leg.LegRatioPriceDenominator)
		putInt32(body[off+12:off+16], leg.LegRatioQtyNumerator)
		putInt32(body[off+16:off+20], leg.LegRatioQtyDenominator)
	}
	copy(body[legsEnd:], trailer)
	return appendRecord(dst, &v3.Header, body)
}

// putInstrumentDefCore encodes the fields shared by v2/v3, mirroring
// fillInstrumentDefCommon's field order exactly so the two stay in lockstep.
func putInstrumentDefCore(body []byte, core *instrumentDefCore, cstrLen uint16, hasStrikeCurrency bool) int {
	p := 0
	putUint64(body[p:p+8], core.TsRecv)
	p += 8
	putInt64(body[p:p+8], core.MinPriceIncrement)
	p += 8
	putInt64(body[p:p+8], core.DisplayFactor)
	p += 8
	putUint64(body[p:p+8], core.Expiration)
	p += 8
	putUint64(body[p:p+8], core.Activation)
	p += 8
	putInt64(body[p:p+8], core.HighLimitPrice)
	p += 8
	putInt64(body[p:p+8], core.LowLimitPrice)
	p += 8
	putInt64(body[p:p+8], core.MaxPriceVariation)
	p += 8
	putInt64(body[p:p+8], core.UnitOfMeasureQty)
	p += 8
	putInt64(body[p:p+8], core.MinPriceIncrementAmt)
	p += 8
	putInt64(body[p:p+8], core.PriceRatio)
	p += 8
	putInt64(body[p:p+8], core.TradingReferencePrice)
	p += 8
	putInt64(body[p:p+8], core.StrikePrice)
	p += 8
	putUint64(body[p:p+8], core.RawInstrumentID)
	p += 8

	putInt32(body[p:p+4], core.InstAttribValue)
	p += 4
	putUint32(body[p:p+4], core.UnderlyingID)
	p += 4
	putInt32(body[p:p+4], core.MarketDepthImplied)
	p += 4
	putInt32(body[p:p+4], core.MarketDepth)
	p += 4
	putUint32(body[p:p+4], core.MarketSegmentID)
	p += 4
	putUint32(body[p:p+4], core.MaxTradeVol)
	p += 4
	putInt32(body[p:p+4], core.MinLotSize)
	p += 4
	putInt32(body[p:p+4], core.MinLotSizeBlock)
	p += 4
	putInt32(body[p:p+4], core.MinLotSizeRoundLot)
	p += 4
	putUint32(body[p:p+4], core.MinTradeVol)
	p += 4
	putInt32(body[p:p+4], core.ContractMultiplier)
	p += 4
	putInt32(body[p:p+4], core.DecayQuantity)
	p += 4
	putInt32(body[p:p+4], core.OriginalContractSize)
	p += 4

	putUint16(body[p:p+2], uint16(core.ApplID))
	p += 2
	putUint16(body[p:p+2], core.MaturityYear)
	p += 2
	putUint16(body[p:p+2], core.DecayStartDate)
	p += 2
	putUint16(body[p:p+2], core.ChannelID)
	p += 2

	writeCstr := func(s string, n int) {
		_ = putCstr(body[p:p+n], s, n)
		p += n
	}
	writeCstr(core.Currency, 4)
	writeCstr(core.SettlCurrency, 4)
	writeCstr(core.Secsubtype, 6)
	writeCstr(core.RawSymbol, int(cstrLen))
	writeCstr(core.Group, 21)
	writeCstr(core.Exchange, 5)
	writeCstr(core.Asset, 7)
	writeCstr(core.Cfi, 7)
	writeCstr(core.SecurityType, 7)
	writeCstr(core.UnitOfMeasure, 31)
	writeCstr(core.Underlying, 21)
	if hasStrikeCurrency {
		writeCstr(core.StrikePriceCurrency, 4)
	}

	body[p] = uint8(core.InstrumentClass)
	p++
	body[p] = uint8(core.MatchAlgorithm)
	p++
	body[p] = core.MainFraction
	p++
	body[p] = core.PriceDisplayFormat
	p++
	body[p] = core.SettlPriceType
	p++
	body[p] = core.SubFraction
	p++
	body[p] = core.UnderlyingProduct
	p++
	body[p] = uint8(core.SecurityUpdateAction)
	p++
	body[p] = core.MaturityMonth
	p++
	body[p] = core.MaturityDay
	p++
	body[p] = core.MaturityWeek
	p++
	body[p] = uint8(core.UserDefinedInstrument)
	p++
	body[p] = uint8(core.ContractMultiplierUnit)
	p++
	body[p] = uint8(core.FlowScheduleType)
	p++
	body[p] = core.TickRule
	p++
	body[p] = 0 // reserved alignment byte
	p++
	return p
}
