// Copyright (c) 2024 Neomantra Corp
//
// InstrumentDefMsg is the one record whose layout widens at every version
// boundary: v2 added strike_price_currency and widened raw_symbol from a
// fixed 22 bytes to SymbolCstrLen; v3 added option-leg fields
// for spread instruments. Adapted from DataBento's DBN:
//   https://github.com/databento/dbn/blob/main/rust/dbn/src/record.rs

package dbn

import (
	"encoding/binary"

	"github.com/valyala/fastjson"
)

// instrumentDefCore is the set of fields identical across all three wire
// versions, factored out so the version-specific Fill_Raw methods don't
// repeat the offset arithmetic for the shared prefix.
type instrumentDefCore struct {
	TsRecv               uint64
	MinPriceIncrement    int64
	DisplayFactor        int64
	Expiration           uint64
	Activation           uint64
	HighLimitPrice       int64
	LowLimitPrice        int64
	MaxPriceVariation    int64
	UnitOfMeasureQty     int64
	MinPriceIncrementAmt int64
	PriceRatio           int64
	InstAttribValue      int32
	UnderlyingID         uint32
	RawInstrumentID      uint64
	MarketDepthImplied   int32
	MarketDepth          int32
	MarketSegmentID      uint32
	MaxTradeVol          uint32
	MinLotSize           int32
	MinLotSizeBlock      int32
	MinLotSizeRoundLot   int32
	MinTradeVol          uint32
	ContractMultiplier   int32
	DecayQuantity        int32
	OriginalContractSize int32
	TradingReferencePrice int64
	ApplID               int16
	MaturityYear         uint16
	DecayStartDate       uint16
	ChannelID            uint16
	Currency             string // 4-byte cstr
	SettlCurrency        string // 4-byte cstr
	Secsubtype           string // 6-byte cstr
	RawSymbol            string // SymbolCstrLen cstr
	Group                string // 21-byte cstr
	Exchange             string // 5-byte cstr
	Asset                string // 7-byte cstr
	Cfi                  string // 7-byte cstr
	SecurityType         string // 7-byte cstr
	UnitOfMeasure        string // 31-byte cstr
	Underlying           string // 21-byte cstr
	StrikePriceCurrency  string // 4-byte cstr
	InstrumentClass      InstrumentClass
	StrikePrice          int64
	MatchAlgorithm       MatchAlgorithm
	MainFraction         uint8
	PriceDisplayFormat   uint8
	SettlPriceType       uint8
	SubFraction          uint8
	UnderlyingProduct    uint8
	SecurityUpdateAction SecurityUpdateAction
	PriceUnitOfMeasure   int8
	MaturityMonth        uint8
	MaturityDay          uint8
	MaturityWeek         uint8
	UserDefinedInstrument UserDefinedInstrument
	ContractMultiplierUnit int8
	FlowScheduleType     int8
	TickRule             uint8
}

// InstrumentDefMsgV1 is the DBN v1 instrument definition layout: a fixed
// 22-byte raw_symbol and no strike_price_currency (introduced in v2).
type InstrumentDefMsgV1 struct {
	Header RHeader
	instrumentDefCore
}

func (*InstrumentDefMsgV1) RType() RType { return RType_InstrumentDef }

// InstrumentDefMsgV2 is the DBN v2 layout: raw_symbol widened to the
// metadata's SymbolCstrLen (usually 71) and strike_price_currency added.
type InstrumentDefMsgV2 struct {
	Header RHeader
	instrumentDefCore
}

func (*InstrumentDefMsgV2) RType() RType { return RType_InstrumentDef }

// InstrumentDefMsgV3 is the DBN v3 layout: adds leg_count and, when nonzero,
// a trailing array of option/spread leg descriptors.
type InstrumentDefMsgV3 struct {
	Header RHeader
	instrumentDefCore
	LegCount uint16
	Legs     []InstrumentDefLeg
}

func (*InstrumentDefMsgV3) RType() RType { return RType_InstrumentDef }

// InstrumentDefLeg describes one leg of a multi-leg (spread/strategy)
// instrument, introduced in DBN v3.
type InstrumentDefLeg struct {
	LegInstrumentID uint32
	LegRatioPriceNumerator   int32
	LegRatioPriceDenominator int32
	LegRatioQtyNumerator     int32
	LegRatioQtyDenominator   int32
	LegSide                  Side
}

const instrumentDefLegSize = 20

func fillInstrumentDefLegRaw(body []byte, leg *InstrumentDefLeg) {
	leg.LegInstrumentID = binary.LittleEndian.Uint32(body[0:4])
	leg.LegRatioPriceNumerator = int32(binary.LittleEndian.Uint32(body[4:8]))
	leg.LegRatioPriceDenominator = int32(binary.LittleEndian.Uint32(body[8:12]))
	leg.LegRatioQtyNumerator = int32(binary.LittleEndian.Uint32(body[12:16]))
	leg.LegRatioQtyDenominator = int32(binary.LittleEndian.Uint32(body[16:20]))
}

// symbolCstrLenV1 is the fixed width of raw_symbol in a v1
// InstrumentDefMsg (v2/v3 read the width from Metadata.SymbolCstrLen).
const symbolCstrLenV1 = 22

// Fill_Raw decodes a v1 InstrumentDefMsg. The wire layout mirrors v2 except
// raw_symbol is a fixed 22-byte cstr instead of SymbolCstrLen, and
// strike_price_currency does not exist (fixed at "USD").
func (r *InstrumentDefMsgV1) Fill_Raw(b []byte) error {
	_, err := fillInstrumentDefCommon(b, &r.Header, &r.instrumentDefCore, symbolCstrLenV1, false)
	return err
}

// Fill_Raw decodes a v2 InstrumentDefMsg, whose symbol fields are
// cstrLen bytes wide, where cstrLen comes from the enclosing Metadata.
func (r *InstrumentDefMsgV2) Fill_Raw(b []byte, cstrLen uint16) error {
	_, err := fillInstrumentDefCommon(b, &r.Header, &r.instrumentDefCore, cstrLen, true)
	return err
}

// Fill_Raw decodes a v3 InstrumentDefMsg: the v2 layout plus a trailing
// leg_count and leg array.
func (r *InstrumentDefMsgV3) Fill_Raw(b []byte, cstrLen uint16) error {
	n, err := fillInstrumentDefCommon(b, &r.Header, &r.instrumentDefCore, cstrLen, true)
	if err != nil {
		return err
	}
	rest := b[n:]
	if len(rest) < 2 {
		return unexpectedBytesError(len(rest), 2)
	}
	r.LegCount = binary.LittleEndian.Uint16(rest[0:2])
	rest = rest[2:]
	r.Legs = make([]InstrumentDefLeg, r.LegCount)
	for i := 0; i < int(r.LegCount); i++ {
		off := i * instrumentDefLegSize
		if len(rest) < off+instrumentDefLegSize {
			return unexpectedBytesError(len(rest), off+instrumentDefLegSize)
		}
		fillInstrumentDefLegRaw(rest[off:off+instrumentDefLegSize], &r.Legs[i])
		r.Legs[i].LegSide = Side(rest[off+16])
	}
	return nil
}

// fillInstrumentDefCommon decodes the shared prefix and returns the number
// of bytes consumed, so v3's Fill_Raw can continue reading the leg array
// immediately after it.
func fillInstrumentDefCommon(b []byte, hdr *RHeader, core *instrumentDefCore, cstrLen uint16, hasStrikeCurrency bool) (int, error) {
	if err := FillRHeader_Raw(b[0:RHeader_Size], hdr); err != nil {
		return 0, err
	}
	body := b[RHeader_Size:]
	const fixedNumericsSize = 8*14 + 4*13 + 2*4 // ts_recv..channel_id block
	if len(body) < fixedNumericsSize {
		return 0, unexpectedBytesError(len(body), fixedNumericsSize)
	}
	p := 0
	core.TsRecv = binary.LittleEndian.Uint64(body[p : p+8])
	p += 8
	core.MinPriceIncrement = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.DisplayFactor = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.Expiration = binary.LittleEndian.Uint64(body[p : p+8])
	p += 8
	core.Activation = binary.LittleEndian.Uint64(body[p : p+8])
	p += 8
	core.HighLimitPrice = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.LowLimitPrice = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.MaxPriceVariation = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.UnitOfMeasureQty = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.MinPriceIncrementAmt = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.PriceRatio = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.TradingReferencePrice = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.StrikePrice = int64(binary.LittleEndian.Uint64(body[p : p+8]))
	p += 8
	core.RawInstrumentID = binary.LittleEndian.Uint64(body[p : p+8])
	p += 8

	core.InstAttribValue = int32(binary.LittleEndian.Uint32(body[p : p+4]))
	p += 4
	core.UnderlyingID = binary.LittleEndian.Uint32(body[p : p+4])
	p += 4
	core.MarketDepthImplied = int32(binary.LittleEndian.Uint32(body[p : p+4]))
	p += 4
	core.MarketDepth = int32(binary.LittleEndian.Uint32(body[p : p+4]))
	p += 4
	core.MarketSegmentID = binary.LittleEndian.Uint32(body[p : p+4])
	p += 4
	core.MaxTradeVol = binary.LittleEndian.Uint32(body[p : p+4])
	p += 4
	core.MinLotSize = int32(binary.LittleEndian.Uint32(body[p : p+4]))
	p += 4
	core.MinLotSizeBlock = int32(binary.LittleEndian.Uint32(body[p : p+4]))
	p += 4
	core.MinLotSizeRoundLot = int32(binary.LittleEndian.Uint32(body[p : p+4]))
	p += 4
	core.MinTradeVol = binary.LittleEndian.Uint32(body[p : p+4])
	p += 4
	core.ContractMultiplier = int32(binary.LittleEndian.Uint32(body[p : p+4]))
	p += 4
	core.DecayQuantity = int32(binary.LittleEndian.Uint32(body[p : p+4]))
	p += 4
	core.OriginalContractSize = int32(binary.LittleEndian.Uint32(body[p : p+4]))
	p += 4

	core.ApplID = int16(binary.LittleEndian.Uint16(body[p : p+2]))
	p += 2
	core.MaturityYear = binary.LittleEndian.Uint16(body[p : p+2])
	p += 2
	core.DecayStartDate = binary.LittleEndian.Uint16(body[p : p+2])
	p += 2
	core.ChannelID = binary.LittleEndian.Uint16(body[p : p+2])
	p += 2

	readCstr := func(n uint16) (string, error) {
		if len(body) < p+int(n) {
			return "", unexpectedBytesError(len(body), p+int(n))
		}
		s := TrimNullBytes(body[p : p+int(n)])
		p += int(n)
		return s, nil
	}

	var err error
	if core.Currency, err = readCstr(4); err != nil {
		return 0, err
	}
	if core.SettlCurrency, err = readCstr(4); err != nil {
		return 0, err
	}
	if core.Secsubtype, err = readCstr(6); err != nil {
		return 0, err
	}
	if core.RawSymbol, err = readCstr(cstrLen); err != nil {
		return 0, err
	}
	if core.Group, err = readCstr(21); err != nil {
		return 0, err
	}
	if core.Exchange, err = readCstr(5); err != nil {
		return 0, err
	}
	if core.Asset, err = readCstr(7); err != nil {
		return 0, err
	}
	if core.Cfi, err = readCstr(7); err != nil {
		return 0, err
	}
	if core.SecurityType, err = readCstr(7); err != nil {
		return 0, err
	}
	if core.UnitOfMeasure, err = readCstr(31); err != nil {
		return 0, err
	}
	if core.Underlying, err = readCstr(21); err != nil {
		return 0, err
	}
	if hasStrikeCurrency {
		if core.StrikePriceCurrency, err = readCstr(4); err != nil {
			return 0, err
		}
	} else {
		core.StrikePriceCurrency = "USD"
	}

	if len(body) < p+16 {
		return 0, unexpectedBytesError(len(body), p+16)
	}
	core.InstrumentClass = InstrumentClass(body[p])
	p++
	core.MatchAlgorithm = MatchAlgorithm(body[p])
	p++
	core.MainFraction = body[p]
	p++
	core.PriceDisplayFormat = body[p]
	p++
	core.SettlPriceType = body[p]
	p++
	core.SubFraction = body[p]
	p++
	core.UnderlyingProduct = body[p]
	p++
	core.SecurityUpdateAction = SecurityUpdateAction(body[p])
	p++
	core.MaturityMonth = body[p]
	p++
	core.MaturityDay = body[p]
	p++
	core.MaturityWeek = body[p]
	p++
	core.UserDefinedInstrument = UserDefinedInstrument(body[p])
	p++
	core.ContractMultiplierUnit = int8(body[p])
	p++
	core.FlowScheduleType = int8(body[p])
	p++
	core.TickRule = body[p]
	p++
	p++ // reserved alignment byte

	return RHeader_Size + p, nil
}

func (r *InstrumentDefMsgV1) Fill_Json(val *fastjson.Value, header *RHeader) error {
	return fillInstrumentDefCoreJson(val, header, &r.Header, &r.instrumentDefCore)
}

func (r *InstrumentDefMsgV2) Fill_Json(val *fastjson.Value, header *RHeader) error {
	return fillInstrumentDefCoreJson(val, header, &r.Header, &r.instrumentDefCore)
}

func (r *InstrumentDefMsgV3) Fill_Json(val *fastjson.Value, header *RHeader) error {
	if err := fillInstrumentDefCoreJson(val, header, &r.Header, &r.instrumentDefCore); err != nil {
		return err
	}
	legs := val.GetArray("legs")
	r.Legs = make([]InstrumentDefLeg, len(legs))
	r.LegCount = uint16(len(legs))
	for i, lv := range legs {
		r.Legs[i] = InstrumentDefLeg{
			LegInstrumentID:          uint32(lv.GetUint("leg_instrument_id")),
			LegRatioPriceNumerator:   int32(lv.GetInt("leg_ratio_price_numerator")),
			LegRatioPriceDenominator: int32(lv.GetInt("leg_ratio_price_denominator")),
			LegRatioQtyNumerator:     int32(lv.GetInt("leg_ratio_qty_numerator")),
			LegRatioQtyDenominator:   int32(lv.GetInt("leg_ratio_qty_denominator")),
			LegSide:                  Side(lv.GetUint("leg_side")),
		}
	}
	return nil
}

func fillInstrumentDefCoreJson(val *fastjson.Value, header, target *RHeader, core *instrumentDefCore) error {
	*target = *header
	core.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	core.MinPriceIncrement = fastjsonGetInt64FromString(val, "min_price_increment")
	core.DisplayFactor = fastjsonGetInt64FromString(val, "display_factor")
	core.Expiration = fastjsonGetUint64FromString(val, "expiration")
	core.Activation = fastjsonGetUint64FromString(val, "activation")
	core.HighLimitPrice = fastjsonGetInt64FromString(val, "high_limit_price")
	core.LowLimitPrice = fastjsonGetInt64FromString(val, "low_limit_price")
	core.MaxPriceVariation = fastjsonGetInt64FromString(val, "max_price_variation")
	core.StrikePrice = fastjsonGetInt64FromString(val, "strike_price")
	core.RawInstrumentID = fastjsonGetUint64FromString(val, "raw_instrument_id")
	core.InstrumentClass = InstrumentClass(val.GetUint("instrument_class"))
	core.MatchAlgorithm = MatchAlgorithm(val.GetUint("match_algorithm"))
	core.SecurityUpdateAction = SecurityUpdateAction(val.GetUint("security_update_action"))
	core.UserDefinedInstrument = UserDefinedInstrument(val.GetUint("user_defined_instrument"))
	core.RawSymbol = string(val.GetStringBytes("raw_symbol"))
	core.Group = string(val.GetStringBytes("group"))
	core.Exchange = string(val.GetStringBytes("exchange"))
	core.Asset = string(val.GetStringBytes("asset"))
	core.Cfi = string(val.GetStringBytes("cfi"))
	core.SecurityType = string(val.GetStringBytes("security_type"))
	core.UnitOfMeasure = string(val.GetStringBytes("unit_of_measure"))
	core.Underlying = string(val.GetStringBytes("underlying"))
	core.Currency = string(val.GetStringBytes("currency"))
	core.SettlCurrency = string(val.GetStringBytes("settl_currency"))
	core.StrikePriceCurrency = string(val.GetStringBytes("strike_price_currency"))
	return nil
}
