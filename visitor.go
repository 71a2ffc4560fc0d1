// Copyright (c) 2024 Neomantra Corp
//
// Visitor lets a caller dispatch on decoded record type without repeating
// the full RType switch decodeTyped already did once, one method per record
// shape the wire format can produce (including each version-sensitive
// gateway/stat/definition variant, since those aren't merged into a single
// type the way ts_out-agnostic records are).

package dbn

type Visitor interface {
	OnMbo(record *MboMsg) error
	OnTrade(record *TradeMsg) error
	OnMbp1(record *Mbp1Msg) error
	OnMbp10(record *Mbp10Msg) error
	OnCmbp1(record *Cmbp1Msg) error
	OnBbo(record *BboMsg) error
	OnCbbo(record *CbboMsg) error
	OnOhlcv(record *OhlcvMsg) error
	OnImbalance(record *ImbalanceMsg) error
	OnStatus(record *StatusMsg) error

	OnStatMsg(record *StatMsg) error
	OnStatMsgV3(record *StatMsgV3) error

	OnErrorMsgV1(record *ErrorMsgV1) error
	OnErrorMsgV2(record *ErrorMsgV2) error
	OnSystemMsgV1(record *SystemMsgV1) error
	OnSystemMsgV2(record *SystemMsgV2) error
	OnSymbolMappingMsgV1(record *SymbolMappingMsgV1) error
	OnSymbolMappingMsgV2(record *SymbolMappingMsgV2) error

	OnInstrumentDefV1(record *InstrumentDefMsgV1) error
	OnInstrumentDefV2(record *InstrumentDefMsgV2) error
	OnInstrumentDefV3(record *InstrumentDefMsgV3) error

	OnStreamEnd() error
}

// Dispatch type-switches ref's decoded value to the matching Visitor method,
// returning an error if ref holds a record type the Visitor interface
// doesn't cover (which should only happen for a schema newer than this
// build understands).
func Dispatch(v Visitor, ref RecordRef) error {
	switch val := ref.value.(type) {
	case *MboMsg:
		return v.OnMbo(val)
	case *TradeMsg:
		return v.OnTrade(val)
	case *Mbp1Msg:
		return v.OnMbp1(val)
	case *Mbp10Msg:
		return v.OnMbp10(val)
	case *Cmbp1Msg:
		return v.OnCmbp1(val)
	case *BboMsg:
		return v.OnBbo(val)
	case *CbboMsg:
		return v.OnCbbo(val)
	case *OhlcvMsg:
		return v.OnOhlcv(val)
	case *ImbalanceMsg:
		return v.OnImbalance(val)
	case *StatusMsg:
		return v.OnStatus(val)
	case *StatMsg:
		return v.OnStatMsg(val)
	case *StatMsgV3:
		return v.OnStatMsgV3(val)
	case *ErrorMsgV1:
		return v.OnErrorMsgV1(val)
	case *ErrorMsgV2:
		return v.OnErrorMsgV2(val)
	case *SystemMsgV1:
		return v.OnSystemMsgV1(val)
	case *SystemMsgV2:
		return v.OnSystemMsgV2(val)
	case *SymbolMappingMsgV1:
		return v.OnSymbolMappingMsgV1(val)
	case *SymbolMappingMsgV2:
		return v.OnSymbolMappingMsgV2(val)
	case *InstrumentDefMsgV1:
		return v.OnInstrumentDefV1(val)
	case *InstrumentDefMsgV2:
		return v.OnInstrumentDefV2(val)
	case *InstrumentDefMsgV3:
		return v.OnInstrumentDefV3(val)
	default:
		return newConversionErrorf("no Visitor method for rtype %v", ref.rtype)
	}
}
