// Copyright (c) 2024 Neomantra Corp

package dbn

// NullVisitor implements Visitor with every method a no-op. It is useful as
// an embeddable base for a caller that only cares about a handful of record
// types, overriding just those methods.
type NullVisitor struct {
}

func (v *NullVisitor) OnMbo(record *MboMsg) error                        { return nil }
func (v *NullVisitor) OnTrade(record *TradeMsg) error                    { return nil }
func (v *NullVisitor) OnMbp1(record *Mbp1Msg) error                       { return nil }
func (v *NullVisitor) OnMbp10(record *Mbp10Msg) error                     { return nil }
func (v *NullVisitor) OnCmbp1(record *Cmbp1Msg) error                     { return nil }
func (v *NullVisitor) OnBbo(record *BboMsg) error                         { return nil }
func (v *NullVisitor) OnCbbo(record *CbboMsg) error                       { return nil }
func (v *NullVisitor) OnOhlcv(record *OhlcvMsg) error                     { return nil }
func (v *NullVisitor) OnImbalance(record *ImbalanceMsg) error             { return nil }
func (v *NullVisitor) OnStatus(record *StatusMsg) error                   { return nil }
func (v *NullVisitor) OnStatMsg(record *StatMsg) error                    { return nil }
func (v *NullVisitor) OnStatMsgV3(record *StatMsgV3) error                { return nil }
func (v *NullVisitor) OnErrorMsgV1(record *ErrorMsgV1) error              { return nil }
func (v *NullVisitor) OnErrorMsgV2(record *ErrorMsgV2) error              { return nil }
func (v *NullVisitor) OnSystemMsgV1(record *SystemMsgV1) error            { return nil }
func (v *NullVisitor) OnSystemMsgV2(record *SystemMsgV2) error            { return nil }
func (v *NullVisitor) OnSymbolMappingMsgV1(record *SymbolMappingMsgV1) error { return nil }
func (v *NullVisitor) OnSymbolMappingMsgV2(record *SymbolMappingMsgV2) error { return nil }
func (v *NullVisitor) OnInstrumentDefV1(record *InstrumentDefMsgV1) error { return nil }
func (v *NullVisitor) OnInstrumentDefV2(record *InstrumentDefMsgV2) error { return nil }
func (v *NullVisitor) OnInstrumentDefV3(record *InstrumentDefMsgV3) error { return nil }

func (v *NullVisitor) OnStreamEnd() error {
	return nil
}
