// Copyright (c) 2024 Neomantra Corp
//
// ErrorMsg, SystemMsg, and SymbolMappingMsg are the three record types that
// differ between v1 and v2 but are unchanged from v2 to v3: v2 widened the
// free-form message/symbol fields and, for errors, added a code and an
// is_last flag marking the last message of a series.
// Adapted from DataBento's DBN record.rs.

package dbn

import (
	"encoding/binary"

	"github.com/valyala/fastjson"
)

// ErrorMsgV1 carries a fixed 64-byte error message from the gateway.
type ErrorMsgV1 struct {
	Header RHeader `json:"hd" csv:"hd"`
	Err    string  `json:"err" csv:"err"`
}

const ErrorMsgV1_Size = RHeader_Size + 64

func (*ErrorMsgV1) RType() RType { return RType_Error }
func (*ErrorMsgV1) RSize() uint8 { return ErrorMsgV1_Size }

func (r *ErrorMsgV1) Fill_Raw(b []byte) error {
	if len(b) < ErrorMsgV1_Size {
		return unexpectedBytesError(len(b), ErrorMsgV1_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	r.Err = TrimNullBytes(b[RHeader_Size:ErrorMsgV1_Size])
	return nil
}

func (r *ErrorMsgV1) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Err = string(val.GetStringBytes("err"))
	return nil
}

// ErrorMsgV2 widens the message to 302 bytes and adds a numeric error code
// and an is_last flag marking the last message of a series.
type ErrorMsgV2 struct {
	Header    RHeader `json:"hd" csv:"hd"`
	Err       string  `json:"err" csv:"err"`
	Code      uint8   `json:"code" csv:"code"`
	IsLast    uint8   `json:"is_last" csv:"is_last"`
}

const ErrorMsgV2_Size = RHeader_Size + 302 + 2

func (*ErrorMsgV2) RType() RType { return RType_Error }
func (*ErrorMsgV2) RSize() uint8 { return ErrorMsgV2_Size }

func (r *ErrorMsgV2) Fill_Raw(b []byte) error {
	if len(b) < ErrorMsgV2_Size {
		return unexpectedBytesError(len(b), ErrorMsgV2_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Err = TrimNullBytes(body[0:302])
	r.Code = body[302]
	r.IsLast = body[303]
	return nil
}

func (r *ErrorMsgV2) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Err = string(val.GetStringBytes("err"))
	r.Code = uint8(val.GetUint("code"))
	r.IsLast = uint8(val.GetUint("is_last"))
	return nil
}

// UpgradeErrorMsgToV2 widens a v1 error into the v2 layout, per the
// additive-only upgrade rule: the code is set to the "unknown" sentinel (0)
// since v1 never carried one, and is_last defaults to true since v1 errors
// were always understood to be terminal for the decode attempt that hit
// them.
func UpgradeErrorMsgToV2(src *ErrorMsgV1) *ErrorMsgV2 {
	return &ErrorMsgV2{Header: src.Header, Err: src.Err, Code: 0, IsLast: 1}
}

///////////////////////////////////////////////////////////////////////////////

// SystemMsgV1 carries a fixed 64-byte informational message from the
// gateway, including heartbeats.
type SystemMsgV1 struct {
	Header RHeader `json:"hd" csv:"hd"`
	Msg    string  `json:"msg" csv:"msg"`
}

const SystemMsgV1_Size = RHeader_Size + 64

func (*SystemMsgV1) RType() RType { return RType_System }
func (*SystemMsgV1) RSize() uint8 { return SystemMsgV1_Size }

func (r *SystemMsgV1) Fill_Raw(b []byte) error {
	if len(b) < SystemMsgV1_Size {
		return unexpectedBytesError(len(b), SystemMsgV1_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	r.Msg = TrimNullBytes(b[RHeader_Size:SystemMsgV1_Size])
	return nil
}

func (r *SystemMsgV1) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Msg = string(val.GetStringBytes("msg"))
	return nil
}

// IsHeartbeat reports whether the message is a keep-alive rather than
// substantive gateway information.
func (r *SystemMsgV1) IsHeartbeat() bool { return r.Msg == "Heartbeat" }

// SystemMsgV2 widens the message to 303 bytes and adds a code classifying
// the message (e.g. heartbeat vs. subscription ack).
type SystemMsgV2 struct {
	Header RHeader `json:"hd" csv:"hd"`
	Msg    string  `json:"msg" csv:"msg"`
	Code   uint8   `json:"code" csv:"code"`
}

const SystemMsgV2_Size = RHeader_Size + 303 + 1

func (*SystemMsgV2) RType() RType { return RType_System }
func (*SystemMsgV2) RSize() uint8 { return SystemMsgV2_Size }

func (r *SystemMsgV2) Fill_Raw(b []byte) error {
	if len(b) < SystemMsgV2_Size {
		return unexpectedBytesError(len(b), SystemMsgV2_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Msg = TrimNullBytes(body[0:303])
	r.Code = body[303]
	return nil
}

func (r *SystemMsgV2) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Msg = string(val.GetStringBytes("msg"))
	r.Code = uint8(val.GetUint("code"))
	return nil
}

func (r *SystemMsgV2) IsHeartbeat() bool { return r.Msg == "Heartbeat" }

// UpgradeSystemMsgToV2 widens a v1 system message into the v2 layout. v1
// carried no code, so heartbeats are tagged 0 and everything else 1,
// matching the binary classification v1 callers relied on (IsHeartbeat).
func UpgradeSystemMsgToV2(src *SystemMsgV1) *SystemMsgV2 {
	code := uint8(1)
	if src.IsHeartbeat() {
		code = 0
	}
	return &SystemMsgV2{Header: src.Header, Msg: src.Msg, Code: code}
}

///////////////////////////////////////////////////////////////////////////////

// SymbolMappingMsgV1 maps an input symbol to an output symbol over a time
// interval, with fixed 22-byte cstr fields (DBN v1's fixed SymbolCstrLen).
type SymbolMappingMsgV1 struct {
	Header         RHeader `json:"hd" csv:"hd"`
	StypeInSymbol  string  `json:"stype_in_symbol" csv:"stype_in_symbol"`
	StypeOutSymbol string  `json:"stype_out_symbol" csv:"stype_out_symbol"`
	StartDate      uint32  `json:"start_date" csv:"start_date"`
	EndDate        uint32  `json:"end_date" csv:"end_date"`
}

const symbolMappingV1CstrLen = 22
const SymbolMappingMsgV1_Size = RHeader_Size + 2*symbolMappingV1CstrLen + 8

func (*SymbolMappingMsgV1) RType() RType { return RType_SymbolMapping }
func (*SymbolMappingMsgV1) RSize() uint8 { return SymbolMappingMsgV1_Size }

func (r *SymbolMappingMsgV1) Fill_Raw(b []byte) error {
	if len(b) < SymbolMappingMsgV1_Size {
		return unexpectedBytesError(len(b), SymbolMappingMsgV1_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.StypeInSymbol = TrimNullBytes(body[0:symbolMappingV1CstrLen])
	pos := symbolMappingV1CstrLen
	r.StypeOutSymbol = TrimNullBytes(body[pos : pos+symbolMappingV1CstrLen])
	pos += symbolMappingV1CstrLen
	r.StartDate = binary.LittleEndian.Uint32(body[pos : pos+4])
	r.EndDate = binary.LittleEndian.Uint32(body[pos+4 : pos+8])
	return nil
}

func (r *SymbolMappingMsgV1) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.StypeInSymbol = string(val.GetStringBytes("stype_in_symbol"))
	r.StypeOutSymbol = string(val.GetStringBytes("stype_out_symbol"))
	r.StartDate = uint32(val.GetUint("start_date"))
	r.EndDate = uint32(val.GetUint("end_date"))
	return nil
}

// SymbolMappingMsgV2 adds explicit stype_in/stype_out tags and widens the
// symbol fields to the enclosing Metadata's SymbolCstrLen (not a fixed
// value, since v2+ metadata can negotiate it).
type SymbolMappingMsgV2 struct {
	Header         RHeader `json:"hd" csv:"hd"`
	StypeIn        SType   `json:"stype_in" csv:"stype_in"`
	StypeInSymbol  string  `json:"stype_in_symbol" csv:"stype_in_symbol"`
	StypeOut       SType   `json:"stype_out" csv:"stype_out"`
	StypeOutSymbol string  `json:"stype_out_symbol" csv:"stype_out_symbol"`
	StartTs        uint64  `json:"start_ts" csv:"start_ts"`
	EndTs          uint64  `json:"end_ts" csv:"end_ts"`
}

// SymbolMappingMsgV2_MinSize is the size with 0-length cstr fields; add
// 2*cstrLen to get the real record size for a given Metadata.SymbolCstrLen.
const SymbolMappingMsgV2_MinSize = RHeader_Size + 2 + 16

func (*SymbolMappingMsgV2) RType() RType { return RType_SymbolMapping }

// RSize computes the wire size for the given SymbolCstrLen.
func (*SymbolMappingMsgV2) RSize(cstrLen uint16) uint16 {
	return SymbolMappingMsgV2_MinSize + 2*cstrLen
}

func (r *SymbolMappingMsgV2) Fill_Raw(b []byte, cstrLen uint16) error {
	rsize := int((&SymbolMappingMsgV2{}).RSize(cstrLen))
	if len(b) < rsize {
		return unexpectedBytesError(len(b), rsize)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.StypeIn = SType(body[0])
	r.StypeInSymbol = TrimNullBytes(body[1 : 1+cstrLen])
	pos := 1 + cstrLen
	r.StypeOut = SType(body[pos])
	r.StypeOutSymbol = TrimNullBytes(body[pos+1 : pos+1+cstrLen])
	pos = pos + 1 + cstrLen
	r.StartTs = binary.LittleEndian.Uint64(body[pos : pos+8])
	r.EndTs = binary.LittleEndian.Uint64(body[pos+8 : pos+16])
	return nil
}

func (r *SymbolMappingMsgV2) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.StypeIn = SType(val.GetUint("stype_in"))
	r.StypeInSymbol = string(val.GetStringBytes("stype_in_symbol"))
	r.StypeOut = SType(val.GetUint("stype_out"))
	r.StypeOutSymbol = string(val.GetStringBytes("stype_out_symbol"))
	r.StartTs = val.GetUint64("start_ts")
	r.EndTs = val.GetUint64("end_ts")
	return nil
}

// UpgradeSymbolMappingMsgToV2 widens a v1 symbol mapping into the v2 layout.
// v1 has no explicit stype tags, so both are set to RawSymbol — the implicit
// assumption under every v1 dataset — and the date interval is converted to
// nanosecond timestamps at UTC midnight, per the version upgrade table.
func UpgradeSymbolMappingMsgToV2(src *SymbolMappingMsgV1) *SymbolMappingMsgV2 {
	return &SymbolMappingMsgV2{
		Header:         src.Header,
		StypeIn:        SType_RawSymbol,
		StypeInSymbol:  src.StypeInSymbol,
		StypeOut:       SType_RawSymbol,
		StypeOutSymbol: src.StypeOutSymbol,
		StartTs:        uint64(YMDToTime(src.StartDate).UnixNano()),
		EndTs:          uint64(YMDToTime(src.EndDate).UnixNano()),
	}
}
