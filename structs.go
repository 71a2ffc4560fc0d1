// Copyright (c) 2024 Neomantra Corp
//
// DBN File Layout:
//   https://databento.com/docs/knowledge-base/new-users/dbn-encoding/layout
//
// Schemas:
//   https://databento.com/docs/knowledge-base/new-users/fields-by-schema/
//
// Adapted from DataBento's DBN:
//   https://github.com/databento/dbn/blob/main/rust/dbn/src/record.rs
//
// DBN encoding is little-endian. Every record variant below is identical
// across DBN v1, v2, and v3 — only InstrumentDefMsg, StatMsg, and the
// gateway messages (Error/System/SymbolMapping) change shape by version;
// those live in their own files.

package dbn

import (
	"encoding/binary"

	"github.com/valyala/fastjson"
	"github.com/valyala/fastjson/fastfloat"
)

///////////////////////////////////////////////////////////////////////////////

// Record is implemented by every concrete DBN record layout.
type Record interface {
	RType() RType
}

// RecordPtr constrains a pointer-to-record type with the methods the decoder
// and JSON front end need to fill one in place.
type RecordPtr[T any] interface {
	*T
	Record

	RSize() uint8
	Fill_Raw([]byte) error
	Fill_Json(val *fastjson.Value, header *RHeader) error
}

// fastjsonGetInt64FromString decodes a fastjson string field as an int64,
// since DBN's JSON encoding represents 64-bit integers as strings to avoid
// precision loss in JS/Python number types.
func fastjsonGetInt64FromString(val *fastjson.Value, key string) int64 {
	return fastfloat.ParseInt64BestEffort(string(val.GetStringBytes(key)))
}

func fastjsonGetUint64FromString(val *fastjson.Value, key string) uint64 {
	return fastfloat.ParseUint64BestEffort(string(val.GetStringBytes(key)))
}

///////////////////////////////////////////////////////////////////////////////

// RHeader is the 16-byte prefix common to every DBN record.
type RHeader struct {
	// Length is the record length in 4-byte words, including the header.
	Length       uint8  `json:"len,omitempty"`
	RType        RType  `json:"rtype" csv:"rtype"`
	PublisherID  uint16 `json:"publisher_id" csv:"publisher_id"`
	InstrumentID uint32 `json:"instrument_id" csv:"instrument_id"`
	TsEvent      uint64 `json:"ts_event" csv:"ts_event"`
}

const RHeader_Size = 16

func (h *RHeader) RSize() uint8 { return RHeader_Size }

// ByteSize returns the record's total size in bytes, derived from the packed
// 4-byte-word Length field.
func (h *RHeader) ByteSize() int { return int(h.Length) * 4 }

func FillRHeader_Raw(b []byte, h *RHeader) error {
	if len(b) < RHeader_Size {
		return unexpectedBytesError(len(b), RHeader_Size)
	}
	h.Length = b[0]
	h.RType = RType(b[1])
	h.PublisherID = binary.LittleEndian.Uint16(b[2:4])
	h.InstrumentID = binary.LittleEndian.Uint32(b[4:8])
	h.TsEvent = binary.LittleEndian.Uint64(b[8:16])
	return nil
}

// PutRHeader_Raw writes h into b, which must be at least RHeader_Size bytes.
func PutRHeader_Raw(b []byte, h *RHeader) {
	b[0] = h.Length
	b[1] = uint8(h.RType)
	binary.LittleEndian.PutUint16(b[2:4], h.PublisherID)
	binary.LittleEndian.PutUint32(b[4:8], h.InstrumentID)
	binary.LittleEndian.PutUint64(b[8:16], h.TsEvent)
}

func FillRHeader_Json(val *fastjson.Value, h *RHeader) error {
	h.TsEvent = fastjsonGetUint64FromString(val, "ts_event")
	h.PublisherID = uint16(val.GetUint("publisher_id"))
	h.InstrumentID = uint32(val.GetUint("instrument_id"))
	h.RType = RType(val.GetUint("rtype"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// BidAskPair is one level of an MBP order book snapshot.
type BidAskPair struct {
	BidPx    int64  `json:"bid_px" csv:"bid_px"`
	AskPx    int64  `json:"ask_px" csv:"ask_px"`
	BidSz    uint32 `json:"bid_sz" csv:"bid_sz"`
	AskSz    uint32 `json:"ask_sz" csv:"ask_sz"`
	BidCt    uint32 `json:"bid_ct" csv:"bid_ct"`
	AskCt    uint32 `json:"ask_ct" csv:"ask_ct"`
}

const BidAskPair_Size = 32

func fillBidAskPairRaw(body []byte, p *BidAskPair) {
	p.BidPx = int64(binary.LittleEndian.Uint64(body[0:8]))
	p.AskPx = int64(binary.LittleEndian.Uint64(body[8:16]))
	p.BidSz = binary.LittleEndian.Uint32(body[16:20])
	p.AskSz = binary.LittleEndian.Uint32(body[20:24])
	p.BidCt = binary.LittleEndian.Uint32(body[24:28])
	p.AskCt = binary.LittleEndian.Uint32(body[28:32])
}

func putBidAskPairRaw(body []byte, p *BidAskPair) {
	binary.LittleEndian.PutUint64(body[0:8], uint64(p.BidPx))
	binary.LittleEndian.PutUint64(body[8:16], uint64(p.AskPx))
	binary.LittleEndian.PutUint32(body[16:20], p.BidSz)
	binary.LittleEndian.PutUint32(body[20:24], p.AskSz)
	binary.LittleEndian.PutUint32(body[24:28], p.BidCt)
	binary.LittleEndian.PutUint32(body[28:32], p.AskCt)
}

// ConsolidatedBidAskPair is one level of a consolidated (cross-venue) book
// snapshot, carrying the publisher each side's best price came from.
type ConsolidatedBidAskPair struct {
	BidPx     int64  `json:"bid_px" csv:"bid_px"`
	AskPx     int64  `json:"ask_px" csv:"ask_px"`
	BidSz     uint32 `json:"bid_sz" csv:"bid_sz"`
	AskSz     uint32 `json:"ask_sz" csv:"ask_sz"`
	BidPb     uint16 `json:"bid_pb" csv:"bid_pb"`
	Reserved1 uint16 `json:"-" csv:"-"`
	AskPb     uint16 `json:"ask_pb" csv:"ask_pb"`
	Reserved2 uint16 `json:"-" csv:"-"`
}

const ConsolidatedBidAskPair_Size = 32

func fillConsolidatedBidAskPairRaw(body []byte, p *ConsolidatedBidAskPair) {
	p.BidPx = int64(binary.LittleEndian.Uint64(body[0:8]))
	p.AskPx = int64(binary.LittleEndian.Uint64(body[8:16]))
	p.BidSz = binary.LittleEndian.Uint32(body[16:20])
	p.AskSz = binary.LittleEndian.Uint32(body[20:24])
	p.BidPb = binary.LittleEndian.Uint16(body[24:26])
	p.Reserved1 = binary.LittleEndian.Uint16(body[26:28])
	p.AskPb = binary.LittleEndian.Uint16(body[28:30])
	p.Reserved2 = binary.LittleEndian.Uint16(body[30:32])
}

func putConsolidatedBidAskPairRaw(body []byte, p *ConsolidatedBidAskPair) {
	binary.LittleEndian.PutUint64(body[0:8], uint64(p.BidPx))
	binary.LittleEndian.PutUint64(body[8:16], uint64(p.AskPx))
	binary.LittleEndian.PutUint32(body[16:20], p.BidSz)
	binary.LittleEndian.PutUint32(body[20:24], p.AskSz)
	binary.LittleEndian.PutUint16(body[24:26], p.BidPb)
	binary.LittleEndian.PutUint16(body[26:28], 0)
	binary.LittleEndian.PutUint16(body[28:30], p.AskPb)
	binary.LittleEndian.PutUint16(body[30:32], 0)
}

///////////////////////////////////////////////////////////////////////////////

// MboMsg is a market-by-order event: one add/cancel/modify/fill/trade/clear
// against a single resting order.
type MboMsg struct {
	Header     RHeader `json:"hd" csv:"hd"`
	OrderID    uint64  `json:"order_id" csv:"order_id"`
	Price      int64   `json:"price" csv:"price"`
	Size       uint32  `json:"size" csv:"size"`
	Flags      uint8   `json:"flags" csv:"flags"`
	ChannelID  uint8   `json:"channel_id" csv:"channel_id"`
	Action     Action  `json:"action" csv:"action"`
	Side       Side    `json:"side" csv:"side"`
	TsRecv     uint64  `json:"ts_recv" csv:"ts_recv"`
	TsInDelta  int32   `json:"ts_in_delta" csv:"ts_in_delta"`
	Sequence   uint32  `json:"sequence" csv:"sequence"`
}

const MboMsg_Size = RHeader_Size + 40

func (*MboMsg) RType() RType { return RType_Mbo }
func (*MboMsg) RSize() uint8 { return MboMsg_Size }

func (r *MboMsg) Fill_Raw(b []byte) error {
	if len(b) < MboMsg_Size {
		return unexpectedBytesError(len(b), MboMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.OrderID = binary.LittleEndian.Uint64(body[0:8])
	r.Price = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Size = binary.LittleEndian.Uint32(body[16:20])
	r.Flags = body[20]
	r.ChannelID = body[21]
	r.Action = Action(body[22])
	r.Side = Side(body[23])
	r.TsRecv = binary.LittleEndian.Uint64(body[24:32])
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[32:36]))
	r.Sequence = binary.LittleEndian.Uint32(body[36:40])
	return nil
}

func (r *MboMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.OrderID = fastjsonGetUint64FromString(val, "order_id")
	r.Price = fastjsonGetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Flags = uint8(val.GetUint("flags"))
	r.ChannelID = uint8(val.GetUint("channel_id"))
	r.Action = Action(val.GetUint("action"))
	r.Side = Side(val.GetUint("side"))
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.Sequence = uint32(val.GetUint("sequence"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// TradeMsg is a single trade/fill event (the Trades schema, rtype Mbp0).
type TradeMsg struct {
	Header    RHeader `json:"hd" csv:"hd"`
	TsRecv    uint64  `json:"ts_recv" csv:"ts_recv"`
	Price     int64   `json:"price" csv:"price"`
	Size      uint32  `json:"size" csv:"size"`
	Action    Action  `json:"action" csv:"action"`
	Side      Side    `json:"side" csv:"side"`
	Flags     uint8   `json:"flags" csv:"flags"`
	Depth     uint8   `json:"depth" csv:"depth"`
	TsInDelta int32   `json:"ts_in_delta" csv:"ts_in_delta"`
	Sequence  uint32  `json:"sequence" csv:"sequence"`
}

const TradeMsg_Size = RHeader_Size + 32

func (*TradeMsg) RType() RType { return RType_Mbp0 }
func (*TradeMsg) RSize() uint8 { return TradeMsg_Size }

func (r *TradeMsg) Fill_Raw(b []byte) error {
	if len(b) < TradeMsg_Size {
		return unexpectedBytesError(len(b), TradeMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Price = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Size = binary.LittleEndian.Uint32(body[16:20])
	r.Action = Action(body[20])
	r.Side = Side(body[21])
	r.Flags = body[22]
	r.Depth = body[23]
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.Sequence = binary.LittleEndian.Uint32(body[28:32])
	return nil
}

func (r *TradeMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.Price = fastjsonGetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Action = Action(val.GetUint("action"))
	r.Side = Side(val.GetUint("side"))
	r.Flags = uint8(val.GetUint("flags"))
	r.Depth = uint8(val.GetUint("depth"))
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.Sequence = uint32(val.GetUint("sequence"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// Mbp1Msg is a depth-1 market-by-price snapshot (also used for Tbbo).
type Mbp1Msg struct {
	Header    RHeader      `json:"hd" csv:"hd"`
	TsRecv    uint64       `json:"ts_recv" csv:"ts_recv"`
	Price     int64        `json:"price" csv:"price"`
	Size      uint32       `json:"size" csv:"size"`
	Action    Action       `json:"action" csv:"action"`
	Side      Side         `json:"side" csv:"side"`
	Flags     uint8        `json:"flags" csv:"flags"`
	Depth     uint8        `json:"depth" csv:"depth"`
	TsInDelta int32        `json:"ts_in_delta" csv:"ts_in_delta"`
	Sequence  uint32       `json:"sequence" csv:"sequence"`
	Levels    [1]BidAskPair `json:"levels" csv:"levels"`
}

const Mbp1Msg_Size = RHeader_Size + 32 + BidAskPair_Size

func (*Mbp1Msg) RType() RType { return RType_Mbp1 }
func (*Mbp1Msg) RSize() uint8 { return Mbp1Msg_Size }

func (r *Mbp1Msg) Fill_Raw(b []byte) error {
	if len(b) < Mbp1Msg_Size {
		return unexpectedBytesError(len(b), Mbp1Msg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Price = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Size = binary.LittleEndian.Uint32(body[16:20])
	r.Action = Action(body[20])
	r.Side = Side(body[21])
	r.Flags = body[22]
	r.Depth = body[23]
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.Sequence = binary.LittleEndian.Uint32(body[28:32])
	fillBidAskPairRaw(body[32:64], &r.Levels[0])
	return nil
}

func (r *Mbp1Msg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.Price = fastjsonGetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Action = Action(val.GetUint("action"))
	r.Side = Side(val.GetUint("side"))
	r.Flags = uint8(val.GetUint("flags"))
	r.Depth = uint8(val.GetUint("depth"))
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.Sequence = uint32(val.GetUint("sequence"))
	if levels := val.GetArray("levels"); len(levels) > 0 {
		fillBidAskPairJson(levels[0], &r.Levels[0])
	}
	return nil
}

func fillBidAskPairJson(val *fastjson.Value, p *BidAskPair) {
	p.BidPx = fastjsonGetInt64FromString(val, "bid_px")
	p.AskPx = fastjsonGetInt64FromString(val, "ask_px")
	p.BidSz = uint32(val.GetUint("bid_sz"))
	p.AskSz = uint32(val.GetUint("ask_sz"))
	p.BidCt = uint32(val.GetUint("bid_ct"))
	p.AskCt = uint32(val.GetUint("ask_ct"))
}

///////////////////////////////////////////////////////////////////////////////

// Mbp10Msg is a depth-10 market-by-price snapshot.
type Mbp10Msg struct {
	Header    RHeader        `json:"hd" csv:"hd"`
	TsRecv    uint64         `json:"ts_recv" csv:"ts_recv"`
	Price     int64          `json:"price" csv:"price"`
	Size      uint32         `json:"size" csv:"size"`
	Action    Action         `json:"action" csv:"action"`
	Side      Side           `json:"side" csv:"side"`
	Flags     uint8          `json:"flags" csv:"flags"`
	Depth     uint8          `json:"depth" csv:"depth"`
	TsInDelta int32          `json:"ts_in_delta" csv:"ts_in_delta"`
	Sequence  uint32         `json:"sequence" csv:"sequence"`
	Levels    [10]BidAskPair `json:"levels" csv:"levels"`
}

const Mbp10Msg_Size = RHeader_Size + 32 + 10*BidAskPair_Size

func (*Mbp10Msg) RType() RType { return RType_Mbp10 }
func (*Mbp10Msg) RSize() uint8 { return Mbp10Msg_Size }

func (r *Mbp10Msg) Fill_Raw(b []byte) error {
	if len(b) < Mbp10Msg_Size {
		return unexpectedBytesError(len(b), Mbp10Msg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Price = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Size = binary.LittleEndian.Uint32(body[16:20])
	r.Action = Action(body[20])
	r.Side = Side(body[21])
	r.Flags = body[22]
	r.Depth = body[23]
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.Sequence = binary.LittleEndian.Uint32(body[28:32])
	for i := 0; i < 10; i++ {
		off := 32 + i*BidAskPair_Size
		fillBidAskPairRaw(body[off:off+BidAskPair_Size], &r.Levels[i])
	}
	return nil
}

func (r *Mbp10Msg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.Price = fastjsonGetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Action = Action(val.GetUint("action"))
	r.Side = Side(val.GetUint("side"))
	r.Flags = uint8(val.GetUint("flags"))
	r.Depth = uint8(val.GetUint("depth"))
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.Sequence = uint32(val.GetUint("sequence"))
	levels := val.GetArray("levels")
	for i := 0; i < len(levels) && i < 10; i++ {
		fillBidAskPairJson(levels[i], &r.Levels[i])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// Cmbp1Msg is a consolidated (cross-venue) depth-1 snapshot.
type Cmbp1Msg struct {
	Header    RHeader                   `json:"hd" csv:"hd"`
	TsRecv    uint64                    `json:"ts_recv" csv:"ts_recv"`
	Price     int64                     `json:"price" csv:"price"`
	Size      uint32                    `json:"size" csv:"size"`
	Action    Action                    `json:"action" csv:"action"`
	Side      Side                      `json:"side" csv:"side"`
	Flags     uint8                     `json:"flags" csv:"flags"`
	Reserved1 uint8                     `json:"-" csv:"-"`
	Reserved2 int32                     `json:"-" csv:"-"`
	Reserved3 uint32                    `json:"-" csv:"-"`
	Levels    [1]ConsolidatedBidAskPair `json:"levels" csv:"levels"`
}

const Cmbp1Msg_Size = RHeader_Size + 32 + ConsolidatedBidAskPair_Size

func (*Cmbp1Msg) RType() RType { return RType_Cmbp1 }
func (*Cmbp1Msg) RSize() uint8 { return Cmbp1Msg_Size }

func (r *Cmbp1Msg) Fill_Raw(b []byte) error {
	if len(b) < Cmbp1Msg_Size {
		return unexpectedBytesError(len(b), Cmbp1Msg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Price = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Size = binary.LittleEndian.Uint32(body[16:20])
	r.Action = Action(body[20])
	r.Side = Side(body[21])
	r.Flags = body[22]
	r.Reserved1 = body[23]
	r.Reserved2 = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.Reserved3 = binary.LittleEndian.Uint32(body[28:32])
	fillConsolidatedBidAskPairRaw(body[32:64], &r.Levels[0])
	return nil
}

func (r *Cmbp1Msg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.Price = fastjsonGetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Action = Action(val.GetUint("action"))
	r.Side = Side(val.GetUint("side"))
	r.Flags = uint8(val.GetUint("flags"))
	if levels := val.GetArray("levels"); len(levels) > 0 {
		fillConsolidatedBidAskPairJson(levels[0], &r.Levels[0])
	}
	return nil
}

func fillConsolidatedBidAskPairJson(val *fastjson.Value, p *ConsolidatedBidAskPair) {
	p.BidPx = fastjsonGetInt64FromString(val, "bid_px")
	p.AskPx = fastjsonGetInt64FromString(val, "ask_px")
	p.BidSz = uint32(val.GetUint("bid_sz"))
	p.AskSz = uint32(val.GetUint("ask_sz"))
	p.BidPb = uint16(val.GetUint("bid_pb"))
	p.AskPb = uint16(val.GetUint("ask_pb"))
}

///////////////////////////////////////////////////////////////////////////////

// BboMsg is a best-bid-offer snapshot sampled on a fixed time bucket.
type BboMsg struct {
	Header   RHeader       `json:"hd" csv:"hd"`
	Price    int64         `json:"price" csv:"price"`
	Size     uint32        `json:"size" csv:"size"`
	Side     Side          `json:"side" csv:"side"`
	Flags    uint8         `json:"flags" csv:"flags"`
	Reserved uint16        `json:"-" csv:"-"`
	TsRecv   uint64        `json:"ts_recv" csv:"ts_recv"`
	Sequence uint32        `json:"sequence" csv:"sequence"`
	Levels   [1]BidAskPair `json:"levels" csv:"levels"`
}

const BboMsg_Size = RHeader_Size + 32 + BidAskPair_Size

func (r *BboMsg) RType() RType { return RType(r.Header.RType) }
func (*BboMsg) RSize() uint8 { return BboMsg_Size }

func (r *BboMsg) Fill_Raw(b []byte) error {
	if len(b) < BboMsg_Size {
		return unexpectedBytesError(len(b), BboMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Price = int64(binary.LittleEndian.Uint64(body[0:8]))
	r.Size = binary.LittleEndian.Uint32(body[8:12])
	r.Side = Side(body[12])
	r.Flags = body[13]
	r.Reserved = binary.LittleEndian.Uint16(body[14:16])
	r.TsRecv = binary.LittleEndian.Uint64(body[16:24])
	r.Sequence = binary.LittleEndian.Uint32(body[24:28])
	fillBidAskPairRaw(body[32:32+BidAskPair_Size], &r.Levels[0])
	return nil
}

func (r *BboMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Price = fastjsonGetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Side = Side(val.GetUint("side"))
	r.Flags = uint8(val.GetUint("flags"))
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.Sequence = uint32(val.GetUint("sequence"))
	if levels := val.GetArray("levels"); len(levels) > 0 {
		fillBidAskPairJson(levels[0], &r.Levels[0])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// CbboMsg is a consolidated (cross-venue) best-bid-offer snapshot sampled on
// a fixed time bucket, or on a trade for the Tcbbo schema.
type CbboMsg struct {
	Header   RHeader                   `json:"hd" csv:"hd"`
	Price    int64                     `json:"price" csv:"price"`
	Size     uint32                    `json:"size" csv:"size"`
	Side     Side                      `json:"side" csv:"side"`
	Flags    uint8                     `json:"flags" csv:"flags"`
	Reserved uint16                    `json:"-" csv:"-"`
	TsRecv   uint64                    `json:"ts_recv" csv:"ts_recv"`
	Sequence uint32                    `json:"sequence" csv:"sequence"`
	Levels   [1]ConsolidatedBidAskPair `json:"levels" csv:"levels"`
}

const CbboMsg_Size = RHeader_Size + 32 + ConsolidatedBidAskPair_Size

func (r *CbboMsg) RType() RType { return RType(r.Header.RType) }
func (*CbboMsg) RSize() uint8 { return CbboMsg_Size }

func (r *CbboMsg) Fill_Raw(b []byte) error {
	if len(b) < CbboMsg_Size {
		return unexpectedBytesError(len(b), CbboMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Price = int64(binary.LittleEndian.Uint64(body[0:8]))
	r.Size = binary.LittleEndian.Uint32(body[8:12])
	r.Side = Side(body[12])
	r.Flags = body[13]
	r.Reserved = binary.LittleEndian.Uint16(body[14:16])
	r.TsRecv = binary.LittleEndian.Uint64(body[16:24])
	r.Sequence = binary.LittleEndian.Uint32(body[24:28])
	fillConsolidatedBidAskPairRaw(body[32:32+ConsolidatedBidAskPair_Size], &r.Levels[0])
	return nil
}

func (r *CbboMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Price = fastjsonGetInt64FromString(val, "price")
	r.Size = uint32(val.GetUint("size"))
	r.Side = Side(val.GetUint("side"))
	r.Flags = uint8(val.GetUint("flags"))
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.Sequence = uint32(val.GetUint("sequence"))
	if levels := val.GetArray("levels"); len(levels) > 0 {
		fillConsolidatedBidAskPairJson(levels[0], &r.Levels[0])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// OhlcvMsg is an open/high/low/close/volume bar.
type OhlcvMsg struct {
	Header RHeader `json:"hd" csv:"hd"`
	Open   int64   `json:"open" csv:"open"`
	High   int64   `json:"high" csv:"high"`
	Low    int64   `json:"low" csv:"low"`
	Close  int64   `json:"close" csv:"close"`
	Volume uint64  `json:"volume" csv:"volume"`
}

const OhlcvMsg_Size = RHeader_Size + 40

func (r *OhlcvMsg) RType() RType { return RType(r.Header.RType) }
func (*OhlcvMsg) RSize() uint8   { return OhlcvMsg_Size }

func (r *OhlcvMsg) Fill_Raw(b []byte) error {
	if len(b) < OhlcvMsg_Size {
		return unexpectedBytesError(len(b), OhlcvMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Open = int64(binary.LittleEndian.Uint64(body[0:8]))
	r.High = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Low = int64(binary.LittleEndian.Uint64(body[16:24]))
	r.Close = int64(binary.LittleEndian.Uint64(body[24:32]))
	r.Volume = binary.LittleEndian.Uint64(body[32:40])
	return nil
}

func (r *OhlcvMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.Open = fastjsonGetInt64FromString(val, "open")
	r.High = fastjsonGetInt64FromString(val, "high")
	r.Low = fastjsonGetInt64FromString(val, "low")
	r.Close = fastjsonGetInt64FromString(val, "close")
	r.Volume = fastjsonGetUint64FromString(val, "volume")
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// ImbalanceMsg is an auction imbalance event.
type ImbalanceMsg struct {
	Header               RHeader `json:"hd" csv:"hd"`
	TsRecv               uint64  `json:"ts_recv" csv:"ts_recv"`
	RefPrice             int64   `json:"ref_price" csv:"ref_price"`
	AuctionTime          uint64  `json:"auction_time" csv:"auction_time"`
	ContBookClrPrice     int64   `json:"cont_book_clr_price" csv:"cont_book_clr_price"`
	AuctInterestClrPrice int64   `json:"auct_interest_clr_price" csv:"auct_interest_clr_price"`
	SsrFillingPrice      int64   `json:"ssr_filling_price" csv:"ssr_filling_price"`
	IndMatchPrice        int64   `json:"ind_match_price" csv:"ind_match_price"`
	UpperCollar          int64   `json:"upper_collar" csv:"upper_collar"`
	LowerCollar          int64   `json:"lower_collar" csv:"lower_collar"`
	PairedQty            uint32  `json:"paired_qty" csv:"paired_qty"`
	TotalImbalanceQty    uint32  `json:"total_imbalance_qty" csv:"total_imbalance_qty"`
	MarketImbalanceQty   uint32  `json:"market_imbalance_qty" csv:"market_imbalance_qty"`
	UnpairedQty          int32   `json:"unpaired_qty" csv:"unpaired_qty"`
	AuctionType          uint8   `json:"auction_type" csv:"auction_type"`
	Side                 Side    `json:"side" csv:"side"`
	AuctionStatus        uint8   `json:"auction_status" csv:"auction_status"`
	FreezeStatus         uint8   `json:"freeze_status" csv:"freeze_status"`
	NumExtensions        uint8   `json:"num_extensions" csv:"num_extensions"`
	UnpairedSide         Side    `json:"unpaired_side" csv:"unpaired_side"`
	SignificantImbalance uint8   `json:"significant_imbalance" csv:"significant_imbalance"`
	Reserved             uint8   `json:"-" csv:"-"`
}

const ImbalanceMsg_Size = RHeader_Size + 96

func (*ImbalanceMsg) RType() RType { return RType_Imbalance }
func (*ImbalanceMsg) RSize() uint8 { return ImbalanceMsg_Size }

func (r *ImbalanceMsg) Fill_Raw(b []byte) error {
	if len(b) < ImbalanceMsg_Size {
		return unexpectedBytesError(len(b), ImbalanceMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.RefPrice = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.AuctionTime = binary.LittleEndian.Uint64(body[16:24])
	r.ContBookClrPrice = int64(binary.LittleEndian.Uint64(body[24:32]))
	r.AuctInterestClrPrice = int64(binary.LittleEndian.Uint64(body[32:40]))
	r.SsrFillingPrice = int64(binary.LittleEndian.Uint64(body[40:48]))
	r.IndMatchPrice = int64(binary.LittleEndian.Uint64(body[48:56]))
	r.UpperCollar = int64(binary.LittleEndian.Uint64(body[56:64]))
	r.LowerCollar = int64(binary.LittleEndian.Uint64(body[64:72]))
	r.PairedQty = binary.LittleEndian.Uint32(body[72:76])
	r.TotalImbalanceQty = binary.LittleEndian.Uint32(body[76:80])
	r.MarketImbalanceQty = binary.LittleEndian.Uint32(body[80:84])
	r.UnpairedQty = int32(binary.LittleEndian.Uint32(body[84:88]))
	r.AuctionType = body[88]
	r.Side = Side(body[89])
	r.AuctionStatus = body[90]
	r.FreezeStatus = body[91]
	r.NumExtensions = body[92]
	r.UnpairedSide = Side(body[93])
	r.SignificantImbalance = body[94]
	r.Reserved = body[95]
	return nil
}

func (r *ImbalanceMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.RefPrice = fastjsonGetInt64FromString(val, "ref_price")
	r.AuctionTime = fastjsonGetUint64FromString(val, "auction_time")
	r.ContBookClrPrice = fastjsonGetInt64FromString(val, "cont_book_clr_price")
	r.AuctInterestClrPrice = fastjsonGetInt64FromString(val, "auct_interest_clr_price")
	r.SsrFillingPrice = fastjsonGetInt64FromString(val, "ssr_filling_price")
	r.IndMatchPrice = fastjsonGetInt64FromString(val, "ind_match_price")
	r.UpperCollar = fastjsonGetInt64FromString(val, "upper_collar")
	r.LowerCollar = fastjsonGetInt64FromString(val, "lower_collar")
	r.PairedQty = uint32(val.GetUint("paired_qty"))
	r.TotalImbalanceQty = uint32(val.GetUint("total_imbalance_qty"))
	r.MarketImbalanceQty = uint32(val.GetUint("market_imbalance_qty"))
	r.UnpairedQty = int32(val.GetInt("unpaired_qty"))
	r.AuctionType = uint8(val.GetUint("auction_type"))
	r.Side = Side(val.GetUint("side"))
	r.AuctionStatus = uint8(val.GetUint("auction_status"))
	r.FreezeStatus = uint8(val.GetUint("freeze_status"))
	r.NumExtensions = uint8(val.GetUint("num_extensions"))
	r.UnpairedSide = Side(val.GetUint("unpaired_side"))
	r.SignificantImbalance = uint8(val.GetUint("significant_imbalance"))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// StatusMsg is a trading-status update for an instrument.
type StatusMsg struct {
	Header                   RHeader      `json:"hd" csv:"hd"`
	TsRecv                   uint64       `json:"ts_recv" csv:"ts_recv"`
	Action                   StatusAction `json:"action" csv:"action"`
	Reason                   StatusReason `json:"reason" csv:"reason"`
	TradingEvent             TradingEvent `json:"trading_event" csv:"trading_event"`
	IsTrading                TriState     `json:"is_trading" csv:"is_trading"`
	IsQuoting                TriState     `json:"is_quoting" csv:"is_quoting"`
	IsShortSellRestricted    TriState     `json:"is_short_sell_restricted" csv:"is_short_sell_restricted"`
	Reserved                 [7]byte      `json:"-" csv:"-"`
}

const StatusMsg_Size = RHeader_Size + 24

func (*StatusMsg) RType() RType { return RType_Status }
func (*StatusMsg) RSize() uint8 { return StatusMsg_Size }

func (r *StatusMsg) Fill_Raw(b []byte) error {
	if len(b) < StatusMsg_Size {
		return unexpectedBytesError(len(b), StatusMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Action = StatusAction(binary.LittleEndian.Uint16(body[8:10]))
	r.Reason = StatusReason(binary.LittleEndian.Uint16(body[10:12]))
	r.TradingEvent = TradingEvent(binary.LittleEndian.Uint16(body[12:14]))
	r.IsTrading = TriState(body[14])
	r.IsQuoting = TriState(body[15])
	r.IsShortSellRestricted = TriState(body[16])
	copy(r.Reserved[:], body[17:24])
	return nil
}

func (r *StatusMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.Action = StatusAction(val.GetUint("action"))
	r.Reason = StatusReason(val.GetUint("reason"))
	r.TradingEvent = TradingEvent(val.GetUint("trading_event"))
	r.IsTrading = TriState(val.GetUint("is_trading"))
	r.IsQuoting = TriState(val.GetUint("is_quoting"))
	r.IsShortSellRestricted = TriState(val.GetUint("is_short_sell_restricted"))
	return nil
}
