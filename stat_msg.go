// Copyright (c) 2024 Neomantra Corp
//
// StatMsg is the one record that is unchanged between v1 and v2 but widens
// in v3, where quantity grows from 32 to 64 bits. Adapted from DataBento's
// DBN record.rs.

package dbn

import (
	"encoding/binary"

	"github.com/valyala/fastjson"
)

// StatMsg is the DBN v1/v2 layout for a publisher statistic.
type StatMsg struct {
	Header            RHeader          `json:"hd" csv:"hd"`
	TsRecv            uint64           `json:"ts_recv" csv:"ts_recv"`
	TsRef             uint64           `json:"ts_ref" csv:"ts_ref"`
	Price             int64            `json:"price" csv:"price"`
	Quantity          int32            `json:"quantity" csv:"quantity"`
	Sequence          uint32           `json:"sequence" csv:"sequence"`
	TsInDelta         int32            `json:"ts_in_delta" csv:"ts_in_delta"`
	StatType          StatType         `json:"stat_type" csv:"stat_type"`
	ChannelID         uint16           `json:"channel_id" csv:"channel_id"`
	UpdateAction      StatUpdateAction `json:"update_action" csv:"update_action"`
	StatFlags         uint8            `json:"stat_flags" csv:"stat_flags"`
}

const StatMsg_Size = RHeader_Size + 48

func (*StatMsg) RType() RType { return RType_Statistics }
func (*StatMsg) RSize() uint8 { return StatMsg_Size }

func (r *StatMsg) Fill_Raw(b []byte) error {
	if len(b) < StatMsg_Size {
		return unexpectedBytesError(len(b), StatMsg_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.TsRef = binary.LittleEndian.Uint64(body[8:16])
	r.Price = int64(binary.LittleEndian.Uint64(body[16:24]))
	r.Quantity = int32(binary.LittleEndian.Uint32(body[24:28]))
	r.Sequence = binary.LittleEndian.Uint32(body[28:32])
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[32:36]))
	r.StatType = StatType(binary.LittleEndian.Uint16(body[36:38]))
	r.ChannelID = binary.LittleEndian.Uint16(body[38:40])
	r.UpdateAction = StatUpdateAction(body[40])
	r.StatFlags = body[41]
	// body[42:48] reserved padding for alignment.
	return nil
}

func (r *StatMsg) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.TsRef = fastjsonGetUint64FromString(val, "ts_ref")
	r.Price = fastjsonGetInt64FromString(val, "price")
	r.Quantity = int32(val.GetInt("quantity"))
	r.Sequence = uint32(val.GetUint("sequence"))
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.StatType = StatType(val.GetUint("stat_type"))
	r.ChannelID = uint16(val.GetUint("channel_id"))
	r.UpdateAction = StatUpdateAction(val.GetUint("update_action"))
	r.StatFlags = uint8(val.GetUint("stat_flags"))
	return nil
}

// StatMsgV3 widens quantity to 64 bits so large open-interest/cleared-volume
// statistics from newer venues don't truncate.
type StatMsgV3 struct {
	Header       RHeader          `json:"hd" csv:"hd"`
	TsRecv       uint64           `json:"ts_recv" csv:"ts_recv"`
	TsRef        uint64           `json:"ts_ref" csv:"ts_ref"`
	Price        int64            `json:"price" csv:"price"`
	Quantity     int64            `json:"quantity" csv:"quantity"`
	Sequence     uint32           `json:"sequence" csv:"sequence"`
	TsInDelta    int32            `json:"ts_in_delta" csv:"ts_in_delta"`
	StatType     StatType         `json:"stat_type" csv:"stat_type"`
	ChannelID    uint16           `json:"channel_id" csv:"channel_id"`
	UpdateAction StatUpdateAction `json:"update_action" csv:"update_action"`
	StatFlags    uint8            `json:"stat_flags" csv:"stat_flags"`
}

const StatMsgV3_Size = RHeader_Size + 56

func (*StatMsgV3) RType() RType { return RType_Statistics }
func (*StatMsgV3) RSize() uint8 { return StatMsgV3_Size }

func (r *StatMsgV3) Fill_Raw(b []byte) error {
	if len(b) < StatMsgV3_Size {
		return unexpectedBytesError(len(b), StatMsgV3_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.TsRef = binary.LittleEndian.Uint64(body[8:16])
	r.Price = int64(binary.LittleEndian.Uint64(body[16:24]))
	r.Quantity = int64(binary.LittleEndian.Uint64(body[24:32]))
	r.Sequence = binary.LittleEndian.Uint32(body[32:36])
	r.TsInDelta = int32(binary.LittleEndian.Uint32(body[36:40]))
	r.StatType = StatType(binary.LittleEndian.Uint16(body[40:42]))
	r.ChannelID = binary.LittleEndian.Uint16(body[42:44])
	r.UpdateAction = StatUpdateAction(body[44])
	r.StatFlags = body[45]
	// body[46:56] reserved padding for alignment.
	return nil
}

func (r *StatMsgV3) Fill_Json(val *fastjson.Value, header *RHeader) error {
	r.Header = *header
	r.TsRecv = fastjsonGetUint64FromString(val, "ts_recv")
	r.TsRef = fastjsonGetUint64FromString(val, "ts_ref")
	r.Price = fastjsonGetInt64FromString(val, "price")
	r.Quantity = fastjsonGetInt64FromString(val, "quantity")
	r.Sequence = uint32(val.GetUint("sequence"))
	r.TsInDelta = int32(val.GetInt("ts_in_delta"))
	r.StatType = StatType(val.GetUint("stat_type"))
	r.ChannelID = uint16(val.GetUint("channel_id"))
	r.UpdateAction = StatUpdateAction(val.GetUint("update_action"))
	r.StatFlags = uint8(val.GetUint("stat_flags"))
	return nil
}

// UpgradeStatMsgToV3 widens a v1/v2 StatMsg's int32 Quantity into v3's int64
// Quantity field, leaving every other field unchanged.
func UpgradeStatMsgToV3(src *StatMsg) *StatMsgV3 {
	return &StatMsgV3{
		Header:       src.Header,
		TsRecv:       src.TsRecv,
		TsRef:        src.TsRef,
		Price:        src.Price,
		Quantity:     int64(src.Quantity),
		Sequence:     src.Sequence,
		TsInDelta:    src.TsInDelta,
		StatType:     src.StatType,
		ChannelID:    src.ChannelID,
		UpdateAction: src.UpdateAction,
		StatFlags:    src.StatFlags,
	}
}
