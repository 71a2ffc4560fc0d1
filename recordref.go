// Copyright (c) 2024 Neomantra Corp
//
// RecordRef is a type-erased, lifetime-bounded view of a decoded record.
// It is a thin pointer into the FSM's own buffers that is only valid until
// the next Process call, since a later call may shift or grow the buffer it
// points into.

package dbn

// RecordRef is a type-erased pointer to a decoded record plus the rtype
// needed to downcast it safely. It is only valid until the next call to
// Decoder.Process/ProcessOne/ProcessAll/ProcessMany on the Decoder that
// produced it — callers that need to retain a record past that point must
// copy it out with AsRecord.
type RecordRef struct {
	header *RHeader
	rtype  RType
	value  any
	raw    []byte
}

// newRecordRef builds a RecordRef wrapping a concrete *T record whose first
// field is its RHeader. raw is the exact byte slice the record was decoded
// from (into buf for a zero-copy record, into compat for an upgraded one);
// it shares the same lifetime as the ref itself.
func newRecordRef(hdr *RHeader, rtype RType, value any, raw []byte) RecordRef {
	return RecordRef{header: hdr, rtype: rtype, value: value, raw: raw}
}

// RType is the rtype of the wrapped record, read directly from the header
// without needing a downcast.
func (r RecordRef) RType() RType { return r.rtype }

// Header returns the common 16-byte header shared by every record variant.
func (r RecordRef) Header() *RHeader { return r.header }

// Raw returns the underlying concrete record value (e.g. *MboMsg) as `any`.
// Prefer the generic As function for a type-checked downcast.
func (r RecordRef) Raw() any { return r.value }

// Bytes returns the exact wire bytes (length*4 of them) the record was
// decoded from, for a RecordEncoder to write back out unchanged. Like the
// rest of RecordRef, it is only valid until the next Process call.
func (r RecordRef) Bytes() []byte { return r.raw }

// As attempts to downcast a RecordRef to a concrete *T, returning false if
// the wrapped value is not exactly that type.
func As[T any](r RecordRef) (*T, bool) {
	v, ok := r.value.(*T)
	return v, ok
}

// MustAs downcasts or panics; intended for call sites that have already
// branched on RType() and know the concrete type that rtype implies.
func MustAs[T any](r RecordRef) *T {
	v, ok := As[T](r)
	if !ok {
		panic(newDecodeErrorf("RecordRef: value is not %T", v))
	}
	return v
}

// IndexTimestamp returns the timestamp a splitter should bucket r by: the
// record's receive-side ts_recv where the record carries one, falling back
// to the header's ts_event for the record shapes that don't (gateway
// messages, OHLCV bars).
func IndexTimestamp(r RecordRef) uint64 {
	switch v := r.value.(type) {
	case *MboMsg:
		return v.TsRecv
	case *TradeMsg:
		return v.TsRecv
	case *Mbp1Msg:
		return v.TsRecv
	case *Mbp10Msg:
		return v.TsRecv
	case *Cmbp1Msg:
		return v.TsRecv
	case *BboMsg:
		return v.TsRecv
	case *CbboMsg:
		return v.TsRecv
	case *ImbalanceMsg:
		return v.TsRecv
	case *StatusMsg:
		return v.TsRecv
	case *StatMsg:
		return v.TsRecv
	case *StatMsgV3:
		return v.TsRecv
	case *InstrumentDefMsgV1:
		return v.TsRecv
	case *InstrumentDefMsgV2:
		return v.TsRecv
	case *InstrumentDefMsgV3:
		return v.TsRecv
	default:
		if r.header != nil {
			return r.header.TsEvent
		}
		return 0
	}
}
