// Copyright (c) 2024 Neomantra Corp
//
// decoder.go is the sans-I/O decoding state machine: the caller pushes bytes
// in (Write, or Space/Fill for a zero-copy push), and Process pulls records
// out one at a time without the FSM itself performing any I/O. This lets the
// same state machine back both the synchronous DbnScanner (dbn_scanner.go)
// and any async front-end a caller wires up.

package dbn

import "encoding/binary"

// ProcessResult classifies what Process just produced.
type ProcessResult uint8

const (
	// ResultReadMore means the FSM needs more bytes before it can make
	// progress; the caller should Write more input and call Process again.
	ResultReadMore ProcessResult = iota
	// ResultMetadata means the one-shot metadata header was just decoded;
	// retrieve it with Decoder.Metadata().
	ResultMetadata
	// ResultRecord means exactly one record is now addressable through
	// Decoder.LastRecord(), valid only until the next Process call.
	ResultRecord
)

type fsmState uint8

const (
	statePrelude fsmState = iota
	stateMetadata
	stateRecord
	stateConsume
)

// DecoderConfig configures a Decoder. The zero value decodes a normal
// metadata-prefixed stream at AsIs with the library's default buffer sizes.
type DecoderConfig struct {
	// UpgradePolicy controls whether records from older DBN versions are
	// widened before being handed to the caller.
	UpgradePolicy VersionUpgradePolicy
	// SkipMetadata starts the FSM directly in the Record state, for
	// decoding a "DBN fragment" with no preceding metadata block.
	SkipMetadata bool
	// InputDBNVersion is the version to assume for a fragment stream before
	// any upgradable record lets the length-based detector latch
	// one. Ignored unless SkipMetadata is set. Defaults to DbnVersionLatest.
	InputDBNVersion uint8
	// TsOut declares whether fragment-mode records carry the optional
	// trailing send-timestamp. Ignored unless SkipMetadata is set.
	TsOut bool
	// BufferSize is the initial capacity of the input queue. Defaults to 64KiB.
	BufferSize int
	// CompatSize is the initial capacity of the compat (upgrade scratch)
	// buffer. Defaults to 4KiB.
	CompatSize int
}

const (
	defaultBufferSize = 64 * 1024
	defaultCompatSize = 4 * 1024
)

// Decoder is the sans-I/O DBN decoding state machine.
type Decoder struct {
	cfg DecoderConfig

	buf    *growBuffer
	compat *growBuffer

	state fsmState
	err   error

	metaLen      uint32
	inputVersion uint8
	versionKnown bool
	metadata     *Metadata

	pendingRead   int
	pendingCompat int

	// batchMode defers compat-buffer reclamation to the end of a
	// ProcessMany/ProcessAll call, so every RecordRef it returns — including
	// ones backed by the compat buffer's upgrade scratch space — stays valid
	// for the whole batch instead of only until the next Process step.
	batchMode        bool
	batchCompatBytes int

	lastHeader *RHeader
	lastRType  RType
	lastValue  any
	lastRaw    []byte
}

// NewDecoder builds a Decoder ready to receive input via Write or Space/Fill.
func NewDecoder(cfg DecoderConfig) *Decoder {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.CompatSize <= 0 {
		cfg.CompatSize = defaultCompatSize
	}
	if cfg.InputDBNVersion == 0 {
		cfg.InputDBNVersion = DbnVersionLatest
	}
	d := &Decoder{
		cfg:    cfg,
		buf:    newGrowBuffer(cfg.BufferSize),
		compat: newGrowBufferNoShift(cfg.CompatSize),
	}
	d.resetState()
	return d
}

func (d *Decoder) resetState() {
	if d.cfg.SkipMetadata {
		d.state = stateRecord
		d.inputVersion = d.cfg.InputDBNVersion
		d.versionKnown = false
		d.metadata = &Metadata{TsOut: d.cfg.TsOut, SymbolCstrLen: symbolCstrLenV2Default}
	} else {
		d.state = statePrelude
		d.versionKnown = false
		d.metadata = nil
	}
	d.err = nil
	d.pendingRead = 0
	d.pendingCompat = 0
	d.lastHeader = nil
	d.lastValue = nil
}

// Reset clears all buffered input and returns the FSM to its initial state,
// including un-poisoning a decoder that hit a previous decode error.
func (d *Decoder) Reset() {
	d.buf.reset()
	d.compat.reset()
	d.resetState()
}

// Write appends p to the FSM's input queue, growing the buffer if needed.
func (d *Decoder) Write(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	d.buf.ensureSpace(len(p))
	n := copy(d.buf.space(), p)
	d.buf.fill(n)
	return n, nil
}

// Space exposes the FSM's writable tail for a zero-copy push: the caller
// reads directly into it, then calls Fill with how many bytes it wrote.
func (d *Decoder) Space(atLeast int) []byte {
	d.buf.ensureSpace(atLeast)
	return d.buf.space()
}

// Fill records that n bytes were written into the slice last returned by
// Space.
func (d *Decoder) Fill(n int) { d.buf.fill(n) }

// Buffered reports how many bytes are currently sitting in the decoder's
// input buffer, unconsumed by Process. An adapter that reaches end-of-input
// with Buffered() > 0 has an incomplete prelude, metadata block, or record
// on the wire, not a clean end of stream.
func (d *Decoder) Buffered() int { return d.buf.available() }

// Metadata returns the decoded metadata header, or nil if Process has not
// yet returned ResultMetadata (or this decoder is in fragment mode).
func (d *Decoder) Metadata() *Metadata {
	if d.cfg.SkipMetadata {
		return nil
	}
	return d.metadata
}

// LastRecord returns a RecordRef wrapping the record most recently yielded
// by Process. It is only valid until the next call to Process.
func (d *Decoder) LastRecord() RecordRef {
	return newRecordRef(d.lastHeader, d.lastRType, d.lastValue, d.lastRaw)
}

func (d *Decoder) poison(err error) error {
	d.err = err
	return err
}

// advancePast coalesces a pending Consume left over from the last yielded
// record, moving back to the Record state. Outside batch mode this frees
// the compat bytes that record's RecordRef aliased immediately, matching the
// "valid only until the next Process call" contract; in batch mode the
// compat reclaim is deferred to the accumulator so every ref handed out
// during the batch stays valid until the batch itself finishes.
func (d *Decoder) advancePast() {
	if d.state != stateConsume {
		return
	}
	d.buf.consume(d.pendingRead)
	if d.pendingCompat > 0 {
		if d.batchMode {
			d.batchCompatBytes += d.pendingCompat
		} else {
			d.compat.consume(d.pendingCompat)
		}
	}
	d.pendingRead, d.pendingCompat = 0, 0
	d.state = stateRecord
}

// Process advances the FSM by at most one step.
func (d *Decoder) Process() (ProcessResult, error) {
	if d.err != nil {
		return ResultReadMore, d.err
	}

	d.advancePast()

	switch d.state {
	case statePrelude:
		return d.processPrelude()
	case stateMetadata:
		return d.processMetadata()
	case stateRecord:
		return d.processRecord()
	default:
		return ResultReadMore, d.poison(newDecodeErrorf("decoder: unreachable state %d", d.state))
	}
}

func (d *Decoder) processPrelude() (ProcessResult, error) {
	if d.buf.available() < 8 {
		return ResultReadMore, nil
	}
	data := d.buf.data()
	if data[0] != 'D' || data[1] != 'B' || data[2] != 'N' {
		return ResultReadMore, d.poison(ErrInvalidDBNFile)
	}
	version := data[3]
	if version == 0 || version > DbnVersionLatest {
		return ResultReadMore, d.poison(ErrInvalidDBNVersion)
	}
	if err := d.cfg.UpgradePolicy.ValidateCompatibility(version); err != nil {
		return ResultReadMore, d.poison(err)
	}
	d.inputVersion = version
	d.versionKnown = true
	d.metaLen = binary.LittleEndian.Uint32(data[4:8])
	d.buf.consume(8)
	d.state = stateMetadata
	return d.processMetadata()
}

func (d *Decoder) processMetadata() (ProcessResult, error) {
	if uint32(d.buf.available()) < d.metaLen {
		return ResultReadMore, nil
	}
	body := d.buf.data()[:d.metaLen]

	var m *Metadata
	var err error
	if d.inputVersion == DbnVersion1 {
		m, err = readMetadataV1(body, MetadataPrefix{VersionRaw: [4]byte{'D', 'B', 'N', d.inputVersion}})
	} else {
		m, err = readMetadataV2(body, MetadataPrefix{VersionRaw: [4]byte{'D', 'B', 'N', d.inputVersion}}, d.inputVersion)
	}
	if err != nil {
		return ResultReadMore, d.poison(err)
	}

	d.metadata = m
	d.buf.consume(int(d.metaLen))
	d.state = stateRecord
	return ResultMetadata, nil
}

func (d *Decoder) processRecord() (ProcessResult, error) {
	if d.buf.available() < 1 {
		return ResultReadMore, nil
	}
	data := d.buf.data()
	recLen := int(data[0]) * 4
	if recLen < RHeader_Size {
		return ResultReadMore, d.poison(newDecodeErrorf(
			"impossible record length %d, which is shorter than header (%d bytes)", recLen, RHeader_Size))
	}
	if d.buf.available() < recLen {
		return ResultReadMore, nil
	}
	raw := data[:recLen]
	rtype := RType(raw[1])

	inputVersion := d.inputVersion
	if !d.versionKnown && isUpgradableRType(rtype) {
		if v, ok := detectVersionFromRecordLength(rtype, recLen); ok {
			inputVersion = v
			d.inputVersion = v
			d.versionKnown = true
		}
	}

	targetVersion := d.cfg.UpgradePolicy.TargetVersion(inputVersion)

	cstrLen := uint16(symbolCstrLenV2Default)
	if d.metadata != nil && d.metadata.SymbolCstrLen != 0 {
		cstrLen = d.metadata.SymbolCstrLen
	}

	var (
		hdr   *RHeader
		value any
		err   error
	)
	var lastRaw []byte
	if targetVersion > inputVersion && isUpgradableRType(rtype) {
		n, uerr := upgradeRecord(d.compat, raw, rtype, inputVersion, targetVersion, cstrLen)
		if uerr != nil {
			return ResultReadMore, d.poison(uerr)
		}
		upgraded := d.compat.data()[d.compat.available()-n:]
		hdr, value, err = decodeTyped(rtype, targetVersion, upgraded, cstrLen)
		d.pendingCompat = n
		lastRaw = upgraded
	} else {
		hdr, value, err = decodeTyped(rtype, inputVersion, raw, cstrLen)
		d.pendingCompat = 0
		lastRaw = raw
	}
	if err != nil {
		return ResultReadMore, d.poison(err)
	}

	d.pendingRead = recLen
	d.lastHeader = hdr
	d.lastRType = rtype
	d.lastValue = value
	d.lastRaw = lastRaw
	d.state = stateConsume
	return ResultRecord, nil
}

// Skip discards up to n unconsumed bytes from the input queue, coalescing
// any pending Consume first, and returns the number actually skipped.
func (d *Decoder) Skip(n int) int {
	d.advancePast()
	skipped := n
	if skipped > d.buf.available() {
		skipped = d.buf.available()
	}
	d.buf.consume(skipped)
	return skipped
}

// ProcessAll drains every complete record currently buffered, appending each
// yielded RecordRef to out, until ReadMore or an error. It is equivalent to
// repeated Process calls except the compat buffer's pending consume is
// deferred until the whole batch completes, so every reference returned
// stays valid for the lifetime of the call (the batch-mode contract).
func (d *Decoder) ProcessAll(out []RecordRef) ([]RecordRef, error) {
	return d.ProcessMany(out, -1)
}

// ProcessMany is like ProcessAll but stops after at most limit records (a
// negative limit means unbounded). Every RecordRef appended to out remains
// valid for the duration of this call — the compat buffer's reclaim of
// upgraded records' scratch space is deferred until ProcessMany returns,
// rather than happening incrementally between records as Process alone does.
func (d *Decoder) ProcessMany(out []RecordRef, limit int) ([]RecordRef, error) {
	wasBatch := d.batchMode
	d.batchMode = true
	defer func() {
		if !wasBatch {
			d.compat.consume(d.batchCompatBytes)
			d.batchCompatBytes = 0
			d.batchMode = false
		}
	}()

	count := 0
	for limit < 0 || count < limit {
		result, err := d.Process()
		if err != nil {
			return out, err
		}
		switch result {
		case ResultReadMore:
			return out, nil
		case ResultMetadata:
			continue
		case ResultRecord:
			out = append(out, d.LastRecord())
			count++
		}
	}
	return out, nil
}

// decodeTyped decodes the record body at raw (including its 16-byte header)
// into the concrete Go struct appropriate for rtype at the given DBN
// version, returning its embedded header, the value as `any`, and any
// decode error. cstrLen is only consulted for the record families whose
// symbol-ish fields are width-negotiated by Metadata.SymbolCstrLen.
func decodeTyped(rtype RType, version uint8, raw []byte, cstrLen uint16) (*RHeader, any, error) {
	switch rtype {
	case RType_Mbo:
		var m MboMsg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_Mbp0:
		var m TradeMsg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_Mbp1:
		var m Mbp1Msg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_Mbp10:
		var m Mbp10Msg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_Cmbp1:
		var m Cmbp1Msg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_Bbo1S, RType_Bbo1M:
		var m BboMsg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_Cbbo1S, RType_Cbbo1M, RType_Tcbbo:
		var m CbboMsg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_OhlcvDeprecated, RType_Ohlcv1S, RType_Ohlcv1M, RType_Ohlcv1H, RType_Ohlcv1D, RType_OhlcvEod:
		var m OhlcvMsg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_Imbalance:
		var m ImbalanceMsg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_Status:
		var m StatusMsg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_InstrumentDef:
		switch version {
		case DbnVersion1:
			var m InstrumentDefMsgV1
			if err := m.Fill_Raw(raw); err != nil {
				return nil, nil, err
			}
			return &m.Header, &m, nil
		case DbnVersion2:
			var m InstrumentDefMsgV2
			if err := m.Fill_Raw(raw, cstrLen); err != nil {
				return nil, nil, err
			}
			return &m.Header, &m, nil
		default:
			var m InstrumentDefMsgV3
			if err := m.Fill_Raw(raw, cstrLen); err != nil {
				return nil, nil, err
			}
			return &m.Header, &m, nil
		}
	case RType_Statistics:
		if version >= DbnVersion3 {
			var m StatMsgV3
			if err := m.Fill_Raw(raw); err != nil {
				return nil, nil, err
			}
			return &m.Header, &m, nil
		}
		var m StatMsg
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_Error:
		if version == DbnVersion1 {
			var m ErrorMsgV1
			if err := m.Fill_Raw(raw); err != nil {
				return nil, nil, err
			}
			return &m.Header, &m, nil
		}
		var m ErrorMsgV2
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_System:
		if version == DbnVersion1 {
			var m SystemMsgV1
			if err := m.Fill_Raw(raw); err != nil {
				return nil, nil, err
			}
			return &m.Header, &m, nil
		}
		var m SystemMsgV2
		if err := m.Fill_Raw(raw); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	case RType_SymbolMapping:
		if version == DbnVersion1 {
			var m SymbolMappingMsgV1
			if err := m.Fill_Raw(raw); err != nil {
				return nil, nil, err
			}
			return &m.Header, &m, nil
		}
		var m SymbolMappingMsgV2
		if err := m.Fill_Raw(raw, cstrLen); err != nil {
			return nil, nil, err
		}
		return &m.Header, &m, nil
	default:
		return nil, nil, ErrUnknownRType
	}
}
