// Copyright (c) 2024 Neomantra Corp
//
// metadata.go implements the metadata block: the one-shot header that
// precedes every non-fragment DBN stream. Grounded on the original
// metadata.go read/write pair, generalized to a third wire version (v3 uses
// the v2 layout verbatim, only the prelude's version byte differs) and to
// reject non-zero schema_definition_length, which earlier decoders
// silently accepted but which is now treated as a hard decode error.

package dbn

import (
	"bytes"
	"encoding/binary"
	"io"
)

const (
	MetadataV1_SymbolCstrLen = 22
	MetadataV1_ReservedLen   = 47
	MetadataV2_SymbolCstrLen = 71
	MetadataV2_ReservedLen   = 45
	Metadata_DatasetCstrLen  = 16
	Metadata_PrefixSize      = 8

	// MetadataHeaderV1_Size and MetadataHeaderV2_Size are the size in bytes
	// of the fixed-length portion of the metadata body, excluding the
	// 8-byte prelude. Both versions are the same size: the v2 layout
	// spends the bytes the v1 layout reserved for future growth
	// on symbol_cstr_len plus a few more reserved bytes, instead of adding
	// to the overall header size.
	MetadataHeaderV1_Size = 100
	MetadataHeaderV2_Size = 100

	// metadataStartOffset is the fixed byte offset (from the start of the
	// stream, including the 8-byte prelude) of the `start` field, i.e.
	// immediately after `dataset` and `schema`. update_in_place seeks
	// here and rewrites the 32-byte range-and-counts block. It is the same
	// offset in every version because dataset and schema never change
	// size or position.
	metadataStartOffset = Metadata_PrefixSize + Metadata_DatasetCstrLen + 2
)

// Normalized Metadata about the data contained in a DBN file or stream. DBN
// requires the Metadata to be included at the start of the encoded data.
type Metadata struct {
	VersionNum       uint8
	Schema           Schema // NullSchema indicates a potential mix of schemas and record types, which will always be the case for live data.
	Start            uint64 // The start time of query range in UNIX epoch nanoseconds.
	End              uint64 // The end time of query range in UNIX epoch nanoseconds. Max u64 indicates no end time was provided.
	Limit            uint64 // The maximum number of records to return. 0 indicates no limit.
	StypeIn          SType  // The symbology type of input symbols. NullSType indicates a potential mix of types, such as with live data.
	StypeOut         SType  // The symbology type of output symbols.
	TsOut            bool   // Whether each record has an appended gateway send timestamp.
	SymbolCstrLen    uint16 // The number of bytes in fixed-length string symbols, including a null terminator byte. Always 22 in version 1.
	Dataset          string
	SchemaDefinition []byte // Always empty; schema_definition_length must be 0 on the wire.
	Symbols          []string
	Partial          []string
	NotFound         []string
	Mappings         []SymbolMapping
}

// A raw symbol and its symbol mappings for different time ranges within the
// query range.
type SymbolMapping struct {
	RawSymbol string            // The symbol assigned by publisher.
	Intervals []MappingInterval // The mappings of `native` for different date ranges.
}

// The resolved symbol for a date range.
type MappingInterval struct {
	StartDate uint32 // The UTC start date of interval (inclusive), as YYYYMMDD
	EndDate   uint32 // The UTC end date of interval (exclusive), as YYYYMMDD.
	Symbol    string // The resolved symbol for this interval.
}

// IsInverseMapping returns true if the map goes from InstrumentId to some
// other type. Returns an error if neither of the STypes are InstrumentId.
func (m *Metadata) IsInverseMapping() (bool, error) {
	if m.StypeIn == SType_InstrumentId {
		return true, nil
	}
	if m.StypeOut == SType_InstrumentId {
		return false, nil
	}
	return false, newConversionErrorf("can only build a symbol index when StypeIn or StypeOut is SType_InstrumentId")
}

// Write writes out a Metadata to a DBN stream over an io.Writer.
func (m *Metadata) Write(writer io.Writer) error {
	version := m.VersionNum
	if version == 0 {
		version = DbnVersionLatest
	}
	cstrLen := uint16(MetadataV2_SymbolCstrLen)
	if version == DbnVersion1 {
		cstrLen = MetadataV1_SymbolCstrLen
	} else if m.SymbolCstrLen != 0 {
		cstrLen = m.SymbolCstrLen
	}
	return m.writeVersion(writer, version, cstrLen)
}

func (m *Metadata) writeVersion(writer io.Writer, version uint8, cstrLen uint16) error {
	metaLength := metadataCalcLength(m, cstrLen)

	if err := binary.Write(writer, binary.LittleEndian, MetadataPrefix{
		VersionRaw: [4]byte{'D', 'B', 'N', version},
		Length:     uint32(metaLength),
	}); err != nil {
		return wrapIO(err)
	}

	var datasetRaw [Metadata_DatasetCstrLen]byte
	if err := putCstr(datasetRaw[:], m.Dataset, Metadata_DatasetCstrLen); err != nil {
		return err
	}
	if err := binary.Write(writer, binary.LittleEndian, datasetRaw); err != nil {
		return wrapIO(err)
	}
	if err := binary.Write(writer, binary.LittleEndian, uint16(m.Schema)); err != nil {
		return wrapIO(err)
	}
	if err := writeRangeAndCounts(writer, m.Start, m.End, m.Limit); err != nil {
		return err
	}
	if err := binary.Write(writer, binary.LittleEndian, [3]byte{uint8(m.StypeIn), uint8(m.StypeOut), boolToByte(m.TsOut)}); err != nil {
		return wrapIO(err)
	}
	if version == DbnVersion1 {
		if err := binary.Write(writer, binary.LittleEndian, make([]byte, MetadataV1_ReservedLen)); err != nil {
			return wrapIO(err)
		}
	} else {
		if err := binary.Write(writer, binary.LittleEndian, cstrLen); err != nil {
			return wrapIO(err)
		}
		if err := binary.Write(writer, binary.LittleEndian, make([]byte, MetadataV2_ReservedLen)); err != nil {
			return wrapIO(err)
		}
	}

	// schema_definition_length: always 0, per spec.
	if err := binary.Write(writer, binary.LittleEndian, uint32(0)); err != nil {
		return wrapIO(err)
	}

	if err := writeStringArray(writer, cstrLen, m.Symbols); err != nil {
		return err
	}
	if err := writeStringArray(writer, cstrLen, m.Partial); err != nil {
		return err
	}
	if err := writeStringArray(writer, cstrLen, m.NotFound); err != nil {
		return err
	}
	return writeSymbolMapping(writer, cstrLen, m.Mappings)
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func metadataCalcLength(m *Metadata, cstrLen uint16) int {
	length := MetadataHeaderV1_Size
	length += 4 // schema_definition_length
	length += 4 + len(m.Symbols)*int(cstrLen)
	length += 4 + len(m.Partial)*int(cstrLen)
	length += 4 + len(m.NotFound)*int(cstrLen)
	length += 4 // mappings count
	for _, mapping := range m.Mappings {
		length += int(cstrLen) + 4 // raw_symbol + interval count
		length += len(mapping.Intervals) * (4 + 4 + int(cstrLen))
	}
	return length
}

// writeRangeAndCounts writes the 32-byte {start, end, limit, legacy
// record_count} block that update_in_place later rewrites in place. The
// legacy record_count sentinel is always max-u64: no version of this
// library ever populates it, matching the upstream format's backwards
// compatibility shim for the removed field.
func writeRangeAndCounts(w io.Writer, start, end, limit uint64) error {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:8], start)
	binary.LittleEndian.PutUint64(buf[8:16], end)
	binary.LittleEndian.PutUint64(buf[16:24], limit)
	binary.LittleEndian.PutUint64(buf[24:32], ^uint64(0))
	_, err := w.Write(buf[:])
	return wrapIO(err)
}

///////////////////////////////////////////////////////////////////////////////

// MetadataEncoder wraps a writer with the same sequential-encode/
// update-in-place split the sans-I/O core's read side mirrors: Encode()
// writes once, forward-only; UpdateInPlace() requires an io.WriteSeeker and
// rewrites the range-and-counts block without disturbing anything after it.
type MetadataEncoder struct {
	w io.Writer
}

func NewMetadataEncoder(w io.Writer) *MetadataEncoder { return &MetadataEncoder{w: w} }

// Encode writes metadata to the underlying writer at VersionLatest unless
// VersionNum is already set.
func (e *MetadataEncoder) Encode(m *Metadata) error { return m.Write(e.w) }

// UpdateInPlace rewrites the start/end/limit range of an already-encoded
// metadata block without touching anything else. It
// requires the writer to support Seek, and restores the stream position to
// end-of-stream before returning so subsequent writes append correctly.
func UpdateInPlace(ws io.WriteSeeker, start, end, limit uint64) error {
	endPos, err := ws.Seek(0, io.SeekEnd)
	if err != nil {
		return wrapIO(err)
	}
	if _, err := ws.Seek(metadataStartOffset, io.SeekStart); err != nil {
		return wrapIO(err)
	}
	if err := writeRangeAndCounts(ws, start, end, limit); err != nil {
		return err
	}
	_, err = ws.Seek(endPos, io.SeekStart)
	return wrapIO(err)
}

///////////////////////////////////////////////////////////////////////////////

// The start of every Metadata header, independent of version.
type MetadataPrefix struct {
	VersionRaw [4]byte // "DBN" followed by the version of DBN the file is encoded in as a u8.
	Length     uint32  // The length of the remaining metadata header, i.e. excluding MetadataPrefix.
}

///////////////////////////////////////////////////////////////////////////////

// ReadMetadata reads the Metadata from a DBN stream over an io.Reader.
func ReadMetadata(r io.Reader) (*Metadata, error) {
	var mp MetadataPrefix
	if err := binary.Read(r, binary.LittleEndian, &mp); err != nil {
		return nil, wrapIO(err)
	}
	if mp.VersionRaw[0] != 'D' || mp.VersionRaw[1] != 'B' || mp.VersionRaw[2] != 'N' {
		return nil, ErrInvalidDBNFile
	}

	b := make([]byte, mp.Length)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, wrapIO(err)
	}

	versionNum := mp.VersionRaw[3]
	switch versionNum {
	case DbnVersion1:
		return readMetadataV1(b, mp)
	case DbnVersion2, DbnVersion3:
		return readMetadataV2(b, mp, versionNum)
	default:
		return nil, ErrInvalidDBNVersion
	}
}

///////////////////////////////////////////////////////////////////////////////

func readMetadataV1(b []byte, mp MetadataPrefix) (*Metadata, error) {
	if len(b) < MetadataHeaderV1_Size {
		return nil, ErrHeaderTooShort
	}
	m := Metadata{
		VersionNum:    mp.VersionRaw[3],
		Dataset:       TrimNullBytes(b[:Metadata_DatasetCstrLen]),
		Schema:        Schema(binary.LittleEndian.Uint16(b[16:18])),
		Start:         binary.LittleEndian.Uint64(b[18:26]),
		End:           binary.LittleEndian.Uint64(b[26:34]),
		Limit:         binary.LittleEndian.Uint64(b[34:42]),
		StypeIn:       SType(b[50]),
		StypeOut:      SType(b[51]),
		TsOut:         b[52] != 0,
		SymbolCstrLen: MetadataV1_SymbolCstrLen,
	}
	// b[42:50] is the legacy record_count field, ignored on decode.

	if err := readMetadataTail(b[MetadataHeaderV1_Size:], MetadataV1_SymbolCstrLen, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func readMetadataV2(b []byte, mp MetadataPrefix, versionNum uint8) (*Metadata, error) {
	if len(b) < MetadataHeaderV2_Size {
		return nil, ErrHeaderTooShort
	}
	cstrLen := binary.LittleEndian.Uint16(b[53:55])
	m := Metadata{
		VersionNum:    versionNum,
		Dataset:       TrimNullBytes(b[:Metadata_DatasetCstrLen]),
		Schema:        Schema(binary.LittleEndian.Uint16(b[16:18])),
		Start:         binary.LittleEndian.Uint64(b[18:26]),
		End:           binary.LittleEndian.Uint64(b[26:34]),
		Limit:         binary.LittleEndian.Uint64(b[34:42]),
		StypeIn:       SType(b[50]),
		StypeOut:      SType(b[51]),
		TsOut:         b[52] != 0,
		SymbolCstrLen: cstrLen,
	}
	// b[42:50] is the legacy record_count field, ignored on decode.

	if err := readMetadataTail(b[MetadataHeaderV2_Size:], cstrLen, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// readMetadataTail decodes schema_definition_length (rejecting non-zero
// values), then the three repeated string tables and the mappings table
// that follow the fixed header in every version.
func readMetadataTail(b []byte, cstrLen uint16, m *Metadata) error {
	r := bytes.NewReader(b)

	var schemaDefLen uint32
	if err := binary.Read(r, binary.LittleEndian, &schemaDefLen); err != nil {
		return wrapIO(err)
	}
	if schemaDefLen != 0 {
		return newDecodeErrorf("this version can't parse schema definitions, got length %d", schemaDefLen)
	}

	if err := decodeToStringArray(r, cstrLen, &m.Symbols); err != nil {
		return err
	}
	if err := decodeToStringArray(r, cstrLen, &m.Partial); err != nil {
		return err
	}
	if err := decodeToStringArray(r, cstrLen, &m.NotFound); err != nil {
		return err
	}
	return decodeToSymbolMapping(r, cstrLen, &m.Mappings)
}

///////////////////////////////////////////////////////////////////////////////

// decodeToStringArray decodes a u32-prefixed array of fixed-width cstrs.
func decodeToStringArray(r io.Reader, cstrLength uint16, strArray *[]string) error {
	var arrayLen uint32
	if err := binary.Read(r, binary.LittleEndian, &arrayLen); err != nil {
		return wrapIO(err)
	}

	strBytes := make([]byte, cstrLength)
	for i := uint32(0); i < arrayLen; i++ {
		if err := binary.Read(r, binary.LittleEndian, &strBytes); err != nil {
			return wrapIO(err)
		}
		*strArray = append(*strArray, TrimNullBytes(strBytes))
	}
	return nil
}

// decodeToSymbolMapping decodes the u32-prefixed mappings table.
func decodeToSymbolMapping(r io.Reader, cstrLength uint16, mappings *[]SymbolMapping) error {
	var mappingLen uint32
	if err := binary.Read(r, binary.LittleEndian, &mappingLen); err != nil {
		return wrapIO(err)
	}

	strBytes := make([]byte, cstrLength)
	for i := uint32(0); i < mappingLen; i++ {
		var mapping SymbolMapping
		if err := binary.Read(r, binary.LittleEndian, &strBytes); err != nil {
			return wrapIO(err)
		}
		mapping.RawSymbol = TrimNullBytes(strBytes)

		var intervalLen uint32
		if err := binary.Read(r, binary.LittleEndian, &intervalLen); err != nil {
			return wrapIO(err)
		}
		for j := uint32(0); j < intervalLen; j++ {
			var interval MappingInterval
			if err := binary.Read(r, binary.LittleEndian, &interval.StartDate); err != nil {
				return wrapIO(err)
			}
			if _, err := decodeISO8601(interval.StartDate); err != nil {
				return err
			}
			if err := binary.Read(r, binary.LittleEndian, &interval.EndDate); err != nil {
				return wrapIO(err)
			}
			if _, err := decodeISO8601(interval.EndDate); err != nil {
				return err
			}
			if err := binary.Read(r, binary.LittleEndian, &strBytes); err != nil {
				return wrapIO(err)
			}
			interval.Symbol = TrimNullBytes(strBytes)
			mapping.Intervals = append(mapping.Intervals, interval)
		}
		*mappings = append(*mappings, mapping)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

func writeStringArray(w io.Writer, cstrLength uint16, strs []string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(strs))); err != nil {
		return wrapIO(err)
	}
	cstr := make([]byte, cstrLength)
	for _, symbol := range strs {
		clear(cstr)
		if err := putCstr(cstr, symbol, int(cstrLength)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, cstr); err != nil {
			return wrapIO(err)
		}
	}
	return nil
}

func writeSymbolMapping(w io.Writer, cstrLength uint16, mappings []SymbolMapping) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(mappings))); err != nil {
		return wrapIO(err)
	}
	cstr := make([]byte, cstrLength)
	for _, mapping := range mappings {
		clear(cstr)
		if err := putCstr(cstr, mapping.RawSymbol, int(cstrLength)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, cstr); err != nil {
			return wrapIO(err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(mapping.Intervals))); err != nil {
			return wrapIO(err)
		}
		for _, interval := range mapping.Intervals {
			if err := binary.Write(w, binary.LittleEndian, interval.StartDate); err != nil {
				return wrapIO(err)
			}
			if err := binary.Write(w, binary.LittleEndian, interval.EndDate); err != nil {
				return wrapIO(err)
			}
			clear(cstr)
			if err := putCstr(cstr, interval.Symbol, int(cstrLength)); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, cstr); err != nil {
				return wrapIO(err)
			}
		}
	}
	return nil
}
