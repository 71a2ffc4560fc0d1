// Copyright (c) 2024 Neomantra Corp

package dbn

import (
	"bufio"
	"io"
)

///////////////////////////////////////////////////////////////////////////////

// Default buffer size for decoding
const DEFAULT_DECODE_BUFFER_SIZE = 16 * 1024
const DEFAULT_SCRATCH_BUFFER_SIZE = 2048 // bigger than largest record size

// DbnScanner scans a raw DBN stream, record by record, without buffering the
// whole stream in memory. Version-sensitive rtypes decode to the shape
// matching the stream's metadata version, upgrading isn't performed here; use
// Decoder directly if records need to come out on a uniform target version.
type DbnScanner struct {
	srcReader  io.Reader     // the source we pull data from
	buffReader *bufio.Reader // the buffer reader we scan over
	metadata   *Metadata     // the metadata for the stream
	lastError  error         // the last error encountered
	lastRecord []byte        // last record read, waiting for decode
	lastSize   int           // the size of the last record read
}

// NewDbnScanner creates a new dbn.DbnScanner
func NewDbnScanner(sourceReader io.Reader) *DbnScanner {
	return &DbnScanner{
		srcReader:  sourceReader,
		buffReader: bufio.NewReaderSize(sourceReader, DEFAULT_DECODE_BUFFER_SIZE),
		metadata:   nil,
		lastError:  nil,
		lastRecord: make([]byte, DEFAULT_SCRATCH_BUFFER_SIZE),
		lastSize:   0,
	}
}

/////////////////////////////////////////////////////////////////////////////

// Metadata returns the metadata for the stream, or nil if none.
// May try to read the metadata, which may result in an error.
func (s *DbnScanner) Metadata() (*Metadata, error) {
	if s.metadata != nil {
		return s.metadata, nil
	}
	err := s.readMetadata()
	return s.metadata, err
}

// Error returns the last error from Next().  May be io.EOF.
func (s *DbnScanner) Error() error {
	return s.lastError
}

// GetLastHeader returns the RHeader of the last record read, or an error
func (s *DbnScanner) GetLastHeader() (RHeader, error) {
	var rheader RHeader
	err := FillRHeader_Raw(s.lastRecord[0:RHeader_Size], &rheader)
	return rheader, err
}

// GetLastRecord returns the raw bytes of the last record read
func (s *DbnScanner) GetLastRecord() []byte {
	return s.lastRecord[0:s.lastSize]
}

// GetLastSize returns the size of the last record read
func (s *DbnScanner) GetLastSize() int {
	return s.lastSize
}

/////////////////////////////////////////////////////////////////////////////

// readMetadata is an internal method to read metadata from the stream.
func (s *DbnScanner) readMetadata() error {
	if s.metadata != nil {
		return nil
	}
	m, err := ReadMetadata(s.buffReader)
	if err != nil {
		s.lastError = err
		s.lastSize = 0
		return err
	}
	s.lastError = nil
	s.lastSize = 0
	s.metadata = m
	return nil
}

// Next parses the next record from the stream
func (s *DbnScanner) Next() bool {
	// Read the metadata if we haven't already
	if s.metadata == nil {
		if err := s.readMetadata(); err != nil {
			s.lastError = err
			s.lastSize = 0
			return false
		}
	}

	// Read the next record's header's first byte
	// That stores the record's Length IN WORDS, including Header itself
	recordLen, err := s.buffReader.ReadByte()
	if err != nil {
		s.lastError = err
		s.lastSize = 0
		return false
	}
	mustRead := 4 * int(recordLen)
	if mustRead > len(s.lastRecord) {
		s.lastRecord = make([]byte, mustRead)
	}
	s.lastRecord[0] = recordLen

	// Read the header and record
	// 1: because we already got the first size byte
	// :mustRead because we only want a subset of the buffer (the full record size)
	numRead, err := io.ReadFull(s.buffReader, s.lastRecord[1:mustRead])
	if err != nil {
		// We already committed to this record's length by reading its first
		// byte, so running out of bytes partway through is a truncated
		// stream, not a clean end: surface it as a decode error instead of
		// the raw io.EOF/io.ErrUnexpectedEOF.
		s.lastError = newDecodeErrorf("unexpected end of stream with a partial record buffered (%d of %d bytes)", numRead+1, mustRead)
		s.lastSize = numRead + 1 // +1 for size byte
		return false
	}
	s.lastError = nil
	s.lastSize = mustRead
	return true
}

// Parses the Scanner's current record as a `Record`.
// This a plain function because receiver functions cannot be generic.
func DbnScannerDecode[R Record, RP RecordPtr[R]](s *DbnScanner) (*R, error) {
	// Ensure there's a record to decode
	if s.lastSize <= RHeader_Size {
		return nil, ErrNoRecord
	}
	recordLen := 4 * int(s.lastRecord[0])
	if s.lastSize < recordLen {
		return nil, ErrMalformedRecord
	}

	// Object to return, instantiating an R and putting it in an RP
	var rp RP = new(R)

	// Make sure it's the right record type
	rtype := RType(s.lastRecord[1])
	if !rtype.IsCompatibleWith(rp.RType()) {
		return nil, unexpectedRTypeError(rtype, rp.RType())
	}

	if err := rp.Fill_Raw(s.lastRecord[0:s.lastSize]); err != nil {
		return nil, err
	}
	return rp, nil
}

// Parses the current Record and passes it to the Visitor, choosing the
// versioned shape (error/system/symbol-mapping/instrument-definition) that
// matches the stream's metadata version.
func (s *DbnScanner) Visit(visitor Visitor) error {
	// Ensure there's a record to decode
	if s.lastSize <= RHeader_Size {
		return ErrNoRecord
	}
	recordLen := 4 * int(s.lastRecord[0])
	if s.lastSize < recordLen {
		return ErrMalformedRecord
	}

	version := DbnVersionLatest
	var cstrLen uint16 = MetadataV2_SymbolCstrLen
	if s.metadata != nil {
		version = s.metadata.VersionNum
		cstrLen = s.metadata.SymbolCstrLen
	}
	raw := s.lastRecord[0:s.lastSize]

	switch rtype := RType(s.lastRecord[1]); rtype {
	case RType_Mbo:
		record := MboMsg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnMbo(&record)
	case RType_Mbp0:
		record := TradeMsg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnTrade(&record)
	case RType_Mbp1:
		record := Mbp1Msg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnMbp1(&record)
	case RType_Mbp10:
		record := Mbp10Msg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnMbp10(&record)
	case RType_Cmbp1:
		record := Cmbp1Msg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnCmbp1(&record)
	case RType_Bbo1S, RType_Bbo1M:
		record := BboMsg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnBbo(&record)
	case RType_Cbbo1S, RType_Cbbo1M, RType_Tcbbo:
		record := CbboMsg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnCbbo(&record)
	case RType_Ohlcv1S, RType_Ohlcv1M, RType_Ohlcv1H, RType_Ohlcv1D, RType_OhlcvEod, RType_OhlcvDeprecated:
		record := OhlcvMsg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnOhlcv(&record)
	case RType_Imbalance:
		record := ImbalanceMsg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnImbalance(&record)
	case RType_Status:
		record := StatusMsg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnStatus(&record)
	case RType_Statistics:
		if version >= DbnVersion3 {
			record := StatMsgV3{}
			if err := record.Fill_Raw(raw); err != nil {
				return err
			}
			return visitor.OnStatMsgV3(&record)
		}
		record := StatMsg{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnStatMsg(&record)
	case RType_SymbolMapping:
		if version >= DbnVersion2 {
			record := SymbolMappingMsgV2{}
			if err := record.Fill_Raw(raw, cstrLen); err != nil {
				return err
			}
			return visitor.OnSymbolMappingMsgV2(&record)
		}
		record := SymbolMappingMsgV1{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnSymbolMappingMsgV1(&record)
	case RType_System:
		if version >= DbnVersion2 {
			record := SystemMsgV2{}
			if err := record.Fill_Raw(raw); err != nil {
				return err
			}
			return visitor.OnSystemMsgV2(&record)
		}
		record := SystemMsgV1{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnSystemMsgV1(&record)
	case RType_Error:
		if version >= DbnVersion2 {
			record := ErrorMsgV2{}
			if err := record.Fill_Raw(raw); err != nil {
				return err
			}
			return visitor.OnErrorMsgV2(&record)
		}
		record := ErrorMsgV1{}
		if err := record.Fill_Raw(raw); err != nil {
			return err
		}
		return visitor.OnErrorMsgV1(&record)
	case RType_InstrumentDef:
		switch {
		case version >= DbnVersion3:
			record := InstrumentDefMsgV3{}
			if err := record.Fill_Raw(raw, cstrLen); err != nil {
				return err
			}
			return visitor.OnInstrumentDefV3(&record)
		case version >= DbnVersion2:
			record := InstrumentDefMsgV2{}
			if err := record.Fill_Raw(raw, cstrLen); err != nil {
				return err
			}
			return visitor.OnInstrumentDefV2(&record)
		default:
			record := InstrumentDefMsgV1{}
			if err := record.Fill_Raw(raw); err != nil {
				return err
			}
			return visitor.OnInstrumentDefV1(&record)
		}
	default:
		return ErrUnknownRType
	}
}

/////////////////////////////////////////////////////////////////////////////

// ReadDBNToSlice reads the entire raw DBN stream from an io.Reader.
// It will scan for type R (for example TradeMsg) and decode it into a slice of R.
// Returns the slice, the stream's metadata, and any error.
// Example:
//
//	fileReader, err := os.Open(dbnFilename)
//	records, metadata, err := dbn.ReadDBNToSlice[dbn.TradeMsg](fileReader)
func ReadDBNToSlice[R Record, RP RecordPtr[R]](reader io.Reader) ([]R, *Metadata, error) {
	records := make([]R, 0)
	scanner := NewDbnScanner(reader)
	for scanner.Next() {
		r, err := DbnScannerDecode[R, RP](scanner)
		if err != nil {
			return records, scanner.metadata, err
		}
		records = append(records, *r)
	}
	err := scanner.Error()
	if err == io.EOF {
		// In this function, EOF is not propagated as an error
		err = nil
	}

	return records, scanner.metadata, err
}
