// Copyright (c) 2024 Neomantra Corp

package dbn

import (
	"bufio"
	"io"

	"github.com/valyala/fastjson"
)

///////////////////////////////////////////////////////////////////////////////

// JsonScanner scans a series of DBN JSON values, delimited by whitespace
// (generally newlines). Version-sensitive rtypes (error, system, symbol
// mapping, instrument definition) decode to the shape named by Version,
// since the JSON encoding carries no per-record wire version byte of its
// own.
type JsonScanner struct {
	scanner *bufio.Scanner
	Version uint8
}

// NewJsonScanner creates a new dbn.JsonScanner from a byte array
func NewJsonScanner(r io.Reader) *JsonScanner {
	return &JsonScanner{
		scanner: bufio.NewScanner(r),
		Version: DbnVersionLatest,
	}
}

// Next parses the next JSON value from the data
// Returns true on success. The current value is then decoded with JsonScannerDecode or Visit.
// Returns false either on error or on the end of data. Call Error() in order to determine the cause of the returned false.
func (s *JsonScanner) Next() bool {
	return s.scanner.Scan()
}

// Error returns the last error from Next().
func (s *JsonScanner) Error() error {
	return s.scanner.Err()
}

// Parses the Scanner's current record as a `Record`.
// This a plain function (not a method) because methods cannot be generic.
func JsonScannerDecode[R Record, RP RecordPtr[R]](s *JsonScanner) (*R, error) {
	val, header, err := s.parseWithHeader()
	if err != nil {
		return nil, err
	}

	var rp RP = new(R)

	if !header.RType.IsCompatibleWith(rp.RType()) {
		return nil, unexpectedRTypeError(header.RType, rp.RType())
	}

	if err := rp.Fill_Json(val, header); err != nil {
		return nil, err
	}
	return rp, nil
}

// Parses the current Record and passes it to the Visitor.
func (s *JsonScanner) Visit(visitor Visitor) error {
	val, header, err := s.parseWithHeader()
	if err != nil {
		return err
	}
	return dispatchJsonVisitor(val, header, s.Version, visitor)
}

///////////////////////////////////////////////////////////////////////////////

func (s *JsonScanner) parseWithHeader() (*fastjson.Value, *RHeader, error) {
	var p fastjson.Parser
	val, err := p.ParseBytes(s.scanner.Bytes())
	if err != nil {
		return nil, nil, err
	}

	var header RHeader
	if err := FillRHeader_Json(val.Get("hd"), &header); err != nil {
		return nil, nil, err
	}
	return val, &header, nil
}

func dispatchJsonVisitor(val *fastjson.Value, header *RHeader, version uint8, visitor Visitor) error {
	switch header.RType {
	case RType_Mbo:
		record := MboMsg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnMbo(&record)
	case RType_Mbp0:
		record := TradeMsg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnTrade(&record)
	case RType_Mbp1:
		record := Mbp1Msg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnMbp1(&record)
	case RType_Mbp10:
		record := Mbp10Msg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnMbp10(&record)
	case RType_Cmbp1:
		record := Cmbp1Msg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnCmbp1(&record)
	case RType_Bbo1S, RType_Bbo1M:
		record := BboMsg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnBbo(&record)
	case RType_Cbbo1S, RType_Cbbo1M, RType_Tcbbo:
		record := CbboMsg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnCbbo(&record)
	case RType_Ohlcv1S, RType_Ohlcv1M, RType_Ohlcv1H, RType_Ohlcv1D, RType_OhlcvEod, RType_OhlcvDeprecated:
		record := OhlcvMsg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnOhlcv(&record)
	case RType_Imbalance:
		record := ImbalanceMsg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnImbalance(&record)
	case RType_Status:
		record := StatusMsg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnStatus(&record)
	case RType_Statistics:
		if version >= DbnVersion3 {
			record := StatMsgV3{}
			if err := record.Fill_Json(val, header); err != nil {
				return err
			}
			return visitor.OnStatMsgV3(&record)
		}
		record := StatMsg{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnStatMsg(&record)
	case RType_SymbolMapping:
		if version >= DbnVersion2 {
			record := SymbolMappingMsgV2{}
			if err := record.Fill_Json(val, header); err != nil {
				return err
			}
			return visitor.OnSymbolMappingMsgV2(&record)
		}
		record := SymbolMappingMsgV1{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnSymbolMappingMsgV1(&record)
	case RType_System:
		if version >= DbnVersion2 {
			record := SystemMsgV2{}
			if err := record.Fill_Json(val, header); err != nil {
				return err
			}
			return visitor.OnSystemMsgV2(&record)
		}
		record := SystemMsgV1{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnSystemMsgV1(&record)
	case RType_Error:
		if version >= DbnVersion2 {
			record := ErrorMsgV2{}
			if err := record.Fill_Json(val, header); err != nil {
				return err
			}
			return visitor.OnErrorMsgV2(&record)
		}
		record := ErrorMsgV1{}
		if err := record.Fill_Json(val, header); err != nil {
			return err
		}
		return visitor.OnErrorMsgV1(&record)
	case RType_InstrumentDef:
		switch {
		case version >= DbnVersion3:
			record := InstrumentDefMsgV3{}
			if err := record.Fill_Json(val, header); err != nil {
				return err
			}
			return visitor.OnInstrumentDefV3(&record)
		case version >= DbnVersion2:
			record := InstrumentDefMsgV2{}
			if err := record.Fill_Json(val, header); err != nil {
				return err
			}
			return visitor.OnInstrumentDefV2(&record)
		default:
			record := InstrumentDefMsgV1{}
			if err := record.Fill_Json(val, header); err != nil {
				return err
			}
			return visitor.OnInstrumentDefV1(&record)
		}
	default:
		return ErrUnknownRType
	}
}

///////////////////////////////////////////////////////////////////////////////

// ReadJsonToSlice reads the entire stream from a JSONL stream of DBN records.
// It will scan for type R (for example TradeMsg) and decode it into a slice of R.
// Returns the slice and any error.
// Example:
//
//	fileReader, err := os.Open(dbnFilename)
//	records, err := dbn.ReadJsonToSlice[dbn.TradeMsg](fileReader)
func ReadJsonToSlice[R Record, RP RecordPtr[R]](reader io.Reader) ([]R, error) {
	records := make([]R, 0)
	scanner := NewJsonScanner(reader)
	for scanner.Next() {
		r, err := JsonScannerDecode[R, RP](scanner)
		if err != nil {
			return records, err
		}
		records = append(records, *r)
	}
	return records, scanner.Error()
}
