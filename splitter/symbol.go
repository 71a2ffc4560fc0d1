// Copyright (c) 2024 Neomantra Corp

package splitter

import (
	"errors"
	"time"

	dbn "github.com/databento/dbn-sub000"
)

var _ Splitter = (*SymbolSplitter)(nil)

// ErrNoSymbolMapping is returned by SymbolSplitter.Route when the injected
// SymbolIndex has no mapping for a record's instrument ID at its index date.
var ErrNoSymbolMapping = errors.New("splitter: record has no symbol mapping for its instrument/date")

// SymbolIndex resolves a record's raw symbol given its index date and
// instrument ID. *dbn.TsSymbolMap satisfies this directly.
type SymbolIndex interface {
	Get(dt time.Time, instrID uint32) string
}

// SymbolSplitter routes records to one sub-encoder per resolved symbol,
// looking the symbol up via an injected SymbolIndex.
type SymbolSplitter struct {
	base
	index SymbolIndex
}

// NewSymbolSplitter builds a SymbolSplitter. parent may be nil, in which
// case no per-split metadata header is written.
func NewSymbolSplitter(index SymbolIndex, parent *dbn.Metadata, makeWriter WriterFactory) *SymbolSplitter {
	return &SymbolSplitter{base: newBase(parent, makeWriter), index: index}
}

// Route resolves ref's symbol via the SymbolIndex and writes it to that
// symbol's sub-encoder, returning ErrNoSymbolMapping if none is found.
func (s *SymbolSplitter) Route(ref dbn.RecordRef) error {
	hdr := ref.Header()
	if hdr == nil {
		return ErrNoSymbolMapping
	}
	t := dbn.TimestampToTime(dbn.IndexTimestamp(ref))
	symbol := s.index.Get(t, hdr.InstrumentID)
	if symbol == "" {
		return ErrNoSymbolMapping
	}

	enc, err := s.getOrCreate(symbol, func() *dbn.Metadata {
		if s.parent == nil {
			return nil
		}
		return filterMetadataToSymbol(s.parent, symbol)
	})
	if err != nil {
		return err
	}
	_, err = enc.EncodeRef(ref)
	return err
}

// filterMetadataToSymbol retains only the one SymbolMapping resolving to
// symbol (plus its presence in Symbols/Partial), handling both the direct
// (stype_out is InstrumentId) and inverse (stype_in is InstrumentId) mapping
// directions the same way TsSymbolMap.FillFromMetadata does.
func filterMetadataToSymbol(parent *dbn.Metadata, symbol string) *dbn.Metadata {
	out := *parent
	out.Mappings = nil

	isInverse, err := parent.IsInverseMapping()
	if err != nil {
		isInverse = false
	}

	for _, m := range parent.Mappings {
		if isInverse {
			for _, iv := range m.Intervals {
				if iv.Symbol == symbol {
					out.Mappings = []dbn.SymbolMapping{m}
					break
				}
			}
		} else if m.RawSymbol == symbol {
			out.Mappings = []dbn.SymbolMapping{m}
		}
		if len(out.Mappings) > 0 {
			break
		}
	}

	keep := map[string]bool{symbol: true}
	out.Symbols = filterStrings(parent.Symbols, keep)
	out.Partial = filterStrings(parent.Partial, keep)
	return &out
}
