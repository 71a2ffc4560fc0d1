// Copyright (c) 2024 Neomantra Corp

package splitter

import (
	"time"

	dbn "github.com/databento/dbn-sub000"
)

var _ Splitter = (*TimeSplitter)(nil)

// TimeSplitter buckets records by their index timestamp (a record's
// receive-side date where applicable, else its event date) into Day,
// Week-Sunday, or Month windows, lazily opening one sub-encoder per window.
type TimeSplitter struct {
	base
	duration SplitDuration
}

// NewTimeSplitter builds a TimeSplitter. parent may be nil, in which case no
// per-bucket metadata header is written. makeWriter is called with the
// bucket key (YYYYMMDD for Day, the Sunday YYYYMMDD for Week, YYYYMM for
// Month) the first time a record lands in a new bucket.
func NewTimeSplitter(duration SplitDuration, parent *dbn.Metadata, makeWriter WriterFactory) *TimeSplitter {
	return &TimeSplitter{base: newBase(parent, makeWriter), duration: duration}
}

// Route writes ref's exact wire bytes to the sub-encoder for its bucket,
// creating the sub-encoder (and its metadata header, if parent is set) on
// first use.
func (s *TimeSplitter) Route(ref dbn.RecordRef) error {
	t := dbn.TimestampToTime(dbn.IndexTimestamp(ref))
	key, bucketStart, bucketEnd := bucketKey(t, s.duration)

	enc, err := s.getOrCreate(key, func() *dbn.Metadata {
		if s.parent == nil {
			return nil
		}
		return clipMetadataToWindow(s.parent, bucketStart, bucketEnd)
	})
	if err != nil {
		return err
	}
	_, err = enc.EncodeRef(ref)
	return err
}

// bucketKey returns the sub-encoder key for t under dur, plus the half-open
// [start, end) window the bucket covers, both at UTC midnight boundaries.
func bucketKey(t time.Time, dur SplitDuration) (key string, start, end time.Time) {
	t = t.UTC()
	switch dur {
	case SplitWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		start = day.AddDate(0, 0, -int(day.Weekday())) // back up to Sunday
		end = start.AddDate(0, 0, 7)
		return start.Format("20060102"), start, end
	case SplitMonth:
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		return start.Format("200601"), start, end
	default: // SplitDay
		start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 0, 1)
		return start.Format("20060102"), start, end
	}
}

// clipMetadataToWindow intersects parent's [Start, End) and every mapping
// interval with [bucketStart, bucketEnd), dropping mappings (and their
// entries in Symbols/Partial) left with no live interval.
func clipMetadataToWindow(parent *dbn.Metadata, bucketStart, bucketEnd time.Time) *dbn.Metadata {
	winStartNs := uint64(bucketStart.UnixNano())
	winEndNs := uint64(bucketEnd.UnixNano())
	winStartYMD := dbn.TimeToYMD(bucketStart)
	winEndYMD := dbn.TimeToYMD(bucketEnd)

	out := *parent
	out.Start = maxU64(parent.Start, winStartNs)
	out.End = minU64(parent.End, winEndNs)
	out.Mappings = nil

	liveSymbols := make(map[string]bool)
	for _, mapping := range parent.Mappings {
		var clipped []dbn.MappingInterval
		for _, iv := range mapping.Intervals {
			start := maxU32(iv.StartDate, winStartYMD)
			end := minU32(iv.EndDate, winEndYMD)
			if start >= end {
				continue
			}
			clipped = append(clipped, dbn.MappingInterval{StartDate: start, EndDate: end, Symbol: iv.Symbol})
		}
		if len(clipped) == 0 {
			continue
		}
		out.Mappings = append(out.Mappings, dbn.SymbolMapping{RawSymbol: mapping.RawSymbol, Intervals: clipped})
		liveSymbols[mapping.RawSymbol] = true
	}

	out.Symbols = filterStrings(parent.Symbols, liveSymbols)
	out.Partial = filterStrings(parent.Partial, liveSymbols)
	return &out
}
