// Copyright (c) 2024 Neomantra Corp
//
// Package splitter routes decoded records to one of several lazily-created
// sub-encoders, each writing its own independent DBN stream. The routing key
// (a bucket date, a resolved symbol, an inferred schema) is chosen by the
// concrete splitter; this file holds the machinery every one of them shares.
package splitter

import (
	"fmt"
	"io"

	dbn "github.com/databento/dbn-sub000"
)

// SplitDuration is the bucket granularity for a TimeSplitter.
type SplitDuration int

const (
	SplitDay SplitDuration = iota
	SplitWeek
	SplitMonth
)

// NoSchemaBehavior controls how a SchemaSplitter handles a record whose
// rtype isn't tied to any one schema (error, system, symbol mapping).
type NoSchemaBehavior int

const (
	NoSchemaSkip NoSchemaBehavior = iota
	NoSchemaError
	NoSchemaBroadcast
)

// Splitter routes a decoded record to one of several lazily-created
// sub-encoders and supports flushing/closing all of them together.
// TimeSplitter, SymbolSplitter, and SchemaSplitter all satisfy this.
type Splitter interface {
	// Route writes ref to the sub-encoder its routing key selects,
	// creating that sub-encoder (and its metadata header, if any) on
	// first use.
	Route(ref dbn.RecordRef) error
	// Flush flushes every open sub-encoder, stopping at the first error.
	Flush() error
	// Close closes every open sub-encoder, stopping at the first error.
	Close() error
}

// WriterFactory creates the sink backing a new sub-encoder keyed by key. It
// is called once per distinct key over a splitter's lifetime, and again for
// a key whose previous sub-encoder failed to write its metadata.
type WriterFactory func(key string) (io.WriteCloser, error)

type subEncoder struct {
	enc *dbn.RecordEncoder
	w   io.WriteCloser
}

// base is the shared bucket-of-sub-encoders machinery every concrete
// splitter embeds: lazy creation keyed by a caller-derived string, and
// ordered flush/close that stops at the first error, mirroring
// dbn.RecordEncoder's own single-writer simplicity one level up.
type base struct {
	parent     *dbn.Metadata
	makeWriter WriterFactory
	encoders   map[string]*subEncoder
	order      []string
}

func newBase(parent *dbn.Metadata, makeWriter WriterFactory) base {
	return base{
		parent:     parent,
		makeWriter: makeWriter,
		encoders:   make(map[string]*subEncoder),
	}
}

// getOrCreate returns the sub-encoder for key, creating it on first use. If
// buildMetadata is non-nil and returns a non-nil Metadata, that metadata is
// encoded as the new sub-stream's header before any record reaches it.
func (b *base) getOrCreate(key string, buildMetadata func() *dbn.Metadata) (*dbn.RecordEncoder, error) {
	if sub, ok := b.encoders[key]; ok {
		return sub.enc, nil
	}
	w, err := b.makeWriter(key)
	if err != nil {
		return nil, fmt.Errorf("splitter: create sub-encoder %q: %w", key, err)
	}
	if buildMetadata != nil {
		if md := buildMetadata(); md != nil {
			if err := dbn.NewMetadataEncoder(w).Encode(md); err != nil {
				w.Close()
				return nil, err
			}
		}
	}
	sub := &subEncoder{enc: dbn.NewRecordEncoder(w), w: w}
	b.encoders[key] = sub
	b.order = append(b.order, key)
	return sub.enc, nil
}

// keys returns every currently-open sub-encoder key, in creation order.
func (b *base) keys() []string {
	return b.order
}

func (b *base) encoderFor(key string) *dbn.RecordEncoder {
	sub, ok := b.encoders[key]
	if !ok {
		return nil
	}
	return sub.enc
}

// Flush flushes every sub-encoder that buffers its own output, in creation
// order, stopping at the first error.
func (b *base) Flush() error {
	for _, key := range b.order {
		w := b.encoders[key].w
		if f, ok := w.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				return fmt.Errorf("splitter: flush %q: %w", key, err)
			}
		}
	}
	return nil
}

// Close closes every sub-encoder's writer, in creation order, stopping at
// the first error. Sub-encoders are never reused after Close.
func (b *base) Close() error {
	for _, key := range b.order {
		if err := b.encoders[key].w.Close(); err != nil {
			return fmt.Errorf("splitter: close %q: %w", key, err)
		}
	}
	return nil
}

// maxU64, minU64, maxU32, minU32 bound interval arithmetic when clipping
// metadata ranges/intervals to a bucket window.
func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// filterStrings returns the subset of in that keep marks true, preserving
// order.
func filterStrings(in []string, keep map[string]bool) []string {
	if len(in) == 0 {
		return nil
	}
	var out []string
	for _, s := range in {
		if keep[s] {
			out = append(out, s)
		}
	}
	return out
}
