// Copyright (c) 2024 Neomantra Corp

package splitter

import (
	"fmt"
	"strconv"

	dbn "github.com/databento/dbn-sub000"
)

var _ Splitter = (*SchemaSplitter)(nil)

// SchemaSplitter routes records to one sub-encoder per schema, inferring the
// schema from each record's rtype. Records whose rtype isn't tied to any one
// schema (error, system, symbol mapping) are handled per noSchema.
type SchemaSplitter struct {
	base
	noSchema  NoSchemaBehavior
	broadcast map[string]bool // keys whose metadata header used a since-broadcast schema
}

// NewSchemaSplitter builds a SchemaSplitter. parent may be nil, in which
// case no per-split metadata header is written.
func NewSchemaSplitter(noSchema NoSchemaBehavior, parent *dbn.Metadata, makeWriter WriterFactory) *SchemaSplitter {
	return &SchemaSplitter{
		base:      newBase(parent, makeWriter),
		noSchema:  noSchema,
		broadcast: make(map[string]bool),
	}
}

// Route writes ref to its schema's sub-encoder. For a schema-less rtype, it
// drops (Skip), fails (Error), or forwards ref to every already-open
// sub-encoder (Broadcast), per noSchema.
func (s *SchemaSplitter) Route(ref dbn.RecordRef) error {
	schema, ok := dbn.SchemaForRType(ref.RType())
	if !ok {
		switch s.noSchema {
		case NoSchemaSkip:
			return nil
		case NoSchemaError:
			return fmt.Errorf("splitter: rtype %d has no schema", ref.RType())
		case NoSchemaBroadcast:
			return s.broadcastTo(ref)
		}
		return nil
	}

	key := strconv.Itoa(int(schema))
	enc, err := s.getOrCreate(key, func() *dbn.Metadata {
		if s.parent == nil {
			return nil
		}
		md := *s.parent
		md.Schema = schema
		return &md
	})
	if err != nil {
		return err
	}
	_, err = enc.EncodeRef(ref)
	return err
}

// broadcastTo forwards ref to every currently-open sub-encoder, marking each
// as mixed so a future metadata rewrite can set schema = null on it. Record
// written before any schema-typed record has opened a sub-encoder are
// simply dropped — there is nothing open yet to broadcast to.
func (s *SchemaSplitter) broadcastTo(ref dbn.RecordRef) error {
	for _, key := range s.keys() {
		s.broadcast[key] = true
		if _, err := s.encoderFor(key).EncodeRef(ref); err != nil {
			return err
		}
	}
	return nil
}

// Mixed reports whether key's sub-encoder ever received a broadcast record,
// meaning its true schema is mixed even though its metadata header (written
// at bucket-open time, before the broadcast) still names one concrete
// schema.
func (s *SchemaSplitter) Mixed(key string) bool {
	return s.broadcast[key]
}
