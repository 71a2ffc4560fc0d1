// Copyright (c) 2024 Neomantra Corp
//
// iterator.go implements the streaming iterator: a typed pull-style
// view over a Decoder, grounded on DbnScanner's Next/Error pair but
// generic over the target record type the way DbnScannerDecode already is.

package dbn

import "io"

// RecordIterator pulls records of type R one at a time from src, feeding it
// through a Decoder underneath. The record returned by Record() is held by
// reference until the next Advance call, matching the Decoder's
// ref-stability contract.
type RecordIterator[R Record, RP RecordPtr[R]] struct {
	src     io.Reader
	decoder *Decoder
	current *R
	err     error
	done    bool
}

// NewRecordIterator builds an iterator reading a full DBN stream (metadata
// then records) from src.
func NewRecordIterator[R Record, RP RecordPtr[R]](src io.Reader) *RecordIterator[R, RP] {
	return &RecordIterator[R, RP]{
		src:     src,
		decoder: NewDecoder(DecoderConfig{}),
	}
}

// NewFragmentIterator builds an iterator over a DBN fragment (no metadata
// prelude), assuming the given input version and ts_out presence.
func NewFragmentIterator[R Record, RP RecordPtr[R]](src io.Reader, inputVersion uint8, tsOut bool) *RecordIterator[R, RP] {
	return &RecordIterator[R, RP]{
		src: src,
		decoder: NewDecoder(DecoderConfig{
			SkipMetadata:    true,
			InputDBNVersion: inputVersion,
			TsOut:           tsOut,
		}),
	}
}

// Metadata returns the stream's metadata once Advance has decoded it, or nil
// before that point or in fragment mode.
func (it *RecordIterator[R, RP]) Metadata() *Metadata {
	return it.decoder.Metadata()
}

// Advance decodes the next record of type R, returning true if one is now
// available via Record(). Returns false at end-of-stream or on error; call
// Err() to distinguish the two. An unexpected partial record on the wire is
// surfaced as an error, not a silent truncation.
func (it *RecordIterator[R, RP]) Advance() bool {
	if it.done {
		return false
	}
	for {
		result, err := it.decoder.Process()
		if err != nil {
			it.err = err
			it.done = true
			return false
		}
		switch result {
		case ResultReadMore:
			if !it.fill() {
				return false
			}
		case ResultMetadata:
			continue
		case ResultRecord:
			ref := it.decoder.LastRecord()
			var rp RP = new(R)
			if !ref.RType().IsCompatibleWith(rp.RType()) {
				continue
			}
			if err := rp.Fill_Raw(ref.Bytes()); err != nil {
				it.err = err
				it.done = true
				return false
			}
			it.current = rp
			return true
		}
	}
}

// fill reads more bytes from src into the decoder, reporting end-of-stream
// (clean, no error, unless the decoder still holds a partial record) or a
// read failure (latched as Err()).
func (it *RecordIterator[R, RP]) fill() bool {
	space := it.decoder.Space(defaultBufferSize)
	n, err := it.src.Read(space)
	if n > 0 {
		it.decoder.Fill(n)
	}
	if err != nil {
		if err == io.EOF {
			if it.decoder.Buffered() > 0 {
				it.err = newDecodeErrorf("unexpected end of stream with a partial record buffered (%d bytes)", it.decoder.Buffered())
			}
			it.done = true
			return false
		}
		it.err = wrapIO(err)
		it.done = true
		return false
	}
	if n == 0 {
		it.err = newIOError(io.ErrNoProgress)
		it.done = true
		return false
	}
	return true
}

// Record returns the record decoded by the most recent successful Advance.
func (it *RecordIterator[R, RP]) Record() *R { return it.current }

// Err returns the error that ended iteration, or nil on a clean end-of-stream.
func (it *RecordIterator[R, RP]) Err() error { return it.err }
