// Copyright (c) 2024 Neomantra Corp
//
// encoder.go implements the record encoder: the write-side counterpart
// to DbnScanner/Decoder, using the same sequential-write style as
// metadata.go's MetadataEncoder. A broken pipe on the sink is treated as a
// signal to stop streaming rather than a hard error.

package dbn

import (
	"errors"
	"io"
	"syscall"
)

// RecordEncoder writes decoded records back out to their exact wire bytes,
// unchanged. It is the write-side half of DbnScanner/Decoder.
type RecordEncoder struct {
	w io.Writer
}

// NewRecordEncoder wraps w for sequential record writes.
func NewRecordEncoder(w io.Writer) *RecordEncoder {
	return &RecordEncoder{w: w}
}

// EncodeRef writes ref's exact wire bytes to the underlying writer.
// Returns (false, nil) if the sink's pipe was broken — the caller should
// stop encoding but treat this as a clean shutdown signal, not a failure.
// Any other I/O error is returned directly.
func (e *RecordEncoder) EncodeRef(ref RecordRef) (bool, error) {
	return e.EncodeRaw(ref.Bytes())
}

// EncodeRaw writes raw (length*4 bytes, header included) to the underlying
// writer unchanged. See EncodeRef for the broken-pipe return convention.
func (e *RecordEncoder) EncodeRaw(raw []byte) (bool, error) {
	if _, err := e.w.Write(raw); err != nil {
		if isBrokenPipe(err) {
			return false, nil
		}
		return false, wrapIO(err)
	}
	return true, nil
}

// isBrokenPipe reports whether err indicates the sink closed its read end,
// the one I/O failure treated as a stop signal rather than an
// error to propagate.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
