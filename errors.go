// Copyright (c) 2024 Neomantra Corp

package dbn

import (
	"errors"
	"fmt"
	"io"
)

// ErrorKind classifies a DBN error the way the callers of this package are
// expected to branch on: with errors.Is/errors.As against a kind, not a
// string.
type ErrorKind uint8

const (
	// KindDecode covers malformed input: truncated records, bad rtype,
	// metadata invariant violations.
	KindDecode ErrorKind = iota
	// KindConversion covers value-range or encoding failures converting
	// between Go types and wire representations (bad ASCII, string too long
	// for a fixed-width field).
	KindConversion
	// KindIO covers failures from the underlying reader/writer.
	KindIO
	// KindBadArgument covers invalid combinations of caller-supplied
	// options. An upgrade policy that is incompatible with the input version
	// is reported as KindDecode, not as this kind.
	KindBadArgument
)

func (k ErrorKind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindConversion:
		return "conversion"
	case KindIO:
		return "io"
	case KindBadArgument:
		return "bad_argument"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by this package. It carries a
// Kind so callers can branch with errors.Is(err, dbn.ErrDecode) without
// string matching, and wraps an optional underlying cause.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dbn: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("dbn: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecode) work by comparing against the sentinel
// kind values below, in addition to normal error-value comparison.
func (e *Error) Is(target error) bool {
	if k, ok := target.(kindSentinel); ok {
		return e.Kind == k.kind
	}
	return false
}

type kindSentinel struct{ kind ErrorKind }

func (k kindSentinel) Error() string { return "dbn error kind: " + k.kind.String() }

var (
	// ErrDecode, ErrConversion, ErrIO, and ErrBadArgument are sentinels for
	// use with errors.Is, e.g. errors.Is(err, dbn.ErrDecode).
	ErrDecode      error = kindSentinel{KindDecode}
	ErrConversion  error = kindSentinel{KindConversion}
	ErrIO          error = kindSentinel{KindIO}
	ErrBadArgument error = kindSentinel{KindBadArgument}
)

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func newDecodeErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindDecode, Msg: fmt.Sprintf(format, args...)}
}

func newConversionErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindConversion, Msg: fmt.Sprintf(format, args...)}
}

func newIOError(err error) *Error {
	return &Error{Kind: KindIO, Msg: "i/o failure", Err: err}
}

func newBadArgumentErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindBadArgument, Msg: fmt.Sprintf(format, args...)}
}

// Sentinels preserved from the original flat error set. Several are now
// backed by the typed Error so both styles of check keep working:
// errors.Is(err, dbn.ErrUnknownRType) and errors.Is(err, dbn.ErrDecode).
var (
	ErrInvalidDBNVersion     = &Error{Kind: KindDecode, Msg: "invalid DBN version"}
	ErrInvalidDBNFile        = &Error{Kind: KindDecode, Msg: "invalid DBN file"}
	ErrHeaderTooShort        = &Error{Kind: KindDecode, Msg: "header shorter than expected"}
	ErrHeaderTooLong         = &Error{Kind: KindDecode, Msg: "header longer than expected"}
	ErrUnexpectedCStrLength  = &Error{Kind: KindDecode, Msg: "unexpected cstr length"}
	ErrNoRecord              = &Error{Kind: KindDecode, Msg: "no record scanned"}
	ErrMalformedRecord       = &Error{Kind: KindDecode, Msg: "malformed record"}
	ErrUnknownRType          = &Error{Kind: KindDecode, Msg: "unknown rtype"}
	ErrDateOutsideQueryRange = &Error{Kind: KindConversion, Msg: "date outside the query range"}
	ErrWrongStypesForMapping = &Error{Kind: KindConversion, Msg: "wrong stypes for mapping"}
	ErrNoMetadata            = &Error{Kind: KindDecode, Msg: "no metadata"}
	// ErrPoisoned describes a decoder that has hit an unrecoverable decode
	// error. The Decoder itself does not return this value: once poisoned it
	// returns that original error from every subsequent call until Reset, so
	// a decoder that errors never silently resumes.
	ErrPoisoned = &Error{Kind: KindDecode, Msg: "decoder is poisoned by a previous error"}
)

func unexpectedBytesError(got int, want int) error {
	return newDecodeErrorf("expected %d bytes, got %d", want, got)
}

func unexpectedRTypeError(got RType, want RType) error {
	return newDecodeErrorf("expected RType %d, got %d", want, got)
}

// wrapIO normalizes a reader/writer error, passing io.EOF through unchanged
// since callers need to distinguish clean stream end from failure.
func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return err
	}
	return newIOError(err)
}
