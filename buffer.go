// Copyright (c) 2024 Neomantra Corp
//
// growBuffer backs both the decoder's input buffer and its compat/upgrade
// scratch space: a growable byte ring with a
// read-window (data()) and a write-window (space()), so the decoder can
// append freshly-read bytes without disturbing data already consumed by
// position but not yet shifted out.

package dbn

// growBuffer is a minimal port of oval::Buffer: a single growable []byte
// split into a [start,end) "data" window already written and readable, and
// an [end,cap) "space" window still writable. consume() advances start;
// fill() advances end; shift() compacts the data window to offset 0 so
// space() has room again without growing; grow() doubles capacity.
type growBuffer struct {
	buf        []byte
	start, end int
	// noShift disables shift()'s compaction inside ensureSpace. Set on the
	// compat buffer, whose bytes may be aliased by RecordRefs the caller is
	// still holding (batch decoding defers their consume to end-of-batch);
	// compacting would move the exact bytes those refs point to.
	noShift bool
}

func newGrowBuffer(capacity int) *growBuffer {
	return &growBuffer{buf: make([]byte, capacity)}
}

// newGrowBufferNoShift is like newGrowBuffer but never compacts to reclaim
// consumed space, only grows — for buffers whose previously-handed-out byte
// ranges must stay at a fixed address until explicitly consumed.
func newGrowBufferNoShift(capacity int) *growBuffer {
	return &growBuffer{buf: make([]byte, capacity), noShift: true}
}

// data returns the bytes already filled and not yet consumed.
func (b *growBuffer) data() []byte { return b.buf[b.start:b.end] }

// space returns the writable tail the caller may fill via fill().
func (b *growBuffer) space() []byte { return b.buf[b.end:] }

// available is the number of unconsumed, already-filled bytes.
func (b *growBuffer) available() int { return b.end - b.start }

// availableSpace is the number of bytes that may still be written via fill()
// before the buffer needs a shift() or grow().
func (b *growBuffer) availableSpace() int { return len(b.buf) - b.end }

// capacity is the buffer's total allocated size.
func (b *growBuffer) capacity() int { return len(b.buf) }

// fill records that n more bytes were written into space().
func (b *growBuffer) fill(n int) {
	b.end += n
	if b.end > len(b.buf) {
		panic("growBuffer: fill overruns capacity")
	}
}

// consume marks n bytes at the front of data() as read, advancing start.
// It does not compact — callers that need space()
// to grow back should call shift() separately once no outstanding
// RecordRef still points into the consumed region.
func (b *growBuffer) consume(n int) {
	if n > b.available() {
		panic("growBuffer: consume underruns available data")
	}
	b.start += n
}

// shift compacts the buffer so data() starts at offset 0 again, maximizing
// availableSpace without allocating. Must only be called when no live
// RecordRef still points into the buffer's current data window, since this
// moves those bytes.
func (b *growBuffer) shift() {
	if b.start == 0 {
		return
	}
	n := copy(b.buf, b.buf[b.start:b.end])
	b.start = 0
	b.end = n
}

// grow doubles the buffer's capacity, or grows to at least minCapacity,
// whichever is larger. Existing data is preserved at the same start/end
// offsets since growth only appends room, it never shifts.
func (b *growBuffer) grow(minCapacity int) {
	newCap := len(b.buf) * 2
	if newCap == 0 {
		newCap = 256
	}
	if newCap < minCapacity {
		newCap = minCapacity
	}
	grown := make([]byte, newCap)
	copy(grown, b.buf[:b.end])
	b.buf = grown
}

// ensureSpace grows (and shifts first, if that alone would suffice) until
// availableSpace() >= n.
func (b *growBuffer) ensureSpace(n int) {
	if b.availableSpace() >= n {
		return
	}
	if !b.noShift {
		b.shift()
		if b.availableSpace() >= n {
			return
		}
	}
	b.grow(b.end + n)
}

// reset empties the buffer without releasing its backing array.
func (b *growBuffer) reset() {
	b.start = 0
	b.end = 0
}
