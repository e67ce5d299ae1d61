// File: buffer/buffer.go
// Package buffer implements the mutable, bidirectional byte container used to
// carry OpenFlow wire payloads between the messenger, the application
// callbacks, and the path resolver.
// Author: trema-go
// License: Apache-2.0
//
// A Buffer owns a single backing allocation of RealLength() bytes. The
// payload occupies a contiguous interior window [head, head+length) of that
// allocation; bytes before head are headroom, bytes after head+length are
// tailroom. Prepend and append grow the payload in place whenever the
// backing allocation is already large enough for the requested growth, and
// otherwise reallocate exactly once, preserving the existing headroom.
// Append writes into tailroom; Prepend shifts the payload forward by n
// (into tailroom, or into the new allocation) and fills the gap it leaves,
// so it never consumes headroom. This mirrors the inside-out message construction OpenFlow
// encoders rely on: the payload body is built first, and protocol headers
// are prepended afterwards, so prepend must be as cheap as append.
package buffer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidArgument is returned for zero-length capacity/prepend/append
// requests. It is the one buffer failure mode that is not treated as fatal.
var ErrInvalidArgument = errors.New("buffer: invalid argument")

// Buffer is a mutable byte container safe for concurrent use. All mutating
// operations are serialised by an internal mutex; reads of the UserData
// field, or of a slice returned by Data, are not guaranteed
// consistent with a concurrent writer, matching the source contract.
type Buffer struct {
	mu   sync.Mutex
	raw  []byte // backing allocation, len(raw) == RealLength
	head int    // head_offset: start of the payload window within raw
	len  int    // length of the payload window

	// UserData is an opaque handle attached by the caller (e.g. a session
	// or connection identifier). It is copied bitwise by Duplicate; this
	// package never interprets or frees it.
	UserData any
}

// New returns an empty buffer with no backing allocation.
func New() *Buffer {
	return &Buffer{}
}

// NewWithCapacity allocates n bytes up front, with an empty payload.
func NewWithCapacity(n int) (*Buffer, error) {
	if n == 0 {
		return nil, fmt.Errorf("buffer.NewWithCapacity: %w", ErrInvalidArgument)
	}
	return &Buffer{raw: make([]byte, n)}, nil
}

// Len returns the current payload length.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.len
}

// RealLength returns the size of the backing allocation.
func (b *Buffer) RealLength() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.raw)
}

// Data returns the payload window. The returned slice aliases the Buffer's
// backing storage; callers that hold on to it across further mutations of
// the same Buffer may observe stale or relocated data, same as the C source.
func (b *Buffer) Data() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raw[b.head : b.head+b.len]
}

// requiredFor returns the allocation size needed to hold the current
// payload plus n additional bytes, measured from the start of the backing
// allocation (i.e. including existing headroom).
func (b *Buffer) requiredFor(n int) int {
	return b.head + b.len + n
}

// fits reports whether the backing allocation is already large enough to
// hold the current payload plus n more bytes without reallocating.
func (b *Buffer) fits(n int) bool {
	return len(b.raw) >= b.requiredFor(n)
}

// Prepend makes n bytes available immediately before the current payload
// and returns them for the caller to fill. See the package doc for the
// growth strategy.
func (b *Buffer) Prepend(n int) ([]byte, error) {
	if n == 0 {
		return nil, fmt.Errorf("buffer.Prepend: %w", ErrInvalidArgument)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.raw == nil {
		b.raw = make([]byte, n)
		b.head = 0
		b.len = n
		return b.raw[0:n], nil
	}

	if b.fits(n) {
		// Shift the payload forward by n within the existing allocation,
		// reusing tailroom beyond head+len to make room, then zero the
		// freed prefix.
		dst := b.raw[b.head+n : b.head+n+b.len]
		copy(dst, b.raw[b.head:b.head+b.len])
		gap := b.raw[b.head : b.head+n]
		for i := range gap {
			gap[i] = 0
		}
		b.len += n
		return b.raw[b.head : b.head+n], nil
	}

	required := b.requiredFor(n)
	newRaw := make([]byte, required)
	copy(newRaw[b.head+n:b.head+n+b.len], b.raw[b.head:b.head+b.len])
	b.raw = newRaw
	b.len += n
	return b.raw[b.head : b.head+n], nil
}

// Append makes n bytes available immediately after the current payload and
// returns them for the caller to fill.
func (b *Buffer) Append(n int) ([]byte, error) {
	if n == 0 {
		return nil, fmt.Errorf("buffer.Append: %w", ErrInvalidArgument)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.raw == nil {
		b.raw = make([]byte, n)
		b.head = 0
		b.len = n
		return b.raw[0:n], nil
	}

	if !b.fits(n) {
		required := b.requiredFor(n)
		newRaw := make([]byte, required)
		copy(newRaw[b.head:b.head+b.len], b.raw[b.head:b.head+b.len])
		b.raw = newRaw
	}

	appended := b.raw[b.head+b.len : b.head+b.len+n]
	b.len += n
	return appended, nil
}

// TrimFront advances the payload window by n bytes, discarding the first n
// bytes of payload, and returns the remaining payload. n must not exceed
// the current length; violating this is a programming error, not a
// recoverable condition, so TrimFront panics.
func (b *Buffer) TrimFront(n int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > b.len {
		panic(fmt.Sprintf("buffer.TrimFront: n (%d) exceeds length (%d)", n, b.len))
	}
	b.head += n
	b.len -= n
	return b.raw[b.head : b.head+b.len]
}

// Duplicate returns a deep copy of b: the entire backing allocation is
// copied byte-for-byte, preserving head offset, length, real length, and
// UserData. Mutating the copy never affects b, and vice versa.
func (b *Buffer) Duplicate() *Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()

	dup := &Buffer{
		head:     b.head,
		len:      b.len,
		UserData: b.UserData,
	}
	if b.raw != nil {
		dup.raw = make([]byte, len(b.raw))
		copy(dup.raw, b.raw)
	}
	return dup
}

// DumpSink receives the rendered hexadecimal form of a Buffer's payload.
type DumpSink func(string)

// Dump renders the payload as a lowercase hexadecimal string and passes it
// to sink.
func (b *Buffer) Dump(sink DumpSink) {
	b.mu.Lock()
	payload := b.raw[b.head : b.head+b.len]
	encoded := hex.EncodeToString(payload)
	b.mu.Unlock()
	sink(encoded)
}

// Free releases the backing allocation. After Free, the Buffer is empty and
// behaves as if newly constructed by New; it is safe, if pointless, to keep
// using it. Free exists so callers that track buffer lifetime explicitly
// (mirroring the source's free_buffer) have a symmetric release point.
func (b *Buffer) Free() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw = nil
	b.head = 0
	b.len = 0
	b.UserData = nil
}
