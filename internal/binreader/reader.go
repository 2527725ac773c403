// Package binreader provides a bounds-checked cursor over an immutable
// byte buffer. All multi-byte reads are little-endian; the IPF and XAC
// formats were produced on little-endian machines and never mix orders.
package binreader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds is returned by any read or seek that would leave the buffer.
var ErrOutOfBounds = errors.New("binreader: out of bounds")

// Reader walks a byte slice sequentially with random-access seeks.
// The underlying slice is never modified.
type Reader struct {
	data []byte
	off  int
}

// New returns a Reader positioned at the start of data.
func New(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.data) }

// Pos returns the current offset.
func (r *Reader) Pos() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

// Seek moves the cursor to an absolute offset. Seeking to Len() is
// allowed (cursor exhausted); anything past it is an error.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.data) {
		return fmt.Errorf("seek to %d in %d-byte buffer: %w", off, len(r.data), ErrOutOfBounds)
	}
	r.off = off
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	return r.Seek(r.off + n)
}

func (r *Reader) need(n int) error {
	if n < 0 || r.off+n > len(r.data) {
		return fmt.Errorf("%d bytes at offset %d of %d: %w", n, r.off, len(r.data), ErrOutOfBounds)
	}
	return nil
}

// Bytes returns the next n bytes without copying. The returned slice
// aliases the underlying buffer and must be treated as read-only.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Sub carves out a child Reader over the next n bytes and advances the
// parent past them. A chunk decoder gets a Sub bounded to the chunk's
// declared length so it can never read into a neighbouring chunk.
func (r *Reader) Sub(n int) (*Reader, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return nil, err
	}
	return New(b), nil
}

func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *Reader) U32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}
