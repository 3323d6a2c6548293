// Package tio provides byte-order-aware binary reading and writing
// utilities for TIFF file data.
//
// Unlike most container formats, TIFF files declare their own byte order
// in the first two bytes of the header ("II" for little-endian, "MM" for
// big-endian). Every reader and writer in this package therefore carries
// an explicit binary.ByteOrder instead of assuming one.
package tio

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	// ErrShortBuffer is returned when a read or write operation cannot
	// complete because there isn't enough data in the buffer.
	ErrShortBuffer = errors.New("tio: buffer too short")

	// ErrNegativeSize is returned when a size parameter is negative.
	ErrNegativeSize = errors.New("tio: negative size")
)

// Reader provides bounds-checked binary reading from a byte slice in a
// caller-supplied byte order. It maintains a read position.
type Reader struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

// NewReader creates a Reader over data with the given byte order.
func NewReader(data []byte, order binary.ByteOrder) *Reader {
	return &Reader{data: data, order: order}
}

// Order returns the reader's byte order.
func (r *Reader) Order() binary.ByteOrder {
	return r.order
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return len(r.data) - r.pos
}

// Pos returns the current read position.
func (r *Reader) Pos() int {
	return r.pos
}

// SetPos sets the read position. Returns an error if the position is out
// of bounds.
func (r *Reader) SetPos(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return ErrShortBuffer
	}
	r.pos = pos
	return nil
}

// Skip advances the read position by n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	if r.pos+n > len(r.data) {
		return ErrShortBuffer
	}
	r.pos += n
	return nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrShortBuffer
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads n bytes into a new slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	if r.pos+n > len(r.data) {
		return nil, ErrShortBuffer
	}
	result := make([]byte, n)
	copy(result, r.data[r.pos:r.pos+n])
	r.pos += n
	return result, nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, ErrShortBuffer
	}
	v := r.order.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, ErrShortBuffer
	}
	v := r.order.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, ErrShortBuffer
	}
	v := r.order.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadFloat32 reads a 32-bit IEEE 754 floating-point number.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat64 reads a 64-bit IEEE 754 floating-point number.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// BufferWriter provides binary writing to a growable buffer in a
// caller-supplied byte order.
type BufferWriter struct {
	buf   []byte
	order binary.ByteOrder
}

// NewBufferWriter creates a BufferWriter with the given initial capacity
// and byte order.
func NewBufferWriter(capacity int, order binary.ByteOrder) *BufferWriter {
	return &BufferWriter{buf: make([]byte, 0, capacity), order: order}
}

// Order returns the writer's byte order.
func (w *BufferWriter) Order() binary.ByteOrder {
	return w.order
}

// Len returns the number of bytes written.
func (w *BufferWriter) Len() int {
	return len(w.buf)
}

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *BufferWriter) Bytes() []byte {
	return w.buf
}

// Reset truncates the buffer, retaining capacity.
func (w *BufferWriter) Reset() {
	w.buf = w.buf[:0]
}

// WriteByte appends a single byte.
func (w *BufferWriter) WriteByte(b byte) {
	w.buf = append(w.buf, b)
}

// WriteBytes appends a byte slice.
func (w *BufferWriter) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteUint16 appends an unsigned 16-bit integer.
func (w *BufferWriter) WriteUint16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteUint32 appends an unsigned 32-bit integer.
func (w *BufferWriter) WriteUint32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteUint64 appends an unsigned 64-bit integer.
func (w *BufferWriter) WriteUint64(v uint64) {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteFloat32 appends a 32-bit IEEE 754 floating-point number.
func (w *BufferWriter) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends a 64-bit IEEE 754 floating-point number.
func (w *BufferWriter) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// PatchUint32 overwrites a previously written 32-bit integer at pos.
func (w *BufferWriter) PatchUint32(pos int, v uint32) error {
	if pos < 0 || pos+4 > len(w.buf) {
		return ErrShortBuffer
	}
	w.order.PutUint32(w.buf[pos:], v)
	return nil
}

// PatchUint64 overwrites a previously written 64-bit integer at pos.
func (w *BufferWriter) PatchUint64(pos int, v uint64) error {
	if pos < 0 || pos+8 > len(w.buf) {
		return ErrShortBuffer
	}
	w.order.PutUint64(w.buf[pos:], v)
	return nil
}

// Pad appends zero bytes until the buffer length is a multiple of align.
func (w *BufferWriter) Pad(align int) {
	if align <= 1 {
		return
	}
	for len(w.buf)%align != 0 {
		w.buf = append(w.buf, 0)
	}
}
