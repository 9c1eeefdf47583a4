package ot

import (
	"github.com/npillmayer/glyphs/core"
)

// Reading bytes from a font's binary representation

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// binarySegm is a segment of byte data.
// We use it throughout this module to navigate the font's binary data.
// All accessors are pure functions of (segment, offset) and check bounds
// before touching the data.
type binarySegm []byte

// Size returns the number of bytes in this segment.
func (b binarySegm) Size() int {
	return len(b)
}

// Bytes returns the segment as a byte slice. Clients must treat it as read-only.
func (b binarySegm) Bytes() []byte {
	return b
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return nil, errOutOfBounds(offset, n, len(b))
	}
	return b[offset : offset+n], nil
}

// u8 returns the byte in b at the relative offset i.
func (b binarySegm) u8(i int) (uint8, error) {
	buf, err := b.view(i, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// i8 returns the signed byte in b at the relative offset i.
func (b binarySegm) i8(i int) (int8, error) {
	n, err := b.u8(i)
	return int8(n), err
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// i16 returns the int16 in b at the relative offset i.
func (b binarySegm) i16(i int) (int16, error) {
	n, err := b.u16(i)
	return int16(n), err
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// i32 returns the int32 in b at the relative offset i.
func (b binarySegm) i32(i int) (int32, error) {
	n, err := b.u32(i)
	return int32(n), err
}

// fixed returns the 16.16 fixed-point number in b at the relative offset i.
func (b binarySegm) fixed(i int) (float64, error) {
	n, err := b.i32(i)
	return float64(n) / 65536, err
}

// f2dot14 returns the 2.14 fixed-point number in b at the relative offset i.
// Composite glyphs store their scale factors in this format.
func (b binarySegm) f2dot14(i int) (float64, error) {
	n, err := b.i16(i)
	return float64(n) / 16384, err
}

// --- Sequential reading ----------------------------------------------------

// reader consumes a binary segment front to back. The first failing read
// sticks: every subsequent read is a no-op and err reports the first error.
// This keeps decoding loops free of error branches for every field.
type reader struct {
	data binarySegm
	pos  int
	err  error
}

func newReader(b binarySegm) *reader {
	return &reader{data: b}
}

func (r *reader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	var n uint8
	n, r.err = r.data.u8(r.pos)
	r.pos++
	return n
}

func (r *reader) i8() int8 {
	return int8(r.u8())
}

func (r *reader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	var n uint16
	n, r.err = r.data.u16(r.pos)
	r.pos += 2
	return n
}

func (r *reader) i16() int16 {
	return int16(r.u16())
}

func (r *reader) f2dot14() float64 {
	return float64(r.i16()) / 16384
}

func (r *reader) skip(n int) {
	if r.err != nil {
		return
	}
	if _, err := r.data.view(r.pos, n); err != nil {
		r.err = err
		return
	}
	r.pos += n
}

// --- Errors ----------------------------------------------------------------

func errOutOfBounds(offset, n, size int) error {
	return core.Error(core.EBOUNDS, "read of %d bytes at offset %d exceeds buffer of size %d",
		n, offset, size)
}
