// Package codec implements the read/write primitives for the wire
// protocol: little-endian fixed-width integers, IEEE-754 floats, fixed
// and length-prefixed strings, RGB triples and 3-vectors (§6).
package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// Writer accumulates an outbound packet payload. The type code itself
// is written by the caller (internal/protocol) before the payload.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteInt8 writes a signed byte.
func (w *Writer) WriteInt8(v int8) {
	w.buf.WriteByte(byte(v))
}

// WriteUint16 writes a little-endian u16.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt16 writes a little-endian i16.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteUint32 writes a little-endian u32.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt32 writes a little-endian i32.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint64 writes a little-endian u64.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteFloat32 writes a little-endian IEEE-754 single precision float.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(float32bits(v))
}

// WriteVec3 writes a 3-vector as three little-endian float32s (§6).
func (w *Writer) WriteVec3(v mathutil.Vec3) {
	w.WriteFloat32(float32(v.X))
	w.WriteFloat32(float32(v.Y))
	w.WriteFloat32(float32(v.Z))
}

// WriteRGB writes an R,G,B color triple as three bytes.
func (w *Writer) WriteRGB(r, g, b uint8) {
	w.buf.WriteByte(r)
	w.buf.WriteByte(g)
	w.buf.WriteByte(b)
}

// WriteString writes a u8-length-prefixed UTF-8 string (chat / loader
// names). The caller is responsible for keeping it under 255 bytes.
func (w *Writer) WriteString(s string) {
	b := []byte(s)
	if len(b) > 255 {
		b = b[:255]
	}
	w.WriteUint8(uint8(len(b)))
	w.buf.Write(b)
}

// WriteFixedString writes s into exactly n bytes, truncating or
// zero-padding as needed. Used for the 16-byte player name field.
func (w *Writer) WriteFixedString(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.buf.Write(b)
}

// WriteRaw appends raw bytes verbatim (used for deflate chunk payloads).
func (w *Writer) WriteRaw(b []byte) {
	w.buf.Write(b)
}
