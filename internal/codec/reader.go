package codec

import (
	"encoding/binary"
	"errors"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// ErrShortBuffer is returned whenever a read would run past the end of
// the payload. Any packet that produces this must disconnect its peer
// with UNDEFINED per the protocol-violation rule (§7).
var ErrShortBuffer = errors.New("codec: short buffer")

// Reader consumes a packet payload sequentially.
type Reader struct {
	b   []byte
	pos int
}

// NewReader wraps b for sequential reads starting at offset 0.
func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.b) - r.pos
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	out := r.b[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadUint16 reads a little-endian u16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadInt16 reads a little-endian i16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a little-endian u32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadInt32 reads a little-endian i32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads a little-endian u64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadFloat32 reads a little-endian IEEE-754 single precision float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return float32frombits(v), nil
}

// ReadVec3 reads a 3-vector of little-endian float32s.
func (r *Reader) ReadVec3() (mathutil.Vec3, error) {
	x, err := r.ReadFloat32()
	if err != nil {
		return mathutil.Vec3{}, err
	}
	y, err := r.ReadFloat32()
	if err != nil {
		return mathutil.Vec3{}, err
	}
	z, err := r.ReadFloat32()
	if err != nil {
		return mathutil.Vec3{}, err
	}
	return mathutil.Vec3{X: float64(x), Y: float64(y), Z: float64(z)}, nil
}

// ReadRGB reads an R,G,B color triple.
func (r *Reader) ReadRGB() (uint8, uint8, uint8, error) {
	b, err := r.take(3)
	if err != nil {
		return 0, 0, 0, err
	}
	return b[0], b[1], b[2], nil
}

// ReadString reads a u8-length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadFixedString reads exactly n bytes and trims trailing NUL padding,
// used for the 16-byte player name field.
func (r *Reader) ReadFixedString(n int) (string, error) {
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end]), nil
}

// ReadRaw consumes and returns the remaining bytes of the payload,
// used for deflate chunk payloads whose length is carried externally.
func (r *Reader) ReadRaw() []byte {
	b := r.b[r.pos:]
	r.pos = len(r.b)
	return b
}
