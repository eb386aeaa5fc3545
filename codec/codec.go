// Package codec defines the binary discipline shared by every AggregateFunction's Serialize
// and DeserializeMerge. Numbers are written in a fixed, process-wide byte order (little-endian),
// so partial states can be shipped between workers on heterogeneous hardware. Fixed-width values
// are written as-is, and variable-length values carry their own length prefix, which makes every
// encoding built from these helpers self-delimiting.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	aerrors "github.com/go-sif/aggregate/errors"
)

// ByteOrder is the byte order of every number written by this package
var ByteOrder = binary.LittleEndian

// MaxBlobSize is the largest length prefix accepted by ReadBytes. Anything
// larger is treated as corruption rather than allocated.
const MaxBlobSize = 1 << 28

// ErrBlobTooLarge occurs when a length prefix exceeds MaxBlobSize
var ErrBlobTooLarge = errors.New("length prefix exceeds maximum blob size")

// Corrupt wraps a decoding error in a CorruptStateError for the named function.
// Errors which are already CorruptStateErrors are returned unchanged.
func Corrupt(function string, err error) error {
	if err == nil {
		return nil
	}
	var corrupt aerrors.CorruptStateError
	if errors.As(err, &corrupt) {
		return err
	}
	return aerrors.CorruptStateError{Function: function, Cause: err}
}

// readFull is io.ReadFull, except that reading nothing at all is also reported as io.ErrUnexpectedEOF
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// WriteUint64 writes a uint64 in 8 bytes
func WriteUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	ByteOrder.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadUint64 reads a uint64 written by WriteUint64
func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return ByteOrder.Uint64(buf[:]), nil
}

// WriteUint32 writes a uint32 in 4 bytes
func WriteUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	ByteOrder.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadUint32 reads a uint32 written by WriteUint32
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return ByteOrder.Uint32(buf[:]), nil
}

// WriteInt64 writes an int64 in 8 bytes (two's complement)
func WriteInt64(w io.Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}

// ReadInt64 reads an int64 written by WriteInt64
func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err
}

// WriteFloat64 writes the IEEE 754 bits of a float64 in 8 bytes
func WriteFloat64(w io.Writer, v float64) error {
	return WriteUint64(w, math.Float64bits(v))
}

// ReadFloat64 reads a float64 written by WriteFloat64
func ReadFloat64(r io.Reader) (float64, error) {
	v, err := ReadUint64(r)
	return math.Float64frombits(v), err
}

// WriteBool writes a bool in a single byte
func WriteBool(w io.Writer, v bool) error {
	var buf [1]byte
	if v {
		buf[0] = 1
	}
	_, err := w.Write(buf[:])
	return err
}

// ReadBool reads a bool written by WriteBool. Bytes other than 0 and 1 are rejected.
func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return false, err
	}
	switch buf[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool byte %#x", buf[0])
	}
}

// WriteBytes writes a uint32 length prefix followed by b
func WriteBytes(w io.Writer, b []byte) error {
	if len(b) > MaxBlobSize {
		return ErrBlobTooLarge
	}
	if err := WriteUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadBytes reads a byte slice written by WriteBytes
func ReadBytes(r io.Reader) ([]byte, error) {
	size, err := ReadUint32(r)
	if err != nil {
		return nil, err
	}
	if size > MaxBlobSize {
		return nil, ErrBlobTooLarge
	}
	buf := make([]byte, size)
	if err := readFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteString writes a length-prefixed string
func WriteString(w io.Writer, s string) error {
	return WriteBytes(w, []byte(s))
}

// ReadString reads a string written by WriteString
func ReadString(r io.Reader) (string, error) {
	b, err := ReadBytes(r)
	return string(b), err
}
