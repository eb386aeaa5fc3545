package codec

import (
	"fmt"
	"io"

	"github.com/go-sif/aggregate"
)

// WriteValue writes a single non-nil value of the given column type. Integer and
// floating-point values are widened to 8 bytes; strings and byte arrays are
// length-prefixed. Nullability must be handled by the caller (see WriteBool).
func WriteValue(w io.Writer, colType aggregate.ColumnType, v interface{}) error {
	inner, _ := aggregate.Unwrap(colType)
	switch inner.(type) {
	case *aggregate.BoolColumnType:
		return WriteBool(w, v.(bool))
	case *aggregate.Uint8ColumnType:
		return WriteUint64(w, uint64(v.(uint8)))
	case *aggregate.Uint16ColumnType:
		return WriteUint64(w, uint64(v.(uint16)))
	case *aggregate.Uint32ColumnType:
		return WriteUint64(w, uint64(v.(uint32)))
	case *aggregate.Uint64ColumnType:
		return WriteUint64(w, v.(uint64))
	case *aggregate.Int8ColumnType:
		return WriteInt64(w, int64(v.(int8)))
	case *aggregate.Int16ColumnType:
		return WriteInt64(w, int64(v.(int16)))
	case *aggregate.Int32ColumnType:
		return WriteInt64(w, int64(v.(int32)))
	case *aggregate.Int64ColumnType:
		return WriteInt64(w, v.(int64))
	case *aggregate.Float32ColumnType:
		return WriteFloat64(w, float64(v.(float32)))
	case *aggregate.Float64ColumnType:
		return WriteFloat64(w, v.(float64))
	case *aggregate.VarStringColumnType:
		return WriteString(w, v.(string))
	case *aggregate.VarBytesColumnType:
		return WriteBytes(w, v.([]byte))
	default:
		return fmt.Errorf("cannot serialize values of type %s", colType.Name())
	}
}

// ReadValue reads a single value written by WriteValue for the same column type
func ReadValue(r io.Reader, colType aggregate.ColumnType) (interface{}, error) {
	inner, _ := aggregate.Unwrap(colType)
	switch inner.(type) {
	case *aggregate.BoolColumnType:
		return ReadBool(r)
	case *aggregate.Uint8ColumnType, *aggregate.Uint16ColumnType, *aggregate.Uint32ColumnType, *aggregate.Uint64ColumnType:
		v, err := ReadUint64(r)
		if err != nil {
			return nil, err
		}
		return narrowUnsigned(inner, v)
	case *aggregate.Int8ColumnType, *aggregate.Int16ColumnType, *aggregate.Int32ColumnType, *aggregate.Int64ColumnType:
		v, err := ReadInt64(r)
		if err != nil {
			return nil, err
		}
		return narrowSigned(inner, v)
	case *aggregate.Float32ColumnType:
		v, err := ReadFloat64(r)
		if err != nil {
			return nil, err
		}
		return float32(v), nil
	case *aggregate.Float64ColumnType:
		return ReadFloat64(r)
	case *aggregate.VarStringColumnType:
		return ReadString(r)
	case *aggregate.VarBytesColumnType:
		return ReadBytes(r)
	default:
		return nil, fmt.Errorf("cannot deserialize values of type %s", colType.Name())
	}
}

func narrowUnsigned(colType aggregate.ColumnType, v uint64) (interface{}, error) {
	if colType.Size() == 8 {
		return v, nil
	}
	if limit := uint64(1)<<(8*colType.Size()) - 1; v > limit {
		return nil, fmt.Errorf("value %d out of range for %s", v, colType.Name())
	}
	switch colType.Size() {
	case 1:
		return uint8(v), nil
	case 2:
		return uint16(v), nil
	default:
		return uint32(v), nil
	}
}

func narrowSigned(colType aggregate.ColumnType, v int64) (interface{}, error) {
	if colType.Size() == 8 {
		return v, nil
	}
	bits := 8 * colType.Size()
	lo, hi := -int64(1)<<(bits-1), int64(1)<<(bits-1)-1
	if v < lo || v > hi {
		return nil, fmt.Errorf("value %d out of range for %s", v, colType.Name())
	}
	switch colType.Size() {
	case 1:
		return int8(v), nil
	case 2:
		return int16(v), nil
	default:
		return int32(v), nil
	}
}
