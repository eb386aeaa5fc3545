package functions

import (
	"bytes"
	"io"
	"math"
	"strings"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
)

// valueState is an optional single value of an argument's type, as kept by min, max and any
type valueState struct {
	has   bool
	value interface{}
}

func (s *valueState) set(v interface{}) {
	if b, ok := v.([]byte); ok {
		v = append([]byte(nil), b...)
	}
	s.has = true
	s.value = v
}

func (s *valueState) result() interface{} {
	if !s.has {
		return nil
	}
	return s.value
}

// write encodes a presence flag, followed by the value when present
func (s *valueState) write(w io.Writer, colType aggregate.ColumnType) error {
	if err := codec.WriteBool(w, s.has); err != nil {
		return err
	}
	if !s.has {
		return nil
	}
	return codec.WriteValue(w, colType, s.value)
}

func readValueState(r io.Reader, colType aggregate.ColumnType) (valueState, error) {
	has, err := codec.ReadBool(r)
	if err != nil || !has {
		return valueState{}, err
	}
	v, err := codec.ReadValue(r, colType)
	if err != nil {
		return valueState{}, err
	}
	return valueState{has: true, value: v}, nil
}

// isComparable reports whether min and max can operate on colType
func isComparable(colType aggregate.ColumnType) bool {
	if aggregate.IsNumeric(colType) {
		return true
	}
	inner, _ := aggregate.Unwrap(colType)
	switch inner.(type) {
	case *aggregate.VarStringColumnType, *aggregate.VarBytesColumnType:
		return true
	}
	return false
}

// isNaN reports whether v is a floating-point NaN
func isNaN(v interface{}) bool {
	switch fv := v.(type) {
	case float32:
		return fv != fv
	case float64:
		return math.IsNaN(fv)
	}
	return false
}

// compareValues orders two non-nil values of the same comparable column type
func compareValues(colType aggregate.ColumnType, a, b interface{}) int {
	switch av := a.(type) {
	case string:
		return strings.Compare(av, b.(string))
	case []byte:
		return bytes.Compare(av, b.([]byte))
	}
	switch kindOf(colType) {
	case signedKind:
		return cmp3(toInt64(a) < toInt64(b), toInt64(a) > toInt64(b))
	case unsignedKind:
		return cmp3(toUint64(a) < toUint64(b), toUint64(a) > toUint64(b))
	default:
		return cmp3(toFloat64(a) < toFloat64(b), toFloat64(a) > toFloat64(b))
	}
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

func toInt64(v interface{}) int64 {
	switch tv := v.(type) {
	case int8:
		return int64(tv)
	case int16:
		return int64(tv)
	case int32:
		return int64(tv)
	}
	return v.(int64)
}

func toUint64(v interface{}) uint64 {
	switch tv := v.(type) {
	case uint8:
		return uint64(tv)
	case uint16:
		return uint64(tv)
	case uint32:
		return uint64(tv)
	}
	return v.(uint64)
}

func toFloat64(v interface{}) float64 {
	if f, ok := v.(float32); ok {
		return float64(f)
	}
	return v.(float64)
}
