package functions

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
)

type numericKind int

const (
	signedKind numericKind = iota
	unsignedKind
	floatKind
)

func kindOf(colType aggregate.ColumnType) numericKind {
	switch {
	case aggregate.IsSignedInteger(colType):
		return signedKind
	case aggregate.IsUnsignedInteger(colType):
		return unsignedKind
	default:
		return floatKind
	}
}

// getInt64 reads a signed integer of any width from row
func getInt64(row aggregate.Row, idx int, colType aggregate.ColumnType) (int64, error) {
	inner, _ := aggregate.Unwrap(colType)
	switch inner.(type) {
	case *aggregate.Int8ColumnType:
		v, err := row.GetInt8(idx)
		return int64(v), err
	case *aggregate.Int16ColumnType:
		v, err := row.GetInt16(idx)
		return int64(v), err
	case *aggregate.Int32ColumnType:
		v, err := row.GetInt32(idx)
		return int64(v), err
	case *aggregate.Int64ColumnType:
		return row.GetInt64(idx)
	}
	return 0, fmt.Errorf("%s is not a signed integer type", colType.Name())
}

// getUint64 reads an unsigned integer of any width from row
func getUint64(row aggregate.Row, idx int, colType aggregate.ColumnType) (uint64, error) {
	inner, _ := aggregate.Unwrap(colType)
	switch inner.(type) {
	case *aggregate.Uint8ColumnType:
		v, err := row.GetUint8(idx)
		return uint64(v), err
	case *aggregate.Uint16ColumnType:
		v, err := row.GetUint16(idx)
		return uint64(v), err
	case *aggregate.Uint32ColumnType:
		v, err := row.GetUint32(idx)
		return uint64(v), err
	case *aggregate.Uint64ColumnType:
		return row.GetUint64(idx)
	}
	return 0, fmt.Errorf("%s is not an unsigned integer type", colType.Name())
}

// getFloat64 reads any numeric value from row, converting it to a float64
func getFloat64(row aggregate.Row, idx int, colType aggregate.ColumnType) (float64, error) {
	switch kindOf(colType) {
	case signedKind:
		v, err := getInt64(row, idx, colType)
		return float64(v), err
	case unsignedKind:
		v, err := getUint64(row, idx, colType)
		return float64(v), err
	}
	inner, _ := aggregate.Unwrap(colType)
	switch inner.(type) {
	case *aggregate.Float32ColumnType:
		v, err := row.GetFloat32(idx)
		return float64(v), err
	case *aggregate.Float64ColumnType:
		return row.GetFloat64(idx)
	}
	return 0, fmt.Errorf("%s is not a numeric type", colType.Name())
}

// hashRow computes a 64-bit hash of the argument values of row. Values are fed to the
// hash through their codec encoding, which is self-delimiting, so tuples of arguments
// never collide by concatenation.
func hashRow(row aggregate.Row, args []aggregate.ColumnType) (uint64, error) {
	d := xxhash.New()
	for i, colType := range args {
		v, err := row.Get(i)
		if err != nil {
			return 0, err
		}
		if err := codec.WriteValue(d, colType, v); err != nil {
			return 0, err
		}
	}
	return d.Sum64(), nil
}
