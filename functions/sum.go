package functions

import (
	"io"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
)

// NewSum returns a new, unconfigured sum() AggregateFunction
func NewSum() aggregate.AggregateFunction {
	return &Sum{base: base{name: "sum"}}
}

// Sum sums a numeric argument. Signed integers are summed into an Int64,
// unsigned integers into a UInt64 (both wrap on overflow), and floating-point
// values into a Float64. The empty result is zero.
type Sum struct {
	base
	kind numericKind
	i64  int64
	u64  uint64
	f64  float64
}

// GetTypeID returns a string from which an equivalent instance can be reconstructed
func (a *Sum) GetTypeID() string {
	return a.typeID("")
}

// CloneEmpty returns a new, unconfigured sum()
func (a *Sum) CloneEmpty() aggregate.AggregateFunction {
	return NewSum()
}

// SetArguments accepts a single numeric argument
func (a *Sum) SetArguments(args []aggregate.ColumnType) error {
	err := a.configure(args, func(args []aggregate.ColumnType) error {
		return a.single(args, "a numeric", aggregate.IsNumeric)
	})
	if err != nil {
		return err
	}
	a.kind = kindOf(args[0])
	return nil
}

// GetReturnType returns Int64, UInt64 or Float64, depending on the argument
func (a *Sum) GetReturnType() (aggregate.ColumnType, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	switch a.kind {
	case signedKind:
		return &aggregate.Int64ColumnType{}, nil
	case unsignedKind:
		return &aggregate.Uint64ColumnType{}, nil
	default:
		return &aggregate.Float64ColumnType{}, nil
	}
}

// Add adds a row's value to the sum
func (a *Sum) Add(row aggregate.Row) error {
	skip, err := a.checkRow(row)
	if err != nil || skip {
		return err
	}
	switch a.kind {
	case signedKind:
		v, err := getInt64(row, 0, a.args[0])
		if err != nil {
			return err
		}
		a.i64 += v
	case unsignedKind:
		v, err := getUint64(row, 0, a.args[0])
		if err != nil {
			return err
		}
		a.u64 += v
	default:
		v, err := getFloat64(row, 0, a.args[0])
		if err != nil {
			return err
		}
		a.f64 += v
	}
	return nil
}

// Merge merges another sum() into this one
func (a *Sum) Merge(o aggregate.AggregateFunction) error {
	if err := a.checkMerge(a, o); err != nil {
		return err
	}
	sa, ok := o.(*Sum)
	if !ok {
		return mismatch(a, o)
	}
	a.i64 += sa.i64
	a.u64 += sa.u64
	a.f64 += sa.f64
	return nil
}

// Serialize writes the sum as 8 bytes
func (a *Sum) Serialize(w io.Writer) error {
	if err := a.ready(); err != nil {
		return err
	}
	switch a.kind {
	case signedKind:
		return codec.WriteInt64(w, a.i64)
	case unsignedKind:
		return codec.WriteUint64(w, a.u64)
	default:
		return codec.WriteFloat64(w, a.f64)
	}
}

// DeserializeMerge reads a sum written by Serialize and adds it to this one
func (a *Sum) DeserializeMerge(r io.Reader) error {
	if err := a.ready(); err != nil {
		return err
	}
	switch a.kind {
	case signedKind:
		v, err := codec.ReadInt64(r)
		if err != nil {
			return codec.Corrupt(a.name, err)
		}
		a.i64 += v
	case unsignedKind:
		v, err := codec.ReadUint64(r)
		if err != nil {
			return codec.Corrupt(a.name, err)
		}
		a.u64 += v
	default:
		v, err := codec.ReadFloat64(r)
		if err != nil {
			return codec.Corrupt(a.name, err)
		}
		a.f64 += v
	}
	return nil
}

// GetResult returns the sum as an int64, uint64 or float64
func (a *Sum) GetResult() (interface{}, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	switch a.kind {
	case signedKind:
		return a.i64, nil
	case unsignedKind:
		return a.u64, nil
	default:
		return a.f64, nil
	}
}
