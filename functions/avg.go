package functions

import (
	"io"
	"math"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
)

// NewAvg returns a new, unconfigured avg() AggregateFunction
func NewAvg() aggregate.AggregateFunction {
	return &Avg{base: base{name: "avg"}}
}

// Avg computes the arithmetic mean of a numeric argument. The average of
// zero values is NaN.
type Avg struct {
	base
	sum   float64
	count uint64
}

// GetTypeID returns a string from which an equivalent instance can be reconstructed
func (a *Avg) GetTypeID() string {
	return a.typeID("")
}

// CloneEmpty returns a new, unconfigured avg()
func (a *Avg) CloneEmpty() aggregate.AggregateFunction {
	return NewAvg()
}

// SetArguments accepts a single numeric argument
func (a *Avg) SetArguments(args []aggregate.ColumnType) error {
	return a.configure(args, func(args []aggregate.ColumnType) error {
		return a.single(args, "a numeric", aggregate.IsNumeric)
	})
}

// GetReturnType returns Float64
func (a *Avg) GetReturnType() (aggregate.ColumnType, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return &aggregate.Float64ColumnType{}, nil
}

// Add adds a row's value to the running sum and count
func (a *Avg) Add(row aggregate.Row) error {
	skip, err := a.checkRow(row)
	if err != nil || skip {
		return err
	}
	v, err := getFloat64(row, 0, a.args[0])
	if err != nil {
		return err
	}
	a.sum += v
	a.count++
	return nil
}

// Merge merges another avg() into this one
func (a *Avg) Merge(o aggregate.AggregateFunction) error {
	if err := a.checkMerge(a, o); err != nil {
		return err
	}
	aa, ok := o.(*Avg)
	if !ok {
		return mismatch(a, o)
	}
	a.sum += aa.sum
	a.count += aa.count
	return nil
}

// Serialize writes the sum and the count, 8 bytes each
func (a *Avg) Serialize(w io.Writer) error {
	if err := a.ready(); err != nil {
		return err
	}
	if err := codec.WriteFloat64(w, a.sum); err != nil {
		return err
	}
	return codec.WriteUint64(w, a.count)
}

// DeserializeMerge reads a state written by Serialize and merges it into this one
func (a *Avg) DeserializeMerge(r io.Reader) error {
	if err := a.ready(); err != nil {
		return err
	}
	sum, err := codec.ReadFloat64(r)
	if err != nil {
		return codec.Corrupt(a.name, err)
	}
	count, err := codec.ReadUint64(r)
	if err != nil {
		return codec.Corrupt(a.name, err)
	}
	a.sum += sum
	a.count += count
	return nil
}

// GetResult returns the mean as a float64, or NaN if no values were added
func (a *Avg) GetResult() (interface{}, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	if a.count == 0 {
		return math.NaN(), nil
	}
	return a.sum / float64(a.count), nil
}
