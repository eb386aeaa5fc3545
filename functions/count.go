package functions

import (
	"io"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
)

// NewCount returns a new, unconfigured count() AggregateFunction
func NewCount() aggregate.AggregateFunction {
	return &Count{base: base{name: "count"}}
}

// Count counts rows. With no arguments every row is counted; with a single
// nullable argument, rows where it is nil are not. The empty result is 0.
type Count struct {
	base
	count uint64
}

// GetTypeID returns a string from which an equivalent instance can be reconstructed
func (a *Count) GetTypeID() string {
	return a.typeID("")
}

// CloneEmpty returns a new, unconfigured count()
func (a *Count) CloneEmpty() aggregate.AggregateFunction {
	return NewCount()
}

// SetArguments accepts zero arguments, or one argument of any type
func (a *Count) SetArguments(args []aggregate.ColumnType) error {
	return a.configure(args, func(args []aggregate.ColumnType) error {
		if len(args) > 1 {
			return a.incompatible("expects at most 1 argument, got %d", len(args))
		}
		return nil
	})
}

// GetReturnType returns UInt64
func (a *Count) GetReturnType() (aggregate.ColumnType, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return &aggregate.Uint64ColumnType{}, nil
}

// Add counts a row
func (a *Count) Add(row aggregate.Row) error {
	skip, err := a.checkRow(row)
	if err != nil || skip {
		return err
	}
	a.count++
	return nil
}

// Merge merges another count() into this one
func (a *Count) Merge(o aggregate.AggregateFunction) error {
	if err := a.checkMerge(a, o); err != nil {
		return err
	}
	ca, ok := o.(*Count)
	if !ok {
		return mismatch(a, o)
	}
	a.count += ca.count
	return nil
}

// Serialize writes the count as 8 bytes
func (a *Count) Serialize(w io.Writer) error {
	if err := a.ready(); err != nil {
		return err
	}
	return codec.WriteUint64(w, a.count)
}

// DeserializeMerge reads a count written by Serialize and adds it to this one
func (a *Count) DeserializeMerge(r io.Reader) error {
	if err := a.ready(); err != nil {
		return err
	}
	count, err := codec.ReadUint64(r)
	if err != nil {
		return codec.Corrupt(a.name, err)
	}
	a.count += count
	return nil
}

// GetResult returns the row count as a uint64
func (a *Count) GetResult() (interface{}, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return a.count, nil
}
