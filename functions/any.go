package functions

import (
	"io"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
)

// NewAny returns a new, unconfigured any() AggregateFunction
func NewAny() aggregate.AggregateFunction {
	return &Any{base: base{name: "any"}}
}

// Any keeps the first non-nil value it encounters. It is order-sensitive: its result
// depends on the order of Add calls and of merges, since a merge keeps the receiver's
// value whenever it has one. The empty result is nil.
type Any struct {
	base
	state valueState
}

// IsOrderSensitive always returns true
func (a *Any) IsOrderSensitive() bool {
	return true
}

// GetTypeID returns a string from which an equivalent instance can be reconstructed
func (a *Any) GetTypeID() string {
	return a.typeID("")
}

// CloneEmpty returns a new, unconfigured any()
func (a *Any) CloneEmpty() aggregate.AggregateFunction {
	return NewAny()
}

// SetArguments accepts a single argument of any serializable type
func (a *Any) SetArguments(args []aggregate.ColumnType) error {
	return a.configure(args, func(args []aggregate.ColumnType) error {
		return a.single(args, "a scalar", func(t aggregate.ColumnType) bool {
			_, isTuple := t.(*aggregate.TupleColumnType)
			return !isTuple
		})
	})
}

// GetReturnType returns the argument type, made nullable
func (a *Any) GetReturnType() (aggregate.ColumnType, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return aggregate.Nullable(a.args[0]), nil
}

// Add keeps a row's value, if no value has been kept yet
func (a *Any) Add(row aggregate.Row) error {
	skip, err := a.checkRow(row)
	if err != nil || skip || a.state.has {
		return err
	}
	v, err := row.Get(0)
	if err != nil {
		return err
	}
	a.state.set(v)
	return nil
}

// Merge adopts the other any()'s value, if this one has none
func (a *Any) Merge(o aggregate.AggregateFunction) error {
	if err := a.checkMerge(a, o); err != nil {
		return err
	}
	aa, ok := o.(*Any)
	if !ok {
		return mismatch(a, o)
	}
	if !a.state.has && aa.state.has {
		a.state.set(aa.state.value)
	}
	return nil
}

// Serialize writes a presence flag, followed by the kept value if there is one
func (a *Any) Serialize(w io.Writer) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.state.write(w, a.args[0])
}

// DeserializeMerge reads a state written by Serialize and merges it into this one
func (a *Any) DeserializeMerge(r io.Reader) error {
	if err := a.ready(); err != nil {
		return err
	}
	s, err := readValueState(r, a.args[0])
	if err != nil {
		return codec.Corrupt(a.name, err)
	}
	if !a.state.has && s.has {
		a.state = s
	}
	return nil
}

// GetResult returns the kept value, or nil if no values were added
func (a *Any) GetResult() (interface{}, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return a.state.result(), nil
}
