package functions

import (
	"io"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
)

// NewMin returns a new, unconfigured min() AggregateFunction
func NewMin() aggregate.AggregateFunction {
	return &Extreme{base: base{name: "min"}}
}

// NewMax returns a new, unconfigured max() AggregateFunction
func NewMax() aggregate.AggregateFunction {
	return &Extreme{base: base{name: "max"}, greatest: true}
}

// Extreme keeps the smallest (min) or greatest (max) value of a numeric or
// string argument. NaNs are ignored. The empty result is nil.
type Extreme struct {
	base
	greatest bool
	state    valueState
}

// GetTypeID returns a string from which an equivalent instance can be reconstructed
func (a *Extreme) GetTypeID() string {
	return a.typeID("")
}

// CloneEmpty returns a new, unconfigured instance of the same function
func (a *Extreme) CloneEmpty() aggregate.AggregateFunction {
	return &Extreme{base: base{name: a.name}, greatest: a.greatest}
}

// SetArguments accepts a single numeric or string argument
func (a *Extreme) SetArguments(args []aggregate.ColumnType) error {
	return a.configure(args, func(args []aggregate.ColumnType) error {
		return a.single(args, "a numeric or string", isComparable)
	})
}

// GetReturnType returns the argument type, made nullable
func (a *Extreme) GetReturnType() (aggregate.ColumnType, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return aggregate.Nullable(a.args[0]), nil
}

func (a *Extreme) offer(v interface{}) {
	if isNaN(v) {
		return
	}
	if a.state.has {
		c := compareValues(a.args[0], v, a.state.value)
		if (a.greatest && c <= 0) || (!a.greatest && c >= 0) {
			return
		}
	}
	a.state.set(v)
}

// Add offers a row's value as the new extreme
func (a *Extreme) Add(row aggregate.Row) error {
	skip, err := a.checkRow(row)
	if err != nil || skip {
		return err
	}
	v, err := row.Get(0)
	if err != nil {
		return err
	}
	a.offer(v)
	return nil
}

// Merge merges another instance of the same function into this one
func (a *Extreme) Merge(o aggregate.AggregateFunction) error {
	if err := a.checkMerge(a, o); err != nil {
		return err
	}
	ea, ok := o.(*Extreme)
	if !ok || ea.greatest != a.greatest {
		return mismatch(a, o)
	}
	if ea.state.has {
		a.offer(ea.state.value)
	}
	return nil
}

// Serialize writes a presence flag, followed by the extreme value if there is one
func (a *Extreme) Serialize(w io.Writer) error {
	if err := a.ready(); err != nil {
		return err
	}
	return a.state.write(w, a.args[0])
}

// DeserializeMerge reads a state written by Serialize and merges it into this one
func (a *Extreme) DeserializeMerge(r io.Reader) error {
	if err := a.ready(); err != nil {
		return err
	}
	s, err := readValueState(r, a.args[0])
	if err != nil {
		return codec.Corrupt(a.name, err)
	}
	if s.has {
		a.offer(s.value)
	}
	return nil
}

// GetResult returns the extreme value, or nil if no values were added
func (a *Extreme) GetResult() (interface{}, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return a.state.result(), nil
}
