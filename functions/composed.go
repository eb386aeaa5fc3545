package functions

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-sif/aggregate"
)

// Child describes one member of a composed() AggregateFunction: a factory for it,
// and optionally the parameters to configure it with
type Child struct {
	New    aggregate.AggregateFunctionFactory
	Params aggregate.Row
}

// Compose returns a factory for composed() AggregateFunctions, which feed every row
// to each of the given children
func Compose(children ...Child) aggregate.AggregateFunctionFactory {
	return func() aggregate.AggregateFunction {
		return &Composed{base: base{name: "composed"}, children: children}
	}
}

// ComposeFuncs is Compose for children without parameters
func ComposeFuncs(factories ...aggregate.AggregateFunctionFactory) aggregate.AggregateFunctionFactory {
	children := make([]Child, len(factories))
	for i, f := range factories {
		children[i] = Child{New: f}
	}
	return Compose(children...)
}

// Composed composes other AggregateFunctions, which all receive the same arguments.
// Its result is a Tuple of its children's results, and its state is the concatenation
// of its children's states.
type Composed struct {
	base
	children []Child
	fns      []aggregate.AggregateFunction
}

// GetResults returns the contained AggregateFunctions, so that their results may be accessed
func (c *Composed) GetResults() []aggregate.AggregateFunction {
	return c.fns
}

// GetTypeID returns a string from which an equivalent instance can be reconstructed
func (c *Composed) GetTypeID() string {
	ids := make([]string, len(c.children))
	for i, child := range c.children {
		if c.configured {
			ids[i] = c.fns[i].GetTypeID()
		} else if child.New != nil {
			ids[i] = child.New().GetName()
		}
	}
	return c.name + "(" + strings.Join(ids, ", ") + ")"
}

// IsOrderSensitive returns true iff any child is order-sensitive
func (c *Composed) IsOrderSensitive() bool {
	for _, child := range c.children {
		if child.New != nil && aggregate.IsOrderSensitive(child.New()) {
			return true
		}
	}
	return false
}

// CloneEmpty returns a new, unconfigured composed() with the same children
func (c *Composed) CloneEmpty() aggregate.AggregateFunction {
	return &Composed{base: base{name: c.name}, children: c.children}
}

// SetArguments configures every child with args, followed by its parameters
func (c *Composed) SetArguments(args []aggregate.ColumnType) error {
	return c.configure(args, func(args []aggregate.ColumnType) error {
		if len(c.children) == 0 {
			return c.incompatible("has no children")
		}
		fns := make([]aggregate.AggregateFunction, len(c.children))
		for i, child := range c.children {
			if child.New == nil {
				return c.incompatible("child %d has no factory", i)
			}
			fn := child.New()
			if err := fn.SetArguments(args); err != nil {
				return fmt.Errorf("child %d: %w", i, err)
			}
			if child.Params != nil {
				if err := fn.SetParameters(child.Params); err != nil {
					return fmt.Errorf("child %d: %w", i, err)
				}
			}
			fns[i] = fn
		}
		c.fns = fns
		return nil
	})
}

// GetReturnType returns a Tuple of the children's return types
func (c *Composed) GetReturnType() (aggregate.ColumnType, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	elems := make([]aggregate.ColumnType, len(c.fns))
	for i, fn := range c.fns {
		t, err := fn.GetReturnType()
		if err != nil {
			return nil, err
		}
		elems[i] = t
	}
	return &aggregate.TupleColumnType{Elems: elems}, nil
}

// Add validates a row once, then adds it to all contained AggregateFunctions
func (c *Composed) Add(row aggregate.Row) error {
	if _, err := c.checkRow(row); err != nil {
		return err
	}
	for _, fn := range c.fns {
		if err := fn.Add(row); err != nil {
			return err
		}
	}
	return nil
}

// Merge merges another composed() into this one, merging all contained AggregateFunctions
func (c *Composed) Merge(o aggregate.AggregateFunction) error {
	if err := c.checkMerge(c, o); err != nil {
		return err
	}
	compa, ok := o.(*Composed)
	if !ok || len(compa.fns) != len(c.fns) {
		return mismatch(c, o)
	}
	for i, fn := range c.fns {
		if err := fn.Merge(compa.fns[i]); err != nil {
			return err
		}
	}
	return nil
}

// Serialize writes every child's state, one after the other
func (c *Composed) Serialize(w io.Writer) error {
	if err := c.ready(); err != nil {
		return err
	}
	for _, fn := range c.fns {
		if err := fn.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeMerge reads a state written by Serialize into an empty copy of this
// composed(), and merges that copy in only once every child has been read
func (c *Composed) DeserializeMerge(r io.Reader) error {
	if err := c.ready(); err != nil {
		return err
	}
	scratch := c.CloneEmpty().(*Composed)
	if err := scratch.SetArguments(c.args); err != nil {
		return err
	}
	for _, fn := range scratch.fns {
		if err := fn.DeserializeMerge(r); err != nil {
			return err
		}
	}
	return c.Merge(scratch)
}

// GetResult returns the children's results, in order, as a []interface{}
func (c *Composed) GetResult() (interface{}, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	results := make([]interface{}, len(c.fns))
	for i, fn := range c.fns {
		res, err := fn.GetResult()
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return results, nil
}
