package aggregate

import "io"

// An AggregateFunction accumulates the values passed to it, holding some state in the process.
// Unlike regular functions, a fresh instance is needed for every aggregation (every group), which
// is obtained from a configured template via CloneEmpty. Partial states computed on different
// workers are combined via Merge, or via Serialize on one side and DeserializeMerge on the other.
// Merging must be associative and commutative, so the result never depends on the order in which
// partial states are combined, nor on the degree of parallelism.
//
// An AggregateFunction is single-writer: Add, Merge and DeserializeMerge must never be called
// concurrently on the same instance.
type AggregateFunction interface {
	GetName() string                      // GetName returns the primary name of this function
	GetTypeID() string                    // GetTypeID returns a string from which an equivalent empty instance can be reconstructed by a factory
	CloneEmpty() AggregateFunction        // CloneEmpty returns a new, unconfigured instance of the same variant
	SetArguments(args []ColumnType) error // SetArguments declares argument types. Must be called exactly once, before anything else
	SetParameters(params Row) error       // SetParameters configures a parametric function. Must follow SetArguments and precede any data
	GetReturnType() (ColumnType, error)   // GetReturnType returns the result type, derived from the argument types (and parameters)
	Add(row Row) error                    // Add consumes one row's worth of argument values
	Merge(o AggregateFunction) error      // Merge combines another identically-configured instance's state into this one
	Serialize(w io.Writer) error          // Serialize writes the current state (for instance, to ship it over the network)
	DeserializeMerge(r io.Reader) error   // DeserializeMerge reads a state written by Serialize and merges it into this one
	GetResult() (interface{}, error)      // GetResult projects the current state into a value of the return type, without mutating it
}

// AggregateFunctionFactory is a function that produces a fresh, unconfigured AggregateFunction
type AggregateFunctionFactory func() AggregateFunction

// OrderSensitive is implemented by AggregateFunctions whose result depends on the order
// in which rows are added or partial states are merged (e.g. "first value" aggregates).
// Functions which do not implement it are order-insensitive.
type OrderSensitive interface {
	IsOrderSensitive() bool
}

// IsOrderSensitive returns true iff fn declares that its result depends on input order
func IsOrderSensitive(fn AggregateFunction) bool {
	os, ok := fn.(OrderSensitive)
	return ok && os.IsOrderSensitive()
}
