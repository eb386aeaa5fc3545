// Package aggregate contains the core components of a pluggable aggregate-function framework.
// This root package defines the AggregateFunction contract which every accumulation algorithm
// implements, the ColumnType descriptors used to type-check arguments at planning time, the
// positional Row consumed on each input event, and States, an index-addressed collection of
// per-group instances. Concrete variants live in the functions package.
package aggregate
