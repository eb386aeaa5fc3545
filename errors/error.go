package errors

import (
	stderrors "errors"
	"fmt"
)

// IncompatibleArgumentsError occurs when an AggregateFunction cannot operate on the argument types it was given
type IncompatibleArgumentsError struct {
	Function string
	Reason   string
}

// Error returns a textual representation of this IncompatibleArgumentsError
func (e IncompatibleArgumentsError) Error() string {
	return fmt.Sprintf("Aggregate function %s: incompatible arguments: %s", e.Function, e.Reason)
}

// ParametersNotAllowedError occurs when parameters are passed to a non-parametric AggregateFunction
type ParametersNotAllowedError struct{ Function string }

// Error returns a textual representation of this ParametersNotAllowedError
func (e ParametersNotAllowedError) Error() string {
	return fmt.Sprintf("Aggregate function %s doesn't allow parameters", e.Function)
}

// InvalidParametersError occurs when a parametric AggregateFunction is given malformed parameters
type InvalidParametersError struct {
	Function string
	Reason   string
}

// Error returns a textual representation of this InvalidParametersError
func (e InvalidParametersError) Error() string {
	return fmt.Sprintf("Aggregate function %s: invalid parameters: %s", e.Function, e.Reason)
}

// NotConfiguredError occurs when an AggregateFunction is used before SetArguments has been called
type NotConfiguredError struct{ Function string }

// Error returns a textual representation of this NotConfiguredError
func (e NotConfiguredError) Error() string {
	return fmt.Sprintf("Aggregate function %s used before SetArguments", e.Function)
}

// AlreadyConfiguredError occurs when SetArguments is called more than once on the same AggregateFunction
type AlreadyConfiguredError struct{ Function string }

// Error returns a textual representation of this AlreadyConfiguredError
func (e AlreadyConfiguredError) Error() string {
	return fmt.Sprintf("Aggregate function %s: SetArguments called more than once", e.Function)
}

// TypeMismatchError occurs when merging AggregateFunctions which are not identically configured
type TypeMismatchError struct {
	Function string
	Other    string
}

// Error returns a textual representation of this TypeMismatchError
func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("Cannot merge %s into %s: not the same aggregate function", e.Other, e.Function)
}

// CorruptStateError occurs when serialized AggregateFunction state is malformed or truncated
type CorruptStateError struct {
	Function string
	Cause    error
}

// Error returns a textual representation of this CorruptStateError
func (e CorruptStateError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("Corrupt serialized state for aggregate function %s", e.Function)
	}
	return fmt.Sprintf("Corrupt serialized state for aggregate function %s: %s", e.Function, e.Cause)
}

// Unwrap returns the underlying cause of this CorruptStateError
func (e CorruptStateError) Unwrap() error {
	return e.Cause
}

// NilValueError occurs when a value in a Row is nil, but its column type is not nullable
type NilValueError struct{ Index int }

// Error returns a textual representation of this NilValueError
func (e NilValueError) Error() string {
	return fmt.Sprintf("Value at position %d is nil", e.Index)
}

// IncompatibleRowError occurs when a Row's width or types do not match the expected argument types
type IncompatibleRowError struct {
	Index  int // position of the offending value, or -1 if the row width is wrong
	Reason string
}

// Error returns a textual representation of this IncompatibleRowError
func (e IncompatibleRowError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("Row is not compatible with argument types: %s", e.Reason)
	}
	return fmt.Sprintf("Value at position %d is not compatible with argument types: %s", e.Index, e.Reason)
}

// IsConfigurationError returns true iff err (or any error it wraps) is raised while
// configuring an AggregateFunction, before any data is processed. The planner should
// reject the query or pick a different variant.
func IsConfigurationError(err error) bool {
	var (
		incompatible IncompatibleArgumentsError
		notAllowed   ParametersNotAllowedError
		invalid      InvalidParametersError
		notConf      NotConfiguredError
		alreadyConf  AlreadyConfiguredError
	)
	return stderrors.As(err, &incompatible) ||
		stderrors.As(err, &notAllowed) ||
		stderrors.As(err, &invalid) ||
		stderrors.As(err, &notConf) ||
		stderrors.As(err, &alreadyConf)
}

// IsOperationalError returns true iff err (or any error it wraps) is raised while
// processing data. Aggregation correctness cannot be salvaged after one of these.
func IsOperationalError(err error) bool {
	var (
		mismatch TypeMismatchError
		corrupt  CorruptStateError
		nilValue NilValueError
		badRow   IncompatibleRowError
	)
	return stderrors.As(err, &mismatch) ||
		stderrors.As(err, &corrupt) ||
		stderrors.As(err, &nilValue) ||
		stderrors.As(err, &badRow)
}
