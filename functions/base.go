package functions

import (
	"fmt"
	"strings"

	"github.com/go-sif/aggregate"
	errors "github.com/go-sif/aggregate/errors"
)

// base holds the configuration shared by every variant: its name and the
// argument types it was configured with. It enforces the lifecycle
// (SetArguments exactly once, before anything else) on behalf of the variant.
type base struct {
	name       string
	args       []aggregate.ColumnType
	configured bool
}

// GetName returns the primary name of this function
func (b *base) GetName() string {
	return b.name
}

// SetParameters rejects parameters. Parametric variants override it.
func (b *base) SetParameters(params aggregate.Row) error {
	return errors.ParametersNotAllowedError{Function: b.name}
}

// typeID renders name, parameters and argument types, e.g. "quantile(0.9)(Float64)"
func (b *base) typeID(params string) string {
	if !b.configured {
		return b.name + params
	}
	return fmt.Sprintf("%s%s(%s)", b.name, params, strings.Join(aggregate.TypeNames(b.args), ", "))
}

// configure validates args with check, then records them
func (b *base) configure(args []aggregate.ColumnType, check func([]aggregate.ColumnType) error) error {
	if b.configured {
		return errors.AlreadyConfiguredError{Function: b.name}
	}
	for i, a := range args {
		if a == nil {
			return b.incompatible("argument %d has no type", i)
		}
	}
	if err := check(args); err != nil {
		return err
	}
	b.args = append([]aggregate.ColumnType(nil), args...)
	b.configured = true
	return nil
}

func (b *base) incompatible(format string, a ...interface{}) error {
	return errors.IncompatibleArgumentsError{Function: b.name, Reason: fmt.Sprintf(format, a...)}
}

// ready returns an error iff SetArguments has not been called
func (b *base) ready() error {
	if !b.configured {
		return errors.NotConfiguredError{Function: b.name}
	}
	return nil
}

// checkRow validates a row against the configured argument types. It reports whether
// the row should be skipped, which is the case when any nullable argument is nil.
func (b *base) checkRow(row aggregate.Row) (skip bool, err error) {
	if err = b.ready(); err != nil {
		return
	}
	if row.NumValues() != len(b.args) {
		return false, errors.IncompatibleRowError{Index: -1, Reason: fmt.Sprintf("%s expects %d values, got %d", b.name, len(b.args), row.NumValues())}
	}
	types := row.Types()
	for i, declared := range b.args {
		want, nullable := aggregate.Unwrap(declared)
		if i < len(types) && types[i] != nil {
			if got, _ := aggregate.Unwrap(types[i]); got.Name() != want.Name() {
				return false, errors.IncompatibleRowError{Index: i, Reason: fmt.Sprintf("%s is not a %s", types[i].Name(), declared.Name())}
			}
		}
		if row.IsNil(i) {
			if !nullable {
				return false, errors.NilValueError{Index: i}
			}
			skip = true
		}
	}
	return
}

// checkMerge verifies that o is configured identically to self
func (b *base) checkMerge(self, o aggregate.AggregateFunction) error {
	if err := b.ready(); err != nil {
		return err
	}
	if o == nil || self.GetTypeID() != o.GetTypeID() {
		return mismatch(self, o)
	}
	return nil
}

func mismatch(self, o aggregate.AggregateFunction) error {
	other := "<nil>"
	if o != nil {
		other = o.GetTypeID()
	}
	return errors.TypeMismatchError{Function: self.GetTypeID(), Other: other}
}

// single validates that args holds exactly one argument satisfying accept
func (b *base) single(args []aggregate.ColumnType, what string, accept func(aggregate.ColumnType) bool) error {
	if len(args) != 1 {
		return b.incompatible("expects exactly 1 argument, got %d", len(args))
	}
	if !accept(args[0]) {
		return b.incompatible("expects %s argument, got %s", what, args[0].Name())
	}
	return nil
}
