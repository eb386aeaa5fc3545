package aggregate

import "fmt"

// States holds one AggregateFunction per group, addressed by a dense group index.
// Instances are created lazily from a template, so that a group which never
// receives a row costs nothing but a nil slot. Like the instances it holds,
// a States is single-writer.
type States struct {
	template AggregateFunction
	args     []ColumnType
	params   Row
	fns      []AggregateFunction
}

// NewStates returns an empty States whose instances are cloned from template and
// configured with args and, if non-nil, params. The configuration is checked once
// against a throwaway instance, so that configuration errors surface here rather
// than on the first row.
func NewStates(template AggregateFunction, args []ColumnType, params Row) (*States, error) {
	if template == nil {
		return nil, fmt.Errorf("States require a template AggregateFunction")
	}
	s := &States{template: template, args: append([]ColumnType(nil), args...), params: params}
	if _, err := s.instance(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *States) instance() (AggregateFunction, error) {
	fn := s.template.CloneEmpty()
	if err := fn.SetArguments(s.args); err != nil {
		return nil, err
	}
	if s.params != nil {
		if err := fn.SetParameters(s.params); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

// Len returns the number of group slots, including those never touched
func (s *States) Len() int {
	return len(s.fns)
}

// At returns the instance for group i, creating it (and any missing slots before it) if necessary
func (s *States) At(i int) (AggregateFunction, error) {
	if i < 0 {
		return nil, fmt.Errorf("group index %d is negative", i)
	}
	if i >= len(s.fns) {
		grown := make([]AggregateFunction, i+1)
		copy(grown, s.fns)
		s.fns = grown
	}
	if s.fns[i] == nil {
		fn, err := s.instance()
		if err != nil {
			return nil, err
		}
		s.fns[i] = fn
	}
	return s.fns[i], nil
}

// Add adds a row to group i
func (s *States) Add(i int, row Row) error {
	fn, err := s.At(i)
	if err != nil {
		return err
	}
	return fn.Add(row)
}

// MergeAt merges o into group i
func (s *States) MergeAt(i int, o AggregateFunction) error {
	fn, err := s.At(i)
	if err != nil {
		return err
	}
	return fn.Merge(o)
}

// Merge merges every group of o into the group with the same index in s
func (s *States) Merge(o *States) error {
	for i, fn := range o.fns {
		if fn == nil {
			continue
		}
		if err := s.MergeAt(i, fn); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	return nil
}

// Results returns the result of every group, in index order. Groups which
// never received anything yield the result of an empty instance.
func (s *States) Results() ([]interface{}, error) {
	results := make([]interface{}, len(s.fns))
	for i := range s.fns {
		fn, err := s.At(i)
		if err != nil {
			return nil, err
		}
		res, err := fn.GetResult()
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		results[i] = res
	}
	return results, nil
}
