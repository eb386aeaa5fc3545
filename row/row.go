package row

import (
	"fmt"
	"strings"

	"github.com/go-sif/aggregate"
	errors "github.com/go-sif/aggregate/errors"
	"github.com/hashicorp/go-multierror"
)

// rowImpl is a slice-backed Row, which is the representation used
// by the CLI and by tests. Query engines are expected to provide their
// own (columnar, zero-copy) implementation of aggregate.Row.
type rowImpl struct {
	types  []aggregate.ColumnType
	values []interface{}
}

// New builds a Row from column types and matching values. Every value is
// checked against its type, and all problems are reported at once.
func New(types []aggregate.ColumnType, values ...interface{}) (aggregate.Row, error) {
	if len(types) != len(values) {
		return nil, errors.IncompatibleRowError{Index: -1, Reason: fmt.Sprintf("%d types given for %d values", len(types), len(values))}
	}
	var result *multierror.Error
	for i, v := range values {
		if err := checkValue(i, types[i], v); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &rowImpl{types: types, values: normalize(values)}, nil
}

// Must is like New, but panics on error. Intended for tests and static data.
func Must(types []aggregate.ColumnType, values ...interface{}) aggregate.Row {
	r, err := New(types, values...)
	if err != nil {
		panic(err)
	}
	return r
}

// Infer builds a Row from Go values, deriving each column type from the dynamic type of its value.
// Infer cannot be used for nil values, since their type is unknown.
func Infer(values ...interface{}) (aggregate.Row, error) {
	types := make([]aggregate.ColumnType, len(values))
	var result *multierror.Error
	for i, v := range values {
		t, err := TypeOf(v)
		if err != nil {
			result = multierror.Append(result, errors.IncompatibleRowError{Index: i, Reason: err.Error()})
			continue
		}
		types[i] = t
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &rowImpl{types: types, values: normalize(values)}, nil
}

// normalize copies values, widening plain Go ints to int64
func normalize(values []interface{}) []interface{} {
	res := make([]interface{}, len(values))
	for i, v := range values {
		if iv, ok := v.(int); ok {
			res[i] = int64(iv)
			continue
		}
		res[i] = v
	}
	return res
}

// TypeOf returns the ColumnType corresponding to the dynamic type of v
func TypeOf(v interface{}) (aggregate.ColumnType, error) {
	switch v.(type) {
	case bool:
		return &aggregate.BoolColumnType{}, nil
	case uint8:
		return &aggregate.Uint8ColumnType{}, nil
	case uint16:
		return &aggregate.Uint16ColumnType{}, nil
	case uint32:
		return &aggregate.Uint32ColumnType{}, nil
	case uint64:
		return &aggregate.Uint64ColumnType{}, nil
	case int8:
		return &aggregate.Int8ColumnType{}, nil
	case int16:
		return &aggregate.Int16ColumnType{}, nil
	case int32:
		return &aggregate.Int32ColumnType{}, nil
	case int64:
		return &aggregate.Int64ColumnType{}, nil
	case int:
		return &aggregate.Int64ColumnType{}, nil
	case float32:
		return &aggregate.Float32ColumnType{}, nil
	case float64:
		return &aggregate.Float64ColumnType{}, nil
	case string:
		return &aggregate.VarStringColumnType{}, nil
	case []byte:
		return &aggregate.VarBytesColumnType{}, nil
	case nil:
		return nil, fmt.Errorf("cannot infer the type of a nil value")
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func checkValue(idx int, colType aggregate.ColumnType, v interface{}) error {
	inner, isNullable := aggregate.Unwrap(colType)
	if v == nil {
		if isNullable {
			return nil
		}
		return errors.NilValueError{Index: idx}
	}
	vt, err := TypeOf(v)
	if err != nil {
		return errors.IncompatibleRowError{Index: idx, Reason: err.Error()}
	}
	if vt.Name() != inner.Name() {
		return errors.IncompatibleRowError{Index: idx, Reason: fmt.Sprintf("%T is not a %s", v, colType.Name())}
	}
	return nil
}

// NumValues returns the width of this row
func (r *rowImpl) NumValues() int {
	return len(r.values)
}

// Types returns the ColumnTypes of the values in this row
func (r *rowImpl) Types() []aggregate.ColumnType {
	return r.types
}

// ToString returns a string representation of this row
func (r *rowImpl) ToString() string {
	var res strings.Builder
	fmt.Fprint(&res, "[")
	for i, v := range r.values {
		if i > 0 {
			fmt.Fprint(&res, ", ")
		}
		if v == nil {
			fmt.Fprint(&res, "nil")
			continue
		}
		fmt.Fprint(&res, r.types[i].ToString(v))
	}
	fmt.Fprint(&res, "]")
	return res.String()
}

// IsNil returns true iff the value at the given position is nil
func (r *rowImpl) IsNil(idx int) bool {
	if idx < 0 || idx >= len(r.values) {
		return false
	}
	return r.values[idx] == nil
}

func (r *rowImpl) value(idx int) (interface{}, error) {
	if idx < 0 || idx >= len(r.values) {
		return nil, errors.IncompatibleRowError{Index: -1, Reason: fmt.Sprintf("position %d out of range for row of width %d", idx, len(r.values))}
	}
	v := r.values[idx]
	if v == nil {
		return nil, errors.NilValueError{Index: idx}
	}
	return v, nil
}

func typeError(idx int, v interface{}, want string) error {
	return errors.IncompatibleRowError{Index: idx, Reason: fmt.Sprintf("%T is not a %s", v, want)}
}

// Get returns the value at any position as an interface{}
func (r *rowImpl) Get(idx int) (col interface{}, err error) {
	if idx < 0 || idx >= len(r.values) {
		return r.value(idx)
	}
	return r.values[idx], nil
}

// GetBool retrieves a single bool from the given position
func (r *rowImpl) GetBool(idx int) (col bool, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(bool)
	if !ok {
		err = typeError(idx, v, "Bool")
	}
	return
}

// GetUint8 retrieves a single uint8 from the given position
func (r *rowImpl) GetUint8(idx int) (col uint8, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(uint8)
	if !ok {
		err = typeError(idx, v, "UInt8")
	}
	return
}

// GetUint16 retrieves a single uint16 from the given position
func (r *rowImpl) GetUint16(idx int) (col uint16, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(uint16)
	if !ok {
		err = typeError(idx, v, "UInt16")
	}
	return
}

// GetUint32 retrieves a single uint32 from the given position
func (r *rowImpl) GetUint32(idx int) (col uint32, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(uint32)
	if !ok {
		err = typeError(idx, v, "UInt32")
	}
	return
}

// GetUint64 retrieves a single uint64 from the given position
func (r *rowImpl) GetUint64(idx int) (col uint64, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(uint64)
	if !ok {
		err = typeError(idx, v, "UInt64")
	}
	return
}

// GetInt8 retrieves a single int8 from the given position
func (r *rowImpl) GetInt8(idx int) (col int8, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(int8)
	if !ok {
		err = typeError(idx, v, "Int8")
	}
	return
}

// GetInt16 retrieves a single int16 from the given position
func (r *rowImpl) GetInt16(idx int) (col int16, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(int16)
	if !ok {
		err = typeError(idx, v, "Int16")
	}
	return
}

// GetInt32 retrieves a single int32 from the given position
func (r *rowImpl) GetInt32(idx int) (col int32, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(int32)
	if !ok {
		err = typeError(idx, v, "Int32")
	}
	return
}

// GetInt64 retrieves a single int64 from the given position
func (r *rowImpl) GetInt64(idx int) (col int64, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(int64)
	if !ok {
		err = typeError(idx, v, "Int64")
	}
	return
}

// GetFloat32 retrieves a single float32 from the given position
func (r *rowImpl) GetFloat32(idx int) (col float32, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(float32)
	if !ok {
		err = typeError(idx, v, "Float32")
	}
	return
}

// GetFloat64 retrieves a single float64 from the given position
func (r *rowImpl) GetFloat64(idx int) (col float64, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(float64)
	if !ok {
		err = typeError(idx, v, "Float64")
	}
	return
}

// GetVarString retrieves a single string from the given position
func (r *rowImpl) GetVarString(idx int) (col string, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.(string)
	if !ok {
		err = typeError(idx, v, "String")
	}
	return
}

// GetVarBytes retrieves a variable-length byte array from the given position
func (r *rowImpl) GetVarBytes(idx int) (col []byte, err error) {
	v, err := r.value(idx)
	if err != nil {
		return
	}
	col, ok := v.([]byte)
	if !ok {
		err = typeError(idx, v, "Bytes")
	}
	return
}
