package functions

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/row"
	"github.com/stretchr/testify/require"
)

var (
	int32Type   = &aggregate.Int32ColumnType{}
	int64Type   = &aggregate.Int64ColumnType{}
	uint16Type  = &aggregate.Uint16ColumnType{}
	float64Type = &aggregate.Float64ColumnType{}
	stringType  = &aggregate.VarStringColumnType{}
)

// configured returns a new instance from factory, configured with a single argument of type argType
func configured(t *testing.T, factory aggregate.AggregateFunctionFactory, argType aggregate.ColumnType, params aggregate.Row) aggregate.AggregateFunction {
	t.Helper()
	fn := factory()
	require.Nil(t, fn.SetArguments([]aggregate.ColumnType{argType}))
	if params != nil {
		require.Nil(t, fn.SetParameters(params))
	}
	return fn
}

func addValues(t *testing.T, fn aggregate.AggregateFunction, argType aggregate.ColumnType, values ...interface{}) {
	t.Helper()
	for _, v := range values {
		require.Nil(t, fn.Add(row.Must([]aggregate.ColumnType{argType}, v)))
	}
}

func serialize(t *testing.T, fn aggregate.AggregateFunction) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.Nil(t, fn.Serialize(&buf))
	return buf.Bytes()
}

// deserializeMerge merges b into fn, requiring that b is consumed exactly
func deserializeMerge(t *testing.T, fn aggregate.AggregateFunction, b []byte) {
	t.Helper()
	r := bytes.NewReader(b)
	require.Nil(t, fn.DeserializeMerge(r))
	require.Equal(t, 0, r.Len(), "state was not consumed exactly")
}

func result(t *testing.T, fn aggregate.AggregateFunction) interface{} {
	t.Helper()
	res, err := fn.GetResult()
	require.Nil(t, err)
	return res
}

// requireSameResult compares results, treating NaN as equal to NaN
func requireSameResult(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if e, ok := expected.([]interface{}); ok {
		a, ok := actual.([]interface{})
		require.True(t, ok, msgAndArgs...)
		require.Equal(t, len(e), len(a), msgAndArgs...)
		for i := range e {
			requireSameResult(t, e[i], a[i], msgAndArgs...)
		}
		return
	}
	if e, ok := expected.(float64); ok && math.IsNaN(e) {
		a, ok := actual.(float64)
		require.True(t, ok && math.IsNaN(a), msgAndArgs...)
		return
	}
	require.Equal(t, expected, actual, msgAndArgs...)
}

func floatParam(v float64) aggregate.Row {
	return row.Must([]aggregate.ColumnType{float64Type}, v)
}

func nan() float64 {
	return math.NaN()
}
