package functions

import (
	"bytes"
	stderrors "errors"
	"math"
	"testing"

	"github.com/go-sif/aggregate"
	errors "github.com/go-sif/aggregate/errors"
	"github.com/go-sif/aggregate/row"
	"github.com/stretchr/testify/require"
)

func TestQuantileDefaultsToMedian(t *testing.T) {
	fn := configured(t, NewQuantile, float64Type, nil)
	require.Equal(t, "quantile(0.5)(Float64)", fn.GetTypeID())
	for i := 1; i <= 1001; i++ {
		addValues(t, fn, float64Type, float64(i))
	}
	require.InEpsilon(t, 501.0, result(t, fn), 0.02)
}

func TestQuantileLevel(t *testing.T) {
	fn := configured(t, NewQuantile, int64Type, floatParam(0.99))
	require.Equal(t, "quantile(0.99)(Int64)", fn.GetTypeID())
	for i := 1; i <= 10000; i++ {
		addValues(t, fn, int64Type, int64(i))
	}
	require.InEpsilon(t, 9900.0, result(t, fn), 0.02)
}

func TestQuantileNegativeValues(t *testing.T) {
	fn := configured(t, NewQuantile, float64Type, floatParam(0))
	addValues(t, fn, float64Type, -50.0, 0.0, 10.0)
	require.InEpsilon(t, -50.0, result(t, fn), 0.02)
}

func TestQuantileIgnoresNaN(t *testing.T) {
	fn := configured(t, NewQuantile, float64Type, nil)
	addValues(t, fn, float64Type, math.NaN())
	require.True(t, math.IsNaN(result(t, fn).(float64)))
	require.Equal(t, []byte{0, 0, 0, 0}, serialize(t, fn))
	addValues(t, fn, float64Type, 4.0, math.NaN())
	require.InEpsilon(t, 4.0, result(t, fn), 0.02)
}

func TestQuantileInvalidParameters(t *testing.T) {
	cases := map[string]aggregate.Row{
		"out of range": floatParam(1.5),
		"negative":     floatParam(-0.1),
		"nan":          floatParam(math.NaN()),
		"too many":     row.Must([]aggregate.ColumnType{float64Type, float64Type}, 0.1, 0.2),
		"not a number": row.Must([]aggregate.ColumnType{stringType}, "0.5"),
		"none":         row.Must(nil),
	}
	for name, params := range cases {
		fn := configured(t, NewQuantile, float64Type, nil)
		var invalid errors.InvalidParametersError
		require.True(t, stderrors.As(fn.SetParameters(params), &invalid), name)
		require.Equal(t, "quantile(0.5)(Float64)", fn.GetTypeID(), name)
	}
}

func TestQuantileParameterLifecycle(t *testing.T) {
	var notConf errors.NotConfiguredError
	require.True(t, stderrors.As(NewQuantile().SetParameters(floatParam(0.5)), &notConf))

	fn := configured(t, NewQuantile, float64Type, nil)
	addValues(t, fn, float64Type, 1.0)
	var invalid errors.InvalidParametersError
	require.True(t, stderrors.As(fn.SetParameters(floatParam(0.9)), &invalid))

	twice := configured(t, NewQuantile, float64Type, floatParam(0.9))
	require.True(t, stderrors.As(twice.SetParameters(floatParam(0.1)), &invalid))

	// integer parameters are accepted
	integral := configured(t, NewQuantile, float64Type, row.Must([]aggregate.ColumnType{int64Type}, int64(1)))
	require.Equal(t, "quantile(1)(Float64)", integral.GetTypeID())
}

func TestQuantileLevelsDoNotMerge(t *testing.T) {
	p50 := configured(t, NewQuantile, float64Type, floatParam(0.5))
	p90 := configured(t, NewQuantile, float64Type, floatParam(0.9))
	var mismatch errors.TypeMismatchError
	require.True(t, stderrors.As(p50.Merge(p90), &mismatch))
}

func TestQuantileCloneUsesDefaultLevel(t *testing.T) {
	p90 := configured(t, NewQuantile, float64Type, floatParam(0.9))
	clone := p90.CloneEmpty()
	require.Nil(t, clone.SetArguments([]aggregate.ColumnType{float64Type}))
	require.Equal(t, "quantile(0.5)(Float64)", clone.GetTypeID())
}

func TestQuantileRejectsGarbageSketch(t *testing.T) {
	fn := configured(t, NewQuantile, float64Type, nil)
	addValues(t, fn, float64Type, 1.0, 2.0)
	before := serialize(t, fn)
	// a well-framed blob whose content is not a sketch
	garbage := []byte{5, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 0xff}
	err := fn.DeserializeMerge(bytes.NewReader(garbage))
	var corrupt errors.CorruptStateError
	require.True(t, stderrors.As(err, &corrupt), "%v", err)
	require.Equal(t, before, serialize(t, fn))
}

func TestQuantileIgnoresUntrackableValues(t *testing.T) {
	fn := configured(t, NewQuantile, float64Type, nil)
	addValues(t, fn, float64Type, math.Inf(1), math.Inf(-1), math.MaxFloat64, -math.MaxFloat64)
	require.True(t, math.IsNaN(result(t, fn).(float64)))
	require.Equal(t, []byte{0, 0, 0, 0}, serialize(t, fn))
	addValues(t, fn, float64Type, 4.0, math.Inf(1))
	require.InEpsilon(t, 4.0, result(t, fn), 0.02)
}

func TestQuantileEncodingIsOrderIndependent(t *testing.T) {
	values := make([]interface{}, 500)
	for i := range values {
		v := math.Pow(1.07, float64(i%250))
		if i%3 == 0 {
			v = -v
		}
		if i%50 == 0 {
			v = 0
		}
		values[i] = v
	}
	forward := configured(t, NewQuantile, float64Type, floatParam(0.9))
	addValues(t, forward, float64Type, values...)
	backward := configured(t, NewQuantile, float64Type, floatParam(0.9))
	addValues(t, backward, float64Type, reversed(values)...)
	merged := configured(t, NewQuantile, float64Type, floatParam(0.9))
	for part := 9; part >= 0; part-- {
		p := configured(t, NewQuantile, float64Type, floatParam(0.9))
		addValues(t, p, float64Type, values[part*50:(part+1)*50]...)
		require.Nil(t, merged.Merge(p))
	}

	enc := serialize(t, forward)
	require.Equal(t, enc, serialize(t, backward))
	require.Equal(t, enc, serialize(t, merged))
}
