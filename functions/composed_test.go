package functions

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/go-sif/aggregate"
	errors "github.com/go-sif/aggregate/errors"
	"github.com/stretchr/testify/require"
)

func TestComposed(t *testing.T) {
	fn := configured(t, ComposeFuncs(NewCount, NewAvg, NewMax), int64Type, nil)
	require.Equal(t, "composed(count(Int64), avg(Int64), max(Int64))", fn.GetTypeID())
	rt, err := fn.GetReturnType()
	require.Nil(t, err)
	require.Equal(t, "Tuple(UInt64, Float64, Nullable(Int64))", rt.Name())

	addValues(t, fn, int64Type, int64(2), int64(4), int64(6))
	require.Equal(t, []interface{}{uint64(3), 4.0, int64(6)}, result(t, fn))
	require.Equal(t, "(3, 4.000000, 6)", rt.ToString(result(t, fn)))

	children := fn.(*Composed).GetResults()
	require.Len(t, children, 3)
	require.Equal(t, "avg", children[1].GetName())
}

func TestComposedSerializationIsConcatenation(t *testing.T) {
	fn := configured(t, ComposeFuncs(NewCount, NewSum), int64Type, nil)
	addValues(t, fn, int64Type, int64(5))
	require.Equal(t, []byte{
		1, 0, 0, 0, 0, 0, 0, 0,
		5, 0, 0, 0, 0, 0, 0, 0,
	}, serialize(t, fn))
}

func TestComposedChildParameters(t *testing.T) {
	factory := Compose(Child{New: NewQuantile, Params: floatParam(0.9)}, Child{New: NewCount})
	fn := configured(t, factory, float64Type, nil)
	require.Equal(t, "composed(quantile(0.9)(Float64), count(Float64))", fn.GetTypeID())
	for i := 1; i <= 100; i++ {
		addValues(t, fn, float64Type, float64(i))
	}

	// a clone is configured the same way, so that states can be exchanged
	clone := fn.CloneEmpty()
	require.Nil(t, clone.SetArguments([]aggregate.ColumnType{float64Type}))
	deserializeMerge(t, clone, serialize(t, fn))
	requireSameResult(t, result(t, fn), result(t, clone))
	res := result(t, clone).([]interface{})
	require.InEpsilon(t, 90.0, res[0], 0.03)
	require.Equal(t, uint64(100), res[1])
}

func TestComposedChildConfigurationErrors(t *testing.T) {
	fn := Compose(Child{New: NewCount, Params: floatParam(0.9)})()
	err := fn.SetArguments([]aggregate.ColumnType{float64Type})
	var notAllowed errors.ParametersNotAllowedError
	require.True(t, stderrors.As(err, &notAllowed))

	fn = ComposeFuncs(NewCount, NewAvg)()
	var incompatible errors.IncompatibleArgumentsError
	require.True(t, stderrors.As(fn.SetArguments([]aggregate.ColumnType{stringType}), &incompatible))
	// a failed configuration can be retried
	require.Nil(t, fn.SetArguments([]aggregate.ColumnType{int64Type}))

	require.NotNil(t, ComposeFuncs()().SetArguments([]aggregate.ColumnType{int64Type}))
}

func TestComposedOrderSensitivity(t *testing.T) {
	require.False(t, aggregate.IsOrderSensitive(ComposeFuncs(NewCount, NewSum)()))
	require.True(t, aggregate.IsOrderSensitive(ComposeFuncs(NewCount, NewAny)()))
}

func TestComposedRowsAreValidatedOnce(t *testing.T) {
	nullable := aggregate.Nullable(int64Type)
	fn := configured(t, ComposeFuncs(NewCount, NewSum), nullable, nil)
	addValues(t, fn, nullable, int64(1), nil, int64(2))
	require.Equal(t, []interface{}{uint64(2), int64(3)}, result(t, fn))
}

func TestComposedInfinityReachesEveryChild(t *testing.T) {
	fn := configured(t, ComposeFuncs(NewCount, NewQuantile), float64Type, nil)
	addValues(t, fn, float64Type, math.Inf(1), 3.0)
	res := result(t, fn).([]interface{})
	require.Equal(t, uint64(2), res[0])
	require.InEpsilon(t, 3.0, res[1], 0.02)
}
