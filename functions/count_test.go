package functions

import (
	"testing"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/row"
	"github.com/stretchr/testify/require"
)

func TestCountMerge(t *testing.T) {
	a := configured(t, NewCount, int64Type, nil)
	addValues(t, a, int64Type, int64(1), int64(2), int64(3), int64(4), int64(5))
	b := configured(t, NewCount, int64Type, nil)
	addValues(t, b, int64Type, int64(6), int64(7), int64(8))

	require.Nil(t, a.Merge(b))
	require.Equal(t, uint64(8), result(t, a))
}

func TestCountMergeSerialized(t *testing.T) {
	a := configured(t, NewCount, int64Type, nil)
	addValues(t, a, int64Type, int64(1), int64(2), int64(3), int64(4), int64(5))
	b := configured(t, NewCount, int64Type, nil)
	addValues(t, b, int64Type, int64(6), int64(7), int64(8))

	enc := serialize(t, b)
	require.Len(t, enc, 8)
	require.Equal(t, []byte{3, 0, 0, 0, 0, 0, 0, 0}, enc)
	deserializeMerge(t, a, enc)
	require.Equal(t, uint64(8), result(t, a))
}

func TestCountWithoutArguments(t *testing.T) {
	fn := NewCount()
	require.Nil(t, fn.SetArguments(nil))
	require.Equal(t, "count()", fn.GetTypeID())
	empty := row.Must(nil)
	for i := 0; i < 4; i++ {
		require.Nil(t, fn.Add(empty))
	}
	require.Equal(t, uint64(4), result(t, fn))
}

func TestCountSkipsNulls(t *testing.T) {
	nullable := aggregate.Nullable(stringType)
	fn := configured(t, NewCount, nullable, nil)
	require.Equal(t, "count(Nullable(String))", fn.GetTypeID())
	addValues(t, fn, nullable, "a", nil, "b", nil, nil)
	require.Equal(t, uint64(2), result(t, fn))
}

func TestCountArity(t *testing.T) {
	fn := NewCount()
	err := fn.SetArguments([]aggregate.ColumnType{int64Type, int64Type})
	require.NotNil(t, err)
	require.Equal(t, "count", fn.GetTypeID())
}
