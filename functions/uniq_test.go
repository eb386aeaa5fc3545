package functions

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
	errors "github.com/go-sif/aggregate/errors"
	"github.com/go-sif/aggregate/row"
	"github.com/stretchr/testify/require"
)

func TestUniqAccuracy(t *testing.T) {
	const distinct = 20000
	fn := configured(t, NewUniq, stringType, nil)
	for i := 0; i < 3*distinct; i++ {
		addValues(t, fn, stringType, fmt.Sprintf("value-%d", i%distinct))
	}
	est := result(t, fn).(uint64)
	require.InDelta(t, distinct, float64(est), distinct*0.05)
}

func TestUniqSmallCardinalitiesAreExact(t *testing.T) {
	fn := configured(t, NewUniq, int64Type, nil)
	addValues(t, fn, int64Type, int64(1), int64(2), int64(2), int64(3), int64(1))
	require.Equal(t, uint64(3), result(t, fn))
}

func TestUniqMultipleArguments(t *testing.T) {
	args := []aggregate.ColumnType{stringType, int64Type}
	fn := NewUniq()
	require.Nil(t, fn.SetArguments(args))
	require.Equal(t, "uniq(String, Int64)", fn.GetTypeID())
	for _, r := range []aggregate.Row{
		row.Must(args, "a", int64(1)),
		row.Must(args, "a", int64(2)),
		row.Must(args, "b", int64(1)),
		row.Must(args, "a", int64(1)),
	} {
		require.Nil(t, fn.Add(r))
	}
	require.Equal(t, uint64(3), result(t, fn))
}

func TestUniqEmptyStateIsCompact(t *testing.T) {
	fn := configured(t, NewUniq, stringType, nil)
	require.Equal(t, []byte{0, 0, 0, 0}, serialize(t, fn))
	addValues(t, fn, stringType, "x")
	require.Len(t, serialize(t, fn), 4+uniqEncodedSize)
}

func TestUniqRejectsForeignSketch(t *testing.T) {
	fn := configured(t, NewUniq, stringType, nil)
	addValues(t, fn, stringType, "x")
	enc := serialize(t, fn)

	// wrong precision in the sketch header
	bad := append([]byte(nil), enc...)
	bad[4+1] = 10
	err := fn.DeserializeMerge(bytes.NewReader(bad))
	var corrupt errors.CorruptStateError
	require.True(t, stderrors.As(err, &corrupt))

	// a well-framed blob of the wrong size
	var buf bytes.Buffer
	require.Nil(t, codec.WriteBytes(&buf, []byte{2, 14, 0, 0}))
	err = fn.DeserializeMerge(&buf)
	require.True(t, stderrors.As(err, &corrupt))
	require.Equal(t, uint64(1), result(t, fn))
}

func TestUniqArguments(t *testing.T) {
	require.NotNil(t, NewUniq().SetArguments(nil))
	tuple := &aggregate.TupleColumnType{Elems: []aggregate.ColumnType{int64Type}}
	require.NotNil(t, NewUniq().SetArguments([]aggregate.ColumnType{tuple}))
}

func TestUniqRejectsUnknownSketchHeader(t *testing.T) {
	fn := configured(t, NewUniq, stringType, nil)
	addValues(t, fn, stringType, "x")
	enc := serialize(t, fn)

	for name, pos := range map[string]int{"version": 0, "base": 2} {
		bad := append([]byte(nil), enc...)
		bad[4+pos]++
		err := fn.DeserializeMerge(bytes.NewReader(bad))
		var corrupt errors.CorruptStateError
		require.True(t, stderrors.As(err, &corrupt), name)
	}
	deserializeMerge(t, fn, enc)
	require.Equal(t, uint64(1), result(t, fn))
}
