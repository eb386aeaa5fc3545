package codec

import (
	"bytes"
	stderrors "errors"
	"io"
	"math"
	"testing"

	"github.com/go-sif/aggregate"
	aerrors "github.com/go-sif/aggregate/errors"
	"github.com/stretchr/testify/require"
)

func TestLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, WriteUint64(&buf, 0x0102030405060708))
	require.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, buf.Bytes())
	buf.Reset()
	require.Nil(t, WriteUint32(&buf, 0x01020304))
	require.Equal(t, []byte{4, 3, 2, 1}, buf.Bytes())
}

func TestNumbers(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, WriteUint64(&buf, math.MaxUint64))
	require.Nil(t, WriteInt64(&buf, math.MinInt64))
	require.Nil(t, WriteFloat64(&buf, -1.5))
	require.Nil(t, WriteBool(&buf, true))
	require.Equal(t, 25, buf.Len())

	u, err := ReadUint64(&buf)
	require.Nil(t, err)
	require.Equal(t, uint64(math.MaxUint64), u)
	i, err := ReadInt64(&buf)
	require.Nil(t, err)
	require.Equal(t, int64(math.MinInt64), i)
	f, err := ReadFloat64(&buf)
	require.Nil(t, err)
	require.Equal(t, -1.5, f)
	b, err := ReadBool(&buf)
	require.Nil(t, err)
	require.True(t, b)
	require.Equal(t, 0, buf.Len())
}

func TestTruncated(t *testing.T) {
	_, err := ReadUint64(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = ReadUint64(bytes.NewReader([]byte{1, 2, 3}))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var buf bytes.Buffer
	require.Nil(t, WriteString(&buf, "hello"))
	truncated := buf.Bytes()[:buf.Len()-1]
	_, err = ReadString(bytes.NewReader(truncated))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestInvalidBool(t *testing.T) {
	_, err := ReadBool(bytes.NewReader([]byte{2}))
	require.NotNil(t, err)
}

func TestBlobTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, WriteUint32(&buf, MaxBlobSize+1))
	_, err := ReadBytes(&buf)
	require.ErrorIs(t, err, ErrBlobTooLarge)
}

func TestBytesAreSelfDelimiting(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, WriteBytes(&buf, []byte{}))
	require.Nil(t, WriteBytes(&buf, []byte{0xff, 0x00}))
	require.Nil(t, WriteString(&buf, "tail"))

	first, err := ReadBytes(&buf)
	require.Nil(t, err)
	require.Len(t, first, 0)
	second, err := ReadBytes(&buf)
	require.Nil(t, err)
	require.Equal(t, []byte{0xff, 0x00}, second)
	s, err := ReadString(&buf)
	require.Nil(t, err)
	require.Equal(t, "tail", s)
}

func TestValues(t *testing.T) {
	cases := []struct {
		colType aggregate.ColumnType
		value   interface{}
	}{
		{&aggregate.BoolColumnType{}, false},
		{&aggregate.Uint8ColumnType{}, uint8(200)},
		{&aggregate.Uint16ColumnType{}, uint16(60000)},
		{&aggregate.Uint32ColumnType{}, uint32(4000000000)},
		{&aggregate.Uint64ColumnType{}, uint64(math.MaxUint64)},
		{&aggregate.Int8ColumnType{}, int8(-100)},
		{&aggregate.Int16ColumnType{}, int16(-30000)},
		{&aggregate.Int32ColumnType{}, int32(-2000000000)},
		{&aggregate.Int64ColumnType{}, int64(math.MinInt64)},
		{&aggregate.Float32ColumnType{}, float32(0.25)},
		{&aggregate.Float64ColumnType{}, math.Pi},
		{&aggregate.VarStringColumnType{}, "héllo"},
		{&aggregate.VarBytesColumnType{}, []byte{1, 2, 3}},
		{aggregate.Nullable(&aggregate.Int32ColumnType{}), int32(7)},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		require.Nil(t, WriteValue(&buf, c.colType, c.value), c.colType.Name())
		v, err := ReadValue(&buf, c.colType)
		require.Nil(t, err, c.colType.Name())
		require.Equal(t, c.value, v, c.colType.Name())
		require.Equal(t, 0, buf.Len(), c.colType.Name())
	}
}

func TestValueOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, WriteUint64(&buf, 256))
	_, err := ReadValue(&buf, &aggregate.Uint8ColumnType{})
	require.NotNil(t, err)

	buf.Reset()
	require.Nil(t, WriteInt64(&buf, -129))
	_, err = ReadValue(&buf, &aggregate.Int8ColumnType{})
	require.NotNil(t, err)
}

func TestCorrupt(t *testing.T) {
	require.Nil(t, Corrupt("sum", nil))

	err := Corrupt("sum", io.ErrUnexpectedEOF)
	var corrupt aerrors.CorruptStateError
	require.True(t, stderrors.As(err, &corrupt))
	require.Equal(t, "sum", corrupt.Function)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	// already corrupt errors keep their original function name
	require.Equal(t, err, Corrupt("composed", err))
}
