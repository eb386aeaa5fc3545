package partial

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{None, LZ4, Zstd} {
		parsed, err := ParseCompression(c.String())
		require.Nil(t, err)
		require.Equal(t, c, parsed)
	}
	parsed, err := ParseCompression(" ZSTD ")
	require.Nil(t, err)
	require.Equal(t, Zstd, parsed)
	parsed, err = ParseCompression("")
	require.Nil(t, err)
	require.Equal(t, None, parsed)
	_, err = ParseCompression("gzip")
	require.NotNil(t, err)
}

func TestCompressionRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("partial aggregate state "), 500)
	for _, c := range []Compression{None, LZ4, Zstd} {
		compressed, err := c.Compress(data)
		require.Nil(t, err, c.String())
		if c != None {
			require.Less(t, len(compressed), len(data), c.String())
		}
		decompressed, err := c.Decompress(compressed)
		require.Nil(t, err, c.String())
		require.Equal(t, data, decompressed, c.String())
	}
}

func TestPackUnpack(t *testing.T) {
	p := &Partial{Name: "count", TypeID: "count()", State: []byte{3, 0, 0, 0, 0, 0, 0, 0}}
	for _, c := range []Compression{None, LZ4, Zstd} {
		b, err := Pack(p, c)
		require.Nil(t, err, c.String())
		unpacked, err := Unpack(b, c)
		require.Nil(t, err, c.String())
		require.Equal(t, p, unpacked, c.String())
	}
}

func TestDecompressGarbage(t *testing.T) {
	garbage := []byte("definitely not compressed")
	_, err := Zstd.Decompress(garbage)
	require.NotNil(t, err)
	_, err = LZ4.Decompress(garbage)
	require.NotNil(t, err)
}
