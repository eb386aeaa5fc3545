package partial

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression names an algorithm used to compress marshaled Partials for transport
type Compression int

const (
	// None leaves envelopes uncompressed
	None Compression = iota
	// LZ4 compresses envelopes with lz4 frames
	LZ4
	// Zstd compresses envelopes with zstandard
	Zstd
)

// maxDecompressedSize bounds the output of Decompress
const maxDecompressedSize = 1 << 30

// String returns the name of this Compression, as accepted by ParseCompression
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// ParseCompression produces a Compression from its name
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	}
	return None, fmt.Errorf("unknown compression %q", name)
}

var (
	zstdEncoder     *zstd.Encoder
	zstdDecoder     *zstd.Decoder
	zstdEncoderOnce sync.Once
	zstdDecoderOnce sync.Once
	zstdEncoderErr  error
	zstdDecoderErr  error
)

func getZstdEncoder() (*zstd.Encoder, error) {
	zstdEncoderOnce.Do(func() {
		zstdEncoder, zstdEncoderErr = zstd.NewWriter(nil, zstd.WithZeroFrames(true), zstd.WithEncoderConcurrency(1))
	})
	return zstdEncoder, zstdEncoderErr
}

func getZstdDecoder() (*zstd.Decoder, error) {
	zstdDecoderOnce.Do(func() {
		zstdDecoder, zstdDecoderErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecompressedSize), zstd.WithDecoderConcurrency(1))
	})
	return zstdDecoder, zstdDecoderErr
}

// Compress compresses b with c. The zstd encoder is shared, and safe for concurrent use via EncodeAll.
func (c Compression) Compress(b []byte) ([]byte, error) {
	switch c {
	case None:
		return b, nil
	case LZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(b); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case Zstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		return enc.EncodeAll(b, nil), nil
	}
	return nil, fmt.Errorf("unknown compression %s", c)
}

// Decompress reverses Compress
func (c Compression) Decompress(b []byte) ([]byte, error) {
	switch c {
	case None:
		return b, nil
	case LZ4:
		zr := lz4.NewReader(bytes.NewReader(b))
		out, err := io.ReadAll(io.LimitReader(zr, maxDecompressedSize+1))
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		if len(out) > maxDecompressedSize {
			return nil, fmt.Errorf("lz4: decompressed envelope exceeds %d bytes", maxDecompressedSize)
		}
		return out, nil
	case Zstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		out, err := dec.DecodeAll(b, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown compression %s", c)
}

// Pack marshals p and compresses the result with c
func Pack(p *Partial, c Compression) ([]byte, error) {
	return c.Compress(p.Marshal())
}

// Unpack decompresses b with c and unmarshals the result
func Unpack(b []byte, c Compression) (*Partial, error) {
	raw, err := c.Decompress(b)
	if err != nil {
		return nil, err
	}
	return Unmarshal(raw)
}
