// Package input decodes JSON lines into Rows. Each column is located within a line
// by a gjson path, and parsed according to its declared ColumnType.
package input

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/row"
	"github.com/tidwall/gjson"
)

// Column names a value within each JSON line, and the type to parse it as
type Column struct {
	Path string
	Type aggregate.ColumnType
}

// ParseColumns parses column specs of the form "path:Type", e.g. "user.age:Nullable(Int32)"
func ParseColumns(specs []string) ([]Column, error) {
	cols := make([]Column, len(specs))
	for i, spec := range specs {
		sep := strings.Index(spec, ":")
		if sep <= 0 || sep == len(spec)-1 {
			return nil, fmt.Errorf("column %q must have the form path:Type", spec)
		}
		t, err := aggregate.ParseColumnType(spec[sep+1:])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", spec, err)
		}
		cols[i] = Column{Path: strings.TrimSpace(spec[:sep]), Type: t}
	}
	return cols, nil
}

// Types returns the ColumnTypes of a list of columns
func Types(cols []Column) []aggregate.ColumnType {
	types := make([]aggregate.ColumnType, len(cols))
	for i, c := range cols {
		types[i] = c.Type
	}
	return types
}

// Reader produces one Row per non-blank line of JSON
type Reader struct {
	scanner *bufio.Scanner
	cols    []Column
	types   []aggregate.ColumnType
	line    int
}

// NewReader returns a Reader over r. maxLineSize bounds the length of a line, and
// defaults to bufio.MaxScanTokenSize when 0.
func NewReader(r io.Reader, cols []Column, maxLineSize int) *Reader {
	if maxLineSize == 0 {
		maxLineSize = bufio.MaxScanTokenSize
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Reader{scanner: scanner, cols: cols, types: Types(cols)}
}

// Next returns the next Row, or io.EOF when the input is exhausted
func (jr *Reader) Next() (aggregate.Row, error) {
	for jr.scanner.Scan() {
		jr.line++
		line := strings.TrimSpace(jr.scanner.Text())
		if line == "" {
			continue
		}
		r, err := ParseRow(jr.cols, jr.types, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", jr.line, err)
		}
		return r, nil
	}
	if err := jr.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// ParseRow parses a single line of JSON into a Row. Missing or null values become nil,
// which is only accepted for nullable columns.
func ParseRow(cols []Column, types []aggregate.ColumnType, line string) (aggregate.Row, error) {
	if !gjson.Valid(line) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.Parse(line)
	values := make([]interface{}, len(cols))
	for i, c := range cols {
		res := doc.Get(c.Path)
		if !res.Exists() || res.Type == gjson.Null {
			continue
		}
		v, err := parseValue(res, c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Path, err)
		}
		values[i] = v
	}
	return row.New(types, values...)
}

func parseValue(res gjson.Result, colType aggregate.ColumnType) (interface{}, error) {
	inner, _ := aggregate.Unwrap(colType)
	switch inner.(type) {
	case *aggregate.BoolColumnType:
		if res.Type != gjson.True && res.Type != gjson.False {
			return nil, fmt.Errorf("was not a boolean. Was: %s", res.Raw)
		}
		return res.Bool(), nil
	case *aggregate.Uint8ColumnType, *aggregate.Uint16ColumnType, *aggregate.Uint32ColumnType, *aggregate.Uint64ColumnType:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("was not a number. Was: %s", res.Raw)
		}
		u, err := strconv.ParseUint(res.Raw, 10, inner.Size()*8)
		if err != nil {
			return nil, fmt.Errorf("was not a %s. Was: %s", inner.Name(), res.Raw)
		}
		switch inner.(type) {
		case *aggregate.Uint8ColumnType:
			return uint8(u), nil
		case *aggregate.Uint16ColumnType:
			return uint16(u), nil
		case *aggregate.Uint32ColumnType:
			return uint32(u), nil
		}
		return u, nil
	case *aggregate.Int8ColumnType, *aggregate.Int16ColumnType, *aggregate.Int32ColumnType, *aggregate.Int64ColumnType:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("was not a number. Was: %s", res.Raw)
		}
		n, err := strconv.ParseInt(res.Raw, 10, inner.Size()*8)
		if err != nil {
			return nil, fmt.Errorf("was not a %s. Was: %s", inner.Name(), res.Raw)
		}
		switch inner.(type) {
		case *aggregate.Int8ColumnType:
			return int8(n), nil
		case *aggregate.Int16ColumnType:
			return int16(n), nil
		case *aggregate.Int32ColumnType:
			return int32(n), nil
		}
		return n, nil
	case *aggregate.Float32ColumnType:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("was not a number. Was: %s", res.Raw)
		}
		f := res.Float()
		if math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("was not a Float32. Was: %s", res.Raw)
		}
		return float32(f), nil
	case *aggregate.Float64ColumnType:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("was not a number. Was: %s", res.Raw)
		}
		return res.Float(), nil
	case *aggregate.VarStringColumnType:
		if res.Type != gjson.String {
			return nil, fmt.Errorf("was not a string. Was: %s", res.Raw)
		}
		return res.Str, nil
	case *aggregate.VarBytesColumnType:
		if res.Type != gjson.String {
			return nil, fmt.Errorf("was not a base64 string. Was: %s", res.Raw)
		}
		b, err := base64.StdEncoding.DecodeString(res.Str)
		if err != nil {
			return nil, fmt.Errorf("was not a base64 string: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("JSONL parsing does not support column type %s", colType.Name())
}
