// Package partial wraps the serialized state of an AggregateFunction in an envelope which
// carries the function's identity, so that a partial aggregate can be shipped to another
// worker and merged there without out-of-band knowledge of what produced it.
package partial

import (
	"bytes"
	"fmt"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
	errors "github.com/go-sif/aggregate/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldName   protowire.Number = 1
	fieldTypeID protowire.Number = 2
	fieldState  protowire.Number = 3
)

// Partial is a serialized partial aggregate, tagged with the identity of the function which produced it
type Partial struct {
	Name   string
	TypeID string
	State  []byte
}

// From serializes the state of fn into a Partial
func From(fn aggregate.AggregateFunction) (*Partial, error) {
	var buf bytes.Buffer
	if err := fn.Serialize(&buf); err != nil {
		return nil, err
	}
	return &Partial{Name: fn.GetName(), TypeID: fn.GetTypeID(), State: buf.Bytes()}, nil
}

// Marshal encodes this Partial in protobuf wire format
func (p *Partial) Marshal() []byte {
	b := make([]byte, 0, len(p.Name)+len(p.TypeID)+len(p.State)+16)
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, p.Name)
	b = protowire.AppendTag(b, fieldTypeID, protowire.BytesType)
	b = protowire.AppendString(b, p.TypeID)
	b = protowire.AppendTag(b, fieldState, protowire.BytesType)
	b = protowire.AppendBytes(b, p.State)
	return b
}

// Unmarshal decodes a Partial encoded by Marshal. Unknown fields are skipped.
func Unmarshal(b []byte) (*Partial, error) {
	p := &Partial{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("malformed partial aggregate: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldName && typ == protowire.BytesType:
			p.Name, n = protowire.ConsumeString(b)
		case num == fieldTypeID && typ == protowire.BytesType:
			p.TypeID, n = protowire.ConsumeString(b)
		case num == fieldState && typ == protowire.BytesType:
			var state []byte
			state, n = protowire.ConsumeBytes(b)
			p.State = append([]byte(nil), state...)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, fmt.Errorf("malformed partial aggregate: %w", protowire.ParseError(n))
		}
		b = b[n:]
	}
	if p.Name == "" || p.TypeID == "" {
		return nil, fmt.Errorf("malformed partial aggregate: missing function identity")
	}
	return p, nil
}

// MergeInto merges this Partial's state into fn, which must have the same type id.
// The state must be consumed exactly: trailing bytes are treated as corruption.
func (p *Partial) MergeInto(fn aggregate.AggregateFunction) error {
	if fn.GetTypeID() != p.TypeID {
		return errors.TypeMismatchError{Function: fn.GetTypeID(), Other: p.TypeID}
	}
	r := bytes.NewReader(p.State)
	if err := fn.DeserializeMerge(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return codec.Corrupt(fn.GetName(), fmt.Errorf("%d trailing bytes after state", r.Len()))
	}
	return nil
}
