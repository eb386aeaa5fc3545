package functions

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/axiomhq/hyperloglog"
	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
)

const (
	uniqPrecision = 14
	// encoding version written by the sketch library
	uniqVersion = 2
	// dense sketch encoding: version, precision, base, sparse flag, 4-byte register count, registers
	uniqEncodedSize = 8 + 1<<uniqPrecision
)

// NewUniq returns a new, unconfigured uniq() AggregateFunction
func NewUniq() aggregate.AggregateFunction {
	return &Uniq{base: base{name: "uniq"}}
}

// Uniq estimates the number of distinct argument tuples with a HyperLogLog
// sketch (precision 14, roughly 0.8% standard error). The sketch is dense,
// so that logically-equal states always serialize to the same bytes. It is
// allocated on first use; the empty result is 0.
type Uniq struct {
	base
	sketch *hyperloglog.Sketch
}

// GetTypeID returns a string from which an equivalent instance can be reconstructed
func (a *Uniq) GetTypeID() string {
	return a.typeID("")
}

// CloneEmpty returns a new, unconfigured uniq()
func (a *Uniq) CloneEmpty() aggregate.AggregateFunction {
	return NewUniq()
}

// SetArguments accepts one or more scalar arguments
func (a *Uniq) SetArguments(args []aggregate.ColumnType) error {
	return a.configure(args, checkDistinctArgs(a.incompatible))
}

func checkDistinctArgs(incompatible func(string, ...interface{}) error) func([]aggregate.ColumnType) error {
	return func(args []aggregate.ColumnType) error {
		if len(args) == 0 {
			return incompatible("expects at least 1 argument")
		}
		for i, t := range args {
			if _, isTuple := t.(*aggregate.TupleColumnType); isTuple {
				return incompatible("argument %d: tuples are not supported", i)
			}
		}
		return nil
	}
}

// GetReturnType returns UInt64
func (a *Uniq) GetReturnType() (aggregate.ColumnType, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return &aggregate.Uint64ColumnType{}, nil
}

func (a *Uniq) ensureSketch() error {
	if a.sketch != nil {
		return nil
	}
	sk, err := hyperloglog.NewSketch(uniqPrecision, false)
	if err != nil {
		return err
	}
	a.sketch = sk
	return nil
}

// Add inserts the hash of a row's values into the sketch
func (a *Uniq) Add(row aggregate.Row) error {
	skip, err := a.checkRow(row)
	if err != nil || skip {
		return err
	}
	h, err := hashRow(row, a.args)
	if err != nil {
		return err
	}
	if err := a.ensureSketch(); err != nil {
		return err
	}
	a.sketch.InsertHash(h)
	return nil
}

// Merge merges another uniq() into this one
func (a *Uniq) Merge(o aggregate.AggregateFunction) error {
	if err := a.checkMerge(a, o); err != nil {
		return err
	}
	ua, ok := o.(*Uniq)
	if !ok {
		return mismatch(a, o)
	}
	if ua.sketch == nil {
		return nil
	}
	if err := a.ensureSketch(); err != nil {
		return err
	}
	return a.sketch.Merge(ua.sketch)
}

// Serialize writes the sketch as a length-prefixed blob, which is empty if nothing was added
func (a *Uniq) Serialize(w io.Writer) error {
	if err := a.ready(); err != nil {
		return err
	}
	if a.sketch == nil {
		return codec.WriteBytes(w, nil)
	}
	blob, err := a.sketch.MarshalBinary()
	if err != nil {
		return err
	}
	return codec.WriteBytes(w, blob)
}

// DeserializeMerge reads a sketch written by Serialize and merges it into this one
func (a *Uniq) DeserializeMerge(r io.Reader) error {
	if err := a.ready(); err != nil {
		return err
	}
	blob, err := codec.ReadBytes(r)
	if err != nil {
		return codec.Corrupt(a.name, err)
	}
	if len(blob) == 0 {
		return nil
	}
	if err := checkDenseSketch(blob); err != nil {
		return codec.Corrupt(a.name, err)
	}
	var sk hyperloglog.Sketch
	if err := sk.UnmarshalBinary(blob); err != nil {
		return codec.Corrupt(a.name, err)
	}
	if err := a.ensureSketch(); err != nil {
		return err
	}
	return a.sketch.Merge(&sk)
}

// checkDenseSketch validates the header of a dense sketch encoding. The sketch
// library trusts its input, so a truncated register array must be caught here.
func checkDenseSketch(blob []byte) error {
	if len(blob) != uniqEncodedSize {
		return fmt.Errorf("sketch is %d bytes, expected %d", len(blob), uniqEncodedSize)
	}
	if blob[0] != uniqVersion || blob[1] != uniqPrecision || blob[2] != 0 || blob[3] != 0 {
		return fmt.Errorf("unexpected sketch header %v", blob[:4])
	}
	if n := binary.BigEndian.Uint32(blob[4:8]); n != 1<<uniqPrecision {
		return fmt.Errorf("sketch holds %d registers, expected %d", n, 1<<uniqPrecision)
	}
	return nil
}

// GetResult returns the estimated number of distinct values as a uint64
func (a *Uniq) GetResult() (interface{}, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	if a.sketch == nil {
		return uint64(0), nil
	}
	return a.sketch.Estimate(), nil
}
