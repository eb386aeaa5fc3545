package functions

import (
	"fmt"
	"io"
	"slices"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
)

// upper bound on the capacity reserved before any hash has been read
const uniqExactPrealloc = 1024

// NewUniqExact returns a new, unconfigured uniqExact() AggregateFunction
func NewUniqExact() aggregate.AggregateFunction {
	return &UniqExact{base: base{name: "uniqExact"}}
}

// UniqExact counts distinct argument tuples, keeping the set of their 64-bit
// hashes. It is exact up to hash collisions. The empty result is 0.
type UniqExact struct {
	base
	hashes map[uint64]struct{}
}

// GetTypeID returns a string from which an equivalent instance can be reconstructed
func (a *UniqExact) GetTypeID() string {
	return a.typeID("")
}

// CloneEmpty returns a new, unconfigured uniqExact()
func (a *UniqExact) CloneEmpty() aggregate.AggregateFunction {
	return NewUniqExact()
}

// SetArguments accepts one or more scalar arguments
func (a *UniqExact) SetArguments(args []aggregate.ColumnType) error {
	err := a.configure(args, checkDistinctArgs(a.incompatible))
	if err != nil {
		return err
	}
	a.hashes = make(map[uint64]struct{})
	return nil
}

// GetReturnType returns UInt64
func (a *UniqExact) GetReturnType() (aggregate.ColumnType, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return &aggregate.Uint64ColumnType{}, nil
}

// Add inserts the hash of a row's values into the set
func (a *UniqExact) Add(row aggregate.Row) error {
	skip, err := a.checkRow(row)
	if err != nil || skip {
		return err
	}
	h, err := hashRow(row, a.args)
	if err != nil {
		return err
	}
	a.hashes[h] = struct{}{}
	return nil
}

// Merge merges another uniqExact() into this one
func (a *UniqExact) Merge(o aggregate.AggregateFunction) error {
	if err := a.checkMerge(a, o); err != nil {
		return err
	}
	ua, ok := o.(*UniqExact)
	if !ok {
		return mismatch(a, o)
	}
	for h := range ua.hashes {
		a.hashes[h] = struct{}{}
	}
	return nil
}

// Serialize writes the number of hashes, followed by the hashes in ascending order
func (a *UniqExact) Serialize(w io.Writer) error {
	if err := a.ready(); err != nil {
		return err
	}
	sorted := make([]uint64, 0, len(a.hashes))
	for h := range a.hashes {
		sorted = append(sorted, h)
	}
	slices.Sort(sorted)
	if err := codec.WriteUint64(w, uint64(len(sorted))); err != nil {
		return err
	}
	for _, h := range sorted {
		if err := codec.WriteUint64(w, h); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeMerge reads a set written by Serialize and merges it into this one.
// Nothing is merged unless the whole set decodes.
func (a *UniqExact) DeserializeMerge(r io.Reader) error {
	if err := a.ready(); err != nil {
		return err
	}
	n, err := codec.ReadUint64(r)
	if err != nil {
		return codec.Corrupt(a.name, err)
	}
	if n > codec.MaxBlobSize/8 {
		return codec.Corrupt(a.name, codec.ErrBlobTooLarge)
	}
	// n is untrusted until the hashes are read
	incoming := make([]uint64, 0, min(n, uniqExactPrealloc))
	for i := uint64(0); i < n; i++ {
		h, err := codec.ReadUint64(r)
		if err != nil {
			return codec.Corrupt(a.name, err)
		}
		if i > 0 && h <= incoming[i-1] {
			return codec.Corrupt(a.name, fmt.Errorf("hashes are not in strictly ascending order at %d", i))
		}
		incoming = append(incoming, h)
	}
	for _, h := range incoming {
		a.hashes[h] = struct{}{}
	}
	return nil
}

// GetResult returns the number of distinct values as a uint64
func (a *UniqExact) GetResult() (interface{}, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return uint64(len(a.hashes)), nil
}
