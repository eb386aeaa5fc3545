package functions

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/DataDog/sketches-go/ddsketch/mapping"
	"github.com/DataDog/sketches-go/ddsketch/store"
	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/codec"
	errors "github.com/go-sif/aggregate/errors"
)

const (
	defaultQuantileLevel = 0.5
	quantileRelAcc       = 0.01
)

// quantileMaxValue is the largest magnitude the sketch can index
var quantileMaxValue = func() float64 {
	m, err := mapping.NewLogarithmicMapping(quantileRelAcc)
	if err != nil {
		panic(err)
	}
	return m.MaxIndexableValue()
}()

// NewQuantile returns a new, unconfigured quantile() AggregateFunction
func NewQuantile() aggregate.AggregateFunction {
	return &Quantile{base: base{name: "quantile"}, level: defaultQuantileLevel}
}

// Quantile estimates a quantile of a numeric argument with a DDSketch, whose
// answers are within 1% of the true value. It takes a single optional parameter,
// the level in [0, 1], which defaults to 0.5 (the median). NaNs are ignored, as are
// values too large in magnitude for the sketch to track (including infinities).
// The empty result is NaN.
type Quantile struct {
	base
	level     float64
	hasParams bool
	touched   bool
	sketch    *ddsketch.DDSketch
}

// GetTypeID returns a string from which an equivalent instance can be reconstructed
func (a *Quantile) GetTypeID() string {
	return a.typeID("(" + strconv.FormatFloat(a.level, 'g', -1, 64) + ")")
}

// CloneEmpty returns a new, unconfigured quantile(), at the default level
func (a *Quantile) CloneEmpty() aggregate.AggregateFunction {
	return NewQuantile()
}

// SetArguments accepts a single numeric argument
func (a *Quantile) SetArguments(args []aggregate.ColumnType) error {
	return a.configure(args, func(args []aggregate.ColumnType) error {
		return a.single(args, "a numeric", aggregate.IsNumeric)
	})
}

// SetParameters sets the quantile level, a single numeric value in [0, 1]
func (a *Quantile) SetParameters(params aggregate.Row) error {
	if err := a.ready(); err != nil {
		return err
	}
	invalid := func(format string, v ...interface{}) error {
		return errors.InvalidParametersError{Function: a.name, Reason: fmt.Sprintf(format, v...)}
	}
	if a.touched {
		return invalid("parameters must be set before any data is added")
	}
	if a.hasParams {
		return invalid("parameters were already set")
	}
	if params == nil || params.NumValues() != 1 {
		n := 0
		if params != nil {
			n = params.NumValues()
		}
		return invalid("expects exactly 1 parameter, got %d", n)
	}
	types := params.Types()
	if len(types) != 1 || !aggregate.IsNumeric(types[0]) || params.IsNil(0) {
		return invalid("the level must be a number")
	}
	level, err := getFloat64(params, 0, types[0])
	if err != nil {
		return invalid("%s", err)
	}
	if math.IsNaN(level) || level < 0 || level > 1 {
		return invalid("level %v is not in [0, 1]", level)
	}
	a.level = level
	a.hasParams = true
	return nil
}

// GetReturnType returns Float64
func (a *Quantile) GetReturnType() (aggregate.ColumnType, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return &aggregate.Float64ColumnType{}, nil
}

func (a *Quantile) ensureSketch() error {
	if a.sketch != nil {
		return nil
	}
	sk, err := ddsketch.LogUnboundedDenseDDSketch(quantileRelAcc)
	if err != nil {
		return err
	}
	a.sketch = sk
	return nil
}

// Add adds a row's value to the sketch
func (a *Quantile) Add(row aggregate.Row) error {
	skip, err := a.checkRow(row)
	if err != nil {
		return err
	}
	a.touched = true
	if skip {
		return nil
	}
	v, err := getFloat64(row, 0, a.args[0])
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.Abs(v) > quantileMaxValue {
		return nil
	}
	if err := a.ensureSketch(); err != nil {
		return err
	}
	if err := a.sketch.Add(v); err != nil {
		return errors.IncompatibleRowError{Index: 0, Reason: err.Error()}
	}
	return nil
}

// Merge merges another quantile() at the same level into this one
func (a *Quantile) Merge(o aggregate.AggregateFunction) error {
	if err := a.checkMerge(a, o); err != nil {
		return err
	}
	qa, ok := o.(*Quantile)
	if !ok {
		return mismatch(a, o)
	}
	a.touched = true
	if qa.sketch == nil || qa.sketch.IsEmpty() {
		return nil
	}
	if err := a.ensureSketch(); err != nil {
		return err
	}
	return a.sketch.MergeWith(qa.sketch)
}

// Serialize writes the sketch (including its index mapping) as a length-prefixed blob,
// which is empty if no values were added
func (a *Quantile) Serialize(w io.Writer) error {
	if err := a.ready(); err != nil {
		return err
	}
	var blob []byte
	if a.sketch != nil && !a.sketch.IsEmpty() {
		a.sketch.Encode(&blob, false)
	}
	return codec.WriteBytes(w, blob)
}

// DeserializeMerge reads a sketch written by Serialize and merges it into this one
func (a *Quantile) DeserializeMerge(r io.Reader) error {
	if err := a.ready(); err != nil {
		return err
	}
	blob, err := codec.ReadBytes(r)
	if err != nil {
		return codec.Corrupt(a.name, err)
	}
	a.touched = true
	if len(blob) == 0 {
		return nil
	}
	sk, err := decodeSketch(blob)
	if err != nil {
		return codec.Corrupt(a.name, err)
	}
	if err := a.ensureSketch(); err != nil {
		return err
	}
	if err := a.sketch.MergeWith(sk); err != nil {
		return codec.Corrupt(a.name, err)
	}
	return nil
}

// decodeSketch decodes into a fresh sketch, so that a failure leaves the receiver untouched.
// The decoder indexes into its input without bounds checks, hence the recover.
func decodeSketch(blob []byte) (sk *ddsketch.DDSketch, err error) {
	defer func() {
		if r := recover(); r != nil {
			sk, err = nil, fmt.Errorf("malformed sketch: %v", r)
		}
	}()
	sk, err = ddsketch.DecodeDDSketch(blob, store.DenseStoreConstructor, nil)
	if err == nil && sk.IndexMapping == nil {
		err = fmt.Errorf("sketch has no index mapping")
	}
	return sk, err
}

// GetResult returns the estimated quantile as a float64, or NaN if no values were added
func (a *Quantile) GetResult() (interface{}, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	if a.sketch == nil || a.sketch.IsEmpty() {
		return math.NaN(), nil
	}
	return a.sketch.GetValueAtQuantile(a.level)
}
