package aggregate

// Row is an ordered sequence of typed scalar values, fed into an
// AggregateFunction on each input event. Values are addressed by
// position, and are expected to conform to the ColumnTypes
// previously passed to SetArguments. Rows are consumed, not owned,
// by AggregateFunctions: an implementation must not retain a Row
// (or a []byte obtained from one) after Add returns.
type Row interface {
	NumValues() int                               // NumValues returns the width of this row
	Types() []ColumnType                          // Types returns the ColumnTypes of the values in this row
	ToString() string                             // ToString returns a string representation of this row
	IsNil(idx int) bool                           // IsNil returns true iff the value at the given position is nil. Out-of-range positions are never nil.
	Get(idx int) (col interface{}, err error)     // Get returns the value at any position as an interface{}
	GetBool(idx int) (col bool, err error)        // GetBool retrieves a single bool from the given position
	GetUint8(idx int) (col uint8, err error)      // GetUint8 retrieves a single uint8 from the given position
	GetUint16(idx int) (col uint16, err error)    // GetUint16 retrieves a single uint16 from the given position
	GetUint32(idx int) (col uint32, err error)    // GetUint32 retrieves a single uint32 from the given position
	GetUint64(idx int) (col uint64, err error)    // GetUint64 retrieves a single uint64 from the given position
	GetInt8(idx int) (col int8, err error)        // GetInt8 retrieves a single int8 from the given position
	GetInt16(idx int) (col int16, err error)      // GetInt16 retrieves a single int16 from the given position
	GetInt32(idx int) (col int32, err error)      // GetInt32 retrieves a single int32 from the given position
	GetInt64(idx int) (col int64, err error)      // GetInt64 retrieves a single int64 from the given position
	GetFloat32(idx int) (col float32, err error)  // GetFloat32 retrieves a single float32 from the given position
	GetFloat64(idx int) (col float64, err error)  // GetFloat64 retrieves a single float64 from the given position
	GetVarString(idx int) (col string, err error) // GetVarString retrieves a single string from the given position
	GetVarBytes(idx int) (col []byte, err error)  // GetVarBytes retrieves a variable-length byte array from the given position
}
