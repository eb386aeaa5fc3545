package aggregate

import (
	"fmt"
	"strings"
)

// ColumnType describes the semantic type of an AggregateFunction argument or result.
// ColumnTypes are immutable once handed to SetArguments.
type ColumnType interface {
	Name() string                  // returns the canonical name of this type, e.g. "Int32" or "Nullable(Float64)"
	Size() int                     // returns size in bytes of a column type, or 0 for variable-length types
	ToString(v interface{}) string // produces a string representation of a value of this type
}

// BoolColumnType is a column type which stores a boolean value
type BoolColumnType struct{}

// Name of a BoolColumnType
func (b *BoolColumnType) Name() string { return "Bool" }

// Size in bytes of a BoolColumn
func (b *BoolColumnType) Size() int {
	return 1
}

// ToString produces a string representation of a value of a BoolColumnType value
func (b *BoolColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%t", v.(bool))
}

// Uint8ColumnType is a column type which stores a uint8 value
type Uint8ColumnType struct{}

// Name of a Uint8ColumnType
func (b *Uint8ColumnType) Name() string { return "UInt8" }

// Size in bytes of a Uint8Column
func (b *Uint8ColumnType) Size() int {
	return 1
}

// ToString produces a string representation of a value of a Uint8ColumnType value
func (b *Uint8ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(uint8))
}

// Uint16ColumnType is a column type which stores a uint16 value
type Uint16ColumnType struct{}

// Name of a Uint16ColumnType
func (b *Uint16ColumnType) Name() string { return "UInt16" }

// Size in bytes of a Uint16Column
func (b *Uint16ColumnType) Size() int {
	return 2
}

// ToString produces a string representation of a value of a Uint16ColumnType value
func (b *Uint16ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(uint16))
}

// Uint32ColumnType is a column type which stores a uint32 value
type Uint32ColumnType struct{}

// Name of a Uint32ColumnType
func (b *Uint32ColumnType) Name() string { return "UInt32" }

// Size in bytes of a Uint32Column
func (b *Uint32ColumnType) Size() int {
	return 4
}

// ToString produces a string representation of a value of a Uint32ColumnType value
func (b *Uint32ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(uint32))
}

// Uint64ColumnType is a column type which stores a uint64 value
type Uint64ColumnType struct{}

// Name of a Uint64ColumnType
func (b *Uint64ColumnType) Name() string { return "UInt64" }

// Size in bytes of a Uint64Column
func (b *Uint64ColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a Uint64ColumnType value
func (b *Uint64ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(uint64))
}

// Int8ColumnType is a column type which stores a int8 value
type Int8ColumnType struct{}

// Name of a Int8ColumnType
func (b *Int8ColumnType) Name() string { return "Int8" }

// Size in bytes of a Int8Column
func (b *Int8ColumnType) Size() int {
	return 1
}

// ToString produces a string representation of a value of a Int8ColumnType value
func (b *Int8ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(int8))
}

// Int16ColumnType is a column type which stores a int16 value
type Int16ColumnType struct{}

// Name of a Int16ColumnType
func (b *Int16ColumnType) Name() string { return "Int16" }

// Size in bytes of a Int16Column
func (b *Int16ColumnType) Size() int {
	return 2
}

// ToString produces a string representation of a value of a Int16ColumnType value
func (b *Int16ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(int16))
}

// Int32ColumnType is a column type which stores a int32 value
type Int32ColumnType struct{}

// Name of a Int32ColumnType
func (b *Int32ColumnType) Name() string { return "Int32" }

// Size in bytes of a Int32Column
func (b *Int32ColumnType) Size() int {
	return 4
}

// ToString produces a string representation of a value of a Int32ColumnType value
func (b *Int32ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(int32))
}

// Int64ColumnType is a column type which stores a int64 value
type Int64ColumnType struct{}

// Name of a Int64ColumnType
func (b *Int64ColumnType) Name() string { return "Int64" }

// Size in bytes of a Int64Column
func (b *Int64ColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a Int64ColumnType value
func (b *Int64ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(int64))
}

// Float32ColumnType is a column type which stores a float32 value
type Float32ColumnType struct{}

// Name of a Float32ColumnType
func (b *Float32ColumnType) Name() string { return "Float32" }

// Size in bytes of a Float32Column
func (b *Float32ColumnType) Size() int {
	return 4
}

// ToString produces a string representation of a value of a Float32ColumnType value
func (b *Float32ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%f", v.(float32))
}

// Float64ColumnType is a column type which stores a float64 value
type Float64ColumnType struct{}

// Name of a Float64ColumnType
func (b *Float64ColumnType) Name() string { return "Float64" }

// Size in bytes of a Float64Column
func (b *Float64ColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a Float64ColumnType value
func (b *Float64ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%f", v.(float64))
}

// VarStringColumnType is a column type which stores a variable-length string value
type VarStringColumnType struct{}

// Name of a VarStringColumnType
func (b *VarStringColumnType) Name() string { return "String" }

// Size in bytes of a VarStringColumn. Always 0.
func (b *VarStringColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a VarStringColumnType value
func (b *VarStringColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("\"%s\"", v.(string))
}

// VarBytesColumnType is a column type which stores variable-length byte arrays
type VarBytesColumnType struct{}

// Name of a VarBytesColumnType
func (b *VarBytesColumnType) Name() string { return "Bytes" }

// Size in bytes of a VarBytesColumn. Always 0.
func (b *VarBytesColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a VarBytesColumnType value
func (b *VarBytesColumnType) ToString(v interface{}) string {
	bytes := v.([]byte)
	var res strings.Builder
	fmt.Fprint(&res, "[")
	for i, v := range bytes {
		// don't print more than 5 entries
		if i > 5 {
			fmt.Fprintf(&res, "... %d more", len(bytes)-5)
			break
		}
		fmt.Fprintf(&res, "%x", v)
	}
	fmt.Fprint(&res, "]")
	return res.String()
}

// NullableColumnType wraps another column type, additionally permitting nil values
type NullableColumnType struct {
	Inner ColumnType
}

// Name of a NullableColumnType
func (b *NullableColumnType) Name() string {
	return "Nullable(" + b.Inner.Name() + ")"
}

// Size in bytes of a NullableColumn, which is the size of its inner type
func (b *NullableColumnType) Size() int {
	return b.Inner.Size()
}

// ToString produces a string representation of a value of a NullableColumnType value
func (b *NullableColumnType) ToString(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return b.Inner.ToString(v)
}

// TupleColumnType is a column type which stores a fixed sequence of values of (potentially) different types
type TupleColumnType struct {
	Elems []ColumnType
}

// Name of a TupleColumnType
func (b *TupleColumnType) Name() string {
	names := make([]string, len(b.Elems))
	for i, e := range b.Elems {
		names[i] = e.Name()
	}
	return "Tuple(" + strings.Join(names, ", ") + ")"
}

// Size in bytes of a TupleColumn. Always 0.
func (b *TupleColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a TupleColumnType value
func (b *TupleColumnType) ToString(v interface{}) string {
	vals := v.([]interface{})
	strs := make([]string, len(vals))
	for i, val := range vals {
		if val == nil {
			strs[i] = "NULL"
			continue
		}
		strs[i] = b.Elems[i].ToString(val)
	}
	return "(" + strings.Join(strs, ", ") + ")"
}

// Nullable wraps colType in a NullableColumnType, unless it is already nullable
func Nullable(colType ColumnType) ColumnType {
	if _, ok := colType.(*NullableColumnType); ok {
		return colType
	}
	return &NullableColumnType{Inner: colType}
}

// Unwrap removes a NullableColumnType wrapper (if present), reporting whether it was present
func Unwrap(colType ColumnType) (inner ColumnType, isNullable bool) {
	if n, ok := colType.(*NullableColumnType); ok {
		return n.Inner, true
	}
	return colType, false
}

// IsVariableLength returns true iff colType has no fixed width
func IsVariableLength(colType ColumnType) bool {
	inner, _ := Unwrap(colType)
	return inner.Size() == 0
}

// IsSignedInteger returns true iff colType (ignoring nullability) is a signed integer type
func IsSignedInteger(colType ColumnType) bool {
	inner, _ := Unwrap(colType)
	switch inner.(type) {
	case *Int8ColumnType, *Int16ColumnType, *Int32ColumnType, *Int64ColumnType:
		return true
	}
	return false
}

// IsUnsignedInteger returns true iff colType (ignoring nullability) is an unsigned integer type
func IsUnsignedInteger(colType ColumnType) bool {
	inner, _ := Unwrap(colType)
	switch inner.(type) {
	case *Uint8ColumnType, *Uint16ColumnType, *Uint32ColumnType, *Uint64ColumnType:
		return true
	}
	return false
}

// IsFloat returns true iff colType (ignoring nullability) is a floating-point type
func IsFloat(colType ColumnType) bool {
	inner, _ := Unwrap(colType)
	switch inner.(type) {
	case *Float32ColumnType, *Float64ColumnType:
		return true
	}
	return false
}

// IsNumeric returns true iff colType (ignoring nullability) is an integer or floating-point type
func IsNumeric(colType ColumnType) bool {
	return IsSignedInteger(colType) || IsUnsignedInteger(colType) || IsFloat(colType)
}

// TypeNames returns the canonical names of a list of column types
func TypeNames(colTypes []ColumnType) []string {
	names := make([]string, len(colTypes))
	for i, t := range colTypes {
		names[i] = t.Name()
	}
	return names
}

// ParseColumnType produces a ColumnType from its canonical name, as returned by ColumnType.Name()
func ParseColumnType(name string) (ColumnType, error) {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "Nullable(") && strings.HasSuffix(name, ")") {
		inner, err := ParseColumnType(name[len("Nullable(") : len(name)-1])
		if err != nil {
			return nil, err
		}
		return Nullable(inner), nil
	}
	switch name {
	case "Bool":
		return &BoolColumnType{}, nil
	case "UInt8":
		return &Uint8ColumnType{}, nil
	case "UInt16":
		return &Uint16ColumnType{}, nil
	case "UInt32":
		return &Uint32ColumnType{}, nil
	case "UInt64":
		return &Uint64ColumnType{}, nil
	case "Int8":
		return &Int8ColumnType{}, nil
	case "Int16":
		return &Int16ColumnType{}, nil
	case "Int32":
		return &Int32ColumnType{}, nil
	case "Int64":
		return &Int64ColumnType{}, nil
	case "Float32":
		return &Float32ColumnType{}, nil
	case "Float64":
		return &Float64ColumnType{}, nil
	case "String":
		return &VarStringColumnType{}, nil
	case "Bytes":
		return &VarBytesColumnType{}, nil
	}
	return nil, fmt.Errorf("unknown column type %q", name)
}
