package engine

import (
	"fmt"
)

type TypeID int

const (
	TypeIDNull TypeID = iota
	TypeIDBoolean
	TypeIDTinyint
	TypeIDSmallint
	TypeIDInteger
	TypeIDBigint
	TypeIDHugeint
	TypeIDFloat
	TypeIDDouble
	TypeIDDecimal
	TypeIDVarchar
	TypeIDBlob
	TypeIDDate
	TypeIDTimestamp
	TypeIDTimestampTZ
	TypeIDInterval
)

// Type is a logical column type. Decimal types additionally carry their
// width and scale; all other type ids leave them zero.
type Type struct {
	ID    TypeID
	Width uint8
	Scale uint8
}

var (
	Null        = Type{ID: TypeIDNull}
	Boolean     = Type{ID: TypeIDBoolean}
	Tinyint     = Type{ID: TypeIDTinyint}
	Smallint    = Type{ID: TypeIDSmallint}
	Integer     = Type{ID: TypeIDInteger}
	Bigint      = Type{ID: TypeIDBigint}
	Hugeint     = Type{ID: TypeIDHugeint}
	Float       = Type{ID: TypeIDFloat}
	Double      = Type{ID: TypeIDDouble}
	Varchar     = Type{ID: TypeIDVarchar}
	Blob        = Type{ID: TypeIDBlob}
	Date        = Type{ID: TypeIDDate}
	Timestamp   = Type{ID: TypeIDTimestamp}
	TimestampTZ = Type{ID: TypeIDTimestampTZ}
	Interval    = Type{ID: TypeIDInterval}
)

func Decimal(width, scale uint8) Type {
	return Type{ID: TypeIDDecimal, Width: width, Scale: scale}
}

func (t Type) Is(other Type) bool {
	return t == other
}

// IsInteger reports whether the type is one of the fixed-width integer types.
func (t Type) IsInteger() bool {
	switch t.ID {
	case TypeIDTinyint, TypeIDSmallint, TypeIDInteger, TypeIDBigint, TypeIDHugeint:
		return true
	}
	return false
}

func (t Type) String() string {
	switch t.ID {
	case TypeIDNull:
		return "NULL"
	case TypeIDBoolean:
		return "BOOLEAN"
	case TypeIDTinyint:
		return "TINYINT"
	case TypeIDSmallint:
		return "SMALLINT"
	case TypeIDInteger:
		return "INTEGER"
	case TypeIDBigint:
		return "BIGINT"
	case TypeIDHugeint:
		return "HUGEINT"
	case TypeIDFloat:
		return "FLOAT"
	case TypeIDDouble:
		return "DOUBLE"
	case TypeIDDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Width, t.Scale)
	case TypeIDVarchar:
		return "VARCHAR"
	case TypeIDBlob:
		return "BLOB"
	case TypeIDDate:
		return "DATE"
	case TypeIDTimestamp:
		return "TIMESTAMP"
	case TypeIDTimestampTZ:
		return "TIMESTAMP WITH TIME ZONE"
	case TypeIDInterval:
		return "INTERVAL"
	}
	return "INVALID"
}
