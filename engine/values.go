package engine

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// Value is a single cell in the engine's value space. The Type field decides
// which payload field is meaningful; Null values carry a type but no payload.
type Value struct {
	Type Type
	Null bool

	Boolean bool
	Int64   int64
	Hugeint *big.Int
	Float64 float64
	Str     string
	Bytes   []byte
	// Micros holds DATE / TIMESTAMP / TIMESTAMP_TZ instants as microseconds
	// since the Unix epoch. TIMESTAMP_TZ instants are UTC-normalized.
	Micros   int64
	Interval IntervalValue
}

// IntervalValue mirrors the engine's three-component interval.
type IntervalValue struct {
	Months int32
	Days   int32
	Micros int64
}

// NewNull produces the typed null of t.
func NewNull(t Type) Value {
	return Value{Type: t, Null: true}
}

func NewBoolean(v bool) Value {
	return Value{Type: Boolean, Boolean: v}
}

func NewSmallint(v int16) Value {
	return Value{Type: Smallint, Int64: int64(v)}
}

func NewInteger(v int32) Value {
	return Value{Type: Integer, Int64: int64(v)}
}

func NewBigint(v int64) Value {
	return Value{Type: Bigint, Int64: v}
}

func NewHugeint(v *big.Int) Value {
	return Value{Type: Hugeint, Hugeint: v}
}

func NewFloat(v float32) Value {
	return Value{Type: Float, Float64: float64(v)}
}

func NewDouble(v float64) Value {
	return Value{Type: Double, Float64: v}
}

// NewDecimal holds the unscaled value; width and scale ride on the type.
func NewDecimal(unscaled int64, width, scale uint8) Value {
	return Value{Type: Decimal(width, scale), Int64: unscaled}
}

func NewVarchar(v string) Value {
	return Value{Type: Varchar, Str: v}
}

func NewBlob(v []byte) Value {
	return Value{Type: Blob, Bytes: v}
}

func NewDate(v time.Time) Value {
	midnight := time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
	return Value{Type: Date, Micros: midnight.UnixMicro()}
}

func NewTimestamp(micros int64) Value {
	return Value{Type: Timestamp, Micros: micros}
}

func NewTimestampTZ(micros int64) Value {
	return Value{Type: TimestampTZ, Micros: micros}
}

func NewInterval(months, days int32, micros int64) Value {
	return Value{Type: Interval, Interval: IntervalValue{Months: months, Days: days, Micros: micros}}
}

func (v Value) IsNull() bool {
	return v.Null
}

// Time reinterprets a DATE/TIMESTAMP/TIMESTAMP_TZ value as a time.Time in UTC.
func (v Value) Time() time.Time {
	return time.UnixMicro(v.Micros).UTC()
}

func (v Value) String() string {
	if v.Null {
		return "NULL"
	}
	switch v.Type.ID {
	case TypeIDBoolean:
		if v.Boolean {
			return "true"
		}
		return "false"
	case TypeIDTinyint, TypeIDSmallint, TypeIDInteger, TypeIDBigint:
		return strconv.FormatInt(v.Int64, 10)
	case TypeIDHugeint:
		if v.Hugeint == nil {
			return "0"
		}
		return v.Hugeint.String()
	case TypeIDFloat, TypeIDDouble:
		return strconv.FormatFloat(v.Float64, 'g', -1, 64)
	case TypeIDDecimal:
		return formatDecimal(v.Int64, v.Type.Scale)
	case TypeIDVarchar:
		return v.Str
	case TypeIDBlob:
		return "\\x" + hex.EncodeToString(v.Bytes)
	case TypeIDDate:
		return v.Time().Format("2006-01-02")
	case TypeIDTimestamp:
		return v.Time().Format("2006-01-02 15:04:05.999999")
	case TypeIDTimestampTZ:
		return v.Time().Format("2006-01-02 15:04:05.999999") + "+00"
	case TypeIDInterval:
		return fmt.Sprintf("%d months %d days %d us", v.Interval.Months, v.Interval.Days, v.Interval.Micros)
	}
	return "NULL"
}

func formatDecimal(unscaled int64, scale uint8) string {
	s := strconv.FormatInt(unscaled, 10)
	if scale == 0 {
		return s
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for len(s) <= int(scale) {
		s = "0" + s
	}
	point := len(s) - int(scale)
	out := s[:point] + "." + s[point:]
	if neg {
		out = "-" + out
	}
	return out
}
