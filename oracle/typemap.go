package oracle

import (
	"fmt"
	"log"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/fennelq/oraclescan/engine"
)

// ToEngineType maps an Oracle column descriptor onto the engine's logical
// type. Total and deterministic; anything unrecognized falls back to VARCHAR.
func ToEngineType(col ColumnInfo) engine.Type {
	switch col.TypeName {
	case "NUMBER":
		if col.Precision == 0 && col.Scale == ScaleUnspecified {
			return engine.Double
		}
		if col.Scale == 0 || col.Scale == ScaleUnspecified {
			switch {
			case col.Precision <= 4:
				return engine.Smallint
			case col.Precision <= 9:
				return engine.Integer
			case col.Precision <= 18:
				return engine.Bigint
			case col.Precision <= 38:
				return engine.Hugeint
			}
		}
		if col.Precision > 0 && col.Scale >= 0 {
			return engine.Decimal(uint8(col.Precision), uint8(col.Scale))
		}
		return engine.Double

	case "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR", "ROWID", "CLOB", "NCLOB":
		return engine.Varchar

	case "DATE", "TIMESTAMP", "TIMESTAMP WITH LOCAL TIME ZONE":
		return engine.Timestamp

	case "TIMESTAMP WITH TIME ZONE":
		return engine.TimestampTZ

	case "BLOB", "RAW", "LONG RAW":
		return engine.Blob

	case "BINARY_FLOAT":
		return engine.Float

	case "BINARY_DOUBLE":
		return engine.Double

	case "INTERVAL YEAR TO MONTH", "INTERVAL DAY TO SECOND":
		return engine.Interval
	}

	// Oracle reports parameterized type names (TIMESTAMP(6), INTERVAL
	// DAY(2) TO SECOND(6)) from some dictionary paths.
	switch {
	case strings.HasPrefix(col.TypeName, "TIMESTAMP"):
		if strings.HasSuffix(col.TypeName, "WITH TIME ZONE") && !strings.Contains(col.TypeName, "LOCAL") {
			return engine.TimestampTZ
		}
		return engine.Timestamp
	case strings.HasPrefix(col.TypeName, "INTERVAL"):
		return engine.Interval
	}

	return engine.Varchar
}

// ToOracleDDL renders the Oracle column type used when the engine creates a
// table on the Oracle side.
func ToOracleDDL(t engine.Type) string {
	switch t.ID {
	case engine.TypeIDBoolean:
		return "NUMBER(1)"
	case engine.TypeIDTinyint:
		return "NUMBER(3)"
	case engine.TypeIDSmallint:
		return "NUMBER(5)"
	case engine.TypeIDInteger:
		return "NUMBER(10)"
	case engine.TypeIDBigint:
		return "NUMBER(19)"
	case engine.TypeIDHugeint:
		return "NUMBER(38)"
	case engine.TypeIDFloat:
		return "BINARY_FLOAT"
	case engine.TypeIDDouble:
		return "BINARY_DOUBLE"
	case engine.TypeIDDecimal:
		return fmt.Sprintf("NUMBER(%d,%d)", t.Width, t.Scale)
	case engine.TypeIDVarchar:
		return "VARCHAR2(4000)"
	case engine.TypeIDBlob:
		return "BLOB"
	case engine.TypeIDDate:
		return "DATE"
	case engine.TypeIDTimestamp:
		return "TIMESTAMP"
	case engine.TypeIDTimestampTZ:
		return "TIMESTAMP WITH TIME ZONE"
	case engine.TypeIDInterval:
		return "INTERVAL DAY(9) TO SECOND(9)"
	}
	return "VARCHAR2(4000)"
}

// cellConverter turns one driver cell into an engine value of a fixed
// logical type. Converters are total: a cell the converter cannot interpret
// becomes a typed null, never an error.
type cellConverter func(raw interface{}) engine.Value

// converterFor picks the conversion for one result column before the fetch
// loop starts, so the per-row path is a plain call.
func converterFor(target engine.Type) cellConverter {
	switch target.ID {
	case engine.TypeIDFloat:
		return func(raw interface{}) engine.Value {
			f, ok := cellFloat(raw)
			if !ok {
				return fallbackNull(target, raw)
			}
			return engine.NewFloat(float32(f))
		}
	case engine.TypeIDDouble:
		return func(raw interface{}) engine.Value {
			f, ok := cellFloat(raw)
			if !ok {
				return fallbackNull(target, raw)
			}
			return engine.NewDouble(f)
		}
	case engine.TypeIDDecimal:
		return func(raw interface{}) engine.Value {
			// Integer cells scale exactly; everything else goes through the
			// rounding path so fractional digits are not truncated.
			switch v := raw.(type) {
			case int64:
				return engine.NewDecimal(scaleInt(v, int(target.Scale)), target.Width, target.Scale)
			case int32:
				return engine.NewDecimal(scaleInt(int64(v), int(target.Scale)), target.Width, target.Scale)
			}
			f, ok := cellFloat(raw)
			if !ok {
				return fallbackNull(target, raw)
			}
			scaled := math.Round(f * math.Pow(10, float64(target.Scale)))
			return engine.NewDecimal(clampInt64(scaled), target.Width, target.Scale)
		}
	case engine.TypeIDSmallint:
		return func(raw interface{}) engine.Value {
			i, ok := cellInt(raw)
			if !ok {
				return fallbackNull(target, raw)
			}
			return engine.NewSmallint(int16(i))
		}
	case engine.TypeIDInteger:
		return func(raw interface{}) engine.Value {
			i, ok := cellInt(raw)
			if !ok {
				return fallbackNull(target, raw)
			}
			return engine.NewInteger(int32(i))
		}
	case engine.TypeIDBigint:
		return func(raw interface{}) engine.Value {
			i, ok := cellInt(raw)
			if !ok {
				return fallbackNull(target, raw)
			}
			return engine.NewBigint(i)
		}
	case engine.TypeIDHugeint:
		return func(raw interface{}) engine.Value {
			switch v := raw.(type) {
			case int64:
				return engine.NewHugeint(big.NewInt(v))
			case string:
				if b, ok := new(big.Int).SetString(strings.TrimSpace(v), 10); ok {
					return engine.NewHugeint(b)
				}
			case float64:
				b, _ := big.NewFloat(v).Int(nil)
				return engine.NewHugeint(b)
			}
			return fallbackNull(target, raw)
		}
	case engine.TypeIDVarchar:
		return func(raw interface{}) engine.Value {
			switch v := raw.(type) {
			case string:
				return engine.NewVarchar(v)
			case []byte:
				return engine.NewVarchar(string(v))
			}
			return engine.NewVarchar(fmt.Sprint(raw))
		}
	case engine.TypeIDBlob:
		return func(raw interface{}) engine.Value {
			switch v := raw.(type) {
			case []byte:
				return engine.NewBlob(v)
			case string:
				return engine.NewBlob([]byte(v))
			}
			return fallbackNull(target, raw)
		}
	case engine.TypeIDDate, engine.TypeIDTimestamp:
		return func(raw interface{}) engine.Value {
			t, ok := raw.(time.Time)
			if !ok {
				return fallbackNull(target, raw)
			}
			return engine.NewTimestamp(wallClockMicros(t))
		}
	case engine.TypeIDTimestampTZ:
		return func(raw interface{}) engine.Value {
			t, ok := raw.(time.Time)
			if !ok {
				return fallbackNull(target, raw)
			}
			// UnixMicro subtracts the zone offset, storing the UTC instant.
			return engine.NewTimestampTZ(t.UnixMicro())
		}
	case engine.TypeIDInterval:
		return func(raw interface{}) engine.Value {
			switch v := raw.(type) {
			case time.Duration:
				days := int32(v / (24 * time.Hour))
				rest := v % (24 * time.Hour)
				return engine.NewInterval(0, days, rest.Microseconds())
			case string:
				if iv, ok := parseIntervalText(v); ok {
					return iv
				}
			}
			return fallbackNull(target, raw)
		}
	}
	return func(raw interface{}) engine.Value {
		return fallbackNull(target, raw)
	}
}

func fallbackNull(target engine.Type, raw interface{}) engine.Value {
	log.Printf("oracle: unexpected driver value %T for %s, setting null", raw, target)
	return engine.NewNull(target)
}

func cellFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// cellInt narrows driver numerics to int64: doubles truncate toward zero.
func cellInt(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case float64:
		return clampInt64(math.Trunc(v)), true
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return clampInt64(math.Trunc(f)), true
		}
	}
	return 0, false
}

func clampInt64(f float64) int64 {
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

func scaleInt(i int64, scale int) int64 {
	for ; scale > 0; scale-- {
		i *= 10
	}
	return i
}

// wallClockMicros reinterprets the driver time's wall-clock components as a
// UTC instant, which is how the engine stores zoneless timestamps.
func wallClockMicros(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC).UnixMicro()
}

// parseIntervalText understands the textual forms go-ora surfaces for
// intervals: "+YY-MM" for YEAR TO MONTH and "+DD HH:MI:SS.FF" for
// DAY TO SECOND, both with optional sign.
func parseIntervalText(s string) (engine.Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return engine.Value{}, false
	}
	sign := int64(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}

	if space := strings.IndexByte(s, ' '); space >= 0 {
		// Day-to-second: "DD HH:MI:SS[.FF]".
		days, err := strconv.ParseInt(s[:space], 10, 32)
		if err != nil {
			return engine.Value{}, false
		}
		clock := s[space+1:]
		parts := strings.Split(clock, ":")
		if len(parts) != 3 {
			return engine.Value{}, false
		}
		hours, err1 := strconv.ParseInt(parts[0], 10, 64)
		minutes, err2 := strconv.ParseInt(parts[1], 10, 64)
		secParts := strings.SplitN(parts[2], ".", 2)
		seconds, err3 := strconv.ParseInt(secParts[0], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return engine.Value{}, false
		}
		var fracMicros int64
		if len(secParts) == 2 {
			frac := secParts[1]
			if len(frac) > 6 {
				frac = frac[:6]
			}
			for len(frac) < 6 {
				frac += "0"
			}
			f, err := strconv.ParseInt(frac, 10, 64)
			if err != nil {
				return engine.Value{}, false
			}
			fracMicros = f
		}
		micros := hours*3600000000 + minutes*60000000 + seconds*1000000 + fracMicros
		return engine.NewInterval(0, int32(sign*days), sign*micros), true
	}

	// Year-to-month: "YY-MM".
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return engine.Value{}, false
	}
	years, err1 := strconv.ParseInt(parts[0], 10, 32)
	months, err2 := strconv.ParseInt(parts[1], 10, 32)
	if err1 != nil || err2 != nil {
		return engine.Value{}, false
	}
	return engine.NewInterval(int32(sign*(years*12+months)), 0, 0), true
}
