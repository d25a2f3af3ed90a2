package oracle

import (
	"database/sql"
	"strings"
)

// Sentinel scale meaning the dictionary reported no scale (NUMBER with
// unspecified precision/scale).
const ScaleUnspecified = -127

// ColumnInfo describes one Oracle column as reported by ALL_TAB_COLUMNS or
// by a live result set. Immutable once constructed.
type ColumnInfo struct {
	Name       string
	TypeName   string
	Precision  int32
	Scale      int32
	CharLength int32
	Nullable   bool
}

// TableInfo identifies one table or view in a schema.
type TableInfo struct {
	Schema string
	Name   string
	IsView bool
}

// ColumnInfoFromResultType reconstructs column metadata from a result set's
// reported column type. Precision and scale are only available for NUMBER
// columns; drivers that withhold them leave the unspecified sentinels in
// place so the type mapping treats the column as a plain NUMBER.
func ColumnInfoFromResultType(ct *sql.ColumnType) ColumnInfo {
	col := ColumnInfo{
		Name:     ct.Name(),
		TypeName: strings.ToUpper(ct.DatabaseTypeName()),
		Scale:    ScaleUnspecified,
	}
	if nullable, ok := ct.Nullable(); ok {
		col.Nullable = nullable
	} else {
		col.Nullable = true
	}
	if precision, scale, ok := ct.DecimalSize(); ok {
		col.Precision = int32(precision)
		col.Scale = int32(scale)
	}
	if length, ok := ct.Length(); ok {
		col.CharLength = int32(length)
	}
	return col
}
