package oracle

import (
	"strconv"
	"strings"

	"github.com/fennelq/oraclescan/engine"
	"github.com/fennelq/oraclescan/physical"
)

// ExpressionToSQL translates a filter expression into an Oracle SQL fragment.
// The empty string means "not pushable": the filter stays in the engine.
// Pushed fragments are always parenthesized.
func ExpressionToSQL(expr physical.Expression, columnNames []string) string {
	switch expr.ExpressionType {
	case physical.ExpressionTypeComparison:
		return comparisonToSQL(expr.Comparison, columnNames)
	case physical.ExpressionTypeConjunction:
		return conjunctionToSQL(expr.Conjunction, columnNames)
	case physical.ExpressionTypeFunction:
		return functionToSQL(expr.Function, columnNames)
	case physical.ExpressionTypeConstant:
		return constantToSQL(expr.Constant.Value)
	case physical.ExpressionTypeColumnRef:
		return columnToSQL(expr.ColumnRef, columnNames)
	}
	return ""
}

func columnToSQL(ref *physical.ColumnRef, columnNames []string) string {
	if ref.Index < 0 || ref.Index >= len(columnNames) {
		return ""
	}
	return QuoteIdentifier(columnNames[ref.Index])
}

func constantToSQL(val engine.Value) string {
	if val.IsNull() {
		return "NULL"
	}
	switch val.Type.ID {
	case engine.TypeIDBoolean:
		if val.Boolean {
			return "1"
		}
		return "0"
	case engine.TypeIDTinyint, engine.TypeIDSmallint, engine.TypeIDInteger, engine.TypeIDBigint:
		return strconv.FormatInt(val.Int64, 10)
	case engine.TypeIDFloat, engine.TypeIDDouble:
		return strconv.FormatFloat(val.Float64, 'f', -1, 64)
	case engine.TypeIDVarchar:
		return QuoteLiteral(val.Str)
	case engine.TypeIDDate:
		return "DATE '" + val.Time().Format("2006-01-02") + "'"
	case engine.TypeIDTimestamp:
		// Sub-second precision is dropped from the literal.
		return "TIMESTAMP '" + val.Time().Format("2006-01-02 15:04:05") + "'"
	}
	return ""
}

func comparisonToSQL(cmp *physical.Comparison, columnNames []string) string {
	lhs := ExpressionToSQL(cmp.Left, columnNames)
	rhs := ExpressionToSQL(cmp.Right, columnNames)
	if lhs == "" || rhs == "" {
		return ""
	}

	var op string
	switch cmp.Op {
	case physical.ComparisonEqual:
		op = " = "
	case physical.ComparisonNotEqual:
		op = " <> "
	case physical.ComparisonLessThan:
		op = " < "
	case physical.ComparisonGreaterThan:
		op = " > "
	case physical.ComparisonLessThanOrEqual:
		op = " <= "
	case physical.ComparisonGreaterThanOrEqual:
		op = " >= "
	default:
		return ""
	}
	return "(" + lhs + op + rhs + ")"
}

func conjunctionToSQL(conj *physical.Conjunction, columnNames []string) string {
	var op string
	switch conj.Op {
	case physical.ConjunctionAnd:
		op = " AND "
	case physical.ConjunctionOr:
		op = " OR "
	default:
		return ""
	}

	// Every child must translate, otherwise rows could be lost.
	parts := make([]string, 0, len(conj.Children))
	for _, child := range conj.Children {
		part := ExpressionToSQL(child, columnNames)
		if part == "" {
			return ""
		}
		parts = append(parts, part)
	}
	return "(" + strings.Join(parts, op) + ")"
}

func functionToSQL(fn *physical.Function, columnNames []string) string {
	switch fn.Name {
	case "isnull":
		if len(fn.Arguments) != 1 {
			return ""
		}
		child := ExpressionToSQL(fn.Arguments[0], columnNames)
		if child == "" {
			return ""
		}
		return "(" + child + " IS NULL)"
	case "isnotnull":
		if len(fn.Arguments) != 1 {
			return ""
		}
		child := ExpressionToSQL(fn.Arguments[0], columnNames)
		if child == "" {
			return ""
		}
		return "(" + child + " IS NOT NULL)"
	case "like":
		if len(fn.Arguments) != 2 {
			return ""
		}
		col := ExpressionToSQL(fn.Arguments[0], columnNames)
		pat := ExpressionToSQL(fn.Arguments[1], columnNames)
		if col == "" || pat == "" {
			return ""
		}
		return "(" + col + " LIKE " + pat + ")"
	}
	return ""
}

// PushdownFilters partitions filters: every filter with an Oracle rendering
// is appended to bind.Filters, the rest are returned for the engine to
// evaluate. Pushed filters only further restrict the Oracle result, so
// applying the residual afterwards yields exactly the unpushed semantics.
func PushdownFilters(bind *ScanBindData, columnNames []string, filters []physical.Expression) []physical.Expression {
	var residual []physical.Expression
	for _, filter := range filters {
		sql := ExpressionToSQL(filter, columnNames)
		if sql != "" {
			bind.Filters = append(bind.Filters, sql)
		} else {
			residual = append(residual, filter)
		}
	}
	return residual
}
