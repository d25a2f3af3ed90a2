package oracle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fennelq/oraclescan/engine"
	"github.com/fennelq/oraclescan/physical"
)

var employeeNames = []string{"EMP_ID", "NAME"}

func TestExpressionToSQL(t *testing.T) {
	tests := []struct {
		name string
		expr physical.Expression
		want string
	}{
		{
			name: "equality on a column",
			expr: physical.NewComparison(physical.ComparisonEqual,
				physical.NewColumnRef(0),
				physical.NewConstant(engine.NewInteger(42))),
			want: `("EMP_ID" = 42)`,
		},
		{
			name: "like",
			expr: physical.NewFunction("like",
				physical.NewColumnRef(1),
				physical.NewConstant(engine.NewVarchar("A%"))),
			want: `("NAME" LIKE 'A%')`,
		},
		{
			name: "is null",
			expr: physical.NewFunction("isnull", physical.NewColumnRef(1)),
			want: `("NAME" IS NULL)`,
		},
		{
			name: "is not null",
			expr: physical.NewFunction("isnotnull", physical.NewColumnRef(0)),
			want: `("EMP_ID" IS NOT NULL)`,
		},
		{
			name: "unsupported function",
			expr: physical.NewFunction("lower", physical.NewColumnRef(1)),
			want: "",
		},
		{
			name: "quote doubling in string literal",
			expr: physical.NewComparison(physical.ComparisonEqual,
				physical.NewColumnRef(1),
				physical.NewConstant(engine.NewVarchar("O'Brien"))),
			want: `("NAME" = 'O''Brien')`,
		},
		{
			name: "boolean constants render as digits",
			expr: physical.NewComparison(physical.ComparisonNotEqual,
				physical.NewColumnRef(0),
				physical.NewConstant(engine.NewBoolean(true))),
			want: `("EMP_ID" <> 1)`,
		},
		{
			name: "null literal",
			expr: physical.NewComparison(physical.ComparisonEqual,
				physical.NewColumnRef(0),
				physical.NewConstant(engine.NewNull(engine.Integer))),
			want: `("EMP_ID" = NULL)`,
		},
		{
			name: "date literal",
			expr: physical.NewComparison(physical.ComparisonGreaterThan,
				physical.NewColumnRef(0),
				physical.NewConstant(engine.NewDate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))),
			want: `("EMP_ID" > DATE '2024-01-15')`,
		},
		{
			name: "timestamp literal drops sub-second",
			expr: physical.NewComparison(physical.ComparisonLessThanOrEqual,
				physical.NewColumnRef(0),
				physical.NewConstant(engine.NewTimestamp(
					time.Date(2024, 1, 15, 10, 30, 5, 123456000, time.UTC).UnixMicro()))),
			want: `("EMP_ID" <= TIMESTAMP '2024-01-15 10:30:05')`,
		},
		{
			name: "column index out of range",
			expr: physical.NewComparison(physical.ComparisonEqual,
				physical.NewColumnRef(5),
				physical.NewConstant(engine.NewInteger(1))),
			want: "",
		},
		{
			name: "conjunction of pushable children",
			expr: physical.NewConjunction(physical.ConjunctionAnd,
				physical.NewComparison(physical.ComparisonGreaterThanOrEqual,
					physical.NewColumnRef(0), physical.NewConstant(engine.NewInteger(1))),
				physical.NewComparison(physical.ComparisonLessThan,
					physical.NewColumnRef(0), physical.NewConstant(engine.NewInteger(100)))),
			want: `(("EMP_ID" >= 1) AND ("EMP_ID" < 100))`,
		},
		{
			name: "disjunction",
			expr: physical.NewConjunction(physical.ConjunctionOr,
				physical.NewFunction("isnull", physical.NewColumnRef(1)),
				physical.NewComparison(physical.ComparisonEqual,
					physical.NewColumnRef(1), physical.NewConstant(engine.NewVarchar("X")))),
			want: `(("NAME" IS NULL) OR ("NAME" = 'X'))`,
		},
		{
			name: "conjunction with one unpushable child is rejected whole",
			expr: physical.NewConjunction(physical.ConjunctionAnd,
				physical.NewComparison(physical.ComparisonEqual,
					physical.NewColumnRef(0), physical.NewConstant(engine.NewInteger(42))),
				physical.NewFunction("lower", physical.NewColumnRef(1))),
			want: "",
		},
		{
			name: "unknown expression class",
			expr: physical.Expression{ExpressionType: physical.ExpressionTypeOther},
			want: "",
		},
		{
			name: "unsupported comparison class",
			expr: physical.NewComparison(physical.ComparisonOther,
				physical.NewColumnRef(0),
				physical.NewConstant(engine.NewInteger(1))),
			want: "",
		},
		{
			name: "blob constant is not renderable",
			expr: physical.NewComparison(physical.ComparisonEqual,
				physical.NewColumnRef(0),
				physical.NewConstant(engine.NewBlob([]byte{1, 2}))),
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpressionToSQL(tt.expr, employeeNames); got != tt.want {
				t.Errorf("ExpressionToSQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPushdownFiltersPartitioning(t *testing.T) {
	equality := physical.NewComparison(physical.ComparisonEqual,
		physical.NewColumnRef(0), physical.NewConstant(engine.NewInteger(42)))
	like := physical.NewFunction("like",
		physical.NewColumnRef(1), physical.NewConstant(engine.NewVarchar("A%")))
	lower := physical.NewComparison(physical.ComparisonEqual,
		physical.NewFunction("lower", physical.NewColumnRef(1)),
		physical.NewConstant(engine.NewVarchar("x")))

	t.Run("all filters push", func(t *testing.T) {
		bind := employeeBind()
		residual := PushdownFilters(bind, employeeNames, []physical.Expression{equality, like})
		assert.Empty(t, residual)
		assert.Equal(t, []string{`("EMP_ID" = 42)`, `("NAME" LIKE 'A%')`}, bind.Filters)
		assert.Equal(t,
			`SELECT * FROM "HR"."EMPLOYEES" WHERE ("EMP_ID" = 42) AND ("NAME" LIKE 'A%')`,
			bind.BuildSelectQuery())
	})

	t.Run("partial pushdown leaves residual", func(t *testing.T) {
		bind := employeeBind()
		residual := PushdownFilters(bind, employeeNames, []physical.Expression{equality, lower})
		assert.Len(t, residual, 1)
		assert.Equal(t, []string{`("EMP_ID" = 42)`}, bind.Filters)
		assert.Equal(t,
			`SELECT * FROM "HR"."EMPLOYEES" WHERE ("EMP_ID" = 42)`,
			bind.BuildSelectQuery())
	})
}

func TestQuoteHelpers(t *testing.T) {
	assert.Equal(t, `"X"`, QuoteIdentifier("X"))
	assert.Equal(t, `"HR"."EMPLOYEES"`, QuoteQualified("HR", "EMPLOYEES"))
	assert.Equal(t, `'it''s'`, QuoteLiteral("it's"))
}
