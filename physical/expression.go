package physical

import (
	"github.com/fennelq/oraclescan/engine"
)

// Expression is the filter expression tree handed to a datasource for
// pushdown. Exactly one of the variant pointers matching ExpressionType is
// non-nil; any other ExpressionType value means the node class is opaque to
// the connector and must stay in the engine.
type Expression struct {
	ExpressionType ExpressionType

	Comparison  *Comparison
	Conjunction *Conjunction
	Function    *Function
	Constant    *Constant
	ColumnRef   *ColumnRef
}

type ExpressionType int

const (
	ExpressionTypeComparison ExpressionType = iota
	ExpressionTypeConjunction
	ExpressionTypeFunction
	ExpressionTypeConstant
	ExpressionTypeColumnRef
	ExpressionTypeOther
)

type ComparisonOp int

const (
	ComparisonEqual ComparisonOp = iota
	ComparisonNotEqual
	ComparisonLessThan
	ComparisonGreaterThan
	ComparisonLessThanOrEqual
	ComparisonGreaterThanOrEqual
	// ComparisonOther stands in for comparison classes the connector cannot
	// translate (DISTINCT FROM and friends).
	ComparisonOther
)

type Comparison struct {
	Op    ComparisonOp
	Left  Expression
	Right Expression
}

type ConjunctionOp int

const (
	ConjunctionAnd ConjunctionOp = iota
	ConjunctionOr
)

type Conjunction struct {
	Op       ConjunctionOp
	Children []Expression
}

type Function struct {
	Name      string
	Arguments []Expression
}

type Constant struct {
	Value engine.Value
}

// ColumnRef references a position in the scanned table's full column list.
type ColumnRef struct {
	Index int
}

func NewComparison(op ComparisonOp, left, right Expression) Expression {
	return Expression{
		ExpressionType: ExpressionTypeComparison,
		Comparison:     &Comparison{Op: op, Left: left, Right: right},
	}
}

func NewConjunction(op ConjunctionOp, children ...Expression) Expression {
	return Expression{
		ExpressionType: ExpressionTypeConjunction,
		Conjunction:    &Conjunction{Op: op, Children: children},
	}
}

func NewFunction(name string, args ...Expression) Expression {
	return Expression{
		ExpressionType: ExpressionTypeFunction,
		Function:       &Function{Name: name, Arguments: args},
	}
}

func NewConstant(value engine.Value) Expression {
	return Expression{
		ExpressionType: ExpressionTypeConstant,
		Constant:       &Constant{Value: value},
	}
}

func NewColumnRef(index int) Expression {
	return Expression{
		ExpressionType: ExpressionTypeColumnRef,
		ColumnRef:      &ColumnRef{Index: index},
	}
}
