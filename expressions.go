package tsql

import (
	"github.com/zoobzio/tsql/internal/types"
)

func compare(op string, o types.Operator, l, r any) (types.Comparison, error) {
	le, err := toExpr(op, l)
	if err != nil {
		return types.Comparison{}, err
	}
	re, err := toExpr(op, r)
	if err != nil {
		return types.Comparison{}, err
	}
	if !types.Comparable(le.DataType(), re.DataType()) {
		return types.Comparison{}, types.Rejectf(op, "cannot compare %s with %s", le.DataType(), re.DataType())
	}
	return types.Comparison{Op: o, L: le, R: re}, nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// TryEq creates an equality comparison (l = r).
func TryEq(l, r any) (types.Comparison, error) { return compare("eq()", types.EQ, l, r) }

// Eq creates an equality comparison (l = r).
func Eq(l, r any) types.Comparison { return must(TryEq(l, r)) }

// TryNe creates a not-equal comparison (l <> r).
func TryNe(l, r any) (types.Comparison, error) { return compare("ne()", types.NE, l, r) }

// Ne creates a not-equal comparison (l <> r).
func Ne(l, r any) types.Comparison { return must(TryNe(l, r)) }

// TryLt creates a less-than comparison.
func TryLt(l, r any) (types.Comparison, error) { return compare("lt()", types.LT, l, r) }

// Lt creates a less-than comparison.
func Lt(l, r any) types.Comparison { return must(TryLt(l, r)) }

// TryLe creates a less-or-equal comparison.
func TryLe(l, r any) (types.Comparison, error) { return compare("le()", types.LE, l, r) }

// Le creates a less-or-equal comparison.
func Le(l, r any) types.Comparison { return must(TryLe(l, r)) }

// TryGt creates a greater-than comparison.
func TryGt(l, r any) (types.Comparison, error) { return compare("gt()", types.GT, l, r) }

// Gt creates a greater-than comparison.
func Gt(l, r any) types.Comparison { return must(TryGt(l, r)) }

// TryGe creates a greater-or-equal comparison.
func TryGe(l, r any) (types.Comparison, error) { return compare("ge()", types.GE, l, r) }

// Ge creates a greater-or-equal comparison.
func Ge(l, r any) types.Comparison { return must(TryGe(l, r)) }

// TryLike creates a pattern match. Both operands must be text.
func TryLike(l, pattern any) (types.Comparison, error) {
	c, err := compare("like()", types.LIKE, l, pattern)
	if err != nil {
		return c, err
	}
	if !c.L.DataType().IsText() || !c.R.DataType().IsText() {
		return types.Comparison{}, types.Rejectf("like()", "requires text operands, got %s and %s", c.L.DataType(), c.R.DataType())
	}
	return c, nil
}

// Like creates a pattern match.
func Like(l, pattern any) types.Comparison { return must(TryLike(l, pattern)) }

func nullTest(op string, o types.Operator, x any) (types.Comparison, error) {
	e, err := toExpr(op, x)
	if err != nil {
		return types.Comparison{}, err
	}
	return types.Comparison{Op: o, L: e}, nil
}

// TryIsNull creates x IS NULL.
func TryIsNull(x any) (types.Comparison, error) { return nullTest("is_null()", types.IsNull, x) }

// IsNull creates x IS NULL.
func IsNull(x any) types.Comparison { return must(TryIsNull(x)) }

// TryIsNotNull creates x IS NOT NULL.
func TryIsNotNull(x any) (types.Comparison, error) {
	return nullTest("is_not_null()", types.IsNotNull, x)
}

// IsNotNull creates x IS NOT NULL.
func IsNotNull(x any) types.Comparison { return must(TryIsNotNull(x)) }

// TryIsDistinctFrom creates a null-safe inequality.
func TryIsDistinctFrom(l, r any) (types.Comparison, error) {
	return compare("is_distinct_from()", types.IsDistinctFrom, l, r)
}

// IsDistinctFrom creates a null-safe inequality.
func IsDistinctFrom(l, r any) types.Comparison { return must(TryIsDistinctFrom(l, r)) }

// TryIsNotDistinctFrom creates a null-safe equality.
func TryIsNotDistinctFrom(l, r any) (types.Comparison, error) {
	return compare("is_not_distinct_from()", types.IsNotDistinctFrom, l, r)
}

// IsNotDistinctFrom creates a null-safe equality.
func IsNotDistinctFrom(l, r any) types.Comparison { return must(TryIsNotDistinctFrom(l, r)) }

func inList(op string, not bool, x any, list []any) (types.InList, error) {
	e, err := toExpr(op, x)
	if err != nil {
		return types.InList{}, err
	}
	items, err := toExprs(op, list)
	if err != nil {
		return types.InList{}, err
	}
	for _, item := range items {
		if !types.Comparable(e.DataType(), item.DataType()) {
			return types.InList{}, types.Rejectf(op, "cannot compare %s with %s", e.DataType(), item.DataType())
		}
	}
	return types.InList{X: e, List: items, Not: not}, nil
}

// TryIn creates x IN (list...). A single select builder becomes x IN (subquery).
func TryIn(x any, list ...any) (types.InList, error) { return inList("in()", false, x, list) }

// In creates x IN (list...).
func In(x any, list ...any) types.InList { return must(TryIn(x, list...)) }

// TryNotIn creates x NOT IN (list...).
func TryNotIn(x any, list ...any) (types.InList, error) { return inList("not_in()", true, x, list) }

// NotIn creates x NOT IN (list...).
func NotIn(x any, list ...any) types.InList { return must(TryNotIn(x, list...)) }

func between(op string, not bool, x, low, high any) (types.Between, error) {
	lo, err := compare(op, types.GE, x, low)
	if err != nil {
		return types.Between{}, err
	}
	hi, err := toExpr(op, high)
	if err != nil {
		return types.Between{}, err
	}
	if !types.Comparable(lo.L.DataType(), hi.DataType()) {
		return types.Between{}, types.Rejectf(op, "cannot compare %s with %s", lo.L.DataType(), hi.DataType())
	}
	return types.Between{X: lo.L, Low: lo.R, High: hi, Not: not}, nil
}

// TryBetween creates x BETWEEN low AND high.
func TryBetween(x, low, high any) (types.Between, error) {
	return between("between()", false, x, low, high)
}

// Between creates x BETWEEN low AND high.
func Between(x, low, high any) types.Between { return must(TryBetween(x, low, high)) }

// TryNotBetween creates x NOT BETWEEN low AND high.
func TryNotBetween(x, low, high any) (types.Between, error) {
	return between("not_between()", true, x, low, high)
}

// NotBetween creates x NOT BETWEEN low AND high.
func NotBetween(x, low, high any) types.Between { return must(TryNotBetween(x, low, high)) }

func boolean(op string, x any) (types.Expr, error) {
	e, err := toExpr(op, x)
	if err != nil {
		return nil, err
	}
	if !e.DataType().IsBoolean() {
		return nil, types.Rejectf(op, "requires a boolean operand, got %s", e.DataType())
	}
	return e, nil
}

func logical(op string, o types.Operator, l, r any) (types.Logical, error) {
	le, err := boolean(op, l)
	if err != nil {
		return types.Logical{}, err
	}
	if types.IsDynamic(le) {
		return types.Logical{}, types.Rejectf(op, "left operand must not be dynamic")
	}
	re, err := boolean(op, r)
	if err != nil {
		return types.Logical{}, err
	}
	return types.Logical{Op: o, L: le, R: re}, nil
}

// TryAnd creates l AND r. r may be dynamic.
func TryAnd(l, r any) (types.Logical, error) { return logical("and()", types.AND, l, r) }

// And creates l AND r.
func And(l, r any) types.Logical { return must(TryAnd(l, r)) }

// TryOr creates l OR r. r may be dynamic.
func TryOr(l, r any) (types.Logical, error) { return logical("or()", types.OR, l, r) }

// Or creates l OR r.
func Or(l, r any) types.Logical { return must(TryOr(l, r)) }

// AndAll folds conditions with AND. Later conditions may be dynamic.
func AndAll(first any, rest ...any) (types.Expr, error) {
	acc, err := boolean("and()", first)
	if err != nil {
		return nil, err
	}
	for _, r := range rest {
		l, err := TryAnd(acc, r)
		if err != nil {
			return nil, err
		}
		acc = l
	}
	return acc, nil
}

// TryNot creates NOT x.
func TryNot(x any) (types.Not, error) {
	e, err := boolean("not()", x)
	if err != nil {
		return types.Not{}, err
	}
	return types.Not{X: e}, nil
}

// Not creates NOT x.
func Not(x any) types.Not { return must(TryNot(x)) }

func arithmetic(op string, o types.Operator, l, r any) (types.Arithmetic, error) {
	le, err := toExpr(op, l)
	if err != nil {
		return types.Arithmetic{}, err
	}
	re, err := toExpr(op, r)
	if err != nil {
		return types.Arithmetic{}, err
	}
	lt, rt := le.DataType(), re.DataType()
	if o == types.Concat {
		if !lt.IsText() || !rt.IsText() {
			return types.Arithmetic{}, types.Rejectf(op, "requires text operands, got %s and %s", lt, rt)
		}
	} else if !lt.IsNumeric() || !rt.IsNumeric() {
		return types.Arithmetic{}, types.Rejectf(op, "requires numeric operands, got %s and %s", lt, rt)
	}
	return types.Arithmetic{Op: o, L: le, R: re}, nil
}

// TryAdd creates l + r.
func TryAdd(l, r any) (types.Arithmetic, error) { return arithmetic("add()", types.Plus, l, r) }

// Add creates l + r.
func Add(l, r any) types.Arithmetic { return must(TryAdd(l, r)) }

// TrySub creates l - r.
func TrySub(l, r any) (types.Arithmetic, error) { return arithmetic("sub()", types.Minus, l, r) }

// Sub creates l - r.
func Sub(l, r any) types.Arithmetic { return must(TrySub(l, r)) }

// TryMul creates l * r.
func TryMul(l, r any) (types.Arithmetic, error) { return arithmetic("mul()", types.Multiply, l, r) }

// Mul creates l * r.
func Mul(l, r any) types.Arithmetic { return must(TryMul(l, r)) }

// TryDiv creates l / r.
func TryDiv(l, r any) (types.Arithmetic, error) { return arithmetic("div()", types.Divide, l, r) }

// Div creates l / r.
func Div(l, r any) types.Arithmetic { return must(TryDiv(l, r)) }

// TryMod creates l % r.
func TryMod(l, r any) (types.Arithmetic, error) { return arithmetic("mod()", types.Modulus, l, r) }

// Mod creates l % r.
func Mod(l, r any) types.Arithmetic { return must(TryMod(l, r)) }

// TryConcat concatenates two text values.
func TryConcat(l, r any) (types.Arithmetic, error) {
	return arithmetic("concat()", types.Concat, l, r)
}

// Concat concatenates two text values.
func Concat(l, r any) types.Arithmetic { return must(TryConcat(l, r)) }

// TryNeg creates -x.
func TryNeg(x any) (types.Negate, error) {
	e, err := toExpr("neg()", x)
	if err != nil {
		return types.Negate{}, err
	}
	if !e.DataType().IsNumeric() {
		return types.Negate{}, types.Rejectf("neg()", "requires a numeric operand, got %s", e.DataType())
	}
	return types.Negate{X: e}, nil
}

// Neg creates -x.
func Neg(x any) types.Negate { return must(TryNeg(x)) }

func bitwise(op string, o types.Operator, l, r any) (types.Bitwise, error) {
	le, err := toExpr(op, l)
	if err != nil {
		return types.Bitwise{}, err
	}
	re, err := toExpr(op, r)
	if err != nil {
		return types.Bitwise{}, err
	}
	if !le.DataType().IsIntegral() || !re.DataType().IsIntegral() {
		return types.Bitwise{}, types.Rejectf(op, "requires integral operands, got %s and %s", le.DataType(), re.DataType())
	}
	return types.Bitwise{Op: o, L: le, R: re}, nil
}

// TryBitAnd creates l & r.
func TryBitAnd(l, r any) (types.Bitwise, error) { return bitwise("bit_and()", types.BitAnd, l, r) }

// BitAnd creates l & r.
func BitAnd(l, r any) types.Bitwise { return must(TryBitAnd(l, r)) }

// TryBitOr creates l | r.
func TryBitOr(l, r any) (types.Bitwise, error) { return bitwise("bit_or()", types.BitOr, l, r) }

// BitOr creates l | r.
func BitOr(l, r any) types.Bitwise { return must(TryBitOr(l, r)) }

// TryBitXor creates an exclusive or.
func TryBitXor(l, r any) (types.Bitwise, error) { return bitwise("bit_xor()", types.BitXor, l, r) }

// BitXor creates an exclusive or.
func BitXor(l, r any) types.Bitwise { return must(TryBitXor(l, r)) }

// TryShiftLeft creates l << r.
func TryShiftLeft(l, r any) (types.Bitwise, error) {
	return bitwise("shift_left()", types.ShiftLeft, l, r)
}

// ShiftLeft creates l << r.
func ShiftLeft(l, r any) types.Bitwise { return must(TryShiftLeft(l, r)) }

// TryShiftRight creates l >> r.
func TryShiftRight(l, r any) (types.Bitwise, error) {
	return bitwise("shift_right()", types.ShiftRight, l, r)
}

// ShiftRight creates l >> r.
func ShiftRight(l, r any) types.Bitwise { return must(TryShiftRight(l, r)) }

// TryBitNot creates ~x.
func TryBitNot(x any) (types.BitNot, error) {
	e, err := toExpr("bit_not()", x)
	if err != nil {
		return types.BitNot{}, err
	}
	if !e.DataType().IsIntegral() {
		return types.BitNot{}, types.Rejectf("bit_not()", "requires an integral operand, got %s", e.DataType())
	}
	return types.BitNot{X: e}, nil
}

// BitNot creates ~x.
func BitNot(x any) types.BitNot { return must(TryBitNot(x)) }
