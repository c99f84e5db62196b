package expand

import (
	"fmt"
	"strconv"

	"github.com/sandboxsh/vsh/syntax"
)

// EvalArithm evaluates an arithmetic expression tree to a signed
// 64-bit integer, applying assignment side effects to Env as it goes
// (bash arithmetic contexts can both read and write variables).
func (c *Config) EvalArithm(x syntax.ArithmExpr) (int64, error) {
	if x == nil {
		return 0, nil
	}
	switch n := x.(type) {
	case *syntax.ArithmNumber:
		return parseArithmNumber(n.Value)
	case *syntax.ArithmVar:
		return c.evalArithmVar(n)
	case *syntax.ArithmGroup:
		return c.EvalArithm(n.X)
	case *syntax.ArithmUnary:
		return c.evalArithmUnary(n)
	case *syntax.ArithmBinary:
		return c.evalArithmBinary(n)
	case *syntax.ArithmTernary:
		cond, err := c.EvalArithm(n.Cond)
		if err != nil {
			return 0, err
		}
		if cond != 0 {
			return c.EvalArithm(n.X)
		}
		return c.EvalArithm(n.Y)
	case *syntax.ArithmAssign:
		return c.evalArithmAssign(n)
	}
	return 0, fmt.Errorf("expand: unsupported arithmetic node %T", x)
}

func parseArithmNumber(s string) (int64, error) {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return strconv.ParseInt(s[2:], 16, 64)
	}
	if len(s) > 1 && s[0] == '0' {
		return strconv.ParseInt(s, 8, 64)
	}
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *Config) evalArithmVar(v *syntax.ArithmVar) (int64, error) {
	name := v.Name
	var idx *syntax.Word
	if v.Index != nil {
		i, err := c.EvalArithm(v.Index)
		if err != nil {
			return 0, err
		}
		idx = litIntWord(i)
	}
	raw, ok := c.rawLookup(name, idx)
	if !ok {
		return 0, nil
	}
	// A variable holding another variable's name recurses, matching
	// bash's "arithmetic evaluates strings as expressions" rule: a
	// non-numeric value is itself looked up as a variable name.
	if n, err := parseArithmNumber(raw); err == nil {
		return n, nil
	}
	if raw == name {
		return 0, nil
	}
	return c.evalArithmVar(&syntax.ArithmVar{Name: raw})
}

func litIntWord(v int64) *syntax.Word {
	s := strconv.FormatInt(v, 10)
	return &syntax.Word{Parts: []syntax.WordPart{&syntax.Literal{Value: s}}}
}

func (c *Config) evalArithmUnary(u *syntax.ArithmUnary) (int64, error) {
	switch u.Op {
	case syntax.ArithPreInc, syntax.ArithPreDec, syntax.ArithPostInc, syntax.ArithPostDec:
		v, ok := u.X.(*syntax.ArithmVar)
		if !ok {
			return 0, fmt.Errorf("expand: ++/-- requires a variable operand")
		}
		cur, err := c.evalArithmVar(v)
		if err != nil {
			return 0, err
		}
		delta := int64(1)
		if u.Op == syntax.ArithPreDec || u.Op == syntax.ArithPostDec {
			delta = -1
		}
		next := cur + delta
		c.assignScalar(v.Name, strconv.FormatInt(next, 10))
		if u.Op == syntax.ArithPreInc || u.Op == syntax.ArithPreDec {
			return next, nil
		}
		return cur, nil
	}
	x, err := c.EvalArithm(u.X)
	if err != nil {
		return 0, err
	}
	switch u.Op {
	case syntax.ArithPlus:
		return x, nil
	case syntax.ArithMinus:
		return -x, nil
	case syntax.ArithNot:
		if x == 0 {
			return 1, nil
		}
		return 0, nil
	case syntax.ArithBitNot:
		return ^x, nil
	}
	return 0, fmt.Errorf("expand: unsupported unary arithmetic operator")
}

func (c *Config) evalArithmBinary(b *syntax.ArithmBinary) (int64, error) {
	if b.Op == syntax.ArithLand || b.Op == syntax.ArithLor {
		x, err := c.EvalArithm(b.X)
		if err != nil {
			return 0, err
		}
		if b.Op == syntax.ArithLand && x == 0 {
			return 0, nil
		}
		if b.Op == syntax.ArithLor && x != 0 {
			return 1, nil
		}
		y, err := c.EvalArithm(b.Y)
		if err != nil {
			return 0, err
		}
		if y != 0 {
			return 1, nil
		}
		return 0, nil
	}
	x, err := c.EvalArithm(b.X)
	if err != nil {
		return 0, err
	}
	y, err := c.EvalArithm(b.Y)
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case syntax.ArithAdd:
		return x + y, nil
	case syntax.ArithSub:
		return x - y, nil
	case syntax.ArithMul:
		return x * y, nil
	case syntax.ArithQuo:
		if y == 0 {
			return 0, fmt.Errorf("expand: division by zero")
		}
		return x / y, nil
	case syntax.ArithRem:
		if y == 0 {
			return 0, fmt.Errorf("expand: division by zero")
		}
		return x % y, nil
	case syntax.ArithPow:
		return ipow(x, y), nil
	case syntax.ArithAnd:
		return x & y, nil
	case syntax.ArithOr:
		return x | y, nil
	case syntax.ArithXor:
		return x ^ y, nil
	case syntax.ArithShl:
		return x << uint(y), nil
	case syntax.ArithShr:
		return x >> uint(y), nil
	case syntax.ArithEql:
		return boolInt(x == y), nil
	case syntax.ArithNeq:
		return boolInt(x != y), nil
	case syntax.ArithLss:
		return boolInt(x < y), nil
	case syntax.ArithGtr:
		return boolInt(x > y), nil
	case syntax.ArithLeq:
		return boolInt(x <= y), nil
	case syntax.ArithGeq:
		return boolInt(x >= y), nil
	case syntax.ArithComma:
		return y, nil
	}
	return 0, fmt.Errorf("expand: unsupported binary arithmetic operator")
}

func ipow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	var result int64 = 1
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (c *Config) evalArithmAssign(a *syntax.ArithmAssign) (int64, error) {
	rhs, err := c.EvalArithm(a.Rhs)
	if err != nil {
		return 0, err
	}
	next := rhs
	if a.Op != syntax.AssignSet {
		cur, err := c.evalArithmVar(a.Lhs)
		if err != nil {
			return 0, err
		}
		switch a.Op {
		case syntax.AssignAdd:
			next = cur + rhs
		case syntax.AssignSub:
			next = cur - rhs
		case syntax.AssignMul:
			next = cur * rhs
		case syntax.AssignQuo:
			next = cur / rhs
		case syntax.AssignRem:
			next = cur % rhs
		case syntax.AssignAnd:
			next = cur & rhs
		case syntax.AssignOr:
			next = cur | rhs
		case syntax.AssignXor:
			next = cur ^ rhs
		case syntax.AssignShl:
			next = cur << uint(rhs)
		case syntax.AssignShr:
			next = cur >> uint(rhs)
		}
	}
	c.assignScalar(a.Lhs.Name, strconv.FormatInt(next, 10))
	return next, nil
}

func (c *Config) assignScalar(name, value string) {
	v, _ := c.Env.Get(name)
	v.Value = StringVal(value)
	c.Env.Set(name, v)
}
