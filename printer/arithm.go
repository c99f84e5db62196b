package printer

import (
	"fmt"

	"github.com/sandboxsh/vsh/syntax"
)

// arithm renders an arithmetic expression tree back to source text.
func arithm(x syntax.ArithmExpr) string {
	if x == nil {
		return ""
	}
	switch v := x.(type) {
	case *syntax.ArithmNumber:
		return v.Value
	case *syntax.ArithmVar:
		if v.Index != nil {
			return fmt.Sprintf("%s[%s]", v.Name, arithm(v.Index))
		}
		return v.Name
	case *syntax.ArithmBinary:
		return arithm(v.X) + " " + binArithOp(v.Op) + " " + arithm(v.Y)
	case *syntax.ArithmUnary:
		return unArithOp(v.Op, arithm(v.X))
	case *syntax.ArithmTernary:
		return fmt.Sprintf("%s ? %s : %s", arithm(v.Cond), arithm(v.X), arithm(v.Y))
	case *syntax.ArithmAssign:
		return fmt.Sprintf("%s %s %s", arithm(v.Lhs), assignArithOp(v.Op), arithm(v.Rhs))
	case *syntax.ArithmGroup:
		return "(" + arithm(v.X) + ")"
	default:
		return ""
	}
}

func binArithOp(op syntax.BinArithOp) string {
	switch op {
	case syntax.ArithAdd:
		return "+"
	case syntax.ArithSub:
		return "-"
	case syntax.ArithMul:
		return "*"
	case syntax.ArithQuo:
		return "/"
	case syntax.ArithRem:
		return "%"
	case syntax.ArithPow:
		return "**"
	case syntax.ArithAnd:
		return "&"
	case syntax.ArithOr:
		return "|"
	case syntax.ArithXor:
		return "^"
	case syntax.ArithShl:
		return "<<"
	case syntax.ArithShr:
		return ">>"
	case syntax.ArithLand:
		return "&&"
	case syntax.ArithLor:
		return "||"
	case syntax.ArithEql:
		return "=="
	case syntax.ArithNeq:
		return "!="
	case syntax.ArithLss:
		return "<"
	case syntax.ArithGtr:
		return ">"
	case syntax.ArithLeq:
		return "<="
	case syntax.ArithGeq:
		return ">="
	case syntax.ArithComma:
		return ","
	default:
		return "?"
	}
}

func unArithOp(op syntax.UnArithOp, x string) string {
	switch op {
	case syntax.ArithPlus:
		return "+" + x
	case syntax.ArithMinus:
		return "-" + x
	case syntax.ArithNot:
		return "!" + x
	case syntax.ArithBitNot:
		return "~" + x
	case syntax.ArithPreInc:
		return "++" + x
	case syntax.ArithPreDec:
		return "--" + x
	case syntax.ArithPostInc:
		return x + "++"
	case syntax.ArithPostDec:
		return x + "--"
	default:
		return x
	}
}

func assignArithOp(op syntax.AssignArithOp) string {
	switch op {
	case syntax.AssignSet:
		return "="
	case syntax.AssignAdd:
		return "+="
	case syntax.AssignSub:
		return "-="
	case syntax.AssignMul:
		return "*="
	case syntax.AssignQuo:
		return "/="
	case syntax.AssignRem:
		return "%="
	case syntax.AssignAnd:
		return "&="
	case syntax.AssignOr:
		return "|="
	case syntax.AssignXor:
		return "^="
	case syntax.AssignShl:
		return "<<="
	case syntax.AssignShr:
		return ">>="
	default:
		return "="
	}
}
