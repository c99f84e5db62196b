package printer

import (
	"fmt"

	"github.com/sandboxsh/vsh/syntax"
)

// test renders a [[ ]] conditional expression tree back to source
// text.
func test(x syntax.TestExpr) string {
	if x == nil {
		return ""
	}
	switch v := x.(type) {
	case *syntax.TestWord:
		return wordOrEmpty(v.W)
	case *syntax.TestUnary:
		return unTestOp(v.Op) + " " + wordOrEmpty(v.X)
	case *syntax.TestBinary:
		return fmt.Sprintf("%s %s %s", wordOrEmpty(v.X), binTestOp(v.Op), wordOrEmpty(v.Y))
	case *syntax.TestNot:
		return "! " + test(v.X)
	case *syntax.TestAndOr:
		op := "&&"
		if v.Op == syntax.TestOr {
			op = "||"
		}
		return fmt.Sprintf("%s %s %s", test(v.X), op, test(v.Y))
	case *syntax.TestGroup:
		return "(" + test(v.X) + ")"
	default:
		return ""
	}
}

func unTestOp(op syntax.UnTestOp) string {
	switch op {
	case syntax.TestStrEmpty:
		return "-z"
	case syntax.TestStrNonEmpty:
		return "-n"
	case syntax.TestFileExists:
		return "-e"
	case syntax.TestFileRegular:
		return "-f"
	case syntax.TestFileDir:
		return "-d"
	case syntax.TestFileSymlink:
		return "-L"
	case syntax.TestFileReadable:
		return "-r"
	case syntax.TestFileWritable:
		return "-w"
	case syntax.TestFileExecutable:
		return "-x"
	case syntax.TestFileNonEmpty:
		return "-s"
	default:
		return "?"
	}
}

func binTestOp(op syntax.BinTestOp) string {
	switch op {
	case syntax.TestStrEq:
		return "=="
	case syntax.TestStrNe:
		return "!="
	case syntax.TestStrLt:
		return "<"
	case syntax.TestStrGt:
		return ">"
	case syntax.TestRegexMatch:
		return "=~"
	case syntax.TestIntEq:
		return "-eq"
	case syntax.TestIntNe:
		return "-ne"
	case syntax.TestIntLt:
		return "-lt"
	case syntax.TestIntLe:
		return "-le"
	case syntax.TestIntGt:
		return "-gt"
	case syntax.TestIntGe:
		return "-ge"
	default:
		return "?"
	}
}
