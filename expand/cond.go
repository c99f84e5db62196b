package expand

import (
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"

	"github.com/sandboxsh/vsh/pattern"
	"github.com/sandboxsh/vsh/syntax"
)

// StatFS is the narrow filesystem surface the conditional evaluator
// needs for file-attribute unary tests.
type StatFS interface {
	Stat(name string) (fs.FileInfo, error)
}

// EvalTest evaluates a [[ ]] conditional expression tree to a
// boolean, setting BASH_REMATCH in Env as a side effect of a
// successful =~ match, matching bash's documented behavior.
func (c *Config) EvalTest(x syntax.TestExpr, statFS StatFS) (bool, error) {
	switch n := x.(type) {
	case *syntax.TestWord:
		s, err := c.Literal(n.W)
		if err != nil {
			return false, err
		}
		return s != "", nil
	case *syntax.TestNot:
		v, err := c.EvalTest(n.X, statFS)
		if err != nil {
			return false, err
		}
		return !v, nil
	case *syntax.TestGroup:
		return c.EvalTest(n.X, statFS)
	case *syntax.TestAndOr:
		x, err := c.EvalTest(n.X, statFS)
		if err != nil {
			return false, err
		}
		if n.Op == syntax.TestAnd && !x {
			return false, nil
		}
		if n.Op == syntax.TestOr && x {
			return true, nil
		}
		return c.EvalTest(n.Y, statFS)
	case *syntax.TestUnary:
		return c.evalUnaryTest(n, statFS)
	case *syntax.TestBinary:
		return c.evalBinaryTest(n)
	}
	return false, fmt.Errorf("expand: unsupported test node %T", x)
}

func (c *Config) evalUnaryTest(u *syntax.TestUnary, statFS StatFS) (bool, error) {
	s, err := c.Literal(u.X)
	if err != nil {
		return false, err
	}
	switch u.Op {
	case syntax.TestStrEmpty:
		return s == "", nil
	case syntax.TestStrNonEmpty:
		return s != "", nil
	}
	if statFS == nil {
		return false, nil
	}
	info, err := statFS.Stat(s)
	if err != nil {
		return false, nil
	}
	switch u.Op {
	case syntax.TestFileExists:
		return true, nil
	case syntax.TestFileRegular:
		return info.Mode().IsRegular(), nil
	case syntax.TestFileDir:
		return info.IsDir(), nil
	case syntax.TestFileSymlink:
		return info.Mode()&fs.ModeSymlink != 0, nil
	case syntax.TestFileReadable, syntax.TestFileWritable, syntax.TestFileExecutable:
		return true, nil // the virtual filesystem has no permission model beyond existence
	case syntax.TestFileNonEmpty:
		return info.Size() > 0, nil
	}
	return false, nil
}

func (c *Config) evalBinaryTest(b *syntax.TestBinary) (bool, error) {
	lhs, err := c.Literal(b.X)
	if err != nil {
		return false, err
	}
	switch b.Op {
	case syntax.TestStrEq, syntax.TestStrNe:
		rhs, err := c.Literal(b.Y)
		if err != nil {
			return false, err
		}
		reSrc, err := pattern.Regexp(rhs, pattern.EntireString)
		matched := false
		if err == nil {
			if re := mustCompile(reSrc); re != nil {
				matched = re.MatchString(lhs)
			}
		} else {
			matched = lhs == rhs
		}
		if b.Op == syntax.TestStrNe {
			return !matched, nil
		}
		return matched, nil
	case syntax.TestStrLt, syntax.TestStrGt:
		rhs, err := c.Literal(b.Y)
		if err != nil {
			return false, err
		}
		if b.Op == syntax.TestStrLt {
			return lhs < rhs, nil
		}
		return lhs > rhs, nil
	case syntax.TestRegexMatch:
		rhs, err := c.Literal(b.Y)
		if err != nil {
			return false, err
		}
		re, err := regexp.Compile(rhs)
		if err != nil {
			return false, nil
		}
		m := re.FindStringSubmatch(lhs)
		if m == nil {
			return false, nil
		}
		c.setRematch(m)
		return true, nil
	default:
		rhs, err := c.Literal(b.Y)
		if err != nil {
			return false, err
		}
		li, lerr := strconv.ParseInt(strings.TrimSpace(lhs), 0, 64)
		ri, rerr := strconv.ParseInt(strings.TrimSpace(rhs), 0, 64)
		if lerr != nil || rerr != nil {
			return false, fmt.Errorf("expand: integer expression expected")
		}
		switch b.Op {
		case syntax.TestIntEq:
			return li == ri, nil
		case syntax.TestIntNe:
			return li != ri, nil
		case syntax.TestIntLt:
			return li < ri, nil
		case syntax.TestIntLe:
			return li <= ri, nil
		case syntax.TestIntGt:
			return li > ri, nil
		case syntax.TestIntGe:
			return li >= ri, nil
		}
	}
	return false, nil
}

func (c *Config) setRematch(groups []string) {
	arr := make(IndexArray, len(groups))
	for i, g := range groups {
		arr[i] = g
	}
	c.Env.Set("BASH_REMATCH", Variable{Value: arr})
}
