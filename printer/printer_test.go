package printer

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFormatSimpleCommand(t *testing.T) {
	c := qt.New(t)
	out, err := Format("echo   hello   world", Config{})
	c.Assert(err, qt.IsNil)
	c.Check(out, qt.Equals, "echo hello world\n")
}

func TestFormatIfElseIndentation(t *testing.T) {
	c := qt.New(t)
	out, err := Format("if true; then echo a; else echo b; fi", Config{Indent: "  "})
	c.Assert(err, qt.IsNil)
	c.Check(strings.Contains(out, "if true; then\n  echo a\nelse\n  echo b\nfi"), qt.IsTrue)
}

func TestFormatForLoop(t *testing.T) {
	c := qt.New(t)
	out, err := Format("for i in a b c; do echo $i; done", Config{})
	c.Assert(err, qt.IsNil)
	c.Check(strings.HasPrefix(out, "for i in a b c; do\n"), qt.IsTrue)
	c.Check(strings.Contains(out, "\techo $i\n"), qt.IsTrue)
	c.Check(strings.HasSuffix(out, "done\n"), qt.IsTrue)
}

func TestFormatPipelineAndAndOr(t *testing.T) {
	c := qt.New(t)
	out, err := Format("true && echo yes || echo no", Config{})
	c.Assert(err, qt.IsNil)
	c.Check(out, qt.Equals, "true &&\necho yes ||\necho no\n")
}

func TestFormatParamExpansionDefault(t *testing.T) {
	c := qt.New(t)
	out, err := Format("echo ${x:-fallback}", Config{})
	c.Assert(err, qt.IsNil)
	c.Check(out, qt.Equals, "echo ${x:-fallback}\n")
}

func TestFormatInvalidSource(t *testing.T) {
	c := qt.New(t)
	_, err := Format("if true; then", Config{})
	c.Assert(err, qt.Not(qt.IsNil))
}
