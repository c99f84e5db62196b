package builtins

import (
	"bytes"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCatStdin(t *testing.T) {
	c := qt.New(t)
	var out bytes.Buffer
	rt := Runtime{Stdin: strings.NewReader("hello"), Stdout: &out}
	status := Cat(rt, nil)
	c.Check(status, qt.Equals, 0)
	c.Check(out.String(), qt.Equals, "hello")
}

func TestSortLines(t *testing.T) {
	c := qt.New(t)
	var out bytes.Buffer
	rt := Runtime{Stdin: strings.NewReader("banana\napple\ncherry\n"), Stdout: &out}
	Sort(rt, nil)
	c.Check(out.String(), qt.Equals, "apple\nbanana\ncherry\n")
}

func TestWc(t *testing.T) {
	c := qt.New(t)
	var out bytes.Buffer
	rt := Runtime{Stdin: strings.NewReader("a b\nc\n"), Stdout: &out}
	Wc(rt, nil)
	c.Check(strings.Fields(out.String())[0], qt.Equals, "2")
}
