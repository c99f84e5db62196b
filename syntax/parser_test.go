package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// cmpOpts ignores position fields throughout the AST so tests can
// compare structure and values without pinning exact byte offsets.
var cmpOpts = []cmp.Option{
	cmpopts.IgnoreFields(Literal{}, "LitPos"),
	cmpopts.IgnoreFields(SingleQuoted{}, "QuotePos"),
	cmpopts.IgnoreFields(DoubleQuoted{}, "QuotePos"),
	cmpopts.IgnoreFields(Word{}, "WordPos"),
	cmpopts.IgnoreFields(SimpleCommand{}, "SimplePos"),
	cmpopts.IgnoreFields(Statement{}, "StmtPos"),
	cmpopts.IgnoreFields(Pipeline{}, "PipePos"),
	cmpopts.IgnoreFields(Command{}, "CmdPos"),
	cmpopts.IgnoreFields(Assignment{}, "AssignPos"),
	cmpopts.IgnoreFields(ParameterExpansion{}, "ExpPos"),
	cmpopts.IgnoreFields(If{}, "IfPos"),
	cmpopts.IgnoreFields(For{}, "ForPos"),
	cmpopts.IgnoreFields(While{}, "WhilePos"),
}

func parseOne(t *testing.T, src string) *Statement {
	t.Helper()
	f, err := Parse([]byte(src), "<test>")
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	if len(f.Stmts) != 1 {
		t.Fatalf("Parse(%q): got %d statements, want 1", src, len(f.Stmts))
	}
	return f.Stmts[0]
}

func simpleCmd(s *Statement) *SimpleCommand {
	return s.Pipelines[0].Commands[0].Body.(*SimpleCommand)
}

func TestParseSimpleCommand(t *testing.T) {
	s := parseOne(t, "echo hello world")
	sc := simpleCmd(s)
	got := []string{}
	if name, ok := sc.Name.Lit(); ok {
		got = append(got, name)
	}
	for _, a := range sc.Args {
		lit, _ := a.Lit()
		got = append(got, lit)
	}
	want := []string{"echo", "hello", "world"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAssignment(t *testing.T) {
	s := parseOne(t, "x=foo")
	sc := simpleCmd(s)
	if len(sc.Assigns) != 1 {
		t.Fatalf("got %d assignments, want 1", len(sc.Assigns))
	}
	a := sc.Assigns[0]
	if a.Name != "x" {
		t.Errorf("assignment name = %q, want x", a.Name)
	}
	lit, _ := a.Value.Lit()
	if lit != "foo" {
		t.Errorf("assignment value = %q, want foo", lit)
	}
}

func TestParseAndOrChain(t *testing.T) {
	s := parseOne(t, "true && echo a || echo b")
	if len(s.Pipelines) != 3 {
		t.Fatalf("got %d pipelines, want 3", len(s.Pipelines))
	}
	want := []LogicalOp{OpAnd, OpOr}
	if diff := cmp.Diff(want, s.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIfElse(t *testing.T) {
	s := parseOne(t, "if true; then echo yes; else echo no; fi")
	c, ok := s.Pipelines[0].Commands[0].Body.(*If)
	if !ok {
		t.Fatalf("body type = %T, want *If", s.Pipelines[0].Commands[0].Body)
	}
	if len(c.Then) != 1 || len(c.Else) != 1 {
		t.Fatalf("then/else statement counts = %d/%d, want 1/1", len(c.Then), len(c.Else))
	}
}

func TestParseForLoop(t *testing.T) {
	s := parseOne(t, "for i in a b c; do echo $i; done")
	f, ok := s.Pipelines[0].Commands[0].Body.(*For)
	if !ok {
		t.Fatalf("body type = %T, want *For", s.Pipelines[0].Commands[0].Body)
	}
	if f.Var != "i" || !f.HasIn || len(f.Words) != 3 {
		t.Fatalf("unexpected For: %+v", f)
	}
}

func TestParseParamDefaultOperator(t *testing.T) {
	s := parseOne(t, "echo ${x:-fallback}")
	sc := simpleCmd(s)
	pe, ok := sc.Args[0].Parts[0].(*ParameterExpansion)
	if !ok {
		t.Fatalf("word part type = %T, want *ParameterExpansion", sc.Args[0].Parts[0])
	}
	dv, ok := pe.Op.(DefaultValue)
	if !ok {
		t.Fatalf("op type = %T, want DefaultValue", pe.Op)
	}
	if !dv.CheckEmpty {
		t.Error("CheckEmpty = false, want true for \":-\"")
	}
	lit, _ := dv.Word.Lit()
	if lit != "fallback" {
		t.Errorf("default value = %q, want fallback", lit)
	}
}

func TestParsePipeline(t *testing.T) {
	s := parseOne(t, "echo hi | cat")
	pl := s.Pipelines[0]
	if len(pl.Commands) != 2 {
		t.Fatalf("got %d pipeline stages, want 2", len(pl.Commands))
	}
}

func TestParseCaseStatement(t *testing.T) {
	s := parseOne(t, "case $x in foo) echo a;; *) echo b;; esac")
	c, ok := s.Pipelines[0].Commands[0].Body.(*Case)
	if !ok {
		t.Fatalf("body type = %T, want *Case", s.Pipelines[0].Commands[0].Body)
	}
	if len(c.Items) != 2 {
		t.Fatalf("got %d case items, want 2", len(c.Items))
	}
}

func TestParseDoubleQuotedWordStructure(t *testing.T) {
	s := parseOne(t, `echo "a$b"`)
	sc := simpleCmd(s)
	got := sc.Args[0]
	want := &Word{Parts: []WordPart{
		&DoubleQuoted{Parts: []WordPart{
			&Literal{Value: "a"},
			&ParameterExpansion{Short: true, Name: "b"},
		}},
	}}
	if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
		t.Errorf("word structure mismatch (-want +got):\n%s", diff)
	}
}

func paramOp(t *testing.T, src string) ParamOp {
	t.Helper()
	s := parseOne(t, "echo "+src)
	sc := simpleCmd(s)
	pe, ok := sc.Args[0].Parts[0].(*ParameterExpansion)
	if !ok {
		t.Fatalf("word part type = %T, want *ParameterExpansion", sc.Args[0].Parts[0])
	}
	return pe.Op
}

func TestParseParamLength(t *testing.T) {
	s := parseOne(t, "echo ${#x}")
	sc := simpleCmd(s)
	pe, ok := sc.Args[0].Parts[0].(*ParameterExpansion)
	if !ok {
		t.Fatalf("word part type = %T, want *ParameterExpansion", sc.Args[0].Parts[0])
	}
	if pe.Name != "x" {
		t.Errorf("name = %q, want x", pe.Name)
	}
	if _, ok := pe.Op.(Length); !ok {
		t.Fatalf("op type = %T, want Length", pe.Op)
	}
}

func TestParseParamSubstring(t *testing.T) {
	op := paramOp(t, "${x:1:2}")
	sub, ok := op.(Substring)
	if !ok {
		t.Fatalf("op type = %T, want Substring", op)
	}
	off, ok := sub.Offset.(*ArithmNumber)
	if !ok || off.Value != "1" {
		t.Errorf("offset = %+v, want ArithmNumber 1", sub.Offset)
	}
	length, ok := sub.Length.(*ArithmNumber)
	if !ok || length.Value != "2" {
		t.Errorf("length = %+v, want ArithmNumber 2", sub.Length)
	}
}

func TestParseParamPatternRemoval(t *testing.T) {
	op := paramOp(t, "${x##*/}")
	pr, ok := op.(PatternRemoval)
	if !ok {
		t.Fatalf("op type = %T, want PatternRemoval", op)
	}
	if pr.Side != PrefixSide || !pr.Greedy {
		t.Errorf("PatternRemoval = %+v, want greedy prefix", pr)
	}
	lit, _ := pr.Pattern.Lit()
	if lit != "*/" {
		t.Errorf("pattern = %q, want */", lit)
	}
}

func TestParseParamPatternReplacement(t *testing.T) {
	op := paramOp(t, "${x/foo/bar}")
	pr, ok := op.(PatternReplacement)
	if !ok {
		t.Fatalf("op type = %T, want PatternReplacement", op)
	}
	pat, _ := pr.Pattern.Lit()
	repl, _ := pr.Repl.Lit()
	if pat != "foo" || repl != "bar" || pr.All || pr.Anchor != AnchorNone {
		t.Errorf("PatternReplacement = %+v", pr)
	}
}

func TestParseParamCaseModification(t *testing.T) {
	op := paramOp(t, "${x^^}")
	cm, ok := op.(CaseModification)
	if !ok {
		t.Fatalf("op type = %T, want CaseModification", op)
	}
	if cm.Direction != CaseUpper || !cm.All {
		t.Errorf("CaseModification = %+v, want all-upper", cm)
	}
}

func TestParseParamArrayIndex(t *testing.T) {
	s := parseOne(t, "echo ${arr[0]}")
	sc := simpleCmd(s)
	pe, ok := sc.Args[0].Parts[0].(*ParameterExpansion)
	if !ok {
		t.Fatalf("word part type = %T, want *ParameterExpansion", sc.Args[0].Parts[0])
	}
	if pe.Name != "arr" || pe.Index == nil {
		t.Fatalf("unexpected ParameterExpansion: %+v", pe)
	}
	lit, _ := pe.Index.Lit()
	if lit != "0" {
		t.Errorf("index = %q, want 0", lit)
	}
}

func TestParseParamIndirection(t *testing.T) {
	s := parseOne(t, "echo ${!x}")
	sc := simpleCmd(s)
	pe, ok := sc.Args[0].Parts[0].(*ParameterExpansion)
	if !ok {
		t.Fatalf("word part type = %T, want *ParameterExpansion", sc.Args[0].Parts[0])
	}
	if pe.Name != "x" {
		t.Errorf("name = %q, want x", pe.Name)
	}
	if _, ok := pe.Op.(Indirection); !ok {
		t.Fatalf("op type = %T, want Indirection", pe.Op)
	}
}

func TestParseErrorOnUnclosedIf(t *testing.T) {
	_, err := Parse([]byte("if true; then echo a"), "<test>")
	if err == nil {
		t.Fatal("expected a parse error for an unclosed if")
	}
}
