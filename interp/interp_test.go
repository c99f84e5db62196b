package interp

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sandboxsh/vsh/expand"
	"github.com/sandboxsh/vsh/vfs"
)

func newState() *State {
	return New(expand.MapEnviron{}, vfs.New())
}

func run(t *testing.T, src string) ExecResult {
	t.Helper()
	st := newState()
	res, _ := Exec(st, src)
	return res
}

func TestEchoSimple(t *testing.T) {
	c := qt.New(t)
	res := run(t, "echo hello world")
	c.Check(res.Stdout, qt.Equals, "hello world\n")
	c.Check(res.ExitCode, qt.Equals, 0)
}

func TestVariableAssignmentAndExpansion(t *testing.T) {
	c := qt.New(t)
	res := run(t, "x=foo; echo $x bar")
	c.Check(res.Stdout, qt.Equals, "foo bar\n")
}

func TestIfElse(t *testing.T) {
	c := qt.New(t)
	res := run(t, `if [ 1 -eq 2 ]; then echo yes; else echo no; fi`)
	c.Check(res.Stdout, qt.Equals, "no\n")
}

func TestForLoop(t *testing.T) {
	c := qt.New(t)
	res := run(t, `for i in a b c; do echo $i; done`)
	c.Check(res.Stdout, qt.Equals, "a\nb\nc\n")
}

func TestWhileLoop(t *testing.T) {
	c := qt.New(t)
	res := run(t, `i=0; while [ $i -lt 3 ]; do echo $i; i=$((i+1)); done`)
	c.Check(res.Stdout, qt.Equals, "0\n1\n2\n")
}

func TestPipeline(t *testing.T) {
	c := qt.New(t)
	res := run(t, `echo hi | cat`)
	c.Check(res.Stdout, qt.Equals, "hi\n")
	c.Check(res.ExitCode, qt.Equals, 0)
}

func TestLocalVariableDoesNotLeakAfterReturn(t *testing.T) {
	c := qt.New(t)
	res := run(t, `x=outer; f() { local x=inner; }; f; echo $x`)
	c.Check(res.Stdout, qt.Equals, "outer\n")
}

func TestLocalVariableUnsetAfterReturnWhenNew(t *testing.T) {
	c := qt.New(t)
	res := run(t, `f() { local y=inner; }; f; echo ${y:-gone}`)
	c.Check(res.Stdout, qt.Equals, "gone\n")
}

func TestHTTPBuiltinWithoutClient(t *testing.T) {
	c := qt.New(t)
	res := run(t, `http GET https://example.com`)
	c.Check(res.ExitCode, qt.Equals, 1)
}

func TestFunctionDefAndCall(t *testing.T) {
	c := qt.New(t)
	res := run(t, `greet() { echo "hi $1"; }; greet world`)
	c.Check(res.Stdout, qt.Equals, "hi world\n")
}

func TestAndOrChain(t *testing.T) {
	c := qt.New(t)
	res := run(t, `true && echo yes || echo no`)
	c.Check(res.Stdout, qt.Equals, "yes\n")
}

func TestExitCode(t *testing.T) {
	c := qt.New(t)
	res := run(t, `exit 7`)
	c.Check(res.ExitCode, qt.Equals, 7)
}

func TestArithmeticCommand(t *testing.T) {
	c := qt.New(t)
	res := run(t, `x=0; (( x = 3 + 4 )); echo $x`)
	c.Check(res.Stdout, qt.Equals, "7\n")
}

func TestCaseStatement(t *testing.T) {
	c := qt.New(t)
	res := run(t, `case foo in foo) echo matched;; *) echo nope;; esac`)
	c.Check(res.Stdout, qt.Equals, "matched\n")
}

func TestCommandSubstitution(t *testing.T) {
	c := qt.New(t)
	res := run(t, `x=$(echo inner); echo got $x`)
	c.Check(res.Stdout, qt.Equals, "got inner\n")
}

func TestParamDefaultOperator(t *testing.T) {
	c := qt.New(t)
	res := run(t, `echo ${missing:-fallback}`)
	c.Check(res.Stdout, qt.Equals, "fallback\n")
}

func TestParamLengthOperator(t *testing.T) {
	c := qt.New(t)
	res := run(t, `x=hello; echo ${#x}`)
	c.Check(res.Stdout, qt.Equals, "5\n")
}

func TestParamSubstringOperator(t *testing.T) {
	c := qt.New(t)
	res := run(t, `x=hello; echo ${x:1:3}`)
	c.Check(res.Stdout, qt.Equals, "ell\n")
}

func TestParamPatternRemovalOperator(t *testing.T) {
	c := qt.New(t)
	res := run(t, `x=path/to/file; echo ${x##*/}`)
	c.Check(res.Stdout, qt.Equals, "file\n")
}

func TestParamPatternReplacementOperator(t *testing.T) {
	c := qt.New(t)
	res := run(t, `x=foobar; echo ${x/foo/baz}`)
	c.Check(res.Stdout, qt.Equals, "bazbar\n")
}

func TestParamCaseModificationOperator(t *testing.T) {
	c := qt.New(t)
	res := run(t, `x=hello; echo ${x^^}`)
	c.Check(res.Stdout, qt.Equals, "HELLO\n")
}

func TestHeredocUnquotedExpandsParameter(t *testing.T) {
	c := qt.New(t)
	res := run(t, "x=world; cat <<EOF\nhello $x\nEOF\n")
	c.Check(res.Stdout, qt.Equals, "hello world\n")
}

func TestErrexitExemptsIfCondition(t *testing.T) {
	c := qt.New(t)
	res := run(t, `set -e; if false; then echo yes; fi; echo survived`)
	c.Check(res.Stdout, qt.Equals, "survived\n")
	c.Check(res.ExitCode, qt.Equals, 0)
}

func TestErrexitExemptsWhileCondition(t *testing.T) {
	c := qt.New(t)
	res := run(t, `set -e; i=0; while [ $i -lt 0 ]; do echo no; done; echo survived`)
	c.Check(res.Stdout, qt.Equals, "survived\n")
	c.Check(res.ExitCode, qt.Equals, 0)
}

func TestErrexitExemptsLHSOfAndOr(t *testing.T) {
	c := qt.New(t)
	res := run(t, `set -e; false && true; echo survived`)
	c.Check(res.Stdout, qt.Equals, "survived\n")
	c.Check(res.ExitCode, qt.Equals, 0)
}

func TestErrexitFiresOnFinalCommandOfChain(t *testing.T) {
	c := qt.New(t)
	res := run(t, `set -e; true && false; echo unreached`)
	c.Check(res.Stdout, qt.Equals, "")
	c.Check(res.ExitCode, qt.Equals, 1)
}

func TestErrexitFiresOnPlainFailure(t *testing.T) {
	c := qt.New(t)
	res := run(t, `set -e; false; echo unreached`)
	c.Check(res.Stdout, qt.Equals, "")
	c.Check(res.ExitCode, qt.Equals, 1)
}

func TestPipelineNegation(t *testing.T) {
	c := qt.New(t)
	res := run(t, `if ! false; then echo yes; else echo no; fi`)
	c.Check(res.Stdout, qt.Equals, "yes\n")
}

func TestPipelineNegationOfSuccess(t *testing.T) {
	c := qt.New(t)
	res := run(t, `if ! true; then echo yes; else echo no; fi`)
	c.Check(res.Stdout, qt.Equals, "no\n")
}

func TestPipefailReportsRightmostFailure(t *testing.T) {
	c := qt.New(t)
	res := run(t, `set -eo pipefail; echo before; true | false | true; echo after`)
	c.Check(res.Stdout, qt.Equals, "before\n")
	c.Check(res.ExitCode, qt.Equals, 1)
}

func TestWithoutPipefailUsesLastStageStatus(t *testing.T) {
	c := qt.New(t)
	res := run(t, `set -e; echo before; true | false | true; echo after`)
	c.Check(res.Stdout, qt.Equals, "before\nafter\n")
	c.Check(res.ExitCode, qt.Equals, 0)
}

func TestRepeatedLeadingAssignmentDoesNotLeak(t *testing.T) {
	c := qt.New(t)
	res := run(t, `a=1 a=2 echo $a; echo ${a:-unset}`)
	c.Check(res.Stdout, qt.Equals, "2\nunset\n")
}

func TestRepeatedLeadingAssignmentRestoresPriorValue(t *testing.T) {
	c := qt.New(t)
	res := run(t, `a=orig; a=1 a=2 echo $a; echo $a`)
	c.Check(res.Stdout, qt.Equals, "2\norig\n")
}

func TestCondAndOr(t *testing.T) {
	c := qt.New(t)
	res := run(t, `x=5; if [[ $x -gt 0 && $x -lt 10 ]]; then echo yes; else echo no; fi`)
	c.Check(res.Stdout, qt.Equals, "yes\n")
}

func TestCondOrShortCircuitsFalseBranch(t *testing.T) {
	c := qt.New(t)
	res := run(t, `if [[ -z "" || 1 -eq 2 ]]; then echo yes; else echo no; fi`)
	c.Check(res.Stdout, qt.Equals, "yes\n")
}

func TestHeredocQuotedDoesNotExpand(t *testing.T) {
	c := qt.New(t)
	res := run(t, "x=world; cat <<'EOF'\nhello $x\nEOF\n")
	c.Check(res.Stdout, qt.Equals, "hello $x\n")
}

func TestBreakExitsLoop(t *testing.T) {
	c := qt.New(t)
	res := run(t, `for i in 1 2 3 4; do if [ $i -eq 3 ]; then break; fi; echo $i; done`)
	c.Check(res.Stdout, qt.Equals, "1\n2\n")
}
