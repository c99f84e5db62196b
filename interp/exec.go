package interp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandboxsh/vsh/expand"
	"github.com/sandboxsh/vsh/syntax"
)

// ctrlKind tags the kind of non-local control transfer a statement
// produced. These are returned as ordinary values up the call stack,
// never as panics — the tree-walking executor checks ctrl.kind after
// every nested call the way a bytecode VM checks a status register.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
	ctrlExit
)

// ctrl is the value threaded through statement execution to carry a
// pending break/continue/return/exit past the constructs it is still
// unwinding through.
type ctrl struct {
	kind ctrlKind
	n    int // levels to unwind for break/continue; exit code for return/exit
}

var noCtrl = ctrl{}

// executor holds the per-Exec-call mutable machinery: the State being
// mutated, the output sinks, and bookkeeping the statement/loop limits
// need.
type executor struct {
	st *State

	stdout *bytes.Buffer
	stderr *bytes.Buffer

	stmtCount int

	lastStatus int
}

// Exec parses and runs source against st, returning the captured
// result and the (mutated) state to use for the next call. Exec never
// panics out to the caller: parse errors, runtime errors, and
// execution-limit violations are all reported through ExecResult.
func Exec(st *State, source string) (res ExecResult, next *State) {
	defer func() {
		if r := recover(); r != nil {
			res = ExecResult{Stderr: fmt.Sprintf("vsh: internal error: %v\n", r), ExitCode: 2}
			next = st
		}
	}()

	file, err := syntax.Parse([]byte(source), "<input>")
	if err != nil {
		return ExecResult{Stderr: err.Error() + "\n", ExitCode: 2}, st
	}

	ex := &executor{st: st, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	c := ex.execStmts(file.Stmts)

	if handler, ok := st.Traps["EXIT"]; ok && handler != "" {
		delete(st.Traps, "EXIT") // EXIT traps fire at most once
		ex.runTrapHandler(handler)
	}

	exitCode := ex.lastStatus
	if c.kind == ctrlExit || c.kind == ctrlReturn {
		exitCode = c.n
	}
	return ExecResult{Stdout: ex.stdout.String(), Stderr: ex.stderr.String(), ExitCode: exitCode}, st
}

func (ex *executor) runTrapHandler(src string) {
	file, err := syntax.Parse([]byte(src), "<trap>")
	if err != nil {
		return
	}
	ex.execStmts(file.Stmts)
}

// execStmts runs a statement list, stopping early on any non-none
// control signal.
func (ex *executor) execStmts(stmts []*syntax.Statement) ctrl {
	return ex.execStmtsCtrl(stmts, false)
}

// execStmtsCond runs a statement list used as an if/while/until
// condition: its final command's status is "explicitly tested" by the
// construct it guards, so errexit never fires for it.
func (ex *executor) execStmtsCond(stmts []*syntax.Statement) ctrl {
	return ex.execStmtsCtrl(stmts, true)
}

func (ex *executor) execStmtsCtrl(stmts []*syntax.Statement, suppressErrexit bool) ctrl {
	for _, s := range stmts {
		c := ex.execStatement(s, suppressErrexit)
		if c.kind != ctrlNone {
			return c
		}
	}
	return noCtrl
}

func (ex *executor) tick() error {
	ex.stmtCount++
	if ex.st.Limits.MaxStatements > 0 && ex.stmtCount > ex.st.Limits.MaxStatements {
		return &limitExceededError{msg: "vsh: statement execution limit exceeded"}
	}
	return nil
}

// execStatement runs one "&&"/"||"-chained statement, honoring
// errexit once the chain settles. A command is "explicitly tested"
// (and so exempt from errexit) when it is the left-hand side of "&&"
// or "||" — short-circuiting skips the rest of the chain, leaving
// status at that left-hand command's value, which must not be
// mistaken for the chain's own final, untested status. So the errexit
// check below only applies when the last pipeline in the chain is the
// one that actually ran.
func (ex *executor) execStatement(s *syntax.Statement, suppressErrexit bool) ctrl {
	if err := ex.tick(); err != nil {
		ex.stderr.WriteString(err.Error() + "\n")
		return ctrl{kind: ctrlExit, n: 1}
	}

	var status int
	var c ctrl
	ranLast := false
	for i, pl := range s.Pipelines {
		if i > 0 {
			op := s.Ops[i-1]
			if (op == syntax.OpAnd && status != 0) || (op == syntax.OpOr && status == 0) {
				continue
			}
		}
		status, c = ex.execPipeline(pl)
		ex.st.Env.Set("?", expand.Variable{Value: expand.StringVal(strconv.Itoa(status))})
		if c.kind != ctrlNone {
			ex.lastStatus = status
			return c
		}
		ranLast = i == len(s.Pipelines)-1
	}
	ex.lastStatus = status

	if !suppressErrexit && ranLast && ex.st.Opts.ErrExit && status != 0 && !s.Background {
		return ctrl{kind: ctrlExit, n: status}
	}
	return noCtrl
}

// execPipeline runs every stage of a pipeline synchronously: each
// stage's captured stdout becomes the next stage's stdin, since this
// interpreter never forks real OS processes or goroutine pipes. With
// "set -o pipefail" the pipeline's status is the rightmost stage
// status that was nonzero (0 if every stage succeeded) rather than
// just the last stage's own status.
func (ex *executor) execPipeline(pl *syntax.Pipeline) (int, ctrl) {
	var input string
	var status int
	var c ctrl
	pipeStatus := 0
	for _, cmd := range pl.Commands {
		stage := &executor{st: ex.st, stdout: &bytes.Buffer{}, stderr: ex.stderr, stmtCount: ex.stmtCount}
		status, c = stage.execCommand(cmd, strings.NewReader(input))
		ex.stmtCount = stage.stmtCount
		input = stage.stdout.String()
		if status != 0 {
			pipeStatus = status
		}
		if c.kind != ctrlNone {
			return status, c
		}
	}
	ex.stdout.WriteString(input)
	if ex.st.Opts.PipeFail {
		status = pipeStatus
	}
	if pl.Negated {
		status = boolToStatus(status != 0)
	}
	return status, noCtrl
}

func boolToStatus(b bool) int {
	if b {
		return 0
	}
	return 1
}
