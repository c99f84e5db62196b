package interp

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sandboxsh/vsh/expand"
	"github.com/sandboxsh/vsh/syntax"
)

// execCommand runs one pipeline stage: it applies the stage's
// redirections around its body, then dispatches on the body's
// concrete kind.
func (ex *executor) execCommand(cmd *syntax.Command, stdin io.Reader) (int, ctrl) {
	io_, restore, err := ex.applyRedirs(cmd.Redirs, stdin)
	if err != nil {
		ex.stderr.WriteString(err.Error() + "\n")
		return 1, noCtrl
	}
	defer restore()

	// Compound command bodies write through ex.stdout/ex.stderr
	// directly (via execStmts), so route those fields through any
	// redirection this stage applied; execSimple uses io_ explicitly
	// since builtins take their streams as explicit arguments.
	origStdout, origStderr := ex.stdout, ex.stderr
	if buf, ok := io_.stdout.(*bytes.Buffer); ok {
		ex.stdout = buf
	}
	if buf, ok := io_.stderr.(*bytes.Buffer); ok {
		ex.stderr = buf
	}
	defer func() { ex.stdout, ex.stderr = origStdout, origStderr }()

	switch body := cmd.Body.(type) {
	case *syntax.SimpleCommand:
		return ex.execSimple(body, io_)
	case *syntax.If:
		return ex.execIf(body)
	case *syntax.While:
		return ex.execWhile(body)
	case *syntax.Until:
		return ex.execUntil(body)
	case *syntax.For:
		return ex.execFor(body)
	case *syntax.CStyleFor:
		return ex.execCStyleFor(body)
	case *syntax.Case:
		return ex.execCase(body)
	case *syntax.Group:
		c := ex.execStmts(body.Stmts)
		return ex.lastStatus, c
	case *syntax.Subshell:
		return ex.execSubshell(body)
	case *syntax.ArithmeticCommand:
		return ex.execArithmCmd(body)
	case *syntax.ConditionalCommand:
		return ex.execCondCmd(body)
	case *syntax.FunctionDef:
		ex.st.Funcs[body.Name] = body
		return 0, noCtrl
	}
	return 1, noCtrl
}

// cmdIO bundles the three standard streams a command body executes
// against.
type cmdIO struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (ex *executor) applyRedirs(redirs []*syntax.Redirection, stdin io.Reader) (cmdIO, func(), error) {
	io_ := cmdIO{stdin: stdin, stdout: ex.stdout, stderr: ex.stderr}
	cfg := ex.expandConfig()
	var closers []func()
	for _, r := range redirs {
		switch r.Op {
		case syntax.RedirWrite, syntax.RedirClobber:
			target, err := cfg.Literal(r.Target)
			if err != nil {
				return io_, func() {}, err
			}
			buf := &bytes.Buffer{}
			if r.Fd != nil && *r.Fd == 2 {
				io_.stderr = buf
			} else {
				io_.stdout = buf
			}
			path := target
			closer := func() {
				_ = ex.st.FS.WriteFile(ex.resolvePath(path), buf.Bytes(), 0o644)
			}
			closers = append(closers, closer)
		case syntax.RedirAppend:
			target, err := cfg.Literal(r.Target)
			if err != nil {
				return io_, func() {}, err
			}
			buf := &bytes.Buffer{}
			io_.stdout = buf
			path := target
			closer := func() {
				_ = ex.st.FS.AppendFile(ex.resolvePath(path), buf.Bytes())
			}
			closers = append(closers, closer)
		case syntax.RedirRead:
			target, err := cfg.Literal(r.Target)
			if err != nil {
				return io_, func() {}, err
			}
			data, err := ex.st.FS.ReadFile(ex.resolvePath(target))
			if err != nil {
				return io_, func() {}, fmt.Errorf("%s: no such file or directory", target)
			}
			io_.stdin = bytes.NewReader(data)
		case syntax.RedirHereString:
			target, err := cfg.Literal(r.Target)
			if err != nil {
				return io_, func() {}, err
			}
			io_.stdin = strings.NewReader(target + "\n")
		case syntax.RedirHeredoc, syntax.RedirHeredocStrip:
			body := r.Heredoc.Body
			if !r.Heredoc.Quoted {
				body = ex.expandHeredocBody(body)
			}
			io_.stdin = strings.NewReader(body)
		case syntax.RedirDupOut:
			target, _ := cfg.Literal(r.Target)
			if target == "2" {
				io_.stdout = io_.stderr
			}
		case syntax.RedirDupIn:
			// no-op: fd duplication beyond stdout/stderr merge has no
			// meaningful target in an in-memory, non-fd-table sandbox.
		case syntax.RedirAllOut:
			target, err := cfg.Literal(r.Target)
			if err != nil {
				return io_, func() {}, err
			}
			buf := &bytes.Buffer{}
			io_.stdout, io_.stderr = buf, buf
			path := target
			closer := func() {
				_ = ex.st.FS.WriteFile(ex.resolvePath(path), buf.Bytes(), 0o644)
			}
			closers = append(closers, closer)
		}
	}
	return io_, func() {
		for _, fn := range closers {
			fn()
		}
	}, nil
}

func chain(fn func()) func() { return fn }

// expandHeredocBody runs parameter, command, and arithmetic expansion
// over an unquoted heredoc body, the same substitutions a double-quoted
// string gets. It reuses the double-quoted word parser by wrapping the
// body in "echo "..."" rather than duplicating that substitution logic,
// then hands the resulting word to expand.Config.Literal. Word
// splitting and pathname expansion never apply to heredoc bodies, so
// Literal (not Fields) is the right shape here.
func (ex *executor) expandHeredocBody(body string) string {
	f, err := syntax.Parse([]byte("echo \""+escapeForDquote(body)+"\""), "<heredoc>")
	if err != nil || len(f.Stmts) == 0 {
		return body
	}
	sc, ok := f.Stmts[0].Pipelines[0].Commands[0].Body.(*syntax.SimpleCommand)
	if !ok || len(sc.Args) == 0 {
		return body
	}
	out, err := ex.expandConfig().Literal(sc.Args[0])
	if err != nil {
		return body
	}
	return out
}

func escapeForDquote(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func (ex *executor) resolvePath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return ex.st.CWD + "/" + p
}

// expandConfig builds an expand.Config bound to this executor's
// current state, wiring command/process substitution back through
// nested Exec calls.
func (ex *executor) expandConfig() *expand.Config {
	cfg := &expand.Config{
		Env:     ex.st.Env,
		NoUnset: ex.st.Opts.NoUnset,
		NoGlob:  ex.st.Opts.NoGlob,
		CWD:     ex.st.CWD,
	}
	if v, ok := ex.st.Env.Get("IFS"); ok {
		if s, ok := v.Value.(expand.StringVal); ok {
			cfg.IFS = string(s)
		}
	} else {
		cfg.IFS = " \t\n"
	}
	cfg.Glob = func(pat string) ([]string, error) {
		if g, ok := ex.st.FS.(interface{ Glob(string) ([]string, error) }); ok {
			return g.Glob(pat)
		}
		return nil, nil
	}
	cfg.RunCmdSubst = func(stmts []*syntax.Statement) (string, error) {
		sub := ex.st.Clone()
		file := &syntax.File{Stmts: stmts}
		childEx := &executor{st: sub, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, stmtCount: ex.stmtCount}
		childEx.execStmts(file.Stmts)
		ex.stmtCount = childEx.stmtCount
		return childEx.stdout.String(), nil
	}
	cfg.RunProcSubst = func(stmts []*syntax.Statement, direction byte) (string, error) {
		out, err := cfg.RunCmdSubst(stmts)
		return out, err
	}
	return cfg
}

// execSimple expands and runs one SimpleCommand: leading assignments
// are applied first (kept in the shell state when there is no command
// word, scoped to the command alone when there is one), then the
// command word and arguments are expanded and
// dispatched to a function, a builtin, or "command not found".
func (ex *executor) execSimple(sc *syntax.SimpleCommand, io_ cmdIO) (int, ctrl) {
	cfg := ex.expandConfig()

	if sc.Name == nil {
		for _, a := range sc.Assigns {
			if err := ex.applyAssignment(cfg, a); err != nil {
				io_.stderr.Write([]byte(err.Error() + "\n"))
				return 1, noCtrl
			}
		}
		ex.applyPending(cfg)
		return 0, noCtrl
	}

	// Assignments preceding a command word are exported only for the
	// duration of that command, matching "FOO=bar cmd".
	saved := map[string]expand.Variable{}
	savedSet := map[string]bool{}
	captured := map[string]bool{}
	for _, a := range sc.Assigns {
		// Capture each name's pre-command state only once: a repeated
		// name in the same leading-assignment list (e.g. "a=1 a=2
		// cmd") must still restore to what it was before this
		// command, not to the intermediate value an earlier
		// assignment in the same list just set.
		if !captured[a.Name] {
			if v, ok := ex.st.Env.Get(a.Name); ok {
				saved[a.Name] = v
				savedSet[a.Name] = true
			}
			captured[a.Name] = true
		}
		if err := ex.applyAssignment(cfg, a); err != nil {
			io_.stderr.Write([]byte(err.Error() + "\n"))
			return 1, noCtrl
		}
	}
	defer func() {
		for _, a := range sc.Assigns {
			if savedSet[a.Name] {
				ex.st.Env.Set(a.Name, saved[a.Name])
			} else {
				ex.st.Env.Unset(a.Name)
			}
		}
	}()

	nameFields, err := cfg.Fields(sc.Name)
	if err != nil {
		io_.stderr.Write([]byte(err.Error() + "\n"))
		return 1, noCtrl
	}
	if len(nameFields) == 0 {
		ex.applyPending(cfg)
		return 0, noCtrl
	}
	name := nameFields[0]
	var args []string
	args = append(args, nameFields[1:]...)
	for _, a := range sc.Args {
		fs, err := cfg.Fields(a)
		if err != nil {
			io_.stderr.Write([]byte(err.Error() + "\n"))
			return 1, noCtrl
		}
		args = append(args, fs...)
	}
	ex.applyPending(cfg)

	if fn, ok := ex.st.Funcs[name]; ok {
		return ex.callFunction(fn, args, io_)
	}
	if b, ok := ex.st.Builtins.Lookup(name); ok {
		return ex.runBuiltin(b, args, io_)
	}
	fmt.Fprintf(io_.stderr, "%s: command not found\n", name)
	return 127, noCtrl
}

func (ex *executor) applyPending(cfg *expand.Config) {
	for _, pa := range cfg.PendingAssigns {
		v, _ := ex.st.Env.Get(pa.Name)
		v.Value = expand.StringVal(pa.Value)
		ex.st.Env.Set(pa.Name, v)
	}
	cfg.PendingAssigns = nil
}

func (ex *executor) applyAssignment(cfg *expand.Config, a *syntax.Assignment) error {
	if a.ArrayLiteral != nil {
		arr := expand.IndexArray{}
		i := 0
		for _, w := range a.ArrayLiteral {
			fs, err := cfg.Fields(w)
			if err != nil {
				return err
			}
			for _, f := range fs {
				arr[i] = f
				i++
			}
		}
		ex.st.Env.Set(a.Name, expand.Variable{Value: arr})
		return nil
	}
	val, err := cfg.Literal(a.Value)
	if err != nil {
		return err
	}
	if a.Append {
		if v, ok := ex.st.Env.Get(a.Name); ok {
			if s, ok := v.Value.(expand.StringVal); ok {
				val = string(s) + val
			}
		}
	}
	v, existed := ex.st.Env.Get(a.Name)
	if existed && v.ReadOnly {
		return fmt.Errorf("%s: readonly variable", a.Name)
	}
	v.Value = expand.StringVal(val)
	ex.st.Env.Set(a.Name, v)
	return nil
}

func (ex *executor) callFunction(fn *syntax.FunctionDef, args []string, io_ cmdIO) (int, ctrl) {
	savedPositional := ex.st.Positional
	ex.st.Positional = args
	defer func() { ex.st.Positional = savedPositional }()

	restore := ex.snapshotLocals()
	defer restore()

	sub := &executor{st: ex.st, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, stmtCount: ex.stmtCount}
	status, c := sub.execCommand(fn.Body, io_.stdin)
	ex.stmtCount = sub.stmtCount
	io.Copy(io_.stdout, bytes.NewReader(sub.stdout.Bytes()))
	io.Copy(io_.stderr, bytes.NewReader(sub.stderr.Bytes()))
	if c.kind == ctrlReturn {
		return c.n, noCtrl
	}
	if c.kind == ctrlExit {
		return c.n, c
	}
	return status, noCtrl
}

// snapshotLocals records every variable currently in scope and returns
// a func that undoes whatever "local NAME[=val]" calls do during the
// function body that follows: pre-existing names are restored to
// their pre-call value, and names that didn't exist before the call
// (so were created fresh by a "local" inside it) are unset. This is
// what gives "local" its function-scoping behaviour, since the
// variable table itself (Environ) has no separate per-call frames.
func (ex *executor) snapshotLocals() func() {
	before := map[string]expand.Variable{}
	ex.st.Env.Each(func(name string, v expand.Variable) bool {
		before[name] = v
		return true
	})
	return func() {
		ex.st.Env.Each(func(name string, v expand.Variable) bool {
			if !v.Local {
				return true
			}
			if prev, existed := before[name]; existed {
				ex.st.Env.Set(name, prev)
			} else {
				ex.st.Env.Unset(name)
			}
			return true
		})
	}
}

func intOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
