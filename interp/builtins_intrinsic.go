package interp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sandboxsh/vsh/expand"
	"github.com/sandboxsh/vsh/syntax"
)

func biTrue(ex *executor, io_ cmdIO, args []string) (int, ctrl)  { return 0, noCtrl }
func biFalse(ex *executor, io_ cmdIO, args []string) (int, ctrl) { return 1, noCtrl }

func biCd(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	target := "/"
	if len(args) > 0 {
		target = args[0]
	} else if v, ok := ex.st.Env.Get("HOME"); ok {
		if s, ok := v.Value.(expand.StringVal); ok && s != "" {
			target = string(s)
		}
	}
	resolved := target
	if !strings.HasPrefix(resolved, "/") {
		resolved = ex.st.CWD + "/" + resolved
	}
	resolved = cleanPath(resolved)
	info, err := ex.st.FS.Stat(resolved)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(io_.stderr, "cd: %s: No such file or directory\n", target)
		return 1, noCtrl
	}
	ex.st.CWD = resolved
	ex.st.Env.Set("PWD", expand.Variable{Value: expand.StringVal(resolved), Exported: true})
	return 0, noCtrl
}

func cleanPath(p string) string {
	parts := strings.Split(p, "/")
	var stack []string
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, part)
		}
	}
	return "/" + strings.Join(stack, "/")
}

func biPwd(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	fmt.Fprintln(io_.stdout, ex.st.CWD)
	return 0, noCtrl
}

func biExport(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	for _, a := range args {
		name, value, hasEq := strings.Cut(a, "=")
		v, _ := ex.st.Env.Get(name)
		if hasEq {
			v.Value = expand.StringVal(value)
		}
		v.Exported = true
		ex.st.Env.Set(name, v)
	}
	return 0, noCtrl
}

func biUnset(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	for _, name := range args {
		ex.st.Env.Unset(name)
		delete(ex.st.Funcs, name)
	}
	return 0, noCtrl
}

func biSet(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	for _, a := range args {
		enable := strings.HasPrefix(a, "-")
		if !enable && !strings.HasPrefix(a, "+") {
			continue
		}
		for _, flag := range a[1:] {
			switch flag {
			case 'e':
				ex.st.Opts.ErrExit = enable
			case 'u':
				ex.st.Opts.NoUnset = enable
			case 'f':
				ex.st.Opts.NoGlob = enable
			case 'x':
				ex.st.Opts.Xtrace = enable
			case 'o':
				// "-o pipefail" arrives as a separate arg; handled below.
			}
		}
		if a == "-o" || a == "+o" {
			continue
		}
	}
	for i := 0; i < len(args)-1; i++ {
		a := args[i]
		if len(a) < 2 || (a[0] != '-' && a[0] != '+') || !strings.ContainsRune(a[1:], 'o') {
			continue
		}
		if args[i+1] == "pipefail" {
			ex.st.Opts.PipeFail = a[0] == '-'
		}
	}
	return 0, noCtrl
}

func biRead(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	name := "REPLY"
	if len(args) > 0 {
		name = args[len(args)-1]
	}
	data, err := io.ReadAll(io_.stdin)
	if err != nil || len(data) == 0 {
		return 1, noCtrl
	}
	line := strings.SplitN(string(data), "\n", 2)[0]
	ex.st.Env.Set(name, expand.Variable{Value: expand.StringVal(line)})
	return 0, noCtrl
}

func biShift(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	n := 1
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			n = v
		}
	}
	if n > len(ex.st.Positional) {
		return 1, noCtrl
	}
	ex.st.Positional = ex.st.Positional[n:]
	return 0, noCtrl
}

func biTrap(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	if len(args) == 0 {
		return 0, noCtrl
	}
	if args[0] == "-p" || args[0] == "-l" {
		for name, handler := range ex.st.Traps {
			fmt.Fprintf(io_.stdout, "trap -- %q %s\n", handler, name)
		}
		return 0, noCtrl
	}
	if len(args) < 2 {
		return 1, noCtrl
	}
	handler := args[0]
	for _, name := range args[1:] {
		if handler == "-" {
			delete(ex.st.Traps, name)
			continue
		}
		ex.st.Traps[name] = handler
	}
	return 0, noCtrl
}

func biEval(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	src := strings.Join(args, " ")
	file, err := syntax.Parse([]byte(src), "<eval>")
	if err != nil {
		fmt.Fprintln(io_.stderr, err.Error())
		return 2, noCtrl
	}
	sub := &executor{st: ex.st, stdout: bufWriter(io_.stdout), stderr: bufWriter(io_.stderr), stmtCount: ex.stmtCount}
	c := sub.execStmts(file.Stmts)
	ex.stmtCount = sub.stmtCount
	flushBuf(sub.stdout, io_.stdout)
	flushBuf(sub.stderr, io_.stderr)
	if c.kind != ctrlNone {
		return sub.lastStatus, c
	}
	return sub.lastStatus, noCtrl
}

func biSource(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	if len(args) == 0 {
		return 1, noCtrl
	}
	data, err := ex.st.FS.ReadFile(ex.resolvePath(args[0]))
	if err != nil {
		fmt.Fprintf(io_.stderr, "%s: No such file or directory\n", args[0])
		return 1, noCtrl
	}
	file, err := syntax.Parse(data, args[0])
	if err != nil {
		fmt.Fprintln(io_.stderr, err.Error())
		return 2, noCtrl
	}
	savedPositional := ex.st.Positional
	if len(args) > 1 {
		ex.st.Positional = args[1:]
	}
	defer func() { ex.st.Positional = savedPositional }()
	sub := &executor{st: ex.st, stdout: bufWriter(io_.stdout), stderr: bufWriter(io_.stderr), stmtCount: ex.stmtCount}
	c := sub.execStmts(file.Stmts)
	ex.stmtCount = sub.stmtCount
	flushBuf(sub.stdout, io_.stdout)
	flushBuf(sub.stderr, io_.stderr)
	if c.kind == ctrlReturn {
		return c.n, noCtrl
	}
	return sub.lastStatus, noCtrl
}

func biLocal(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	for _, a := range args {
		name, value, hasEq := strings.Cut(a, "=")
		v, _ := ex.st.Env.Get(name)
		if hasEq {
			v.Value = expand.StringVal(value)
		}
		v.Local = true
		ex.st.Env.Set(name, v)
	}
	return 0, noCtrl
}

func biDeclare(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	var flags string
	var rest []string
	for _, a := range args {
		if strings.HasPrefix(a, "-") && flags == "" {
			flags = a
			continue
		}
		rest = append(rest, a)
	}
	for _, a := range rest {
		name, value, hasEq := strings.Cut(a, "=")
		v, _ := ex.st.Env.Get(name)
		switch {
		case strings.Contains(flags, "a") && hasEq:
			v.Value = expand.IndexArray{0: value}
		case strings.Contains(flags, "A"):
			if v.Value == nil {
				v.Value = expand.AssocArray{}
			}
		default:
			if hasEq {
				v.Value = expand.StringVal(value)
			} else if v.Value == nil {
				v.Value = expand.StringVal("")
			}
		}
		if strings.Contains(flags, "r") {
			v.ReadOnly = true
		}
		if strings.Contains(flags, "x") {
			v.Exported = true
		}
		if strings.Contains(flags, "n") {
			v.NameRef = true
		}
		ex.st.Env.Set(name, v)
	}
	return 0, noCtrl
}

func biExit(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	code := ex.lastStatus
	if len(args) > 0 {
		code = intOrZero(args[0])
	}
	return code, ctrl{kind: ctrlExit, n: code}
}

func biReturn(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	code := ex.lastStatus
	if len(args) > 0 {
		code = intOrZero(args[0])
	}
	return code, ctrl{kind: ctrlReturn, n: code}
}

func biBreak(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	n := 1
	if len(args) > 0 {
		n = intOrZero(args[0])
	}
	if n < 1 {
		n = 1
	}
	return 0, ctrl{kind: ctrlBreak, n: n}
}

func biContinue(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	n := 1
	if len(args) > 0 {
		n = intOrZero(args[0])
	}
	if n < 1 {
		n = 1
	}
	return 0, ctrl{kind: ctrlContinue, n: n}
}

func biEcho(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	newline := true
	interpret := false
	for len(args) > 0 && strings.HasPrefix(args[0], "-") && len(args[0]) > 1 {
		opt := args[0]
		valid := true
		for _, c := range opt[1:] {
			if c != 'n' && c != 'e' {
				valid = false
			}
		}
		if !valid {
			break
		}
		if strings.ContainsRune(opt, 'n') {
			newline = false
		}
		if strings.ContainsRune(opt, 'e') {
			interpret = true
		}
		args = args[1:]
	}
	out := strings.Join(args, " ")
	if interpret {
		out = interpretEscapes(out)
	}
	io_.stdout.Write([]byte(out))
	if newline {
		io_.stdout.Write([]byte("\n"))
	}
	return 0, noCtrl
}

func interpretEscapes(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				sb.WriteByte('\n')
				i++
				continue
			case 't':
				sb.WriteByte('\t')
				i++
				continue
			case '\\':
				sb.WriteByte('\\')
				i++
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func biPrintf(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	if len(args) == 0 {
		return 1, noCtrl
	}
	format := interpretEscapes(args[0])
	rest := args[1:]
	out := expandPrintf(format, rest)
	io_.stdout.Write([]byte(out))
	return 0, noCtrl
}

func expandPrintf(format string, args []string) string {
	var sb strings.Builder
	argi := 0
	nextArg := func() string {
		if argi < len(args) {
			v := args[argi]
			argi++
			return v
		}
		return ""
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			sb.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(format) && strings.IndexByte("-+0123456789.", format[j]) >= 0 {
			j++
		}
		if j >= len(format) {
			sb.WriteByte(c)
			continue
		}
		verb := format[j]
		spec := format[i : j+1]
		switch verb {
		case 's':
			fmt.Fprintf(&sb, spec, nextArg())
		case 'd', 'i':
			n, _ := strconv.ParseInt(nextArg(), 0, 64)
			fmt.Fprintf(&sb, strings.Replace(spec, string(verb), "d", 1), n)
		case 'f':
			f, _ := strconv.ParseFloat(nextArg(), 64)
			fmt.Fprintf(&sb, spec, f)
		case '%':
			sb.WriteByte('%')
		default:
			sb.WriteString(spec)
		}
		i = j
	}
	return sb.String()
}

func biTest(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	if len(args) > 0 && args[len(args)-1] == "]" {
		args = args[:len(args)-1]
	}
	if len(args) == 0 {
		return 1, noCtrl
	}
	if len(args) == 1 {
		if args[0] == "" {
			return 1, noCtrl
		}
		return 0, noCtrl
	}
	if len(args) == 2 && args[0] == "-z" {
		if args[1] == "" {
			return 0, noCtrl
		}
		return 1, noCtrl
	}
	if len(args) == 2 && args[0] == "-n" {
		if args[1] != "" {
			return 0, noCtrl
		}
		return 1, noCtrl
	}
	if len(args) == 3 {
		switch args[1] {
		case "=", "==":
			return boolToStatus(args[0] == args[2]), noCtrl
		case "!=":
			return boolToStatus(args[0] != args[2]), noCtrl
		case "-eq", "-ne", "-lt", "-le", "-gt", "-ge":
			a, _ := strconv.Atoi(args[0])
			b, _ := strconv.Atoi(args[2])
			switch args[1] {
			case "-eq":
				return boolToStatus(a == b), noCtrl
			case "-ne":
				return boolToStatus(a != b), noCtrl
			case "-lt":
				return boolToStatus(a < b), noCtrl
			case "-le":
				return boolToStatus(a <= b), noCtrl
			case "-gt":
				return boolToStatus(a > b), noCtrl
			case "-ge":
				return boolToStatus(a >= b), noCtrl
			}
		}
	}
	return 1, noCtrl
}
