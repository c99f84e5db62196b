package interp

// Builtin is one intrinsic or registered external-collaborator
// command. It receives the executor (for state access) and the
// stage's I/O streams, and returns the command's exit status plus any
// control-flow signal it raised (exit/return/break/continue).
type Builtin func(ex *executor, io_ cmdIO, args []string) (int, ctrl)

// Builtins is the narrow registry interface the executor consults to
// resolve a command name before falling back to "command not found".
// Consumers supply their own implementation to add an external
// collaborator utility catalogue (grep/sed/awk/jq/find and friends)
// without the executor needing to know about it.
type Builtins interface {
	Lookup(name string) (Builtin, bool)
	Register(name string, b Builtin)
}

type registry map[string]Builtin

func (r registry) Lookup(name string) (Builtin, bool) {
	b, ok := r[name]
	return b, ok
}

func (r registry) Register(name string, b Builtin) { r[name] = b }

func (ex *executor) runBuiltin(b Builtin, args []string, io_ cmdIO) (int, ctrl) {
	return b(ex, io_, args)
}

// DefaultBuiltins returns a registry populated with the intrinsic
// shell builtins every State needs to be usable on its own: cd, pwd,
// export, unset, set, read, shift, trap, eval, source, local, declare,
// exit, return, break, continue, ":", and test/[, plus true, false,
// typeset, ".", echo, printf, the "http" client builtin, and the
// cat/wc/sort/head utilities from the builtins package.
func DefaultBuiltins() Builtins {
	r := registry{}
	r["cd"] = biCd
	r["pwd"] = biPwd
	r["export"] = biExport
	r["unset"] = biUnset
	r["set"] = biSet
	r["read"] = biRead
	r["shift"] = biShift
	r["trap"] = biTrap
	r["eval"] = biEval
	r["source"] = biSource
	r["."] = biSource
	r["local"] = biLocal
	r["declare"] = biDeclare
	r["typeset"] = biDeclare
	r["exit"] = biExit
	r["return"] = biReturn
	r["break"] = biBreak
	r["continue"] = biContinue
	r[":"] = biTrue
	r["true"] = biTrue
	r["false"] = biFalse
	r["test"] = biTest
	r["["] = biTest
	r["echo"] = biEcho
	r["printf"] = biPrintf
	r["http"] = biHTTP
	r["cat"] = biCat
	r["wc"] = biWc
	r["sort"] = biSort
	r["head"] = biHead
	return r
}
