// Package interp implements the tree-walking executor: it evaluates a
// parsed syntax.File against a State (environment, virtual filesystem,
// shell options) and always returns a populated ExecResult rather than
// raising an exception, whatever the input looks like.
package interp

import (
	"github.com/sandboxsh/vsh/expand"
	"github.com/sandboxsh/vsh/syntax"
	"github.com/sandboxsh/vsh/vfs"
)

// ExecResult is the captured outcome of one Exec call.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ShellOpts mirrors the handful of "set -o" options this interpreter
// honors.
type ShellOpts struct {
	ErrExit  bool // set -e
	NoUnset  bool // set -u
	NoGlob   bool // set -f
	PipeFail bool // set -o pipefail
	Xtrace   bool // set -x
}

// Limits bounds pathological scripts (infinite loops, runaway
// recursion) since this interpreter has no external watchdog.
type Limits struct {
	MaxStatements     int
	MaxLoopIterations int
}

// DefaultLimits returns the limits new States are created with.
func DefaultLimits() Limits {
	return Limits{MaxStatements: 200_000, MaxLoopIterations: 100_000}
}

// limitExceededError signals that a Limits bound was hit; it is
// translated into ExecResult.ExitCode 1 plus a stderr message, never
// propagated as a Go panic past Exec.
type limitExceededError struct{ msg string }

func (e *limitExceededError) Error() string { return e.msg }

// State is the full, cloneable interpreter state: everything a
// subshell or command substitution must fork independently from
// everything a function call shares with its caller.
type State struct {
	Env   expand.Environ
	FS    vfs.FS
	CWD   string

	Funcs map[string]*syntax.FunctionDef

	Positional []string
	ShellName  string

	Opts ShellOpts

	// Traps maps a trap name ("EXIT" is the only one this sandboxed
	// interpreter honors) to its handler command text.
	Traps map[string]string

	Builtins Builtins

	HTTPClient HTTPDoer

	Limits Limits
}

// New creates a State with the given initial environment and virtual
// filesystem, ready for Exec.
func New(env expand.Environ, fsys vfs.FS) *State {
	return &State{
		Env:      env,
		FS:       fsys,
		CWD:      "/",
		Funcs:    map[string]*syntax.FunctionDef{},
		Traps:    map[string]string{},
		Builtins: DefaultBuiltins(),
		Limits:   DefaultLimits(),
	}
}

// Clone returns an independent copy of st for subshell and command
// substitution execution: environment and functions are deep-copied
// so the child cannot mutate the parent, while the virtual filesystem
// is shared by reference (this interpreter's one documented departure
// from real subshell semantics, since a real subshell's forked address
// space still shares the same underlying filesystem).
func (st *State) Clone() *State {
	funcs := make(map[string]*syntax.FunctionDef, len(st.Funcs))
	for k, v := range st.Funcs {
		funcs[k] = v
	}
	traps := make(map[string]string, len(st.Traps))
	for k, v := range st.Traps {
		traps[k] = v
	}
	positional := make([]string, len(st.Positional))
	copy(positional, st.Positional)
	return &State{
		Env:        st.Env.Clone(),
		FS:         st.FS,
		CWD:        st.CWD,
		Funcs:      funcs,
		Positional: positional,
		ShellName:  st.ShellName,
		Opts:       st.Opts,
		Traps:      traps,
		Builtins:   st.Builtins,
		HTTPClient: st.HTTPClient,
		Limits:     st.Limits,
	}
}

// HTTPDoer is the narrow interface the "http" builtin consumes; it is
// satisfied by *httpclient.Client and left nil by default so a sandbox
// must opt in to network access explicitly. The signature is spelled
// out in plain types rather than a shared struct so this package never
// needs to import httpclient.
type HTTPDoer interface {
	Do(method, url string, headers map[string]string, body []byte) (status int, respHeaders map[string]string, respBody []byte, err error)
}
