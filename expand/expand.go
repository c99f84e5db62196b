package expand

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sandboxsh/vsh/pattern"
	"github.com/sandboxsh/vsh/syntax"
)

// Config carries the pieces word expansion needs but does not own:
// the shell options that change its behavior, and the collaborators
// (environment, filesystem, command runner) it calls out to.
type Config struct {
	Env      Environ
	NoUnset  bool // set -u
	NoGlob   bool // set -f
	IFS      string
	CWD      string
	Glob     func(pattern string) ([]string, error)
	RunCmdSubst func(stmts []*syntax.Statement) (string, error)
	RunProcSubst func(stmts []*syntax.Statement, direction byte) (string, error)

	// PendingAssigns accumulates ${v:=default}-style side-effect
	// assignments discovered mid-expansion; the caller (interp)
	// applies them to Env once the whole command line has been
	// expanded, matching bash's "assignment happens, but after this
	// word finishes expanding" timing.
	PendingAssigns []PendingAssign
}

// PendingAssign is one ${v:=word} (or indexed-array) assignment that
// must be applied to Env once expansion of the full command finishes.
type PendingAssign struct {
	Name  string
	Index string // empty for scalar
	Value string
}

// field is one post-split, pre-glob candidate word, tagged with
// whether it came from an expansion that must not be globbed or split
// further (quoted text).
type field struct {
	text     string
	quoted   bool
	hasGlob  bool // true if text contains a literal glob meta from an unquoted expansion
}

// Fields expands w into the zero or more resulting argv-style fields,
// running the full eight-phase pipeline: brace, tilde, parameter,
// command substitution, arithmetic, word splitting, pathname
// expansion, and quote removal.
func (c *Config) Fields(w *syntax.Word) ([]string, error) {
	brace := c.expandBraces(w)
	var out []string
	for _, bw := range brace {
		fs, err := c.expandWord(bw)
		if err != nil {
			return nil, err
		}
		out = append(out, fs...)
	}
	return out, nil
}

// Literal expands w the way a "quoted" context does: no splitting and
// no globbing, just parameter/command/arithmetic substitution and
// quote removal. Used for assignment values, case words, and [[ ]]
// operands — anywhere bash treats the word as a single unit.
func (c *Config) Literal(w *syntax.Word) (string, error) {
	var sb strings.Builder
	for _, part := range w.Parts {
		s, _, err := c.expandPart(part, true)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// expandWord runs phases 2 through 8 on a single (already
// brace-expanded) word.
func (c *Config) expandWord(w *syntax.Word) ([]string, error) {
	parts := c.expandTilde(w)

	var preSplit []field
	for _, part := range parts {
		s, quoted, err := c.expandPart(part, false)
		if err != nil {
			return nil, err
		}
		preSplit = append(preSplit, field{text: s, quoted: quoted})
	}

	fields := c.splitFields(preSplit)
	var out []string
	for _, f := range fields {
		if f.quoted || c.NoGlob || !pattern.HasMeta(f.text) {
			out = append(out, f.text)
			continue
		}
		matches, err := c.globField(f.text)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			out = append(out, f.text)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

func (c *Config) globField(pat string) ([]string, error) {
	if c.Glob == nil {
		return nil, nil
	}
	matches, err := c.Glob(pat)
	if err != nil {
		return nil, nil // non-fatal: bash degrades to the literal on glob errors too
	}
	sort.Strings(matches)
	return matches, nil
}

// expandTilde implements phase 2: a leading ~ (alone or followed by
// "/") is replaced with $HOME, only when unquoted and word-initial.
// A ~user prefix is left as written.
func (c *Config) expandTilde(w *syntax.Word) []syntax.WordPart {
	if len(w.Parts) == 0 {
		return w.Parts
	}
	lit, ok := w.Parts[0].(*syntax.Literal)
	if !ok || !strings.HasPrefix(lit.Value, "~") {
		return w.Parts
	}
	rest := lit.Value[1:]
	user := rest
	tail := ""
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		user, tail = rest[:idx], rest[idx:]
	}
	home := c.lookupHome(user)
	if home == "" {
		return w.Parts
	}
	out := make([]syntax.WordPart, len(w.Parts))
	copy(out, w.Parts)
	out[0] = &syntax.Literal{LitPos: lit.LitPos, Value: home + tail}
	return out
}

func (c *Config) lookupHome(user string) string {
	name := "HOME"
	if user != "" {
		// No real user database in a sandboxed, virtual-FS interpreter;
		// only the invoking user's own HOME is resolvable.
		return ""
	}
	if v, ok := c.Env.Get(name); ok {
		if s, ok := v.Value.(StringVal); ok {
			return string(s)
		}
	}
	return ""
}

// expandPart expands one WordPart, returning its text and whether the
// result should be treated as already-quoted (exempt from splitting
// and globbing).
func (c *Config) expandPart(part syntax.WordPart, forceQuoted bool) (string, bool, error) {
	switch p := part.(type) {
	case *syntax.Literal:
		return p.Value, forceQuoted, nil
	case *syntax.SingleQuoted:
		return p.Value, true, nil
	case *syntax.Escaped:
		return string(p.Ch), true, nil
	case *syntax.DoubleQuoted:
		var sb strings.Builder
		for _, sub := range p.Parts {
			s, _, err := c.expandPart(sub, true)
			if err != nil {
				return "", true, err
			}
			sb.WriteString(s)
		}
		return sb.String(), true, nil
	case *syntax.ParameterExpansion:
		s, err := c.expandParam(p, forceQuoted)
		return s, forceQuoted, err
	case *syntax.CommandSubstitution:
		if c.RunCmdSubst == nil {
			return "", forceQuoted, nil
		}
		out, err := c.RunCmdSubst(p.Stmts)
		if err != nil {
			return "", forceQuoted, err
		}
		return strings.TrimRight(out, "\n"), forceQuoted, nil
	case *syntax.ArithmeticExpansion:
		v, err := c.EvalArithm(p.X)
		if err != nil {
			return "", forceQuoted, err
		}
		return strconv.FormatInt(v, 10), forceQuoted, nil
	case *syntax.ProcessSubstitution:
		if c.RunProcSubst == nil {
			return "", forceQuoted, nil
		}
		out, err := c.RunProcSubst(p.Stmts, p.Direction)
		return out, forceQuoted, err
	case *syntax.TildeExpansion:
		return "~" + p.User, forceQuoted, nil
	case *syntax.Glob:
		return p.Pattern, forceQuoted, nil
	}
	return "", forceQuoted, fmt.Errorf("expand: unsupported word part %T", part)
}

// splitFields implements phase 6, IFS-based word splitting, over the
// already-expanded (but not yet split) text fields. Quoted fields are
// never split, matching bash's double-quote-suppresses-splitting rule.
func (c *Config) splitFields(in []field) []field {
	ifs := c.IFS
	if len(in) == 0 {
		return nil
	}
	var out []field
	var cur strings.Builder
	flushed := false
	flush := func(quoted bool) {
		out = append(out, field{text: cur.String(), quoted: quoted})
		cur.Reset()
		flushed = true
	}
	anyQuoted := false
	for i, f := range in {
		if f.quoted || ifs == "" {
			cur.WriteString(f.text)
			if f.quoted {
				anyQuoted = true
			}
			if i == len(in)-1 && cur.Len() > 0 {
				flush(anyQuoted)
			}
			continue
		}
		start := 0
		for j := 0; j < len(f.text); j++ {
			if strings.IndexByte(ifs, f.text[j]) >= 0 {
				cur.WriteString(f.text[start:j])
				if cur.Len() > 0 {
					flush(anyQuoted)
				}
				start = j + 1
			}
		}
		cur.WriteString(f.text[start:])
		if i == len(in)-1 && cur.Len() > 0 {
			flush(anyQuoted)
		}
	}
	if !flushed && cur.Len() == 0 && len(out) == 0 {
		return []field{{text: "", quoted: true}}
	}
	return out
}
