// Package printer pretty-prints a parsed shell program back to source
// text, the counterpart to syntax.Parse. It walks the syntax.File AST
// directly, indenting compound commands with a configurable unit and
// reconstructing words from their parts.
package printer

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandboxsh/vsh/syntax"
)

// Config controls how a File is printed.
type Config struct {
	// Indent is the per-level indentation unit. A zero value uses a
	// single tab.
	Indent string
}

func (c Config) indentUnit() string {
	if c.Indent == "" {
		return "\t"
	}
	return c.Indent
}

// Format parses source and re-prints it under cfg, returning the
// formatted text. A parse error is returned unchanged.
func Format(source string, cfg Config) (string, error) {
	f, err := syntax.Parse([]byte(source), "<format>")
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	w := bufio.NewWriter(&sb)
	p := &printer{w: w, unit: cfg.indentUnit()}
	p.stmts(f.Stmts, 0)
	if err := w.Flush(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type printer struct {
	w    *bufio.Writer
	unit string
}

func (p *printer) indent(level int) {
	for i := 0; i < level; i++ {
		p.w.WriteString(p.unit)
	}
}

func (p *printer) stmts(stmts []*syntax.Statement, level int) {
	for _, s := range stmts {
		p.statement(s, level)
	}
}

func (p *printer) statement(s *syntax.Statement, level int) {
	p.indent(level)
	for i, pl := range s.Pipelines {
		p.pipeline(pl, level)
		if i < len(s.Ops) {
			switch s.Ops[i] {
			case syntax.OpAnd:
				p.w.WriteString(" &&\n")
				p.indent(level)
			case syntax.OpOr:
				p.w.WriteString(" ||\n")
				p.indent(level)
			}
		}
	}
	if s.Background {
		p.w.WriteString(" &")
	}
	p.w.WriteString("\n")
}

func (p *printer) pipeline(pl *syntax.Pipeline, level int) {
	if pl.Negated {
		p.w.WriteString("! ")
	}
	for i, cmd := range pl.Commands {
		if i > 0 {
			p.w.WriteString(" | ")
		}
		p.command(cmd, level)
	}
}

func (p *printer) command(c *syntax.Command, level int) {
	p.commandNode(c.Body, level)
	for _, r := range c.Redirs {
		p.w.WriteString(" ")
		p.redir(r)
	}
}

func (p *printer) redir(r *syntax.Redirection) {
	if r.Fd != nil {
		p.w.WriteString(strconv.Itoa(*r.Fd))
	}
	switch r.Op {
	case syntax.RedirRead:
		p.w.WriteString("<")
	case syntax.RedirWrite:
		p.w.WriteString(">")
	case syntax.RedirAppend:
		p.w.WriteString(">>")
	case syntax.RedirDupOut:
		p.w.WriteString(">&")
	case syntax.RedirDupIn:
		p.w.WriteString("<&")
	case syntax.RedirReadWrite:
		p.w.WriteString("<>")
	case syntax.RedirClobber:
		p.w.WriteString(">|")
	case syntax.RedirAllOut:
		p.w.WriteString("&>")
	case syntax.RedirAllAppend:
		p.w.WriteString("&>>")
	case syntax.RedirHereString:
		p.w.WriteString("<<<")
	case syntax.RedirHeredoc:
		p.w.WriteString("<<")
	case syntax.RedirHeredocStrip:
		p.w.WriteString("<<-")
	}
	if r.Heredoc != nil {
		p.w.WriteString(r.Heredoc.Delim)
		return
	}
	p.w.WriteString(p.word(r.Target))
}

func (p *printer) commandNode(n syntax.CommandNode, level int) {
	switch c := n.(type) {
	case *syntax.SimpleCommand:
		p.simpleCommand(c)
	case *syntax.If:
		p.ifClause(c, level)
	case *syntax.For:
		p.forClause(c, level)
	case *syntax.CStyleFor:
		p.cStyleForClause(c, level)
	case *syntax.While:
		p.whileClause(c, level)
	case *syntax.Until:
		p.untilClause(c, level)
	case *syntax.Case:
		p.caseClause(c, level)
	case *syntax.Subshell:
		p.w.WriteString("(\n")
		p.stmts(c.Stmts, level+1)
		p.indent(level)
		p.w.WriteString(")")
	case *syntax.Group:
		p.w.WriteString("{\n")
		p.stmts(c.Stmts, level+1)
		p.indent(level)
		p.w.WriteString("}")
	case *syntax.ArithmeticCommand:
		fmt.Fprintf(p.w, "(( %s ))", arithm(c.X))
	case *syntax.ConditionalCommand:
		fmt.Fprintf(p.w, "[[ %s ]]", test(c.X))
	case *syntax.FunctionDef:
		fmt.Fprintf(p.w, "%s() ", c.Name)
		p.commandNode(c.Body.Body, level)
	}
}

func (p *printer) simpleCommand(c *syntax.SimpleCommand) {
	var parts []string
	for _, a := range c.Assigns {
		parts = append(parts, p.assignment(a))
	}
	if c.Name != nil {
		parts = append(parts, p.word(c.Name))
	}
	for _, a := range c.Args {
		parts = append(parts, p.word(a))
	}
	p.w.WriteString(strings.Join(parts, " "))
}

func (p *printer) assignment(a *syntax.Assignment) string {
	op := "="
	if a.Append {
		op = "+="
	}
	name := a.Name
	if a.Index != nil {
		name = fmt.Sprintf("%s[%s]", name, p.word(a.Index))
	}
	if a.ArrayLiteral != nil {
		var items []string
		for _, w := range a.ArrayLiteral {
			items = append(items, p.word(w))
		}
		return fmt.Sprintf("%s%s(%s)", name, op, strings.Join(items, " "))
	}
	if a.Value == nil {
		return name + op
	}
	return name + op + p.word(a.Value)
}

func (p *printer) ifClause(c *syntax.If, level int) {
	p.w.WriteString("if ")
	p.stmtsInline(c.Cond, level)
	p.w.WriteString("; then\n")
	p.stmts(c.Then, level+1)
	for _, e := range c.Elifs {
		p.indent(level)
		p.w.WriteString("elif ")
		p.stmtsInline(e.Cond, level)
		p.w.WriteString("; then\n")
		p.stmts(e.Then, level+1)
	}
	if len(c.Else) > 0 {
		p.indent(level)
		p.w.WriteString("else\n")
		p.stmts(c.Else, level+1)
	}
	p.indent(level)
	p.w.WriteString("fi")
}

func (p *printer) forClause(c *syntax.For, level int) {
	fmt.Fprintf(p.w, "for %s", c.Var)
	if c.HasIn {
		var words []string
		for _, w := range c.Words {
			words = append(words, p.word(w))
		}
		fmt.Fprintf(p.w, " in %s", strings.Join(words, " "))
	}
	p.w.WriteString("; do\n")
	p.stmts(c.Do, level+1)
	p.indent(level)
	p.w.WriteString("done")
}

func (p *printer) cStyleForClause(c *syntax.CStyleFor, level int) {
	init, cond, post := "", "", ""
	if c.Init != nil {
		init = arithm(c.Init)
	}
	if c.Cond != nil {
		cond = arithm(c.Cond)
	}
	if c.Post != nil {
		post = arithm(c.Post)
	}
	fmt.Fprintf(p.w, "for (( %s; %s; %s )); do\n", init, cond, post)
	p.stmts(c.Do, level+1)
	p.indent(level)
	p.w.WriteString("done")
}

func (p *printer) whileClause(c *syntax.While, level int) {
	p.w.WriteString("while ")
	p.stmtsInline(c.Cond, level)
	p.w.WriteString("; do\n")
	p.stmts(c.Do, level+1)
	p.indent(level)
	p.w.WriteString("done")
}

func (p *printer) untilClause(c *syntax.Until, level int) {
	p.w.WriteString("until ")
	p.stmtsInline(c.Cond, level)
	p.w.WriteString("; do\n")
	p.stmts(c.Do, level+1)
	p.indent(level)
	p.w.WriteString("done")
}

func (p *printer) caseClause(c *syntax.Case, level int) {
	fmt.Fprintf(p.w, "case %s in\n", p.word(c.Word))
	for _, item := range c.Items {
		p.indent(level + 1)
		var pats []string
		for _, w := range item.Patterns {
			pats = append(pats, p.word(w))
		}
		fmt.Fprintf(p.w, "%s)\n", strings.Join(pats, "|"))
		p.stmts(item.Stmts, level+2)
		p.indent(level + 2)
		switch item.Term {
		case syntax.CaseFallthrough:
			p.w.WriteString(";&\n")
		case syntax.CaseContinue:
			p.w.WriteString(";;&\n")
		default:
			p.w.WriteString(";;\n")
		}
	}
	p.indent(level)
	p.w.WriteString("esac")
}

// stmtsInline prints a condition statement list on the current line,
// separated by "; ", for if/while/until headers.
func (p *printer) stmtsInline(stmts []*syntax.Statement, level int) {
	var sb strings.Builder
	sub := &printer{w: bufio.NewWriter(&sb), unit: p.unit}
	for i, s := range stmts {
		if i > 0 {
			sb.WriteString("; ")
		}
		for j, pl := range s.Pipelines {
			sub.pipeline(pl, level)
			if j < len(s.Ops) {
				switch s.Ops[j] {
				case syntax.OpAnd:
					sub.w.WriteString(" && ")
				case syntax.OpOr:
					sub.w.WriteString(" || ")
				}
			}
		}
		sub.w.Flush()
	}
	p.w.WriteString(strings.TrimSuffix(sb.String(), "\n"))
}

// word renders a Word back to source text. Quoting is preserved for
// single/double-quoted parts; other parts are rendered in their
// canonical unquoted form.
func (p *printer) word(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range w.Parts {
		sb.WriteString(wordPart(part))
	}
	return sb.String()
}

func wordPart(part syntax.WordPart) string {
	switch v := part.(type) {
	case *syntax.Literal:
		return v.Value
	case *syntax.SingleQuoted:
		if v.Dollar {
			return "$'" + v.Value + "'"
		}
		return "'" + v.Value + "'"
	case *syntax.DoubleQuoted:
		var sb strings.Builder
		if v.Dollar {
			sb.WriteString("$")
		}
		sb.WriteString("\"")
		for _, inner := range v.Parts {
			sb.WriteString(wordPart(inner))
		}
		sb.WriteString("\"")
		return sb.String()
	case *syntax.Escaped:
		return "\\" + string(v.Ch)
	case *syntax.TildeExpansion:
		return "~" + v.User
	case *syntax.Glob:
		return v.Pattern
	case *syntax.ArithmeticExpansion:
		return "$((" + arithm(v.X) + "))"
	case *syntax.CommandSubstitution:
		if v.Legacy {
			return "`" + stmtsText(v.Stmts) + "`"
		}
		return "$(" + stmtsText(v.Stmts) + ")"
	case *syntax.ProcessSubstitution:
		return string(v.Direction) + "(" + stmtsText(v.Stmts) + ")"
	case *syntax.ParameterExpansion:
		return paramExpansion(v)
	case *syntax.BraceExpansion:
		return braceExpansion(v)
	default:
		return ""
	}
}

func stmtsText(stmts []*syntax.Statement) string {
	var sb strings.Builder
	w := bufio.NewWriter(&sb)
	p := &printer{w: w, unit: "\t"}
	p.stmts(stmts, 0)
	w.Flush()
	return strings.TrimSuffix(sb.String(), "\n")
}

func paramExpansion(p *syntax.ParameterExpansion) string {
	name := p.Name
	if p.Index != nil {
		name = fmt.Sprintf("%s[%s]", name, wordOrEmpty(p.Index))
	}
	if p.Short && p.Op == nil {
		return "$" + name
	}
	body := name
	switch op := p.Op.(type) {
	case syntax.Indirection:
		body = "!" + name
	case syntax.Length:
		body = "#" + name
	case syntax.DefaultValue:
		body = name + colonIf(op.CheckEmpty) + "-" + wordOrEmpty(op.Word)
	case syntax.AssignDefault:
		body = name + colonIf(op.CheckEmpty) + "=" + wordOrEmpty(op.Word)
	case syntax.ErrorIfUnset:
		body = name + colonIf(op.CheckEmpty) + "?" + wordOrEmpty(op.Word)
	case syntax.UseAlternative:
		body = name + colonIf(op.CheckEmpty) + "+" + wordOrEmpty(op.Word)
	case syntax.Substring:
		body = name + ":" + arithm(op.Offset)
		if op.Length != nil {
			body += ":" + arithm(op.Length)
		}
	case syntax.PatternRemoval:
		sym := "#"
		if op.Side == syntax.SuffixSide {
			sym = "%"
		}
		if op.Greedy {
			sym += sym
		}
		body = name + sym + wordOrEmpty(op.Pattern)
	case syntax.PatternReplacement:
		sym := "/"
		switch op.Anchor {
		case syntax.AnchorStart:
			sym = "/#"
		case syntax.AnchorEnd:
			sym = "/%"
		default:
			if op.All {
				sym = "//"
			}
		}
		body = name + sym + wordOrEmpty(op.Pattern) + "/" + wordOrEmpty(op.Repl)
	case syntax.CaseModification:
		sym := "^"
		if op.Direction == syntax.CaseLower {
			sym = ","
		}
		if op.All {
			sym += sym
		}
		body = name + sym + wordOrEmpty(op.Pattern)
	}
	return "${" + body + "}"
}

func colonIf(b bool) string {
	if b {
		return ":"
	}
	return ""
}

func wordOrEmpty(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range w.Parts {
		sb.WriteString(wordPart(part))
	}
	return sb.String()
}

func braceExpansion(b *syntax.BraceExpansion) string {
	if b.Sequence != nil {
		s := b.Sequence
		if s.Step != "" {
			return fmt.Sprintf("{%s..%s..%s}", s.Lo, s.Hi, s.Step)
		}
		return fmt.Sprintf("{%s..%s}", s.Lo, s.Hi)
	}
	var items []string
	for _, w := range b.Items {
		items = append(items, wordOrEmpty(w))
	}
	return "{" + strings.Join(items, ",") + "}"
}
