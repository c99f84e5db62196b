package expand

import (
	"strconv"
	"strings"

	"github.com/sandboxsh/vsh/syntax"
)

// expandBraces implements phase 1: every *syntax.BraceExpansion part in
// w is replaced by its cartesian-product alternatives, yielding one
// Word per combination. Words with no brace parts return a
// single-element slice unchanged.
func (c *Config) expandBraces(w *syntax.Word) []*syntax.Word {
	words := []*syntax.Word{{WordPos: w.WordPos}}
	for _, part := range w.Parts {
		brace, ok := part.(*syntax.BraceExpansion)
		if !ok {
			for _, out := range words {
				out.Parts = append(out.Parts, part)
			}
			continue
		}
		alts := braceAlternatives(brace)
		if len(alts) <= 1 {
			for _, out := range words {
				out.Parts = append(out.Parts, part)
			}
			continue
		}
		var next []*syntax.Word
		for _, base := range words {
			for _, alt := range alts {
				clone := &syntax.Word{WordPos: base.WordPos, Parts: append(append([]syntax.WordPart{}, base.Parts...), alt...)}
				next = append(next, clone)
			}
		}
		words = next
	}
	return words
}

// braceAlternatives returns one WordPart slice per alternative the
// brace expansion produces, in left-to-right order.
func braceAlternatives(b *syntax.BraceExpansion) [][]syntax.WordPart {
	if b.Sequence != nil {
		return sequenceAlternatives(b.Sequence, b.Pos())
	}
	var out [][]syntax.WordPart
	for _, item := range b.Items {
		out = append(out, item.Parts)
	}
	return out
}

func sequenceAlternatives(seq *syntax.BraceSequence, pos syntax.Pos) [][]syntax.WordPart {
	if seq.Numeric {
		lo, errLo := strconv.Atoi(seq.Lo)
		hi, errHi := strconv.Atoi(seq.Hi)
		if errLo != nil || errHi != nil {
			return nil
		}
		step := 1
		if seq.Step != "" {
			if s, err := strconv.Atoi(seq.Step); err == nil && s != 0 {
				step = s
			}
		}
		if step < 0 {
			step = -step
		}
		width := 0
		if strings.HasPrefix(seq.Lo, "0") && len(seq.Lo) > 1 {
			width = len(seq.Lo)
		}
		var out [][]syntax.WordPart
		if lo <= hi {
			for v := lo; v <= hi; v += step {
				out = append(out, literalPart(formatSeqNum(v, width), pos))
			}
		} else {
			for v := lo; v >= hi; v -= step {
				out = append(out, literalPart(formatSeqNum(v, width), pos))
			}
		}
		return out
	}
	// character range
	lo, hi := []rune(seq.Lo)[0], []rune(seq.Hi)[0]
	step := 1
	if seq.Step != "" {
		if s, err := strconv.Atoi(seq.Step); err == nil && s != 0 {
			step = s
		}
	}
	if step < 0 {
		step = -step
	}
	var out [][]syntax.WordPart
	if lo <= hi {
		for v := lo; v <= hi; v += rune(step) {
			out = append(out, literalPart(string(v), pos))
		}
	} else {
		for v := lo; v >= hi; v -= rune(step) {
			out = append(out, literalPart(string(v), pos))
		}
	}
	return out
}

func formatSeqNum(v, width int) string {
	s := strconv.Itoa(v)
	if width == 0 {
		return s
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for len(s) < width {
		s = "0" + s
	}
	if neg {
		s = "-" + s
	}
	return s
}

func literalPart(s string, pos syntax.Pos) []syntax.WordPart {
	return []syntax.WordPart{&syntax.Literal{LitPos: pos, Value: s}}
}
