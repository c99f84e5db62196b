package expand

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sandboxsh/vsh/pattern"
	"github.com/sandboxsh/vsh/syntax"
	"golang.org/x/text/unicode/norm"
)

// expandParam evaluates one ${...}/$name parameter expansion,
// including its operator suffix, array indexing, and namerefs.
func (c *Config) expandParam(p *syntax.ParameterExpansion, quoted bool) (string, error) {
	name := p.Name
	if ind, ok := p.Op.(syntax.Indirection); ok {
		_ = ind
		target, err := c.lookupScalar(name)
		if err != nil {
			return "", err
		}
		name = target
	}

	if _, ok := p.Op.(syntax.Length); ok {
		return c.paramLength(name, p.Index)
	}

	raw, isSet := c.rawLookup(name, p.Index)

	switch op := p.Op.(type) {
	case nil:
		if !isSet {
			if c.NoUnset {
				return "", &UnsetParameterError{Name: name}
			}
			return "", nil
		}
		return raw, nil
	case syntax.Indirection:
		if !isSet && c.NoUnset {
			return "", &UnsetParameterError{Name: name}
		}
		return raw, nil
	case syntax.DefaultValue:
		if isSet && (!op.CheckEmpty || raw != "") {
			return raw, nil
		}
		return c.Literal(op.Word)
	case syntax.AssignDefault:
		if isSet && (!op.CheckEmpty || raw != "") {
			return raw, nil
		}
		val, err := c.Literal(op.Word)
		if err != nil {
			return "", err
		}
		c.PendingAssigns = append(c.PendingAssigns, PendingAssign{Name: name, Value: val})
		return val, nil
	case syntax.ErrorIfUnset:
		if isSet && (!op.CheckEmpty || raw != "") {
			return raw, nil
		}
		msg, _ := c.Literal(op.Word)
		if msg == "" {
			msg = "parameter null or not set"
		}
		return "", &BadSubstitutionError{Text: name + ": " + msg}
	case syntax.UseAlternative:
		if !isSet || (op.CheckEmpty && raw == "") {
			return "", nil
		}
		return c.Literal(op.Word)
	case syntax.Substring:
		return c.paramSubstring(raw, op)
	case syntax.PatternRemoval:
		pat, err := c.Literal(op.Pattern)
		if err != nil {
			return "", err
		}
		return removePattern(raw, pat, op.Side, op.Greedy), nil
	case syntax.PatternReplacement:
		return c.paramReplace(raw, op)
	case syntax.CaseModification:
		return c.paramCaseMod(raw, op)
	}
	return raw, nil
}

func (c *Config) lookupScalar(name string) (string, error) {
	v, ok := c.Env.Get(name)
	if !ok {
		if c.NoUnset {
			return "", &UnsetParameterError{Name: name}
		}
		return "", nil
	}
	if s, ok := v.Value.(StringVal); ok {
		return string(s), nil
	}
	return "", nil
}

// rawLookup resolves name[index] (or the bare scalar) to its string
// value, reporting whether the variable is set at all.
func (c *Config) rawLookup(name string, index *syntax.Word) (string, bool) {
	v, ok := c.Env.Get(name)
	if !ok {
		return "", false
	}
	if index != nil {
		idx, _ := c.Literal(index)
		switch arr := v.Value.(type) {
		case IndexArray:
			if idx == "@" || idx == "*" {
				return joinArray(indexArrayValues(arr), idx), true
			}
			i, err := strconv.Atoi(idx)
			if err != nil {
				return "", false
			}
			s, ok := arr[i]
			return s, ok
		case AssocArray:
			if idx == "@" || idx == "*" {
				return joinArray(assocArrayValues(arr), idx), true
			}
			s, ok := arr[idx]
			return s, ok
		}
	}
	switch val := v.Value.(type) {
	case StringVal:
		return string(val), true
	case IndexArray:
		s, ok := val[0]
		return s, ok
	case AssocArray:
		return "", false
	case Unset:
		return "", false
	}
	return "", false
}

func indexArrayValues(arr IndexArray) []string {
	var keys []int
	for k := range arr {
		keys = append(keys, k)
	}
	sortInts(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = arr[k]
	}
	return out
}

func assocArrayValues(arr AssocArray) []string {
	var keys []string
	for k := range arr {
		keys = append(keys, k)
	}
	sortStrings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = arr[k]
	}
	return out
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func joinArray(vals []string, idx string) string {
	sep := " "
	if idx == "*" {
		sep = ""
	}
	return strings.Join(vals, sep)
}

// paramLength implements ${#var} and ${#arr[@]}. Scalar length uses
// NFC-normalized rune counting as a grapheme-count approximation
// (documented in DESIGN.md): true UAX #29 segmentation has no
// available implementation in this module's dependency set.
func (c *Config) paramLength(name string, index *syntax.Word) (string, error) {
	v, ok := c.Env.Get(name)
	if !ok {
		if c.NoUnset {
			return "", &UnsetParameterError{Name: name}
		}
		return "0", nil
	}
	if index != nil {
		idx, _ := c.Literal(index)
		if idx == "@" || idx == "*" {
			switch arr := v.Value.(type) {
			case IndexArray:
				return strconv.Itoa(len(arr)), nil
			case AssocArray:
				return strconv.Itoa(len(arr)), nil
			}
		}
	}
	raw, _ := c.rawLookup(name, index)
	return strconv.Itoa(graphemeCount(raw)), nil
}

func graphemeCount(s string) int {
	normalized := norm.NFC.String(s)
	count := 0
	for range normalized {
		count++
	}
	return count
}

func (c *Config) paramSubstring(raw string, op syntax.Substring) (string, error) {
	runes := []rune(raw)
	n := len(runes)
	offV, err := c.EvalArithm(op.Offset)
	if err != nil {
		return "", err
	}
	off := int(offV)
	if off < 0 {
		off += n
		if off < 0 {
			off = 0
		}
	}
	if off > n {
		off = n
	}
	length := n - off
	if op.Length != nil {
		lenV, err := c.EvalArithm(op.Length)
		if err != nil {
			return "", err
		}
		length = int(lenV)
		if length < 0 {
			length = n - off + length
		}
	}
	end := off + length
	if end > n {
		end = n
	}
	if end < off {
		end = off
	}
	return string(runes[off:end]), nil
}

func (c *Config) paramReplace(raw string, op syntax.PatternReplacement) (string, error) {
	pat, err := c.Literal(op.Pattern)
	if err != nil {
		return "", err
	}
	repl, err := c.Literal(op.Repl)
	if err != nil {
		return "", err
	}
	reSrc, err := pattern.Regexp(pat, 0)
	if err != nil {
		return raw, nil
	}
	if op.Anchor == syntax.AnchorStart {
		reSrc = "^(?:" + reSrc + ")"
	} else if op.Anchor == syntax.AnchorEnd {
		reSrc = "(?:" + reSrc + ")$"
	}
	re := mustCompile(reSrc)
	if re == nil {
		return raw, nil
	}
	if op.All {
		return re.ReplaceAllString(raw, escapeDollar(repl)), nil
	}
	loc := re.FindStringIndex(raw)
	if loc == nil {
		return raw, nil
	}
	return raw[:loc[0]] + repl + raw[loc[1]:], nil
}

func escapeDollar(s string) string { return strings.ReplaceAll(s, "$", "$$") }

func (c *Config) paramCaseMod(raw string, op syntax.CaseModification) (string, error) {
	pat := ""
	if op.Pattern != nil {
		p, err := c.Literal(op.Pattern)
		if err != nil {
			return "", err
		}
		pat = p
	}
	apply := func(r rune) rune {
		if op.Direction == syntax.CaseUpper {
			return upperRune(r)
		}
		return lowerRune(r)
	}
	if pat != "" {
		reSrc, err := pattern.Regexp(pat, 0)
		if err == nil {
			if re := mustCompile(reSrc); re != nil {
				return caseModMatchOnly(raw, re, apply, op.All), nil
			}
		}
	}
	runes := []rune(raw)
	if !op.All {
		if len(runes) == 0 {
			return raw, nil
		}
		runes[0] = apply(runes[0])
		return string(runes), nil
	}
	for i, r := range runes {
		runes[i] = apply(r)
	}
	return string(runes), nil
}

func caseModMatchOnly(s string, re interface{ FindStringIndex(string) []int }, apply func(rune) rune, all bool) string {
	var sb strings.Builder
	rest := s
	offset := 0
	for {
		loc := re.FindStringIndex(rest)
		if loc == nil {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:loc[0]])
		matched := []rune(rest[loc[0]:loc[1]])
		if len(matched) > 0 {
			matched[0] = apply(matched[0])
			if all {
				for i := 1; i < len(matched); i++ {
					matched[i] = apply(matched[i])
				}
			}
		}
		sb.WriteString(string(matched))
		rest = rest[loc[1]:]
		offset += loc[1]
		if !all {
			sb.WriteString(rest)
			break
		}
		if rest == "" {
			break
		}
	}
	return sb.String()
}

func upperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func lowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// removePattern implements ${var#pat}, ${var##pat}, ${var%pat},
// ${var%%pat}: trims the shortest or longest match of pat anchored to
// the named side.
func removePattern(s, pat string, side syntax.PatternSide, greedy bool) string {
	reSrc, err := pattern.Regexp(pat, 0)
	if err != nil {
		return s
	}
	if side == syntax.PrefixSide {
		reSrc = "^(?:" + reSrc + ")"
	} else {
		reSrc = "(?:" + reSrc + ")$"
	}
	re := mustCompile(reSrc)
	if re == nil {
		return s
	}
	if !greedy && side != syntax.PrefixSide {
		// A leftmost match always starts as early as possible, so the
		// shortest suffix is found by trying start points from the end.
		for i := len(s); i >= 0; i-- {
			if i < len(s) && !utf8.RuneStart(s[i]) {
				continue
			}
			if loc := re.FindStringIndex(s[i:]); loc != nil && loc[0] == 0 {
				return s[:i]
			}
		}
		return s
	}
	if !greedy {
		re = mustCompile(toShortest(reSrc))
		if re == nil {
			return s
		}
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	if side == syntax.PrefixSide {
		return s[loc[1]:]
	}
	return s[:loc[0]]
}

func toShortest(reSrc string) string {
	return "(?U)" + reSrc
}
