package interp

import (
	"bytes"
	"io"
	"regexp"

	"github.com/sandboxsh/vsh/expand"
	"github.com/sandboxsh/vsh/pattern"
)

func stringVal(s string) expand.VarValue { return expand.StringVal(s) }

// bufWriter returns a fresh buffer used to capture a nested
// executor's output before it is flushed into the real destination
// writer, letting eval/source run as if they were an ordinary nested
// Exec call.
func bufWriter(io.Writer) *bytes.Buffer { return &bytes.Buffer{} }

func flushBuf(src *bytes.Buffer, dst io.Writer) { dst.Write(src.Bytes()) }

var globMatchCache = map[string]*regexp.Regexp{}

// globMatch reports whether s matches the bash glob pattern pat,
// anchored to the entire string (as case/esac and [[ = ]] require).
func globMatch(pat, s string) bool {
	re, ok := globMatchCache[pat]
	if !ok {
		src, err := pattern.Regexp(pat, pattern.EntireString)
		if err != nil {
			return pat == s
		}
		re, err = regexp.Compile(src)
		if err != nil {
			return pat == s
		}
		globMatchCache[pat] = re
	}
	return re.MatchString(s)
}
