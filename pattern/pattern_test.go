package pattern

import (
	"regexp"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestRegexpBasic(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		pat, str string
		want     bool
	}{
		{"foo*bar", "foobar", true},
		{"foo*bar", "foo-baz-bar", true},
		{"foo?bar", "fooxbar", true},
		{"foo?bar", "fooxxbar", false},
		{`foo\*bar`, "foo*bar", true},
		{`foo\*bar`, "fooxbar", false},
		{"[abc]x", "ax", true},
		{"[abc]x", "dx", false},
		{"[[:digit:]]", "5", true},
		{"[[:digit:]]", "a", false},
	}
	for _, tc := range tests {
		re, err := Regexp(tc.pat, EntireString)
		c.Assert(err, qt.IsNil)
		got := regexp.MustCompile(re).MatchString(tc.str)
		c.Check(got, qt.Equals, tc.want, qt.Commentf("pattern %q vs %q", tc.pat, tc.str))
	}
}

func TestRegexpFilenames(t *testing.T) {
	c := qt.New(t)
	re := MustRegexp("a/*.go", Filenames|EntireString)
	c.Check(re.MatchString("a/b.go"), qt.IsTrue)
	c.Check(re.MatchString("a/b/c.go"), qt.IsFalse)

	re2 := MustRegexp("a/**/*.go", Filenames|EntireString)
	c.Check(re2.MatchString("a/b/c.go"), qt.IsTrue)
	c.Check(re2.MatchString("a/b/c/d.go"), qt.IsTrue)
}

func TestHasMeta(t *testing.T) {
	c := qt.New(t)
	c.Check(HasMeta("foo*bar"), qt.IsTrue)
	c.Check(HasMeta(`foo\*bar`), qt.IsFalse)
	c.Check(HasMeta("plain"), qt.IsFalse)
}

func TestQuoteMeta(t *testing.T) {
	c := qt.New(t)
	c.Check(QuoteMeta("foo*bar?"), qt.Equals, `foo\*bar\?`)
	c.Check(QuoteMeta("plain"), qt.Equals, "plain")
}
