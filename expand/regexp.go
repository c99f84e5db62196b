package expand

import "regexp"

// mustCompile compiles src, returning nil instead of panicking on
// malformed input — callers treat a nil result as "no match" rather
// than propagating a regexp compile error up through word expansion.
func mustCompile(src string) *regexp.Regexp {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil
	}
	return re
}
