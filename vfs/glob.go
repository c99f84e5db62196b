package vfs

import "github.com/bmatcuk/doublestar/v4"

// doublestarMatch matches a bash-style glob pattern (including "**")
// against a slash-separated relative path, reusing the same
// doublestar matcher a real consumer of an in-process shell
// interpreter reaches for when it needs recursive glob semantics.
func doublestarMatch(pattern, name string) (bool, error) {
	if pattern == "" {
		return name == "", nil
	}
	return doublestar.Match(pattern, name)
}
