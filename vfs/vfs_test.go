package vfs

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestWriteReadFile(t *testing.T) {
	c := qt.New(t)
	fsys := New()
	c.Assert(fsys.MkdirAll("/home/user", 0o755), qt.IsNil)
	c.Assert(fsys.WriteFile("/home/user/a.txt", []byte("hello"), 0o644), qt.IsNil)

	data, err := fsys.ReadFile("/home/user/a.txt")
	c.Assert(err, qt.IsNil)
	c.Check(string(data), qt.Equals, "hello")

	info, err := fsys.Stat("/home/user/a.txt")
	c.Assert(err, qt.IsNil)
	c.Check(info.IsDir(), qt.IsFalse)
	c.Check(info.Size(), qt.Equals, int64(5))
}

func TestAppendFile(t *testing.T) {
	c := qt.New(t)
	fsys := New()
	c.Assert(fsys.WriteFile("/x", []byte("a"), 0o644), qt.IsNil)
	c.Assert(fsys.AppendFile("/x", []byte("b")), qt.IsNil)
	data, err := fsys.ReadFile("/x")
	c.Assert(err, qt.IsNil)
	c.Check(string(data), qt.Equals, "ab")
}

func TestReadDirSorted(t *testing.T) {
	c := qt.New(t)
	fsys := New()
	c.Assert(fsys.WriteFile("/b", nil, 0o644), qt.IsNil)
	c.Assert(fsys.WriteFile("/a", nil, 0o644), qt.IsNil)
	c.Assert(fsys.Mkdir("/c", 0o755), qt.IsNil)

	entries, err := fsys.ReadDir("/")
	c.Assert(err, qt.IsNil)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	c.Check(names, qt.DeepEquals, []string{"a", "b", "c"})
}

func TestRemoveNonEmptyDir(t *testing.T) {
	c := qt.New(t)
	fsys := New()
	c.Assert(fsys.MkdirAll("/d", 0o755), qt.IsNil)
	c.Assert(fsys.WriteFile("/d/f", []byte("x"), 0o644), qt.IsNil)
	c.Check(fsys.Remove("/d"), qt.IsNotNil)
	c.Assert(fsys.RemoveAll("/d"), qt.IsNil)
	_, err := fsys.Stat("/d")
	c.Check(err, qt.IsNotNil)
}

func TestGlobRecursive(t *testing.T) {
	c := qt.New(t)
	fsys := New()
	c.Assert(fsys.MkdirAll("/a/b", 0o755), qt.IsNil)
	c.Assert(fsys.WriteFile("/a/b/x.go", nil, 0o644), qt.IsNil)
	c.Assert(fsys.WriteFile("/a/y.go", nil, 0o644), qt.IsNil)

	matches, err := fsys.Glob("**/*.go")
	c.Assert(err, qt.IsNil)
	c.Check(len(matches) >= 2, qt.IsTrue)
}

func TestRename(t *testing.T) {
	c := qt.New(t)
	fsys := New()
	c.Assert(fsys.WriteFile("/old", []byte("v"), 0o644), qt.IsNil)
	c.Assert(fsys.Rename("/old", "/new"), qt.IsNil)
	data, err := fsys.ReadFile("/new")
	c.Assert(err, qt.IsNil)
	c.Check(string(data), qt.Equals, "v")
}
