// Package builtins provides a small demonstrative set of external
// collaborator utilities wired through interp.Builtins — enough to
// exercise the registry end to end. The full coreutils-style catalogue
// (grep/sed/awk/jq/find) is a separate concern outside this module's
// scope.
package builtins

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Runtime is the narrow surface a utility in this package needs: its
// input, its output streams, and read access to the virtual
// filesystem for the file-reading utilities.
type Runtime struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	ReadFile func(path string) ([]byte, error)
}

// Cat concatenates each named file (or stdin, if none given) to
// Stdout.
func Cat(rt Runtime, args []string) int {
	if len(args) == 0 {
		io.Copy(rt.Stdout, rt.Stdin)
		return 0
	}
	status := 0
	for _, name := range args {
		data, err := rt.ReadFile(name)
		if err != nil {
			fmt.Fprintf(rt.Stderr, "cat: %s: No such file or directory\n", name)
			status = 1
			continue
		}
		rt.Stdout.Write(data)
	}
	return status
}

// Wc counts lines, words, and bytes of stdin, mirroring "wc" with no
// flags.
func Wc(rt Runtime, args []string) int {
	data, _ := io.ReadAll(rt.Stdin)
	lines := strings.Count(string(data), "\n")
	words := len(strings.Fields(string(data)))
	fmt.Fprintf(rt.Stdout, "%7d %7d %7d\n", lines, words, len(data))
	return 0
}

// Sort reads stdin lines and writes them back sorted.
func Sort(rt Runtime, args []string) int {
	data, _ := io.ReadAll(rt.Stdin)
	text := string(data)
	text = strings.TrimSuffix(text, "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(rt.Stdout, l)
	}
	return 0
}

// Head writes the first n lines of stdin (default 10) to Stdout.
func Head(rt Runtime, args []string) int {
	n := 10
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-n" {
			fmt.Sscanf(args[i+1], "%d", &n)
		}
	}
	data, _ := io.ReadAll(rt.Stdin)
	text := strings.TrimSuffix(string(data), "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	if n > len(lines) {
		n = len(lines)
	}
	for _, l := range lines[:n] {
		fmt.Fprintln(rt.Stdout, l)
	}
	return 0
}
