// vshfmt formats shell scripts via printer.Format, the companion CLI
// to vsh. Given no arguments it reads stdin and writes the formatted
// result to stdout; given file arguments it writes each formatted
// result to stdout, or back to the file with -w, or prints a unified
// diff with -d. With -w or -d, an already-formatted file is left alone
// and produces no output.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/diff"
	"github.com/spf13/pflag"

	"github.com/sandboxsh/vsh/printer"
)

var (
	write      = pflag.BoolP("write", "w", false, "write result to the source file instead of stdout")
	showDiff   = pflag.BoolP("diff", "d", false, "print a diff instead of writing the result")
	indentFlag = pflag.IntP("indent", "i", 0, "indent width in spaces (0 uses a tab)")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()
	cfg := printer.Config{}
	if *indentFlag > 0 {
		cfg.Indent = fmt.Sprintf("%*s", *indentFlag, "")
	}

	if pflag.NArg() == 0 {
		return formatStdin(cfg)
	}

	status := 0
	for _, path := range pflag.Args() {
		if err := formatFile(path, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			status = 1
		}
	}
	return status
}

func formatStdin(cfg printer.Config) int {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vshfmt:", err)
		return 1
	}
	out, err := printer.Format(string(data), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vshfmt:", err)
		return 1
	}
	os.Stdout.WriteString(out)
	return 0
}

func formatFile(path string, cfg printer.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("vshfmt: %w", err)
	}
	out, err := printer.Format(string(data), cfg)
	if err != nil {
		return fmt.Errorf("vshfmt: %s: %w", path, err)
	}
	if out == string(data) && (*showDiff || *write) {
		return nil
	}
	switch {
	case *showDiff:
		return diff.Text(path, path+".formatted", bytes.NewReader(data), bytes.NewReader([]byte(out)), os.Stdout)
	case *write:
		return os.WriteFile(path, []byte(out), 0o644)
	default:
		os.Stdout.WriteString(out)
		return nil
	}
}
