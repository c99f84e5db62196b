// vsh is a proof-of-concept CLI wrapper around interp: it reads a
// script (from -c, a file argument, or stdin), runs it to completion
// against a fresh, empty virtual filesystem, and relays the captured
// stdout/stderr/exit code to the real process. It never spawns real
// processes or touches the real filesystem; every script runs fully
// sandboxed.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/sandboxsh/vsh/config"
	"github.com/sandboxsh/vsh/expand"
	"github.com/sandboxsh/vsh/interp"
	"github.com/sandboxsh/vsh/vfs"
)

var (
	command    = pflag.StringP("command", "c", "", "command text to execute")
	configPath = pflag.StringP("config", "f", "", "path to a sandbox TOML config file")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()
	source, err := readSource()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	st := interp.New(expand.NewMapEnviron(os.Environ()), vfs.New())
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		config.Apply(st, cfg)
	}

	res, _ := interp.Exec(st, source)
	os.Stdout.WriteString(res.Stdout)
	os.Stderr.WriteString(res.Stderr)
	return res.ExitCode
}

func readSource() (string, error) {
	if *command != "" {
		return *command, nil
	}
	if pflag.NArg() > 0 {
		data, err := os.ReadFile(pflag.Arg(0))
		if err != nil {
			return "", fmt.Errorf("vsh: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("vsh: reading stdin: %w", err)
	}
	return string(data), nil
}
