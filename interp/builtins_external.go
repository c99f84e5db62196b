package interp

import (
	"fmt"
	"strings"

	"github.com/sandboxsh/vsh/builtins"
)

// biHTTP issues a request through st.HTTPClient, if one was
// configured (left nil by default so network access is opt-in).
// Usage: http METHOD URL [HEADER=value ...]
func biHTTP(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	if ex.st.HTTPClient == nil {
		fmt.Fprintln(io_.stderr, "http: no HTTP client configured for this sandbox")
		return 1, noCtrl
	}
	if len(args) < 2 {
		fmt.Fprintln(io_.stderr, "usage: http METHOD URL [HEADER=value ...]")
		return 2, noCtrl
	}
	method, url := args[0], args[1]
	headers := map[string]string{}
	for _, kv := range args[2:] {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			headers[k] = v
		}
	}
	status, _, body, err := ex.st.HTTPClient.Do(method, url, headers, nil)
	if err != nil {
		fmt.Fprintf(io_.stderr, "http: %s\n", err)
		return 1, noCtrl
	}
	io_.stdout.Write(body)
	if status >= 400 {
		return 1, noCtrl
	}
	return 0, noCtrl
}

// externalRuntime adapts an executor's current I/O and virtual
// filesystem into the narrow builtins.Runtime surface the demonstrative
// utility catalogue expects.
func externalRuntime(ex *executor, io_ cmdIO) builtins.Runtime {
	return builtins.Runtime{
		Stdin:  io_.stdin,
		Stdout: io_.stdout,
		Stderr: io_.stderr,
		ReadFile: func(path string) ([]byte, error) {
			return ex.st.FS.ReadFile(ex.resolvePath(path))
		},
	}
}

func biCat(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	return builtins.Cat(externalRuntime(ex, io_), args), noCtrl
}

func biWc(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	return builtins.Wc(externalRuntime(ex, io_), args), noCtrl
}

func biSort(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	return builtins.Sort(externalRuntime(ex, io_), args), noCtrl
}

func biHead(ex *executor, io_ cmdIO, args []string) (int, ctrl) {
	return builtins.Head(externalRuntime(ex, io_), args), noCtrl
}
