package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dusk-indust/parsedescribe/internal/diag"
	"github.com/fatih/color"
)

// version is set by goreleaser at build time.
var version = "dev"

var errorPrefix = color.New(color.FgRed, color.Bold).Sprint("error:")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code: 0 on success, 1
// for usage and I/O errors, 2 when the engine aborted.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var abort *diag.AbortError
		if e, ok := r.(error); ok && errors.As(e, &abort) {
			reportAbort(stderr, abort)
			code = 2
			return
		}
		panic(r)
	}()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var abort *diag.AbortError
	if errors.As(err, &abort) {
		reportAbort(stderr, err)
		return 2
	}
	fmt.Fprintf(stderr, "%s %v\n", errorPrefix, err)
	return 1
}

// reportAbort prints an engine abort the same way for every mode, including
// aborts the MCP server turns into tool errors.
func reportAbort(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorPrefix, err)
}
