// Command sortdeps sorts the dependencies blocks of Gradle build scripts.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit statuses.
const (
	exitOK             = 0
	exitNoBuildScripts = 1
	exitNotSorted      = 2
	exitParseErrors    = 3
	exitError          = 4
)

// statusError carries a non-zero exit status out of a command.
type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line args and returns the exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var se *statusError
	if errors.As(err, &se) {
		if se.err != nil {
			fmt.Fprintf(stderr, "error: %v\n", se.err)
		}
		return se.code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitError
}
