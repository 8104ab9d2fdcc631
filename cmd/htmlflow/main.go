package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	exitCode := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(stdin)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCommandFailed, err)
		return exitCodeOf(err)
	}
	return ExitCodeSuccess
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           CLIName,
		Short:         CLIDescription,
		Long:          CLILong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		renderCmd(stdin, stdout),
		serveCmd(),
		listCmd(stdout),
		versionCmd(stdout),
	)
	return root
}

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	msg  string
	err  error
}

func newExitError(code int, msg string, err error) *exitError {
	return &exitError{code: code, msg: msg, err: err}
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// exitCodeOf maps an error to an exit code. Errors not raised by a command
// come from argument parsing.
func exitCodeOf(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitCodeUsageError
}
