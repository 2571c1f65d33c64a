// ABOUTME: Shared plumbing for CLI commands
// ABOUTME: Output streams and small formatting helpers used by every command
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Commands write here instead of os.Stdout so tests can capture output.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func printf(format string, args ...any) {
	_, _ = fmt.Fprintf(stdout, format, args...)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// requireID returns the first positional argument or an error naming what is missing.
func requireID(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() < 1 || fs.Arg(0) == "" {
		return "", fmt.Errorf("%s ID is required", what)
	}
	return fs.Arg(0), nil
}

// optionalString reports a flag value only when the flag was given, so
// update commands can tell "set to empty" from "leave alone".
func optionalString(fs *flag.FlagSet, name string, value *string) *string {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	if !set {
		return nil
	}
	return value
}
