// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// Tolerance values, from strictest to most lenient.
const (
	// TolerateNone fails on a non-zero exit status or any output on stderr.
	TolerateNone Tolerance = iota
	// TolerateStderr treats stderr as informational; a non-zero exit still fails.
	TolerateStderr
	// TolerateAll never fails on exit status or stderr. Start failures still fail.
	TolerateAll
)

// StartFailureExitCode is reported when the process could not be started.
const StartFailureExitCode = -1

// ErrCommandFailed is the sentinel error wrapped by CommandError.
var ErrCommandFailed = errors.New("command failed")

type (
	// Tolerance selects which outcomes of a command count as failure.
	Tolerance int

	// Command describes one external process invocation.
	Command struct {
		// Args is the argv; Args[0] is looked up in PATH.
		Args []string
		// Dir is the working directory, normally the package root.
		Dir string
		// Env is appended to the current process environment.
		Env       []string
		Tolerance Tolerance
		// Display prints captured stdout after a successful run.
		Display bool
	}

	// Result is the captured outcome of a command.
	Result struct {
		Stdout   []string
		Stderr   []string
		ExitCode int
	}

	// CommandError is returned when a command fails under its Tolerance.
	// It wraps ErrCommandFailed and, for start failures, the underlying cause.
	CommandError struct {
		Command  []string
		Dir      string
		ExitCode int
		Stderr   []string
		// Err is set when the process could not be started.
		Err error
	}
)

// String returns the tolerance name.
func (t Tolerance) String() string {
	switch t {
	case TolerateNone:
		return "none"
	case TolerateStderr:
		return "stderr"
	case TolerateAll:
		return "all"
	default:
		return "Tolerance(" + strconv.Itoa(int(t)) + ")"
	}
}

// String renders the command as a shell-quoted line.
func (c Command) String() string {
	return QuoteArgs(c.Args)
}

// Error reports the command, its exit status and the full stderr text.
func (e *CommandError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "command `%s`", QuoteArgs(e.Command))
	if e.Err != nil {
		fmt.Fprintf(&msg, " could not be started: %v", e.Err)
		return msg.String()
	}
	fmt.Fprintf(&msg, " exited with status %d", e.ExitCode)
	if len(e.Stderr) > 0 {
		msg.WriteString(": ")
		msg.WriteString(strings.Join(e.Stderr, "\n"))
	}
	return msg.String()
}

// Unwrap exposes ErrCommandFailed and the start failure cause to errors.Is/As.
func (e *CommandError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCommandFailed, e.Err}
	}
	return []error{ErrCommandFailed}
}

// Split turns a configured command string into argv using POSIX shell
// field splitting. Environment variables are expanded.
func Split(command string) ([]string, error) {
	fields, err := shell.Fields(command, nil)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("parse command %q: empty command", command)
	}
	return fields, nil
}

// QuoteArgs joins argv into a single line that a POSIX shell would split
// back into the same words.
func QuoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		q, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			q = strconv.Quote(arg)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}

// splitLines strips carriage returns and splits on newlines, dropping the
// empty element produced by a trailing newline.
func splitLines(out string) []string {
	out = strings.ReplaceAll(out, "\r", "")
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// failed reports whether res counts as a failure under t.
func (t Tolerance) failed(res *Result) bool {
	switch t {
	case TolerateAll:
		return false
	case TolerateStderr:
		return res.ExitCode != 0
	default:
		return res.ExitCode != 0 || len(res.Stderr) > 0
	}
}
