// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

type (
	// Runner runs a Command and classifies its outcome.
	Runner interface {
		Run(ctx context.Context, cmd Command) (*Result, error)
	}

	// ExecRunner runs commands with os/exec.
	ExecRunner struct {
		// Out receives the "  $ <command>" echo and displayed output.
		// Nil discards both.
		Out io.Writer
	}
)

// New creates an ExecRunner echoing to out.
func New(out io.Writer) *ExecRunner {
	return &ExecRunner{Out: out}
}

// Run executes cmd in cmd.Dir. The returned Result is non-nil whenever the
// process ran, including when the error is a *CommandError.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if len(cmd.Args) == 0 {
		return nil, &CommandError{ExitCode: StartFailureExitCode, Err: errors.New("empty command")}
	}

	r.printf("  $ %s\n", cmd.String())
	slog.Debug("running command", "args", cmd.Args, "dir", cmd.Dir, "tolerance", cmd.Tolerance.String())

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := &Result{
		Stdout: splitLines(stdout.String()),
		Stderr: splitLines(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			if ctx.Err() != nil {
				err = fmt.Errorf("%w: %w", err, ctx.Err())
			}
			res.ExitCode = StartFailureExitCode
			return res, &CommandError{
				Command:  cmd.Args,
				Dir:      cmd.Dir,
				ExitCode: StartFailureExitCode,
				Stderr:   res.Stderr,
				Err:      err,
			}
		}
		res.ExitCode = exitErr.ExitCode()
	}

	slog.Debug("command finished", "args", cmd.Args, "exit", res.ExitCode, "stderr_lines", len(res.Stderr))

	if cmd.Tolerance.failed(res) {
		return res, &CommandError{
			Command:  cmd.Args,
			Dir:      cmd.Dir,
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}

	if cmd.Display {
		for _, line := range res.Stdout {
			r.printf("%s\n", line)
		}
		if cmd.Tolerance != TolerateNone {
			for _, line := range res.Stderr {
				r.printf("%s\n", line)
			}
		}
	}

	return res, nil
}

func (r *ExecRunner) printf(format string, args ...any) {
	if r.Out == nil {
		return
	}
	fmt.Fprintf(r.Out, format, args...)
}
