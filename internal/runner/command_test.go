// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"twine upload", []string{"twine", "upload"}, false},
		{`python3 -m build --sdist --outdir "dist dir"`, []string{"python3", "-m", "build", "--sdist", "--outdir", "dist dir"}, false},
		{"  make   sdist ", []string{"make", "sdist"}, false},
		{"", nil, true},
		{`echo "unterminated`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := Split(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Split(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuoteArgs(t *testing.T) {
	t.Parallel()

	got := QuoteArgs([]string{"git", "commit", "-m", "Update version history for 0.1.0"})
	want := "git commit -m 'Update version history for 0.1.0'"
	if got != want {
		t.Errorf("QuoteArgs() = %q, want %q", got, want)
	}

	// Quoted output splits back into the same words.
	args := []string{"git", "tag", "-a", "1.0.0", "-m", `it's "done" $HOME`}
	back, err := Split(QuoteArgs(args))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if !slices.Equal(back, args) {
		t.Errorf("round trip = %q, want %q", back, args)
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n", []string{""}},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb\n\n", []string{"a", "", "b", ""}},
	}

	for _, tt := range tests {
		if got := splitLines(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("splitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTolerance_String(t *testing.T) {
	t.Parallel()

	for tol, want := range map[Tolerance]string{
		TolerateNone:   "none",
		TolerateStderr: "stderr",
		TolerateAll:    "all",
		Tolerance(9):   "Tolerance(9)",
	} {
		if got := tol.String(); got != want {
			t.Errorf("Tolerance(%d).String() = %q, want %q", int(tol), got, want)
		}
	}
}

func TestCommandError(t *testing.T) {
	t.Parallel()

	err := &CommandError{Command: []string{"git", "push", "origin", "master"}, ExitCode: 1, Stderr: []string{"rejected"}}
	if got := err.Error(); got != "command `git push origin master` exited with status 1: rejected" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Error("CommandError should wrap ErrCommandFailed")
	}

	cause := errors.New("executable file not found")
	start := &CommandError{Command: []string{"twine"}, ExitCode: StartFailureExitCode, Err: cause}
	if !errors.Is(start, cause) {
		t.Error("start failure should wrap its cause")
	}
	if !strings.Contains(start.Error(), "could not be started") {
		t.Errorf("Error() = %q", start.Error())
	}
}
