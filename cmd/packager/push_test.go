// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/packager/packager/internal/config"
	"github.com/packager/packager/internal/pkgmeta"
	"github.com/packager/packager/internal/release"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

func TestPushCommand_DryRun(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	c.prompt.interactive = true

	if err := c.run(t, "push", testRoot, "--dry-run"); err != nil {
		t.Fatalf("push --dry-run error = %v\nstderr: %s", err, c.stderr)
	}

	if got := c.version(t); got != "0.1.0\n" {
		t.Errorf("version.txt = %q, want unchanged", got)
	}
	if len(c.prompt.asked) != 0 {
		t.Errorf("dry run asked for confirmation: %q", c.prompt.asked)
	}
	for _, call := range c.runner.calls {
		if strings.HasPrefix(call, "git commit") || strings.HasPrefix(call, "git tag") || strings.HasPrefix(call, "git push") {
			t.Errorf("dry run ran mutating command %q", call)
		}
	}
	out := c.stdout.String()
	for _, want := range []string{"Push plan", "dry run", "Push complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestPushCommand_ConfirmDeclined(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	c.prompt.interactive = true

	if err := c.run(t, "push", testRoot, "Fix", "bug", "--branch", "main"); err != nil {
		t.Fatalf("push error = %v", err)
	}

	if want := []string{"Release mypkg 0.1.0?"}; !slices.Equal(c.prompt.asked, want) {
		t.Errorf("prompts = %q, want %q", c.prompt.asked, want)
	}
	if len(c.runner.calls) != 0 {
		t.Errorf("commands ran after the release was declined: %q", c.runner.calls)
	}
	if got := c.version(t); got != "0.1.0\n" {
		t.Errorf("version.txt = %q, want unchanged", got)
	}
	if !strings.Contains(c.stdout.String(), "Release canceled.") {
		t.Errorf("stdout = %q, want cancel notice", c.stdout)
	}
}

func TestPushCommand_Release(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	c.prompt.interactive = true
	c.prompt.answer = true

	if err := c.run(t, "push", testRoot, "Fix", "bug", "--branch", "main", "--no-manifest"); err != nil {
		t.Fatalf("push error = %v\nstderr: %s", err, c.stderr)
	}

	if got := c.version(t); got != "0.1.1\n" {
		t.Errorf("version.txt = %q, want %q", got, "0.1.1\n")
	}
	wantCalls := []string{
		"git status",
		"git add -- mypkg/about/version_history.md",
		"git commit -m Update version history for 0.1.0",
		"git push origin main",
		"git tag -a 0.1.0 -m Fix bug",
		"git push origin --tags",
	}
	if got := c.runner.calls[:len(wantCalls)]; !slices.Equal(got, wantCalls) {
		t.Errorf("commands = %q, want prefix %q", c.runner.calls, wantCalls)
	}

	hist, err := afero.ReadFile(c.fs, filepath.Join(testRoot, "mypkg", pkgmeta.AboutDir, pkgmeta.HistoryFile))
	if err != nil {
		t.Fatalf("ReadFile(history) error = %v", err)
	}
	if !strings.Contains(string(hist), "| 0.1.0<br>") || !strings.Contains(string(hist), "| Fix bug |") {
		t.Errorf("history = %q, want a row for 0.1.0 with the notes", hist)
	}
}

func TestPushCommand_YesSkipsPrompt(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	c.prompt.interactive = true

	if err := c.run(t, "push", testRoot, "--notes", "Fix bug", "--yes", "--branch", "main"); err != nil {
		t.Fatalf("push --yes error = %v\nstderr: %s", err, c.stderr)
	}
	if len(c.prompt.asked) != 0 {
		t.Errorf("--yes still prompted: %q", c.prompt.asked)
	}
	if got := c.version(t); got != "0.1.1\n" {
		t.Errorf("version.txt = %q, want bumped", got)
	}
}

func TestPushCommand_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{"missing project", []string{"push", "/nowhere/else"}, "no project exists"},
		{"notes required", []string{"push", testRoot}, "release notes are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestCLI(t)
			err := c.run(t, tt.args...)

			var exitErr *ExitError
			if !errors.As(err, &exitErr) || exitErr.Code != 1 {
				t.Fatalf("error = %v, want *ExitError with code 1", err)
			}
			if !strings.Contains(c.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", c.stderr, tt.wantStderr)
			}
			if !strings.Contains(c.stderr.String(), "Error:") {
				t.Errorf("stderr = %q, want styled error", c.stderr)
			}
		})
	}
}

func TestPushCommand_NotRepository(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	c.outsideGit = true

	err := c.run(t, "push", testRoot, "--dry-run")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || !errors.Is(err, release.ErrNotRepository) {
		t.Fatalf("error = %v, want *ExitError wrapping release.ErrNotRepository", err)
	}
	if !strings.Contains(c.stderr.String(), "not inside a git repository") {
		t.Errorf("stderr = %q, want repository error", c.stderr)
	}
	if len(c.runner.calls) != 0 {
		t.Errorf("commands ran outside a repository: %q", c.runner.calls)
	}
}

func TestPushCommand_ConflictingToggles(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	if err := c.run(t, "push", testRoot, "--history", "--no-history"); err == nil {
		t.Fatal("push --history --no-history error = nil")
	}
}

func TestPushFlags_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, opts release.PushOptions)
	}{
		{
			name: "omitted toggles stay nil",
			args: []string{testRoot},
			check: func(t *testing.T, opts release.PushOptions) {
				if opts.UpdateHistory != nil || opts.PublishDistribution != nil || opts.CleanBefore != nil {
					t.Errorf("options = %+v, want omitted toggles", opts)
				}
				if !slices.Equal(opts.ManifestExclude, config.DefaultManifestExclude) {
					t.Errorf("ManifestExclude = %q, want config value", opts.ManifestExclude)
				}
			},
		},
		{
			name: "positive and negative toggles",
			args: []string{testRoot, "--build", "--no-publish", "--no-clean-after"},
			check: func(t *testing.T, opts release.PushOptions) {
				if opts.BuildDistribution == nil || !*opts.BuildDistribution {
					t.Error("BuildDistribution should be explicitly true")
				}
				if opts.PublishDistribution == nil || *opts.PublishDistribution {
					t.Error("PublishDistribution should be explicitly false")
				}
				if opts.CleanAfter == nil || *opts.CleanAfter {
					t.Error("CleanAfter should be explicitly false")
				}
			},
		},
		{
			name: "notes flag and trailing words",
			args: []string{testRoot, "--notes", "Add CLI.", "Fix", "typo"},
			check: func(t *testing.T, opts release.PushOptions) {
				if opts.ReleaseNotes != "Add CLI. Fix typo" {
					t.Errorf("ReleaseNotes = %q", opts.ReleaseNotes)
				}
			},
		},
		{
			name: "exclude replaces config",
			args: []string{testRoot, "--exclude", "docs", "--exclude", ".git"},
			check: func(t *testing.T, opts release.PushOptions) {
				if want := []string{"docs", ".git"}; !slices.Equal(opts.ManifestExclude, want) {
					t.Errorf("ManifestExclude = %q, want %q", opts.ManifestExclude, want)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags := &pushFlags{}
			fs := pflag.NewFlagSet("push", pflag.ContinueOnError)
			flags.register(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			opts, err := flags.options(fs, config.DefaultConfig().Push, fs.Args()[1:])
			if err != nil {
				t.Fatalf("options() error = %v", err)
			}
			tt.check(t, opts)
		})
	}
}

func TestPushFlags_Settings(t *testing.T) {
	t.Parallel()

	pc := config.DefaultConfig().Push
	pc.TrashDir = "/trash"
	pc.BuildCommand = "make sdist PYTHON='python3 -X dev'"

	flags := &pushFlags{remote: "upstream"}
	s, err := flags.settings(pc)
	if err != nil {
		t.Fatalf("settings() error = %v", err)
	}
	if s.Remote != "upstream" || s.TrashDir != "/trash" {
		t.Errorf("settings = %+v", s)
	}
	if want := []string{"make", "sdist", "PYTHON=python3 -X dev"}; !slices.Equal(s.BuildCommand, want) {
		t.Errorf("BuildCommand = %q, want %q", s.BuildCommand, want)
	}
	if want := []string{"twine", "upload"}; !slices.Equal(s.UploadCommand, want) {
		t.Errorf("UploadCommand = %q, want %q", s.UploadCommand, want)
	}

	pc.UploadCommand = "twine 'upload"
	if _, err := flags.settings(pc); err == nil {
		t.Error("settings() with unbalanced quote error = nil")
	}
}

func TestNeedsConfirmation(t *testing.T) {
	t.Parallel()

	on := config.PushConfig{Confirm: true}
	tests := []struct {
		name string
		cfg  release.PushConfig
		pc   config.PushConfig
		yes  bool
		want bool
	}{
		{"commit asks", release.PushConfig{GitCommit: true}, on, false, true},
		{"publish asks", release.PushConfig{PublishDistribution: true}, on, false, true},
		{"local only", release.PushConfig{BuildDistribution: true}, on, false, false},
		{"dry run", release.PushConfig{DryRun: true, GitCommit: true}, on, false, false},
		{"--yes", release.PushConfig{GitRelease: true}, on, true, false},
		{"disabled in config", release.PushConfig{GitRelease: true}, config.PushConfig{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := needsConfirmation(tt.cfg, tt.pc, tt.yes); got != tt.want {
				t.Errorf("needsConfirmation() = %v, want %v", got, tt.want)
			}
		})
	}
}
