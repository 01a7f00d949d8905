// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/packager/packager/internal/config"
	"github.com/packager/packager/internal/history"
	"github.com/packager/packager/internal/pkgmeta"
	"github.com/packager/packager/internal/runner"

	"github.com/spf13/afero"
)

const testRoot = "/src/mypkg"

type (
	staticConfigProvider struct {
		cfg *config.Config
		err error
	}

	recordingRunner struct {
		mu     sync.Mutex
		calls  []string
		stdout map[string][]string
	}

	scriptedPrompter struct {
		interactive bool
		answer      bool
		asked       []string
	}

	// syncBuffer is written by the process-wide slog logger, which parallel
	// tests swap concurrently.
	syncBuffer struct {
		mu  sync.Mutex
		buf bytes.Buffer
	}

	testCLI struct {
		app    *App
		fs     afero.Fs
		runner *recordingRunner
		prompt *scriptedPrompter
		stdout *syncBuffer
		stderr *syncBuffer
		// outsideGit makes the project look like it has no git repository.
		outsideGit bool
	}
)

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (p *staticConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.cfg, nil
}

func (r *recordingRunner) Run(_ context.Context, cmd runner.Command) (*runner.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.Join(cmd.Args, " ")
	r.calls = append(r.calls, key)
	return &runner.Result{Stdout: r.stdout[key]}, nil
}

func (p *scriptedPrompter) Interactive() bool { return p.interactive }

func (p *scriptedPrompter) Confirm(title, _ string) (bool, error) {
	p.asked = append(p.asked, title)
	return p.answer, nil
}

// newTestCLI builds an App over an in-memory project at testRoot, version
// 0.1.0, not published to the index.
func newTestCLI(t *testing.T) *testCLI {
	t.Helper()

	fsys := afero.NewMemMapFs()
	about := filepath.Join(testRoot, "mypkg", pkgmeta.AboutDir)
	files := map[string]string{
		filepath.Join(about, pkgmeta.VersionFile): "0.1.0\n",
		filepath.Join(about, pkgmeta.PublishFile): "false\n",
		filepath.Join(about, pkgmeta.HistoryFile): history.Header,
		filepath.Join(testRoot, "setup.py"):       "",
	}
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", path, err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Push.TrashDir = "/trash"

	c := &testCLI{
		fs:     fsys,
		runner: &recordingRunner{},
		prompt: &scriptedPrompter{},
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
	}
	c.app = NewApp(Dependencies{
		Config:       &staticConfigProvider{cfg: cfg},
		Runner:       c.runner,
		FS:           fsys,
		Prompter:     c.prompt,
		IsRepository: func(string) bool { return !c.outsideGit },
		Stdout:       c.stdout,
		Stderr:       c.stderr,
	})
	return c
}

func (c *testCLI) run(t *testing.T, args ...string) error {
	t.Helper()

	root := NewRootCommand(c.app)
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	return root.ExecuteContext(t.Context())
}

func (c *testCLI) version(t *testing.T) string {
	t.Helper()

	data, err := afero.ReadFile(c.fs, filepath.Join(testRoot, "mypkg", pkgmeta.AboutDir, pkgmeta.VersionFile))
	if err != nil {
		t.Fatalf("ReadFile(version.txt) error = %v", err)
	}
	return string(data)
}
