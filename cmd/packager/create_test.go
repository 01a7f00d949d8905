// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateCommand(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	target := filepath.Join(t.TempDir(), "widgets")

	if err := c.run(t, "create", target); err != nil {
		t.Fatalf("create error = %v\nstderr: %s", err, c.stderr)
	}

	data, err := os.ReadFile(filepath.Join(target, "widgets", "about", "version.txt"))
	if err != nil {
		t.Fatalf("version.txt not created: %v", err)
	}
	if strings.TrimSpace(string(data)) != "0.0.0" {
		t.Errorf("version.txt = %q, want 0.0.0", data)
	}
	if !strings.Contains(c.stdout.String(), "Created") {
		t.Errorf("stdout = %q, want creation notice", c.stdout)
	}
}

func TestCreateCommand_TargetExists(t *testing.T) {
	t.Parallel()

	c := newTestCLI(t)
	err := c.run(t, "create", t.TempDir())

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("create on existing dir error = %v, want *ExitError", err)
	}
	if !strings.Contains(c.stderr.String(), "already exists") {
		t.Errorf("stderr = %q, want target exists message", c.stderr)
	}
}

func TestCreateCommand_TemplateFromConfig(t *testing.T) {
	t.Parallel()

	tmpl := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpl, "packager", "about"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpl, "packager", "about", "version.txt"), []byte("1.0.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI(t)
	cfg, _ := c.app.Config.Load(t.Context(), c.app.loadOptions())
	cfg.Create.TemplateDir = tmpl

	target := filepath.Join(t.TempDir(), "gadget")
	if err := c.run(t, "create", target); err != nil {
		t.Fatalf("create error = %v\nstderr: %s", err, c.stderr)
	}
	data, err := os.ReadFile(filepath.Join(target, "gadget", "about", "version.txt"))
	if err != nil || string(data) != "1.0.0\n" {
		t.Errorf("version.txt = %q, %v; want template content", data, err)
	}
}
