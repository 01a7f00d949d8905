// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/packager/packager/internal/gitrepo"
	"github.com/packager/packager/internal/pkgmeta"

	"github.com/spf13/afero"
)

var created = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func TestCreate_BuiltinSkeleton(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	res, err := create(context.Background(), fsys, Options{Target: "/work/mypkg"}, created)
	if err != nil {
		t.Fatalf("create() error = %v", err)
	}
	if res.Name != "mypkg" || res.Path != filepath.Clean("/work/mypkg") || res.Source != "built-in" {
		t.Errorf("Result = %+v", res)
	}

	root := "/work/mypkg"
	for _, rel := range []string{
		"setup.py",
		"README.md",
		".gitignore",
		"package_name.txt",
		"mypkg/__init__.py",
		"mypkg/about/version.txt",
		"mypkg/about/on_pypi.txt",
		"mypkg/about/version_history.md",
		"mypkg/about/description.txt",
	} {
		if ok, _ := afero.Exists(fsys, filepath.Join(root, rel)); !ok {
			t.Errorf("missing %s", rel)
		}
	}
	for _, rel := range []string{"packager", "README.md.tmpl", "mypkg/about/description.txt.tmpl"} {
		if ok, _ := afero.Exists(fsys, filepath.Join(root, rel)); ok {
			t.Errorf("unexpected %s", rel)
		}
	}

	if got := readFile(t, fsys, filepath.Join(root, "package_name.txt")); got != "mypkg\n" {
		t.Errorf("package_name.txt = %q", got)
	}
	if got := readFile(t, fsys, filepath.Join(root, "README.md")); !strings.HasPrefix(got, "# mypkg\n") {
		t.Errorf("README.md = %q", got)
	}
	if got := readFile(t, fsys, filepath.Join(root, "mypkg/about/description.txt")); !strings.Contains(got, "October 2026") {
		t.Errorf("description.txt = %q", got)
	}

	// The new project is immediately loadable.
	meta, err := pkgmeta.Load(fsys, root)
	if err != nil {
		t.Fatalf("pkgmeta.Load() error = %v", err)
	}
	if meta.Version.String() != "0.0.0" || meta.PublishToIndex {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestCreate_TargetExists(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/work/taken", 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := create(context.Background(), fsys, Options{Target: "/work/taken"}, created)
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("create() error = %v, want ErrTargetExists", err)
	}
	var tee *TargetExistsError
	if !errors.As(err, &tee) || tee.Path != filepath.Clean("/work/taken") {
		t.Errorf("TargetExistsError = %+v", tee)
	}
}

func TestCreate_EmptyTarget(t *testing.T) {
	t.Parallel()

	if _, err := create(context.Background(), afero.NewMemMapFs(), Options{Target: "  "}, created); err == nil {
		t.Error("create() with empty target should fail")
	}
}

func TestCreate_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fsys := afero.NewMemMapFs()
	if _, err := create(ctx, fsys, Options{Target: "/work/late"}, created); !errors.Is(err, context.Canceled) {
		t.Fatalf("create() error = %v, want context.Canceled", err)
	}
	if ok, _ := afero.Exists(fsys, "/work/late"); ok {
		t.Error("nothing should be written after cancellation")
	}
}

func TestCreate_FromTemplateDir(t *testing.T) {
	t.Parallel()

	tmpl := t.TempDir()
	files := map[string]string{
		"setup.cfg":                  "[metadata]\n",
		"packager/__init__.py":       "",
		"packager/about/version.txt": "1.0.0\n",
		".git/HEAD":                  "ref: refs/heads/main\n",
		"dist/old-1.0.0.tar.gz":      "stale",
		"packager.egg-info/PKG-INFO": "stale",
		"packager/__pycache__/x.pyc": "stale",
	}
	for rel, content := range files {
		p := filepath.Join(tmpl, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	target := filepath.Join(t.TempDir(), "widgets")
	res, err := Create(context.Background(), Options{Target: target, TemplateDir: tmpl})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.Source != tmpl {
		t.Errorf("Source = %q, want %q", res.Source, tmpl)
	}

	for _, rel := range []string{"setup.cfg", "widgets/__init__.py", "widgets/about/version.txt", "package_name.txt"} {
		if _, err := os.Stat(filepath.Join(target, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	for _, rel := range []string{".git", "dist", "packager", "packager.egg-info", "widgets/__pycache__"} {
		if _, err := os.Stat(filepath.Join(target, rel)); err == nil {
			t.Errorf("unexpected %s", rel)
		}
	}
}

func TestCreate_TemplateNotDirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "template.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Create(context.Background(), Options{Target: filepath.Join(t.TempDir(), "p"), TemplateDir: file})
	if err == nil {
		t.Error("Create() with a file as template should fail")
	}
}

func TestCreate_GitInit(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "gitpkg")
	res, err := Create(context.Background(), Options{Target: target, GitInit: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !res.GitInitialized {
		t.Error("GitInitialized = false")
	}
	branch, err := gitrepo.CurrentBranch(target)
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if branch != gitrepo.DefaultInitBranch {
		t.Errorf("branch = %q, want %q", branch, gitrepo.DefaultInitBranch)
	}
}

func TestCreate_ProjectNamedLikePlaceholder(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if _, err := create(context.Background(), fsys, Options{Target: "/work/packager"}, created); err != nil {
		t.Fatalf("create() error = %v", err)
	}
	if ok, _ := afero.DirExists(fsys, "/work/packager/packager/about"); !ok {
		t.Error("package directory should keep its name")
	}
}
