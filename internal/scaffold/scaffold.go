// SPDX-License-Identifier: MPL-2.0

// Package scaffold creates new package projects ready for `packager push`.
package scaffold

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/packager/packager/internal/gitrepo"
	"github.com/packager/packager/internal/pkgmeta"

	"github.com/Masterminds/sprig/v3"
	"github.com/otiai10/copy"
	"github.com/spf13/afero"
)

const (
	// PlaceholderDir is the package directory inside a template; it is
	// renamed to the project name.
	PlaceholderDir = "packager"

	templateSuffix = ".tmpl"
	skeletonRoot   = "skeleton"
)

//go:embed all:skeleton
var skeleton embed.FS

// ErrTargetExists is the sentinel error wrapped by TargetExistsError.
var ErrTargetExists = errors.New("target already exists")

type (
	// Options controls project creation.
	Options struct {
		// Target is the project directory to create. Its base name becomes
		// the package name.
		Target string
		// TemplateDir is copied instead of the built-in skeleton when set.
		TemplateDir string
		// GitInit initialises a git repository in the new project.
		GitInit bool
	}

	// Result describes a created project.
	Result struct {
		Path string
		Name string
		// Source is the template directory, or "built-in".
		Source         string
		GitInitialized bool
	}

	// TargetExistsError is returned when the target path already exists.
	TargetExistsError struct {
		Path string
	}

	// templateData is passed to *.tmpl skeleton files.
	templateData struct {
		Name    string
		Created time.Time
	}
)

// Error implements the error interface.
func (e *TargetExistsError) Error() string {
	return fmt.Sprintf("%s already exists", e.Path)
}

// Unwrap returns ErrTargetExists so callers can use errors.Is for programmatic detection.
func (e *TargetExistsError) Unwrap() error { return ErrTargetExists }

// Create lays out a new project at opts.Target.
func Create(ctx context.Context, opts Options) (*Result, error) {
	return create(ctx, afero.NewOsFs(), opts, time.Now())
}

func create(ctx context.Context, fsys afero.Fs, opts Options, now time.Time) (*Result, error) {
	if strings.TrimSpace(opts.Target) == "" {
		return nil, errors.New("project path is empty")
	}
	target, err := filepath.Abs(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", opts.Target, err)
	}
	name := filepath.Base(target)

	if _, err := fsys.Stat(target); err == nil {
		return nil, &TargetExistsError{Path: target}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("check %s: %w", target, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Path: target, Name: name, Source: "built-in"}
	if opts.TemplateDir != "" {
		res.Source = opts.TemplateDir
		if err := copyTemplate(opts.TemplateDir, target); err != nil {
			return nil, err
		}
	} else if err := writeSkeleton(fsys, target, templateData{Name: name, Created: now}); err != nil {
		return nil, err
	}

	if err := renamePackageDir(fsys, target, name); err != nil {
		return nil, err
	}

	nameFile := filepath.Join(target, pkgmeta.NameFile)
	if err := afero.WriteFile(fsys, nameFile, []byte(name+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", nameFile, err)
	}

	if opts.GitInit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := gitrepo.Init(target, ""); err != nil {
			return nil, err
		}
		res.GitInitialized = true
	}

	slog.Debug("project created", "path", target, "source", res.Source, "git", res.GitInitialized)
	return res, nil
}

func copyTemplate(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("read template %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("template %s is not a directory", src)
	}

	err = copy.Copy(src, dest, copy.Options{
		// The template's own history and build output do not belong in a new project.
		Skip: func(info os.FileInfo, _, _ string) (bool, error) {
			if !info.IsDir() {
				return false, nil
			}
			switch info.Name() {
			case ".git", "dist", "build", "__pycache__":
				return true, nil
			}
			return strings.HasSuffix(info.Name(), ".egg-info"), nil
		},
	})
	if err != nil {
		return fmt.Errorf("copy template %s: %w", src, err)
	}
	return nil
}

// writeSkeleton extracts the embedded skeleton into target, rendering
// *.tmpl files with sprig functions available.
func writeSkeleton(fsys afero.Fs, target string, data templateData) error {
	return fs.WalkDir(skeleton, skeletonRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, skeletonRoot), "/")
		dest := filepath.Join(target, filepath.FromSlash(rel))

		if d.IsDir() {
			return fsys.MkdirAll(dest, 0o755)
		}

		content, err := skeleton.ReadFile(p)
		if err != nil {
			return err
		}
		if strings.HasSuffix(p, templateSuffix) {
			dest = strings.TrimSuffix(dest, templateSuffix)
			if content, err = render(path.Base(p), content, data); err != nil {
				return err
			}
		}
		if err := afero.WriteFile(fsys, dest, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		return nil
	})
}

func render(name string, content []byte, data templateData) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// renamePackageDir moves <target>/packager to <target>/<name>. Templates
// without a placeholder directory are left as they are.
func renamePackageDir(fsys afero.Fs, target, name string) error {
	if name == PlaceholderDir {
		return nil
	}
	src := filepath.Join(target, PlaceholderDir)
	if ok, err := afero.DirExists(fsys, src); err != nil || !ok {
		slog.Warn("template has no package directory to rename", "path", src)
		return nil
	}
	dest := filepath.Join(target, name)
	if err := fsys.Rename(src, dest); err != nil {
		return fmt.Errorf("rename %s to %s: %w", src, dest, err)
	}
	return nil
}
