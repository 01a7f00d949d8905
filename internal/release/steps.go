// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/packager/packager/internal/history"
	"github.com/packager/packager/internal/manifest"
	"github.com/packager/packager/internal/pkgmeta"
	"github.com/packager/packager/internal/runner"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

const (
	distDir  = "dist"
	buildDir = "build"

	stagedMarker = "Changes to be committed"
	trashLayout  = "20060102-150405"
)

// artifactDirs returns the directories produced by a distribution build.
func (e *execution) artifactDirs() []string {
	return []string{distDir, buildDir, e.plan.Metadata.Name + ".egg-info"}
}

func (e *execution) preClean(_ context.Context) error {
	for _, dir := range e.artifactDirs() {
		path := filepath.Join(e.root, dir)
		if err := e.fs.RemoveAll(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return removeBytecode(e.fs, e.root)
}

// removeBytecode deletes *.pyc files and __pycache__ directories under root.
func removeBytecode(fsys afero.Fs, root string) error {
	var targets []string
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		switch {
		case info.IsDir() && info.Name() == ".git":
			return filepath.SkipDir
		case info.IsDir() && info.Name() == "__pycache__":
			targets = append(targets, path)
			return filepath.SkipDir
		case !info.IsDir() && filepath.Ext(path) == ".pyc":
			targets = append(targets, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	for _, path := range targets {
		if err := fsys.RemoveAll(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

func (e *execution) checkStatus(ctx context.Context) error {
	res, err := e.runner.Run(ctx, runner.Command{
		Args: []string{"git", "status"},
		Dir:  e.root,
		Env:  []string{"LC_ALL=C"},
	})
	if err != nil {
		return err
	}
	for _, line := range res.Stdout {
		if strings.Contains(line, stagedMarker) {
			return &StagedChangesError{Status: res.Stdout}
		}
	}
	return nil
}

func (e *execution) updateHistory(ctx context.Context) error {
	path := e.plan.Metadata.HistoryPath()
	if err := history.Append(e.fs, path, e.historyRow()); err != nil {
		return err
	}
	if !e.plan.Config.GitCommit {
		return nil
	}
	return e.commitAndPush(ctx, "Update version history for "+e.version(), e.rel(path))
}

func (e *execution) generateManifest(ctx context.Context) error {
	rules, err := manifest.Write(e.fs, e.root, e.plan.Config.ManifestExclude)
	if err != nil {
		return err
	}
	slog.Debug("manifest written", "rules", len(rules))
	if !e.plan.Config.GitCommit {
		return nil
	}

	res, err := e.run(ctx, runner.TolerateNone, false, "git", "status", "--porcelain", manifest.FileName)
	if err != nil {
		return err
	}
	if len(res.Stdout) == 0 {
		slog.Debug("manifest unchanged, skipping commit")
		return nil
	}
	return e.commitAndPush(ctx, "Update manifest for "+e.version(), manifest.FileName)
}

func (e *execution) tagRelease(ctx context.Context) error {
	version := e.version()
	if _, err := e.run(ctx, runner.TolerateNone, false, "git", "tag", "-a", version, "-m", e.plan.Config.ReleaseNotes); err != nil {
		return err
	}
	_, err := e.run(ctx, runner.TolerateStderr, false, "git", "push", e.settings.Remote, "--tags")
	return err
}

func (e *execution) buildDistribution(ctx context.Context) error {
	args, err := e.buildCommand()
	if err != nil {
		return err
	}
	if _, err := e.run(ctx, runner.TolerateNone, true, args...); err != nil {
		return err
	}
	return removeBytecode(e.fs, e.root)
}

// buildCommand returns the configured build command, or the one matching the
// project layout: setup.py wins over a pyproject.toml build-system.
func (e *execution) buildCommand() ([]string, error) {
	if len(e.settings.BuildCommand) > 0 {
		return e.settings.BuildCommand, nil
	}

	python := e.settings.Python
	if ok, _ := afero.Exists(e.fs, filepath.Join(e.root, "setup.py")); ok {
		return []string{python, "setup.py", "sdist"}, nil
	}

	pyproject := filepath.Join(e.root, "pyproject.toml")
	data, err := afero.ReadFile(e.fs, pyproject)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{python, "setup.py", "sdist"}, nil
		}
		return nil, fmt.Errorf("read %s: %w", pyproject, err)
	}

	var project struct {
		BuildSystem *struct {
			Requires     []string `toml:"requires"`
			BuildBackend string   `toml:"build-backend"`
		} `toml:"build-system"`
	}
	if err := toml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parse %s: %w", pyproject, err)
	}
	if project.BuildSystem == nil {
		return []string{python, "setup.py", "sdist"}, nil
	}
	slog.Debug("using pyproject build", "backend", project.BuildSystem.BuildBackend)
	return []string{python, "-m", "build", "--sdist"}, nil
}

func (e *execution) publishDistribution(ctx context.Context) error {
	dist := filepath.Join(e.root, distDir)
	matches, err := afero.Glob(e.fs, filepath.Join(dist, "*"))
	if err != nil {
		return fmt.Errorf("list %s: %w", dist, err)
	}
	if len(matches) == 0 {
		return &NoArtifactsError{Dir: dist}
	}

	args := append([]string{}, e.settings.UploadCommand...)
	for _, m := range matches {
		args = append(args, e.rel(m))
	}
	_, err = e.run(ctx, runner.TolerateStderr, true, args...)
	return err
}

func (e *execution) postClean(ctx context.Context) error {
	name := e.plan.Metadata.Name
	trash := filepath.Join(e.settings.TrashDir, name, e.now.Format(trashLayout))
	if e.settings.TrashDir == "" {
		trash = filepath.Join(os.TempDir(), "packager-trash", name, e.now.Format(trashLayout))
	}
	if err := e.fs.MkdirAll(trash, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", trash, err)
	}
	e.report.TrashPath = trash

	for _, dir := range e.artifactDirs() {
		if _, err := e.run(ctx, runner.TolerateAll, false, "mv", dir, trash); err != nil {
			return err
		}
	}
	return nil
}

func (e *execution) bumpVersion(_ context.Context) error {
	current := e.plan.Metadata.Version
	next, err := current.Bump()
	if err != nil {
		return err
	}
	if next.Compare(current) <= 0 {
		return fmt.Errorf("bumped version %s does not follow %s", next, current)
	}
	if err := pkgmeta.WriteVersion(e.fs, e.plan.Metadata.VersionPath(), next); err != nil {
		return err
	}
	e.report.NewVersion = next.String()
	return nil
}
