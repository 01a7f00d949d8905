// SPDX-License-Identifier: MPL-2.0

package pkgmeta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// AboutDir holds the metadata files inside the package directory.
	AboutDir = "about"
	// VersionFile stores the current version.
	VersionFile = "version.txt"
	// PublishFile stores whether the package is uploaded to the index.
	PublishFile = "on_pypi.txt"
	// HistoryFile is the Markdown release table.
	HistoryFile = "version_history.md"
	// NameFile sits at the project root and holds the distribution name.
	NameFile = "package_name.txt"

	commentPrefix = "%"
)

// Metadata holds read-only facts about the package under release.
type Metadata struct {
	// Path is the absolute package root.
	Path string
	// Name is the base name of Path and of the package directory inside it.
	Name           string
	Version        Version
	PublishToIndex bool
}

// AboutPath returns <root>/<name>/about.
func AboutPath(root string) string {
	root = filepath.Clean(root)
	return filepath.Join(root, filepath.Base(root), AboutDir)
}

// AboutPath returns the metadata directory of m.
func (m *Metadata) AboutPath() string { return filepath.Join(m.Path, m.Name, AboutDir) }

// VersionPath returns the path of version.txt.
func (m *Metadata) VersionPath() string { return filepath.Join(m.AboutPath(), VersionFile) }

// HistoryPath returns the path of version_history.md.
func (m *Metadata) HistoryPath() string { return filepath.Join(m.AboutPath(), HistoryFile) }

// ReadLines reads path and returns its lines without trailing newlines.
// Lines starting with '%' are dropped, and so are whitespace-only lines
// unless keepEmpty is set.
func ReadLines(fsys afero.Fs, path string, keepEmpty bool) ([]string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if !keepEmpty && strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, commentPrefix) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// firstLine returns the first processed line of path, or "" for a file with
// only comments and blanks.
func firstLine(fsys afero.Fs, path string) (string, error) {
	lines, err := ReadLines(fsys, path, false)
	if err != nil || len(lines) == 0 {
		return "", err
	}
	return strings.TrimSpace(lines[0]), nil
}

// Load reads the metadata of the package rooted at root. A missing
// on_pypi.txt means the package is not published.
func Load(fsys afero.Fs, root string) (*Metadata, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	m := &Metadata{Path: abs, Name: filepath.Base(abs)}

	versionPath := m.VersionPath()
	raw, err := firstLine(fsys, versionPath)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	v, err := ParseVersion(raw)
	if err != nil {
		var ive *InvalidVersionError
		if errors.As(err, &ive) {
			ive.Path = versionPath
		}
		return nil, err
	}
	m.Version = v

	publish, err := firstLine(fsys, filepath.Join(m.AboutPath(), PublishFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.PublishToIndex = false
	case err != nil:
		return nil, fmt.Errorf("read publish flag: %w", err)
	default:
		m.PublishToIndex = IsTruthy(publish)
	}

	return m, nil
}

// IsTruthy reports whether a publish flag value means yes: the trimmed,
// lowercased value starts with 't' (true, True, t).
func IsTruthy(value string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), "t")
}

// WriteVersion replaces the contents of path with "<v>\n".
func WriteVersion(fsys afero.Fs, path string, v Version) error {
	if err := afero.WriteFile(fsys, path, []byte(v.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	return nil
}
