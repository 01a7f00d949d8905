// SPDX-License-Identifier: MPL-2.0

// Package manifest generates an all-inclusive MANIFEST.in for a source distribution.
package manifest

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// FileName is the manifest written at the package root.
const FileName = "MANIFEST.in"

type (
	// Kind tells how a top-level entry is included.
	Kind int

	// Rule includes one top-level entry of the package root.
	Rule struct {
		Name string
		Kind Kind
	}
)

const (
	// File entries become "include <name>".
	File Kind = iota
	// Dir entries become "recursive-include <name> *".
	Dir
)

// String renders the rule as a MANIFEST.in line.
func (r Rule) String() string {
	if r.Kind == Dir {
		return "recursive-include " + r.Name + " *"
	}
	return "include " + r.Name
}

// Generate lists the top-level entries of root in lexical order and returns
// one rule per entry whose name is not in exclude.
func Generate(fsys afero.Fs, root string, exclude []string) ([]Rule, error) {
	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	rules := make([]Rule, 0, len(entries))
	for _, entry := range entries {
		if slices.Contains(exclude, entry.Name()) {
			continue
		}
		kind := File
		if entry.IsDir() {
			kind = Dir
		}
		rules = append(rules, Rule{Name: entry.Name(), Kind: kind})
	}
	slices.SortFunc(rules, func(a, b Rule) int { return strings.Compare(a.Name, b.Name) })
	return rules, nil
}

// Render joins rules into file content, one line per rule.
func Render(rules []Rule) string {
	var sb strings.Builder
	for _, r := range rules {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Write generates the manifest for root and writes it to root/MANIFEST.in.
// The manifest lists itself unless excluded, whether or not it existed
// before. It returns the rules written.
func Write(fsys afero.Fs, root string, exclude []string) ([]Rule, error) {
	rules, err := Generate(fsys, root, exclude)
	if err != nil {
		return nil, err
	}
	self := Rule{Name: FileName, Kind: File}
	if !slices.Contains(exclude, FileName) && !slices.Contains(rules, self) {
		rules = append(rules, self)
		slices.SortFunc(rules, func(a, b Rule) int { return strings.Compare(a.Name, b.Name) })
	}
	path := filepath.Join(root, FileName)
	if err := afero.WriteFile(fsys, path, []byte(Render(rules)), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return rules, nil
}
