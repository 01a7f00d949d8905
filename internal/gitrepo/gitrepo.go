// SPDX-License-Identifier: MPL-2.0

// Package gitrepo inspects and initialises git repositories in-process with go-git.
//
// Mutating release operations (commit, tag, push) go through the git CLI so
// they honour the user's hooks, signing and credential helpers; this package
// only answers questions about a repository and creates new ones.
package gitrepo

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultInitBranch is the initial branch of repositories created by Init.
const DefaultInitBranch = "main"

var (
	// ErrNotRepository is returned when no repository contains the path.
	ErrNotRepository = errors.New("not a git repository")
	// ErrDetachedHead is returned when HEAD does not point at a branch.
	ErrDetachedHead = errors.New("HEAD is detached")
)

func open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return repo, nil
}

// IsRepository reports whether path is inside a git work tree.
func IsRepository(path string) bool {
	_, err := open(path)
	return err == nil
}

// CurrentBranch returns the short name of the branch HEAD points at. It also
// works in a repository without commits, where HEAD is an unborn branch.
func CurrentBranch(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short(), nil
	}
	return "", ErrDetachedHead
}

// ResolveBranch returns configured when set, otherwise the current branch of
// the repository at path, otherwise fallback.
func ResolveBranch(path, configured, fallback string) string {
	if configured != "" {
		return configured
	}
	branch, err := CurrentBranch(path)
	if err != nil {
		slog.Debug("could not detect current branch", "path", path, "fallback", fallback, "error", err)
		return fallback
	}
	return branch
}

// Init creates a non-bare repository at path with branch as its initial
// branch. An empty branch means DefaultInitBranch.
func Init(path, branch string) error {
	if branch == "" {
		branch = DefaultInitBranch
	}
	_, err := git.PlainInitWithOptions(path, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(branch),
		},
		Bare: false,
	})
	if err != nil {
		return fmt.Errorf("init repository %s: %w", path, err)
	}
	return nil
}
