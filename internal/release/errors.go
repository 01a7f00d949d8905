// SPDX-License-Identifier: MPL-2.0

package release

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingProject is the sentinel error wrapped by MissingProjectError.
	ErrMissingProject = errors.New("project not found")
	// ErrMissingMetadata is the sentinel error wrapped by MissingMetadataError.
	ErrMissingMetadata = errors.New("package metadata not found")
	// ErrStagedChanges is the sentinel error wrapped by StagedChangesError.
	ErrStagedChanges = errors.New("repository has staged changes")
	// ErrInsufficientArguments is the sentinel error wrapped by InsufficientArgumentsError.
	ErrInsufficientArguments = errors.New("release notes required")
	// ErrNoArtifacts is the sentinel error wrapped by NoArtifactsError.
	ErrNoArtifacts = errors.New("no distribution artifacts")
	// ErrNotRepository is the sentinel error wrapped by NotRepositoryError.
	ErrNotRepository = errors.New("project is not a git repository")
)

type (
	// MissingProjectError is returned when the package root does not exist.
	MissingProjectError struct {
		Path string
	}

	// MissingMetadataError is returned when <root>/<name>/about is absent.
	MissingMetadataError struct {
		Path string
	}

	// StagedChangesError is returned when the index holds changes that a
	// release commit would pick up.
	StagedChangesError struct {
		// Status is the git status output that revealed the changes.
		Status []string
	}

	// InsufficientArgumentsError is returned when a step that needs release
	// notes is enabled and none were given.
	InsufficientArgumentsError struct {
		Steps []string
	}

	// NoArtifactsError is returned when publishing finds nothing in dist/.
	NoArtifactsError struct {
		Dir string
	}

	// NotRepositoryError is returned when no git work tree contains the
	// package root.
	NotRepositoryError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *MissingProjectError) Error() string {
	return fmt.Sprintf("no project exists at %s", e.Path)
}

// Unwrap returns ErrMissingProject for errors.Is() compatibility.
func (e *MissingProjectError) Unwrap() error { return ErrMissingProject }

// Error implements the error interface.
func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("the directory %s must exist", e.Path)
}

// Unwrap returns ErrMissingMetadata for errors.Is() compatibility.
func (e *MissingMetadataError) Unwrap() error { return ErrMissingMetadata }

// Error implements the error interface.
func (e *StagedChangesError) Error() string {
	return "there are staged changes; commit or unstage them before releasing"
}

// Unwrap returns ErrStagedChanges for errors.Is() compatibility.
func (e *StagedChangesError) Unwrap() error { return ErrStagedChanges }

// Error implements the error interface.
func (e *InsufficientArgumentsError) Error() string {
	return fmt.Sprintf("release notes are required for %s", strings.Join(e.Steps, ", "))
}

// Unwrap returns ErrInsufficientArguments for errors.Is() compatibility.
func (e *InsufficientArgumentsError) Unwrap() error { return ErrInsufficientArguments }

// Error implements the error interface.
func (e *NoArtifactsError) Error() string {
	return fmt.Sprintf("no files to upload in %s", e.Dir)
}

// Unwrap returns ErrNoArtifacts for errors.Is() compatibility.
func (e *NoArtifactsError) Unwrap() error { return ErrNoArtifacts }

// Error implements the error interface.
func (e *NotRepositoryError) Error() string {
	return fmt.Sprintf("%s is not inside a git repository", e.Path)
}

// Unwrap returns ErrNotRepository for errors.Is() compatibility.
func (e *NotRepositoryError) Unwrap() error { return ErrNotRepository }
