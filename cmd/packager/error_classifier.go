// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/packager/packager/internal/issue"
	"github.com/packager/packager/internal/pkgmeta"
	"github.com/packager/packager/internal/release"
	"github.com/packager/packager/internal/runner"
	"github.com/packager/packager/internal/scaffold"
)

// classifyError maps a failure to its issue catalog ID. Zero means the error
// has no catalog entry.
func classifyError(err error) issue.Id {
	var cmdErr *runner.CommandError
	switch {
	case errors.Is(err, release.ErrMissingProject):
		return issue.ProjectNotFoundId
	case errors.Is(err, release.ErrMissingMetadata):
		return issue.MetadataNotFoundId
	case errors.Is(err, pkgmeta.ErrInvalidVersion), errors.Is(err, pkgmeta.ErrVersionOverflow):
		return issue.InvalidVersionId
	case errors.Is(err, release.ErrInsufficientArguments):
		return issue.ReleaseNotesMissingId
	case errors.Is(err, release.ErrStagedChanges):
		return issue.StagedChangesId
	case errors.Is(err, release.ErrNoArtifacts):
		return issue.NoArtifactsId
	case errors.Is(err, release.ErrNotRepository):
		return issue.NotRepositoryId
	case errors.Is(err, scaffold.ErrTargetExists):
		return issue.TargetExistsId
	case errors.Is(err, exec.ErrNotFound):
		return issue.ToolNotFoundId
	case errors.As(err, &cmdErr):
		return issue.CommandFailedId
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	default:
		return 0
	}
}

// suggestionsFor returns the short remediation hints shown under an error.
func suggestionsFor(id issue.Id) []string {
	switch id {
	case issue.ProjectNotFoundId:
		return []string{"check the project path", "create a project with 'packager create <path>'"}
	case issue.MetadataNotFoundId:
		return []string{"the package directory must share the project directory's name"}
	case issue.InvalidVersionId:
		return []string{"use dot-separated integers such as 0.3.12"}
	case issue.ReleaseNotesMissingId:
		return []string{"pass notes after the project path or with --notes", "or run with --dry-run"}
	case issue.StagedChangesId:
		return []string{"commit or unstage the changes, then push again"}
	case issue.ToolNotFoundId:
		return []string{"install git, python and twine, or adjust push.python / push.upload_command"}
	case issue.NotRepositoryId:
		return []string{"run 'git init' in the project", "or create it with 'packager create <path> --git-init'"}
	case issue.CommandFailedId:
		return []string{"re-run with --verbose to see every command"}
	default:
		return nil
	}
}

// newCommandError wraps err with operation context and pre-renders it for
// the terminal.
func newCommandError(operation, resource string, err error, verbose bool) *ServiceError {
	id := classifyError(err)
	wrapped := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestionsFor(id)...).
		Wrap(err).
		Build()

	styled := fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(wrapped, verbose))
	return newServiceError(wrapped, id, styled)
}
