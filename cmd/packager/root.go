// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/packager/packager/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the packager command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "packager",
		Short: "Release helper for Python packages",
		Long: TitleStyle.Render("packager") + SubtitleStyle.Render(" - Release helper for Python packages") + `

packager scaffolds new Python projects and automates releases: it cleans
build artifacts, appends the version history, regenerates MANIFEST.in,
commits and tags the release, builds a source distribution, uploads it
to the package index and bumps the version.

` + SubtitleStyle.Render("Examples:") + `
  packager create ./mypkg                     Scaffold a new project
  packager push ./mypkg --dry-run             Rehearse a release
  packager push ./mypkg Fix the frobnicator   Release with notes
  packager config show                        Show current configuration`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.initialize(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/packager/config.cue)")

	rootCmd.AddCommand(newPushCommand(app))
	rootCmd.AddCommand(newCreateCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the root command. It is
// called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints errors that were not rendered by a command handler.
// An ExitError has already been shown to the user.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// fail renders err and returns the ExitError the handler should return.
// Errors are already printed, so Cobra is told to stay quiet.
func (a *App) fail(cmd *cobra.Command, operation, resource string, err error) error {
	svcErr := newCommandError(operation, resource, err, a.verbose)
	renderServiceError(a.stderr, svcErr, a.verbose, issueStyle(a.effectiveConfig().UI.ColorScheme))
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: svcErr}
}
