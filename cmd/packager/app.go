// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/packager/packager/internal/config"
	"github.com/packager/packager/internal/gitrepo"
	"github.com/packager/packager/internal/logging"
	"github.com/packager/packager/internal/runner"

	"github.com/spf13/afero"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and
	// delegates through its services.
	App struct {
		Config   config.Provider
		Runner   runner.Runner
		FS       afero.Fs
		Prompter Prompter
		// IsRepository reports whether a project lives in a git work tree.
		IsRepository func(path string) bool
		stdout       io.Writer
		stderr       io.Writer

		// Set by the root command's persistent flags and config.
		verbose    bool
		configPath string
		cfg        *config.Config
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config       config.Provider
		Runner       runner.Runner
		FS           afero.Fs
		Prompter     Prompter
		IsRepository func(path string) bool
		Stdout       io.Writer
		Stderr       io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = runner.New(deps.Stdout)
	}
	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}
	if deps.Prompter == nil {
		deps.Prompter = newTerminalPrompter()
	}
	if deps.IsRepository == nil {
		deps.IsRepository = gitrepo.IsRepository
	}

	return &App{
		Config:       deps.Config,
		Runner:       deps.Runner,
		FS:           deps.FS,
		Prompter:     deps.Prompter,
		IsRepository: deps.IsRepository,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
	}
}

// loadOptions returns the config loading inputs for the current invocation.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.configPath}
}

// initialize loads the configuration and installs the logger. A broken
// config file is reported and the defaults are used instead.
func (a *App) initialize(ctx context.Context) {
	logging.Install(logging.Options{Output: a.stderr, Level: logging.LevelFor(a.verbose), Timestamps: a.verbose})

	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		// Always surface config loading errors to the user.
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg
	applyColorScheme(cfg.UI.ColorScheme)

	if !a.verbose && cfg.UI.Verbose {
		a.verbose = true
		logging.Install(logging.Options{Output: a.stderr, Level: logging.DebugLevel, Timestamps: true})
	}
}

// effectiveConfig returns the loaded configuration, or the defaults before initialize.
func (a *App) effectiveConfig() *config.Config {
	if a.cfg == nil {
		return config.DefaultConfig()
	}
	return a.cfg
}
