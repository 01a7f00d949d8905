// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/packager/packager/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `packager config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage packager configuration",
		Long: `Manage packager configuration.

Configuration is stored in:
  - Linux: ~/.config/packager/config.cue
  - macOS: ~/Library/Application Support/packager/config.cue
  - Windows: %APPDATA%\packager\config.cue

A config.cue in the current directory is used when the file above is
missing. PACKAGER_* environment variables override file values, e.g.
PACKAGER_PUSH_REMOTE=upstream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, err := app.Config.Load(cmd.Context(), app.loadOptions())
	if err != nil {
		return app.fail(cmd, "load configuration", app.configPath, err)
	}

	source := SubtitleStyle.Render("(using defaults)")
	if path, err := config.SourcePath(app.loadOptions()); err == nil && path != "" {
		source = path
	}

	w := app.stdout
	fmt.Fprintf(w, "%s %s\n\n", CmdStyle.Render("// config file:"), source)
	fmt.Fprint(w, config.GenerateCUE(cfg))
	return nil
}

func initConfig(cmd *cobra.Command, app *App, force bool) error {
	path, err := config.FilePath(app.loadOptions())
	if err != nil {
		return app.fail(cmd, "locate configuration", "", err)
	}

	written, err := config.CreateDefaultConfig(path, force)
	if err != nil {
		return app.fail(cmd, "create configuration", path, err)
	}
	if !written {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), path)
		return nil
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path, err := config.FilePath(app.loadOptions())
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", path)

	if trash, err := config.DefaultTrashDir(); err == nil {
		fmt.Fprintf(app.stdout, "Trash directory: %s\n", trash)
	}
	return nil
}
