// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/packager/packager/internal/scaffold"

	"github.com/spf13/cobra"
)

// newCreateCommand creates the `packager create` command.
func newCreateCommand(app *App) *cobra.Command {
	var (
		templateDir string
		gitInit     bool
	)

	cmd := &cobra.Command{
		Use:   "create <project-path>",
		Short: "Scaffold a new Python package",
		Long: `Scaffold a new Python package at <project-path>.

The base name of <project-path> becomes the package name. The project is
copied from the built-in skeleton, or from --template (config:
create.template_dir), whose "packager" directory is renamed after the
package.

` + SubtitleStyle.Render("Examples:") + `
  packager create ./mypkg
  packager create ./mypkg --git-init
  packager create ./mypkg --template ~/templates/python`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.effectiveConfig().Create
			opts := scaffold.Options{
				Target:      args[0],
				TemplateDir: cfg.TemplateDir,
				GitInit:     cfg.GitInit,
			}
			if cmd.Flags().Changed("template") {
				opts.TemplateDir = templateDir
			}
			if cmd.Flags().Changed("git-init") {
				opts.GitInit = gitInit
			}
			return runCreate(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&templateDir, "template", "", "template directory to copy instead of the built-in skeleton")
	cmd.Flags().BoolVar(&gitInit, "git-init", false, "initialise a git repository in the new project")

	return cmd
}

func runCreate(cmd *cobra.Command, app *App, opts scaffold.Options) error {
	res, err := scaffold.Create(cmd.Context(), opts)
	if err != nil {
		return app.fail(cmd, "create project", opts.Target, err)
	}

	w := app.stdout
	fmt.Fprintf(w, "%s Created %s at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(res.Name), res.Path)
	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("template:"), res.Source)
	if res.GitInitialized {
		fmt.Fprintf(w, "  %s initialised\n", SubtitleStyle.Render("git:"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintf(w, "  1. Describe the package in %s/about/description.txt\n", res.Name)
	fmt.Fprintln(w, "  2. Set about/on_pypi.txt to true to publish on the package index")
	fmt.Fprintf(w, "  3. Release with: %s\n", CmdStyle.Render("packager push "+opts.Target+" <notes>"))
	return nil
}
