// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/packager/packager/internal/config"
	"github.com/packager/packager/internal/release"
	"github.com/packager/packager/internal/runner"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type (
	// pushFlags holds the raw flag values of `packager push`.
	pushFlags struct {
		dryRun        bool
		noCleanBefore bool
		noCleanAfter  bool
		exclude       []string
		remote        string
		branch        string
		notes         string
		yes           bool
	}

	// stepToggle is a --<name>/--no-<name> flag pair bound to one PushOptions field.
	stepToggle struct {
		name  string
		usage string
		field func(*release.PushOptions) **bool
	}
)

var stepToggles = []stepToggle{
	{"history", "append the release to the version history", func(o *release.PushOptions) **bool { return &o.UpdateHistory }},
	{"commit", "commit and push history and manifest changes", func(o *release.PushOptions) **bool { return &o.GitCommit }},
	{"release", "create and push an annotated release tag", func(o *release.PushOptions) **bool { return &o.GitRelease }},
	{"build", "build a source distribution", func(o *release.PushOptions) **bool { return &o.BuildDistribution }},
	{"publish", "upload the distribution to the package index", func(o *release.PushOptions) **bool { return &o.PublishDistribution }},
	{"manifest", "regenerate MANIFEST.in", func(o *release.PushOptions) **bool { return &o.GenerateManifest }},
}

// newPushCommand creates the `packager push` command.
func newPushCommand(app *App) *cobra.Command {
	flags := &pushFlags{}

	cmd := &cobra.Command{
		Use:   "push <project-path> [notes...]",
		Short: "Release a package",
		Long: `Release the Python package rooted at <project-path>.

The release runs these steps in order, each one optional:
  1. remove dist/, build/, the egg-info and Python bytecode
  2. abort when git has staged changes
  3. append the version and notes to <name>/about/version_history.md
  4. regenerate MANIFEST.in
  5. tag the release and push the tag
  6. build a source distribution
  7. upload it with twine
  8. move build artifacts to the trash directory
  9. bump the last component of <name>/about/version.txt

Trailing arguments are joined into the release notes. A dry run skips
history, commits, tags, upload and the version bump.

` + SubtitleStyle.Render("Examples:") + `
  packager push ./mypkg --dry-run
  packager push ./mypkg Fix the frobnicator
  packager push ./mypkg --notes "Add CLI" --no-publish`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(cmd, app, flags, args)
		},
	}

	flags.register(cmd.Flags())
	for _, t := range stepToggles {
		cmd.MarkFlagsMutuallyExclusive(t.name, "no-"+t.name)
	}

	return cmd
}

func runPush(cmd *cobra.Command, app *App, flags *pushFlags, args []string) error {
	ctx := cmd.Context()
	cfg := app.effectiveConfig()
	root := args[0]

	opts, err := flags.options(cmd.Flags(), cfg.Push, args[1:])
	if err != nil {
		return err
	}
	settings, err := flags.settings(cfg.Push)
	if err != nil {
		return app.fail(cmd, "read push settings", "config", err)
	}
	settings.IsRepository = app.IsRepository
	settings.OnStep = func(s release.Step) {
		fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("›"), stepTitle(s))
	}

	orchestrator := release.New(app.FS, app.Runner, settings)
	plan, err := orchestrator.Prepare(ctx, root, opts)
	if err != nil {
		return app.fail(cmd, "prepare release", root, err)
	}

	fmt.Fprintln(app.stdout, renderPlan(plan))

	if needsConfirmation(plan.Config, cfg.Push, flags.yes) && app.Prompter.Interactive() {
		ok, err := app.Prompter.Confirm(
			fmt.Sprintf("Release %s %s?", plan.Metadata.Name, plan.Metadata.Version),
			"This pushes commits and tags to "+settings.Remote+".",
		)
		if err != nil {
			return app.fail(cmd, "confirm release", plan.Metadata.Name, err)
		}
		if !ok {
			fmt.Fprintln(app.stdout, WarningStyle.Render("Release canceled."))
			return nil
		}
	}

	report, err := orchestrator.Execute(ctx, plan)
	if err != nil {
		fmt.Fprintln(app.stdout, renderReport(report))
		return app.fail(cmd, "release", plan.Metadata.Name+" "+plan.Metadata.Version.String(), err)
	}

	fmt.Fprintln(app.stdout, renderReport(report))
	return nil
}

func (p *pushFlags) register(f *pflag.FlagSet) {
	f.BoolVar(&p.dryRun, "dry-run", false, "rehearse the release without committing, tagging, uploading or bumping")
	f.BoolVar(&p.noCleanBefore, "no-clean-before", false, "keep existing build artifacts")
	f.BoolVar(&p.noCleanAfter, "no-clean-after", false, "leave build artifacts in the project")
	for _, t := range stepToggles {
		f.Bool(t.name, false, t.usage)
		f.Bool("no-"+t.name, false, "do not "+t.usage)
	}
	f.StringArrayVar(&p.exclude, "exclude", nil, "top-level entry to leave out of MANIFEST.in (repeatable)")
	f.StringVar(&p.remote, "remote", "", "git remote to push to (default from config)")
	f.StringVar(&p.branch, "branch", "", "branch to push (default: current branch)")
	f.StringVar(&p.notes, "notes", "", "release notes")
	f.BoolVarP(&p.yes, "yes", "y", false, "do not ask for confirmation")
}

// options builds PushOptions from flags, config and the trailing notes.
// Only flags the user set become explicit values.
func (p *pushFlags) options(fs *pflag.FlagSet, pc config.PushConfig, notes []string) (release.PushOptions, error) {
	opts := release.PushOptions{
		DryRun:          p.dryRun,
		ManifestExclude: pc.ManifestExclude,
		ReleaseNotes:    strings.TrimSpace(strings.Join(append([]string{p.notes}, notes...), " ")),
	}
	if p.noCleanBefore {
		opts.CleanBefore = release.Bool(false)
	}
	if p.noCleanAfter {
		opts.CleanAfter = release.Bool(false)
	}
	if fs.Changed("exclude") {
		opts.ManifestExclude = p.exclude
	}

	for _, t := range stepToggles {
		on, err := fs.GetBool(t.name)
		if err != nil {
			return opts, err
		}
		off, err := fs.GetBool("no-" + t.name)
		if err != nil {
			return opts, err
		}
		switch {
		case fs.Changed(t.name):
			*t.field(&opts) = release.Bool(on)
		case fs.Changed("no-" + t.name):
			*t.field(&opts) = release.Bool(!off)
		}
	}
	return opts, nil
}

// settings merges config and flags into orchestrator settings.
func (p *pushFlags) settings(pc config.PushConfig) (release.Settings, error) {
	s := release.Settings{
		Remote:       pc.Remote,
		Branch:       pc.Branch,
		HistoryWidth: pc.HistoryWidth,
		Python:       pc.Python,
	}
	if p.remote != "" {
		s.Remote = p.remote
	}
	if p.branch != "" {
		s.Branch = p.branch
	}

	trash, err := pc.ResolveTrashDir()
	if err != nil {
		slog.Warn("no trash directory available, using the temp directory", "error", err)
	}
	s.TrashDir = trash

	if pc.BuildCommand != "" {
		if s.BuildCommand, err = runner.Split(pc.BuildCommand); err != nil {
			return s, err
		}
	}
	if pc.UploadCommand != "" {
		if s.UploadCommand, err = runner.Split(pc.UploadCommand); err != nil {
			return s, err
		}
	}
	return s, nil
}

// needsConfirmation reports whether the release reaches the remote or the
// index and the user has not opted out of the prompt.
func needsConfirmation(cfg release.PushConfig, pc config.PushConfig, yes bool) bool {
	if yes || cfg.DryRun || !pc.Confirm {
		return false
	}
	return cfg.GitCommit || cfg.GitRelease || cfg.PublishDistribution
}
