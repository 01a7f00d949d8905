// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/packager/packager/internal/config"
	"github.com/packager/packager/internal/gitrepo"
	"github.com/packager/packager/internal/history"
	"github.com/packager/packager/internal/pkgmeta"
	"github.com/packager/packager/internal/runner"

	"github.com/spf13/afero"
)

// Step names a stage of the push pipeline.
type Step string

// Pipeline steps in execution order.
const (
	StepPreClean  Step = "pre-clean"
	StepStatus    Step = "status"
	StepHistory   Step = "history"
	StepManifest  Step = "manifest"
	StepTag       Step = "tag"
	StepBuild     Step = "build"
	StepPublish   Step = "publish"
	StepPostClean Step = "post-clean"
	StepBump      Step = "bump"
)

var allSteps = []Step{
	StepPreClean, StepStatus, StepHistory, StepManifest, StepTag,
	StepBuild, StepPublish, StepPostClean, StepBump,
}

type (
	// Settings are the environment-specific knobs of the orchestrator,
	// usually taken from the push section of the configuration.
	Settings struct {
		Remote string
		// Branch empty means the repository's current branch.
		Branch       string
		HistoryWidth int
		// TrashDir receives dist/, build/ and the egg-info after a push.
		TrashDir string
		Python   string
		// BuildCommand overrides the detected build when non-empty.
		BuildCommand  []string
		UploadCommand []string
		// OnStep is called before each step runs.
		OnStep func(Step)
		// IsRepository defaults to gitrepo.IsRepository.
		IsRepository func(path string) bool
		// Now defaults to time.Now.
		Now func() time.Time
	}

	// Orchestrator runs the push workflow against a filesystem and a
	// command runner.
	Orchestrator struct {
		fs       afero.Fs
		runner   runner.Runner
		settings Settings
	}

	// Plan is a validated push ready to execute.
	Plan struct {
		Metadata *pkgmeta.Metadata
		Config   PushConfig
		// Branch is resolved only when commits are pushed.
		Branch string
	}

	// Report describes a finished push.
	Report struct {
		Metadata *pkgmeta.Metadata
		Config   PushConfig
		Executed []Step
		// NewVersion is empty on a dry run.
		NewVersion string
		// TrashPath is where build artifacts were moved, if anywhere.
		TrashPath string
	}

	// execution carries the state of one pipeline run.
	execution struct {
		*Orchestrator
		plan   *Plan
		report *Report
		root   string
		now    time.Time
	}
)

// DefaultSettings returns settings matching config.DefaultConfig.
func DefaultSettings() Settings {
	return Settings{
		Remote:        config.DefaultRemote,
		HistoryWidth:  config.DefaultHistoryWidth,
		Python:        config.DefaultPython,
		UploadCommand: []string{"twine", "upload"},
	}
}

// New creates an Orchestrator. Zero-valued settings fall back to DefaultSettings.
func New(fsys afero.Fs, r runner.Runner, settings Settings) *Orchestrator {
	defaults := DefaultSettings()
	if settings.Remote == "" {
		settings.Remote = defaults.Remote
	}
	if settings.HistoryWidth <= 0 {
		settings.HistoryWidth = defaults.HistoryWidth
	}
	if settings.Python == "" {
		settings.Python = defaults.Python
	}
	if len(settings.UploadCommand) == 0 {
		settings.UploadCommand = defaults.UploadCommand
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.IsRepository == nil {
		settings.IsRepository = gitrepo.IsRepository
	}
	return &Orchestrator{fs: fsys, runner: r, settings: settings}
}

// Prepare validates the project at root and resolves opts into a Plan.
// Nothing is modified.
func (o *Orchestrator) Prepare(ctx context.Context, root string, opts PushOptions) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	if ok, _ := afero.Exists(o.fs, abs); !ok {
		return nil, &MissingProjectError{Path: abs}
	}
	about := pkgmeta.AboutPath(abs)
	if ok, _ := afero.DirExists(o.fs, about); !ok {
		return nil, &MissingMetadataError{Path: about}
	}

	meta, err := pkgmeta.Load(o.fs, abs)
	if err != nil {
		return nil, err
	}

	cfg := Resolve(opts, meta)
	if cfg.ReleaseNotes == "" {
		if steps := cfg.NotesRequiredBy(); len(steps) > 0 {
			return nil, &InsufficientArgumentsError{Steps: steps}
		}
	}

	if !o.settings.IsRepository(abs) {
		return nil, &NotRepositoryError{Path: abs}
	}

	plan := &Plan{Metadata: meta, Config: cfg}
	if cfg.GitCommit {
		plan.Branch = gitrepo.ResolveBranch(abs, o.settings.Branch, config.FallbackBranch)
	}

	slog.Debug("push planned", "package", meta.Name, "version", meta.Version.String(), "steps", cfg.Steps())
	return plan, nil
}

// Push prepares and executes a release of the project at root.
func (o *Orchestrator) Push(ctx context.Context, root string, opts PushOptions) (*Report, error) {
	plan, err := o.Prepare(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	return o.Execute(ctx, plan)
}

// Execute runs the steps of plan in order and stops at the first failure.
// The returned Report lists the steps that completed, also on error.
func (o *Orchestrator) Execute(ctx context.Context, plan *Plan) (*Report, error) {
	e := &execution{
		Orchestrator: o,
		plan:         plan,
		report:       &Report{Metadata: plan.Metadata, Config: plan.Config},
		root:         plan.Metadata.Path,
		now:          o.settings.Now(),
	}

	steps := map[Step]func(context.Context) error{
		StepPreClean:  e.preClean,
		StepStatus:    e.checkStatus,
		StepHistory:   e.updateHistory,
		StepManifest:  e.generateManifest,
		StepTag:       e.tagRelease,
		StepBuild:     e.buildDistribution,
		StepPublish:   e.publishDistribution,
		StepPostClean: e.postClean,
		StepBump:      e.bumpVersion,
	}

	for _, step := range plan.Config.Steps() {
		if err := ctx.Err(); err != nil {
			return e.report, err
		}
		if o.settings.OnStep != nil {
			o.settings.OnStep(step)
		}
		slog.Debug("step started", "step", string(step))
		if err := steps[step](ctx); err != nil {
			slog.Debug("step failed", "step", string(step), "error", err)
			return e.report, fmt.Errorf("%s: %w", step, err)
		}
		e.report.Executed = append(e.report.Executed, step)
	}

	return e.report, nil
}

// run executes args in the package root with the given tolerance.
func (e *execution) run(ctx context.Context, tolerance runner.Tolerance, display bool, args ...string) (*runner.Result, error) {
	return e.runner.Run(ctx, runner.Command{
		Args:      args,
		Dir:       e.root,
		Tolerance: tolerance,
		Display:   display,
	})
}

// rel returns path relative to the package root for use in git arguments.
func (e *execution) rel(path string) string {
	r, err := filepath.Rel(e.root, path)
	if err != nil {
		return path
	}
	return r
}

func (e *execution) version() string {
	return e.plan.Metadata.Version.String()
}

// commitAndPush stages files, commits them with message and pushes the branch.
func (e *execution) commitAndPush(ctx context.Context, message string, files ...string) error {
	add := append([]string{"git", "add", "--"}, files...)
	if _, err := e.run(ctx, runner.TolerateNone, false, add...); err != nil {
		return err
	}
	if _, err := e.run(ctx, runner.TolerateNone, false, "git", "commit", "-m", message); err != nil {
		return err
	}
	// git reports push progress on stderr.
	_, err := e.run(ctx, runner.TolerateStderr, false, "git", "push", e.settings.Remote, e.plan.Branch)
	return err
}

func (e *execution) historyRow() string {
	return history.FormatRow(e.version(), e.plan.Config.ReleaseNotes, e.now, e.settings.HistoryWidth)
}
