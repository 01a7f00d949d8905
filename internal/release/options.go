// SPDX-License-Identifier: MPL-2.0

package release

import (
	"slices"
	"strings"

	"github.com/packager/packager/internal/config"
	"github.com/packager/packager/internal/pkgmeta"
)

type (
	// PushOptions is the caller's request. Nil pointer fields are omitted
	// and get inferred defaults from Resolve.
	PushOptions struct {
		DryRun              bool
		CleanBefore         *bool
		CleanAfter          *bool
		UpdateHistory       *bool
		GitCommit           *bool
		GitRelease          *bool
		BuildDistribution   *bool
		PublishDistribution *bool
		GenerateManifest    *bool
		// ManifestExclude nil means config.DefaultManifestExclude.
		ManifestExclude []string
		ReleaseNotes    string
	}

	// PushConfig is the resolved plan of a push.
	PushConfig struct {
		DryRun              bool
		CleanBefore         bool
		CleanAfter          bool
		UpdateHistory       bool
		GitCommit           bool
		GitRelease          bool
		BuildDistribution   bool
		PublishDistribution bool
		GenerateManifest    bool
		ManifestExclude     []string
		ReleaseNotes        string
	}
)

// Resolve fills omitted options. Explicit values are never overridden.
//
//	UpdateHistory, GitCommit, GitRelease       !DryRun
//	BuildDistribution                          meta.PublishToIndex
//	PublishDistribution                        BuildDistribution && !DryRun
//	CleanBefore, CleanAfter, GenerateManifest  true
func Resolve(opts PushOptions, meta *pkgmeta.Metadata) PushConfig {
	live := !opts.DryRun

	cfg := PushConfig{
		DryRun:            opts.DryRun,
		CleanBefore:       valueOr(opts.CleanBefore, true),
		CleanAfter:        valueOr(opts.CleanAfter, true),
		UpdateHistory:     valueOr(opts.UpdateHistory, live),
		GitCommit:         valueOr(opts.GitCommit, live),
		GitRelease:        valueOr(opts.GitRelease, live),
		BuildDistribution: valueOr(opts.BuildDistribution, meta.PublishToIndex),
		GenerateManifest:  valueOr(opts.GenerateManifest, true),
		ReleaseNotes:      strings.TrimSpace(opts.ReleaseNotes),
	}
	cfg.PublishDistribution = valueOr(opts.PublishDistribution, cfg.BuildDistribution && live)

	if opts.ManifestExclude == nil {
		cfg.ManifestExclude = slices.Clone(config.DefaultManifestExclude)
	} else {
		cfg.ManifestExclude = slices.Clone(opts.ManifestExclude)
	}
	return cfg
}

// NotesRequiredBy lists the enabled steps that need release notes.
func (c PushConfig) NotesRequiredBy() []string {
	var steps []string
	if c.UpdateHistory {
		steps = append(steps, "history")
	}
	if c.GitCommit {
		steps = append(steps, "commit")
	}
	if c.GitRelease {
		steps = append(steps, "release")
	}
	return steps
}

// Steps lists the pipeline steps that will run, in order.
func (c PushConfig) Steps() []Step {
	steps := make([]Step, 0, len(allSteps))
	for _, s := range allSteps {
		if c.enabled(s) {
			steps = append(steps, s)
		}
	}
	return steps
}

func (c PushConfig) enabled(s Step) bool {
	switch s {
	case StepPreClean:
		return c.CleanBefore
	case StepStatus:
		return true
	case StepHistory:
		return c.UpdateHistory
	case StepManifest:
		return c.GenerateManifest
	case StepTag:
		return c.GitRelease
	case StepBuild:
		return c.BuildDistribution
	case StepPublish:
		return c.PublishDistribution
	case StepPostClean:
		return c.CleanAfter
	case StepBump:
		return !c.DryRun
	default:
		return false
	}
}

// Bool returns a pointer to b, for filling PushOptions.
func Bool(b bool) *bool { return &b }

func valueOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
