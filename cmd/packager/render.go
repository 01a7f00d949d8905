// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/packager/packager/internal/release"

	"github.com/charmbracelet/lipgloss"
)

var stepTitles = map[release.Step]string{
	release.StepPreClean:  "Removing build artifacts",
	release.StepStatus:    "Checking git status",
	release.StepHistory:   "Updating version history",
	release.StepManifest:  "Generating MANIFEST.in",
	release.StepTag:       "Tagging release",
	release.StepBuild:     "Building source distribution",
	release.StepPublish:   "Uploading to the package index",
	release.StepPostClean: "Moving build artifacts to the trash",
	release.StepBump:      "Bumping version",
}

func stepTitle(s release.Step) string {
	if title, ok := stepTitles[s]; ok {
		return title
	}
	return string(s)
}

func reportRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, reportLabelStyle.Render(label), value)
}

func joinSteps(steps []release.Step) string {
	if len(steps) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// renderPlan summarises what a push is about to do.
func renderPlan(plan *release.Plan) string {
	meta := plan.Metadata
	mode := SuccessStyle.Render("release")
	if plan.Config.DryRun {
		mode = WarningStyle.Render("dry run")
	}

	rows := []string{
		TitleStyle.Render("Push plan"),
		reportRow("Package", CmdStyle.Render(meta.Name)+" "+VerboseStyle.Render(meta.Path)),
		reportRow("Version", CmdStyle.Render(meta.Version.String())),
		reportRow("Mode", mode),
		reportRow("Steps", joinSteps(plan.Config.Steps())),
	}
	if plan.Config.ReleaseNotes != "" {
		rows = append(rows, reportRow("Notes", plan.Config.ReleaseNotes))
	}
	if plan.Branch != "" {
		rows = append(rows, reportRow("Branch", plan.Branch))
	}
	return reportCardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderReport summarises a finished or aborted push.
func renderReport(report *release.Report) string {
	if report == nil {
		return ""
	}

	var skipped []release.Step
	for _, s := range report.Config.Steps() {
		if !slices.Contains(report.Executed, s) {
			skipped = append(skipped, s)
		}
	}

	title := SuccessStyle.Render("✓") + " " + TitleStyle.Render("Push complete")
	if len(skipped) > 0 {
		title = ErrorStyle.Render("✗") + " " + TitleStyle.Render("Push stopped")
	}

	version := CmdStyle.Render(report.Metadata.Version.String())
	if report.NewVersion != "" {
		version = fmt.Sprintf("%s → %s", version, CmdStyle.Render(report.NewVersion))
	}

	rows := []string{
		title,
		reportRow("Version", version),
		reportRow("Completed", joinSteps(report.Executed)),
	}
	if len(skipped) > 0 {
		rows = append(rows, reportRow("Not run", WarningStyle.Render(joinSteps(skipped))))
	}
	if report.TrashPath != "" {
		rows = append(rows, reportRow("Trash", VerboseStyle.Render(report.TrashPath)))
	}
	return reportCardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
