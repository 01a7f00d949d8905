// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/packager/packager/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Color palette shared by every styled line the CLI prints.
const (
	// ColorPrimary is purple, for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorSuccess is green, for completed steps and checkmarks.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, for failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber, for warnings and skipped steps.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue, for commands, paths and versions.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

// Grays follow the terminal background, see applyColorScheme.
var (
	// ColorMuted is gray, for subtitles and de-emphasized content.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}

	// ColorVerbose is light gray, for supplementary details.
	ColorVerbose = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command names, paths and versions.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for verbose output and supplementary information.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	// reportLabelStyle is for the left column of the push report.
	reportLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWarning).
				Width(14)

	// reportCardStyle frames the push report.
	reportCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)

// applyColorScheme pins the terminal background for adaptive colors. Auto
// leaves detection to lipgloss.
func applyColorScheme(cs config.ColorScheme) {
	switch cs {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}

// issueStyle returns the glamour style used for issue catalog entries.
func issueStyle(cs config.ColorScheme) string {
	if cs == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}
