// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultRemote is the git remote releases are pushed to.
	DefaultRemote = "origin"
	// FallbackBranch is used when the current branch cannot be detected.
	FallbackBranch = "master"
	// DefaultHistoryWidth is the wrap width of release notes in the version history table.
	DefaultHistoryWidth = 52
	// DefaultPython is the interpreter used to build distributions.
	DefaultPython = "python3"
	// DefaultUploadCommand uploads every file under dist/.
	DefaultUploadCommand = "twine upload"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidPushConfig is the sentinel error wrapped by InvalidPushConfigError.
	ErrInvalidPushConfig = errors.New("invalid push config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	// DefaultManifestExclude lists the top-level entries left out of MANIFEST.in.
	DefaultManifestExclude = []string{".git", ".gitignore"}
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidPushConfigError is returned when a PushConfig has invalid fields.
	InvalidPushConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Push holds defaults for the push workflow
		Push PushConfig `json:"push" mapstructure:"push"`
		// Create holds defaults for project scaffolding
		Create CreateConfig `json:"create" mapstructure:"create"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// PushConfig holds the defaults used by `packager push`.
	// CLI flags take precedence over every field.
	PushConfig struct {
		Remote string `json:"remote" mapstructure:"remote"`
		// Branch is the branch pushed after history and manifest commits.
		// Empty means the repository's current branch.
		Branch          string   `json:"branch" mapstructure:"branch"`
		ManifestExclude []string `json:"manifest_exclude" mapstructure:"manifest_exclude"`
		HistoryWidth    int      `json:"history_width" mapstructure:"history_width"`
		// TrashDir receives build artifacts after a push. Empty means
		// <user cache dir>/packager/trash.
		TrashDir string `json:"trash_dir" mapstructure:"trash_dir"`
		Python   string `json:"python" mapstructure:"python"`
		// BuildCommand replaces the detected sdist build when set.
		BuildCommand  string `json:"build_command" mapstructure:"build_command"`
		UploadCommand string `json:"upload_command" mapstructure:"upload_command"`
		// Confirm asks before pushing to the remote when stdin is a terminal.
		Confirm bool `json:"confirm" mapstructure:"confirm"`
	}

	// CreateConfig holds the defaults used by `packager create`.
	CreateConfig struct {
		TemplateDir string `json:"template_dir" mapstructure:"template_dir"`
		GitInit     bool   `json:"git_init" mapstructure:"git_init"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so callers can use errors.Is for programmatic detection.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// IsValid checks the fields that must be non-empty and the wrap width.
func (c PushConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Remote) == "" {
		errs = append(errs, errors.New("remote must not be empty"))
	}
	if c.HistoryWidth <= 0 {
		errs = append(errs, fmt.Errorf("history_width must be positive, got %d", c.HistoryWidth))
	}
	if strings.TrimSpace(c.Python) == "" {
		errs = append(errs, errors.New("python must not be empty"))
	}
	if strings.TrimSpace(c.UploadCommand) == "" {
		errs = append(errs, errors.New("upload_command must not be empty"))
	}
	for i, name := range c.ManifestExclude {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("manifest_exclude[%d] must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPushConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPushConfigError.
func (e *InvalidPushConfigError) Error() string {
	return fmt.Sprintf("invalid push config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidPushConfig for errors.Is() compatibility.
func (e *InvalidPushConfigError) Unwrap() error { return ErrInvalidPushConfig }

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Push.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
		Push: PushConfig{
			Remote:          DefaultRemote,
			Branch:          "",
			ManifestExclude: append([]string(nil), DefaultManifestExclude...),
			HistoryWidth:    DefaultHistoryWidth,
			TrashDir:        "",
			Python:          DefaultPython,
			BuildCommand:    "",
			UploadCommand:   DefaultUploadCommand,
			Confirm:         true,
		},
		Create: CreateConfig{
			TemplateDir: "",
			GitInit:     false,
		},
	}
}
