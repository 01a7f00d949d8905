// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/packager/packager/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "packager"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. PACKAGER_PUSH_REMOTE.
	EnvPrefix = "PACKAGER"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the packager configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the config file that Load would read for opts. The file
// does not need to exist.
func FilePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// DefaultTrashDir returns <user cache dir>/packager/trash.
func DefaultTrashDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, AppName, "trash"), nil
}

// ResolveTrashDir returns TrashDir, or DefaultTrashDir when it is unset.
func (c PushConfig) ResolveTrashDir() (string, error) {
	if c.TrashDir != "" {
		return c.TrashDir, nil
	}
	return DefaultTrashDir()
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("push.remote", defaults.Push.Remote)
	v.SetDefault("push.branch", defaults.Push.Branch)
	v.SetDefault("push.manifest_exclude", defaults.Push.ManifestExclude)
	v.SetDefault("push.history_width", defaults.Push.HistoryWidth)
	v.SetDefault("push.trash_dir", defaults.Push.TrashDir)
	v.SetDefault("push.python", defaults.Push.Python)
	v.SetDefault("push.build_command", defaults.Push.BuildCommand)
	v.SetDefault("push.upload_command", defaults.Push.UploadCommand)
	v.SetDefault("push.confirm", defaults.Push.Confirm)
	v.SetDefault("create.template_dir", defaults.Create.TemplateDir)
	v.SetDefault("create.git_init", defaults.Create.GitInit)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadWithOptions performs option-driven config loading. It returns the
// effective configuration and the path of the file it was read from, which
// is empty when only defaults and environment overrides apply.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	resolvedPath, err := SourcePath(opts)
	if err != nil {
		return nil, "", err
	}

	v := newViper()
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'packager config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check PACKAGER_* environment variables for empty values").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// SourcePath returns the config file Load reads for opts, or "" when no
// file exists and only defaults and environment overrides apply. An explicit
// ConfigFilePath must exist.
func SourcePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'packager config init' to write a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cuePath, err := FilePath(opts)
	if err != nil {
		return "", err
	}
	localCuePath := ConfigFileName + "." + ConfigFileExt
	switch {
	case fileExists(cuePath):
		return cuePath, nil
	case fileExists(localCuePath):
		return localCuePath, nil
	default:
		return "", nil
	}
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkFileSize(data, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	// Merging keeps defaults for omitted keys and leaves env overrides on top.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path. An existing
// file is kept unless force is set; the returned bool reports whether the
// file was written.
func CreateDefaultConfig(path string, force bool) (bool, error) {
	if !force && fileExists(path) {
		return false, nil
	}
	if err := Save(DefaultConfig(), path); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes cfg to path as CUE, creating the parent directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// packager configuration file\n")
	sb.WriteString("// Values here are overridden by PACKAGER_* environment variables and CLI flags.\n\n")

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	sb.WriteString("\npush: {\n")
	fmt.Fprintf(&sb, "\tremote: %q\n", cfg.Push.Remote)
	if cfg.Push.Branch != "" {
		fmt.Fprintf(&sb, "\tbranch: %q\n", cfg.Push.Branch)
	}
	sb.WriteString("\tmanifest_exclude: [")
	for i, name := range cfg.Push.ManifestExclude {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", name)
	}
	sb.WriteString("]\n")
	fmt.Fprintf(&sb, "\thistory_width: %d\n", cfg.Push.HistoryWidth)
	if cfg.Push.TrashDir != "" {
		fmt.Fprintf(&sb, "\ttrash_dir: %q\n", cfg.Push.TrashDir)
	}
	fmt.Fprintf(&sb, "\tpython: %q\n", cfg.Push.Python)
	if cfg.Push.BuildCommand != "" {
		fmt.Fprintf(&sb, "\tbuild_command: %q\n", cfg.Push.BuildCommand)
	}
	fmt.Fprintf(&sb, "\tupload_command: %q\n", cfg.Push.UploadCommand)
	fmt.Fprintf(&sb, "\tconfirm: %v\n", cfg.Push.Confirm)
	sb.WriteString("}\n")

	sb.WriteString("\ncreate: {\n")
	if cfg.Create.TemplateDir != "" {
		fmt.Fprintf(&sb, "\ttemplate_dir: %q\n", cfg.Create.TemplateDir)
	}
	fmt.Fprintf(&sb, "\tgit_init: %v\n", cfg.Create.GitInit)
	sb.WriteString("}\n")

	return sb.String()
}
