// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions selects where packager reads config.cue from.
type LoadOptions struct {
	// ConfigFilePath is the --config flag; the file must exist when set.
	ConfigFilePath string
	// ConfigDirPath replaces the per-user packager directory when set.
	ConfigDirPath string
}

// Provider loads the push and create settings. The CLI takes one as a
// dependency so tests can hand it a fixed Config.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

// fileProvider reads config.cue, validates it against the embedded schema
// and applies PACKAGER_* environment overrides.
type fileProvider struct{}

// NewProvider returns the Provider backed by config.cue on disk.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load returns the effective configuration, or the defaults when no config
// file exists.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
