// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/packager/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/packager/config.cue on macOS, %APPDATA%\packager\config.cue
// on Windows), falling back to ./config.cue. PACKAGER_* environment variables override
// file values; CLI flags override both.
//
// Files are validated against the embedded config_schema.cue before they are merged.
package config
