// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for packager.
//
// The root command wires global flags, configuration and logging. The push
// command drives internal/release, create drives internal/scaffold, and the
// config command inspects and initialises the configuration file.
package cmd
