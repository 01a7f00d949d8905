// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and a list
// of remediation hints. The issue catalog maps each release failure kind to a
// Markdown help page that the CLI renders with glamour.
package issue
