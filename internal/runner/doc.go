// SPDX-License-Identifier: MPL-2.0

// Package runner executes external commands for the release workflow.
//
// Every command runs with an explicit working directory, has its output
// captured as lines, and is classified as success or failure according to
// its Tolerance. The process working directory is never changed.
package runner
