// SPDX-License-Identifier: MPL-2.0

// Package release implements the push workflow of a Python package: clean,
// record the release in the version history, regenerate MANIFEST.in, commit,
// tag and push, build and upload the source distribution, then bump the
// stored version.
//
// Steps run in a fixed order and the first failure aborts the push. Steps
// that already ran are not rolled back.
package release
