// SPDX-License-Identifier: MPL-2.0

// Package pkgmeta reads and writes the metadata of a Python package under
// release: its name, its dotted numeric version and whether it is published
// to the package index.
//
// The metadata lives in <root>/<name>/about/. Text files there are read line
// by line; blank lines and lines starting with '%' are skipped.
package pkgmeta
