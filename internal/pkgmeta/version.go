// SPDX-License-Identifier: MPL-2.0

package pkgmeta

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrVersionOverflow is returned by Bump when the last component is already at its maximum.
	ErrVersionOverflow = errors.New("version component overflow")
)

type (
	// Version is a dotted sequence of non-negative integers such as 1.4.9.
	Version []int

	// InvalidVersionError is returned when a version string does not parse.
	InvalidVersionError struct {
		Value string
		// Path is the file the value was read from, if any.
		Path string
	}
)

// ParseVersion parses a dotted numeric version. Surrounding whitespace is ignored.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, &InvalidVersionError{Value: s}
	}

	parts := strings.Split(trimmed, ".")
	v := make(Version, len(parts))
	for i, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return nil, &InvalidVersionError{Value: s}
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, &InvalidVersionError{Value: s}
		}
		v[i] = n
	}
	return v, nil
}

// String joins the components with dots.
func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Bump returns a copy of v with the last component incremented by one.
func (v Version) Bump() (Version, error) {
	if len(v) == 0 {
		return Version{1}, nil
	}
	if v[len(v)-1] == math.MaxInt {
		return nil, fmt.Errorf("bump %s: %w", v, ErrVersionOverflow)
	}
	next := make(Version, len(v))
	copy(next, v)
	next[len(next)-1]++
	return next, nil
}

// Compare returns -1, 0 or 1. Missing trailing components count as zero.
func (v Version) Compare(other Version) int {
	for i := range max(len(v), len(other)) {
		var a, b int
		if i < len(v) {
			a = v[i]
		}
		if i < len(other) {
			b = other[i]
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: invalid version %q (want dot-separated integers such as 1.4.9)", e.Path, e.Value)
	}
	return fmt.Sprintf("invalid version %q (want dot-separated integers such as 1.4.9)", e.Value)
}

// Unwrap returns ErrInvalidVersion so callers can use errors.Is for programmatic detection.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }
