// SPDX-License-Identifier: MPL-2.0

package history

import (
	"slices"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
)

func TestSegments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		notes string
		width int
		want  []string
	}{
		{"empty", "   ", 52, nil},
		{"short", "Fix bug", 52, []string{"Fix bug"}},
		{"exact fit", "aaaa bbbb", 9, []string{"aaaa bbbb"}},
		{"one over", "aaaa bbbbb", 9, []string{"aaaa", "bbbbb"}},
		{"long word stands alone", "a supercalifragilistic b", 5, []string{"a", "supercalifragilistic", "b"}},
		{"collapses whitespace", "a\n\tb   c", 52, []string{"a b c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Segments(tt.notes, tt.width); !slices.Equal(got, tt.want) {
				t.Errorf("Segments(%q, %d) = %q, want %q", tt.notes, tt.width, got, tt.want)
			}
		})
	}
}

func TestSegments_Properties(t *testing.T) {
	t.Parallel()

	notes := "Added support for namespace packages, fixed a crash when the about " +
		"directory is a symlink, and rewrote the manifest generator so that it " +
		"honours exclusions given on the command line. Antidisestablishmentarianism-level-words-survive."

	for _, width := range []int{10, 20, 52, 80} {
		segments := Segments(notes, width)

		// Words are never split or lost.
		if got := strings.Fields(strings.Join(segments, " ")); !slices.Equal(got, strings.Fields(notes)) {
			t.Errorf("width %d: words changed", width)
		}
		for _, seg := range segments {
			if utf8.RuneCountInString(seg) > width && strings.Contains(seg, " ") {
				t.Errorf("width %d: segment %q exceeds width", width, seg)
			}
		}
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	got := Wrap("one two three", 7)
	if got != "one two <br> three" {
		t.Errorf("Wrap() = %q", got)
	}
}

func TestFormatRow(t *testing.T) {
	t.Parallel()

	when := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	got := FormatRow("0.1.0", "Fix bug", when, DefaultWidth)
	if want := "| 0.1.0<br>October 2026 | Fix bug |"; got != want {
		t.Errorf("FormatRow() = %q, want %q", got, want)
	}
}

func TestAppend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing *string
		want     string
	}{
		{"creates file", nil, "| row |\n"},
		{"appends after newline", strPtr(Header), Header + "| row |\n"},
		{"adds missing newline", strPtr("| old |"), "| old |\n| row |\n"},
		{"empty file", strPtr(""), "| row |\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := afero.NewMemMapFs()
			path := "/pkg/about/version_history.md"
			if err := fsys.MkdirAll("/pkg/about", 0o755); err != nil {
				t.Fatal(err)
			}
			if tt.existing != nil {
				if err := afero.WriteFile(fsys, path, []byte(*tt.existing), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			if err := Append(fsys, path, "| row |"); err != nil {
				t.Fatalf("Append() error = %v", err)
			}
			data, err := afero.ReadFile(fsys, path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("file = %q, want %q", data, tt.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
