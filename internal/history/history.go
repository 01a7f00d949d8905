// SPDX-License-Identifier: MPL-2.0

// Package history maintains the Markdown version history table of a package.
package history

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const (
	// DefaultWidth is the longest run of words kept on one table line.
	DefaultWidth = 52
	// LineBreak separates wrapped segments inside a table cell.
	LineBreak = "<br>"
	// Header starts a new version history table.
	Header = "| Version and Date | Notes |\n|---|---|\n"
)

// Segments splits notes into runs of whole words whose space-joined length
// does not exceed width. A single word longer than width forms its own segment.
func Segments(notes string, width int) []string {
	var (
		segments []string
		current  []string
		length   int
	)
	for _, word := range strings.Fields(notes) {
		n := utf8.RuneCountInString(word)
		if len(current) > 0 && length+1+n > width {
			segments = append(segments, strings.Join(current, " "))
			current, length = nil, 0
		}
		if len(current) > 0 {
			length++
		}
		current = append(current, word)
		length += n
	}
	if len(current) > 0 {
		segments = append(segments, strings.Join(current, " "))
	}
	return segments
}

// Wrap joins the segments of notes with " <br> " so the table cell renders
// on several lines.
func Wrap(notes string, width int) string {
	return strings.Join(Segments(notes, width), " "+LineBreak+" ")
}

// FormatRow renders one table row: "| <version><br><Month> <Year> | <notes> |".
func FormatRow(version, notes string, when time.Time, width int) string {
	stamp := version + LineBreak + when.Format("January 2006")
	return fmt.Sprintf("| %s | %s |", stamp, Wrap(notes, width))
}

// Append adds row as a new line at the end of path, creating the file if needed.
func Append(fsys afero.Fs, path, row string) error {
	f, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open version history: %w", err)
	}
	defer f.Close()

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek version history: %w", err)
	}

	prefix := ""
	if end > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, end-1); err != nil {
			return fmt.Errorf("read version history: %w", err)
		}
		if last[0] != '\n' {
			prefix = "\n"
		}
	}

	if _, err := f.WriteString(prefix + row + "\n"); err != nil {
		return fmt.Errorf("append version history: %w", err)
	}
	return f.Close()
}
