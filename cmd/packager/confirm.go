// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

type (
	// Prompter asks the user yes/no questions.
	Prompter interface {
		// Interactive reports whether a user can answer prompts.
		Interactive() bool
		Confirm(title, description string) (bool, error)
	}

	// terminalPrompter renders prompts with huh on the controlling terminal.
	terminalPrompter struct {
		stdin *os.File
	}
)

func newTerminalPrompter() *terminalPrompter {
	return &terminalPrompter{stdin: os.Stdin}
}

// Interactive returns true if stdin is connected to a terminal.
func (p *terminalPrompter) Interactive() bool {
	return term.IsTerminal(int(p.stdin.Fd()))
}

// Confirm shows a yes/no prompt that defaults to no.
func (p *terminalPrompter) Confirm(title, description string) (bool, error) {
	var confirmed bool
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Push").
		Negative("Cancel").
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
