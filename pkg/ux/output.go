// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux renders solver CLI output: styled for terminals, plain text
// for pipes and scripts.
package ux

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Aleutian palette
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7")
	ColorTealPrimary = lipgloss.Color("#20B9B4")
	ColorTealDeep    = lipgloss.Color("#16858E")
	ColorSlate       = lipgloss.Color("#2C4A54")
	ColorWarning     = lipgloss.Color("#F4D03F")
	ColorError       = lipgloss.Color("#E74C3C")
	ColorSand        = lipgloss.Color("#C8A165")
)

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown output mode")

// Mode selects between styled and plain output.
type Mode string

const (
	// ModeAuto styles output only when writing to a terminal and NO_COLOR
	// is unset.
	ModeAuto Mode = "auto"

	// ModeColor always styles output.
	ModeColor Mode = "color"

	// ModePlain never styles output. Lines are stable for scripts.
	ModePlain Mode = "plain"
)

// ParseMode converts a flag or config value to a Mode. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeColor, "colour":
		return ModeColor, nil
	case ModePlain, "machine":
		return ModePlain, nil
	default:
		return ModeAuto, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// styles is the set of lipgloss styles bound to one renderer.
type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	err      lipgloss.Style
	bold     lipgloss.Style
	box      lipgloss.Style
	vacuum   lipgloss.Style
	dirt     lipgloss.Style
	obstacle lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(ColorTealBright),
		muted:    r.NewStyle().Foreground(ColorSlate),
		success:  r.NewStyle().Foreground(ColorTealBright),
		warning:  r.NewStyle().Foreground(ColorWarning),
		err:      r.NewStyle().Foreground(ColorError),
		bold:     r.NewStyle().Bold(true),
		box:      r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorTealDeep).Padding(0, 1),
		vacuum:   r.NewStyle().Bold(true).Foreground(ColorTealPrimary),
		dirt:     r.NewStyle().Bold(true).Foreground(ColorSand),
		obstacle: r.NewStyle().Foreground(ColorSlate),
	}
}

// Console writes CLI output.
//
// Thread Safety: Not safe for concurrent use, except for a running
// Spinner which serialises its own writes.
type Console struct {
	out    io.Writer
	styled bool
	st     styles
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, mode Mode) *Console {
	styled := false
	switch mode {
	case ModeColor:
		styled = true
	case ModePlain:
	default:
		styled = isTerminal(w) && os.Getenv("NO_COLOR") == ""
	}
	return &Console{
		out:    w,
		styled: styled,
		st:     newStyles(lipgloss.NewRenderer(w)),
	}
}

// Styled reports whether output carries styling.
func (c *Console) Styled() bool { return c.styled }

// Writer returns the destination writer.
func (c *Console) Writer() io.Writer { return c.out }

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Console) render(s lipgloss.Style, text string) string {
	if !c.styled {
		return text
	}
	return s.Render(text)
}

func (c *Console) Title(text string) {
	fmt.Fprintln(c.out, c.render(c.st.title, text))
}

func (c *Console) Success(text string) {
	if !c.styled {
		fmt.Fprintf(c.out, "OK: %s\n", text)
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.st.success.Render("✓"), c.st.success.Render(text))
}

func (c *Console) Warning(text string) {
	if !c.styled {
		fmt.Fprintf(c.out, "WARN: %s\n", text)
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.st.warning.Render("⚠"), c.st.warning.Render(text))
}

func (c *Console) Error(text string) {
	if !c.styled {
		fmt.Fprintf(c.out, "ERROR: %s\n", text)
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.st.err.Render("✗"), c.st.err.Render(text))
}

func (c *Console) Info(text string) {
	if !c.styled {
		fmt.Fprintln(c.out, text)
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.st.muted.Render("│"), text)
}

// Muted prints secondary text. Plain mode drops it.
func (c *Console) Muted(text string) {
	if !c.styled {
		return
	}
	fmt.Fprintln(c.out, c.st.muted.Render(text))
}

// Box prints content under a title, framed when styled.
func (c *Console) Box(title, content string) {
	if !c.styled {
		fmt.Fprintf(c.out, "%s:\n%s\n", title, content)
		return
	}
	fmt.Fprintln(c.out, c.st.box.Render(c.st.title.Render(title)+"\n"+content))
}

// Board colours the V, D and # cells of a drawn vacuum world. Plain mode
// returns the drawing unchanged.
func (c *Console) Board(drawing string) string {
	if !c.styled {
		return drawing
	}
	lines := strings.Split(drawing, "\n")
	for i, line := range lines {
		cells := strings.Fields(line)
		for j, cell := range cells {
			switch cell {
			case "V":
				cells[j] = c.st.vacuum.Render(cell)
			case "D":
				cells[j] = c.st.dirt.Render(cell)
			case "#":
				cells[j] = c.st.obstacle.Render(cell)
			}
		}
		lines[i] = strings.Join(cells, " ")
	}
	return strings.Join(lines, "\n")
}

// Step prints one playback step header.
func (c *Console) Step(n int, move, detail string) {
	if !c.styled {
		fmt.Fprintf(c.out, "Step %d: %s %s\n", n, move, detail)
		return
	}
	fmt.Fprintf(c.out, "%s %s %s\n",
		c.st.muted.Render(fmt.Sprintf("Step %d:", n)), c.st.bold.Render(move), c.st.muted.Render(detail))
}

// Summary prints the outcome of a solve.
func (c *Console) Summary(found bool, steps, cost, visited int) {
	if !c.styled {
		if found {
			fmt.Fprintf(c.out, "SUMMARY: found=true steps=%d cost=%d visited=%d\n", steps, cost, visited)
		} else {
			fmt.Fprintf(c.out, "SUMMARY: found=false visited=%d\n", visited)
		}
		return
	}
	if !found {
		fmt.Fprintf(c.out, "\n%s %s %s\n",
			c.st.err.Render("no solution"),
			c.st.bold.Render(fmt.Sprintf("%d", visited)), c.st.muted.Render("states visited"))
		return
	}
	fmt.Fprintf(c.out, "\n%s %s  %s %s  %s %s\n",
		c.st.success.Render(fmt.Sprintf("%d", steps)), c.st.muted.Render("steps"),
		c.st.bold.Render(fmt.Sprintf("%d", cost)), c.st.muted.Render("cost"),
		c.st.bold.Render(fmt.Sprintf("%d", visited)), c.st.muted.Render("visited"),
	)
}
