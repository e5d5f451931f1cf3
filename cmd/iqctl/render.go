package main

import (
	"charm.land/lipgloss/v2"

	"github.com/gokatarajesh/iqtest/internal/matrix"
)

var glyphs = map[string]string{
	"square":   "■",
	"circle":   "●",
	"triangle": "▲",
	"diamond":  "◆",
}

var accentGlyphs = map[string]string{
	"dot":   "·",
	"bar":   "─",
	"cross": "+",
	"slash": "/",
}

var (
	hiddenStyle = lipgloss.NewStyle().
			Width(9).
			Height(3).
			Align(lipgloss.Center, lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Foreground(lipgloss.Color("#94A3B8"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
)

// renderCell draws a cell as a bordered swatch: the tile colour fills the
// box and the shape glyph sits in the accent colour.
func renderCell(c matrix.Cell) string {
	bg, fg := c.Fill, c.AccentColor
	if c.Invert {
		bg, fg = fg, bg
	}

	glyph, ok := glyphs[c.Shape]
	if !ok {
		glyph = "?"
	}
	if mark, ok := accentGlyphs[c.Accent.Shape]; ok {
		glyph += mark
	}

	style := lipgloss.NewStyle().
		Width(9).
		Height(3).
		Align(lipgloss.Center, lipgloss.Center).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Bold(true)
	if c.Stroke {
		style = style.Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(fg))
	} else {
		style = style.Border(lipgloss.HiddenBorder())
	}
	return style.Render(glyph)
}

func renderGrid(g [3][3]matrix.Cell, reveal bool) string {
	rows := make([]string, 0, 3)
	for r := 0; r < 3; r++ {
		tiles := make([]string, 0, 3)
		for c := 0; c < 3; c++ {
			if r == 2 && c == 2 && !reveal {
				tiles = append(tiles, hiddenStyle.Render("?"))
				continue
			}
			tiles = append(tiles, renderCell(g[r][c]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderOptions(options []string, answer int) string {
	tiles := make([]string, 0, len(options))
	for i, text := range options {
		cell, ok := matrix.ParseCell(text)
		if !ok {
			continue
		}
		label := string(rune('A' + i))
		if i == answer {
			label += " *"
		}
		tiles = append(tiles, lipgloss.JoinVertical(lipgloss.Center, renderCell(cell), labelStyle.Render(label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}
