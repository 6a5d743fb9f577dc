// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

// Package table renders text tables framed with box-drawing characters.
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table is a grid of text cells. Cells starting with a digit are right-aligned.
type Table struct {
	rows  [][]string
	lines map[int]bool
}

// New returns an empty table.
func New() *Table { return &Table{lines: make(map[int]bool)} }

// Row appends a row of cells.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Line draws a horizontal separator before the next row.
func (t *Table) Line() *Table {
	t.lines[len(t.rows)] = true
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) widths() []int {
	var widths []int
	for _, row := range t.rows {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 1)
			}
			if w := runewidth.StringWidth(cell) + 2; w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func border(widths []int, left, mid, right string) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			b.WriteString(mid)
		}
		b.WriteString(strings.Repeat("─", w))
	}
	b.WriteString(right)
	b.WriteByte('\n')
	return b.String()
}

func alignRight(s string) bool { return len(s) > 0 && s[0] >= '0' && s[0] <= '9' }

func line(widths []int, row []string) string {
	var b strings.Builder
	b.WriteString("│")
	for i, w := range widths {
		if i > 0 {
			b.WriteString("│")
		}
		text := ""
		if i < len(row) {
			text = row[i]
		}
		pad := strings.Repeat(" ", w-2-runewidth.StringWidth(text))
		b.WriteByte(' ')
		if alignRight(text) {
			b.WriteString(pad)
			b.WriteString(text)
		} else {
			b.WriteString(text)
			b.WriteString(pad)
		}
		b.WriteByte(' ')
	}
	b.WriteString("│\n")
	return b.String()
}

// Render writes the framed table to w. An empty table renders nothing.
func (t *Table) Render(w io.Writer) error {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(border(widths, "┌", "┬", "┐"))
	for y, row := range t.rows {
		if y > 0 && t.lines[y] {
			b.WriteString(border(widths, "├", "┼", "┤"))
		}
		b.WriteString(line(widths, row))
	}
	b.WriteString(border(widths, "└", "┴", "┘"))
	_, err := fmt.Fprint(w, b.String())
	return err
}
