package game

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Render writes the board top row first, one "|X|O| |" line per row, followed by the
// column indices. Winning cells are drawn in bold red when the profile supports color.
func (b *Board) Render(w io.Writer, profile termenv.Profile) error {
	winning := make(map[Cell]bool, len(b.winning))
	for _, cell := range b.winning {
		winning[cell] = true
	}

	var sb strings.Builder
	for row := b.rows - 1; row >= 0; row-- {
		sb.WriteByte('|')
		for col := 0; col < b.cols; col++ {
			symbol := b.Cell(row, col).Symbol()
			if winning[Cell{Row: row, Col: col}] {
				symbol = profile.String(symbol).Foreground(termenv.ANSIRed).Bold().String()
			}
			sb.WriteString(symbol)
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte(' ')
	for col := 0; col < b.cols; col++ {
		sb.WriteString(strconv.Itoa(col % 10))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("rendering board: %w", err)
	}
	return nil
}

// String renders the board without colors.
func (b *Board) String() string {
	var sb strings.Builder
	_ = b.Render(&sb, termenv.Ascii)
	return sb.String()
}
