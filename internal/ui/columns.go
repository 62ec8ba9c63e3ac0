package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// Cell fits text into exactly width display cells.
//
// Width 0 yields "". Widths up to 3 yield that many dots. Longer text is
// truncated to end in "..."; shorter text is padded with spaces.
func Cell(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if width <= len(ellipsis) {
		return strings.Repeat(".", width)
	}

	if runewidth.StringWidth(text) > width {
		// Truncate can stop one cell short before a wide rune; pad keeps the
		// column aligned.
		return runewidth.FillRight(runewidth.Truncate(text, width, ellipsis), width)
	}

	return runewidth.FillRight(text, width)
}

// centered places text in the middle of width cells, truncating like Cell.
func centered(text string, width int) string {
	textWidth := runewidth.StringWidth(text)
	if textWidth >= width {
		return Cell(text, width)
	}

	left := (width - textWidth) / 2

	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-textWidth-left)
}

// row joins cells with the column separator.
func row(cells ...string) string {
	return strings.Join(cells, "|")
}

// header renders the centered column titles for the given widths.
func header(titles []string, widths []int) string {
	cells := make([]string, len(titles))
	for i, title := range titles {
		cells[i] = centered(title, widths[i])
	}

	return row(cells...)
}

// banner renders a title centered in a line of dashes as wide as the table.
func banner(title string, widths []int) string {
	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}

	label := " " + title + " "
	dashes := max(total-len(label), 0)
	left := dashes / 2

	return strings.Repeat("-", left) + label + strings.Repeat("-", dashes-left)
}
