package preview

import "strings"

// ContentPosition addresses a cell in the full preview content, in content
// coordinates: row counts from the top of the capture, col is a rune index
// within the row.
type ContentPosition struct {
	Row int
	Col int
}

// Selection is a mouse drag over the preview. Anchor is where the drag
// started; Cursor follows the pointer. The two may be in either order.
type Selection struct {
	Anchor   ContentPosition
	Cursor   ContentPosition
	Dragging bool
}

// Bounds returns the selection corners ordered top-to-bottom, with ties on
// row broken by column.
func (s Selection) Bounds() (startRow, startCol, endRow, endCol int) {
	anchorFirst := s.Anchor.Row < s.Cursor.Row ||
		(s.Anchor.Row == s.Cursor.Row && s.Anchor.Col <= s.Cursor.Col)
	if anchorFirst {
		return s.Anchor.Row, s.Anchor.Col, s.Cursor.Row, s.Cursor.Col
	}
	return s.Cursor.Row, s.Cursor.Col, s.Anchor.Row, s.Anchor.Col
}

// Rect is a screen-space rectangle, used to locate the preview pane's frame.
type Rect struct {
	X, Y, Width, Height int
}

// MouseToContent maps a screen-space mouse position into content
// coordinates, accounting for the one-cell border and the scroll offset.
// Returns false when the pointer is outside the pane's inner area.
func MouseToContent(mouseX, mouseY int, pane Rect, scrollOffset int) (ContentPosition, bool) {
	innerX := pane.X + 1
	innerY := pane.Y + 1
	innerWidth := pane.Width - 2
	innerHeight := pane.Height - 2
	if innerWidth < 0 {
		innerWidth = 0
	}
	if innerHeight < 0 {
		innerHeight = 0
	}

	if mouseX < innerX || mouseY < innerY ||
		mouseX >= innerX+innerWidth || mouseY >= innerY+innerHeight {
		return ContentPosition{}, false
	}

	return ContentPosition{
		Col: mouseX - innerX,
		Row: (mouseY - innerY) + scrollOffset,
	}, true
}

// ClampToContent maps a screen-space mouse position into content
// coordinates like MouseToContent, but clamps positions outside the inner
// frame to its nearest edge. Used while dragging, where a pointer that
// overshoots the pane should extend the selection to the frame edge rather
// than be ignored.
func ClampToContent(mouseX, mouseY int, pane Rect, scrollOffset int) ContentPosition {
	innerX := pane.X + 1
	innerY := pane.Y + 1
	innerWidth := pane.Width - 2
	innerHeight := pane.Height - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 1 {
		innerHeight = 1
	}

	if mouseX < innerX {
		mouseX = innerX
	}
	if mouseX > innerX+innerWidth-1 {
		mouseX = innerX + innerWidth - 1
	}
	if mouseY < innerY {
		mouseY = innerY
	}
	if mouseY > innerY+innerHeight-1 {
		mouseY = innerY + innerHeight - 1
	}

	return ContentPosition{
		Col: mouseX - innerX,
		Row: (mouseY - innerY) + scrollOffset,
	}
}

// ExtractText returns the selected text joined with newlines. Columns are
// rune indices with the end column exclusive. On the first selected line
// the text runs from the start column to end of line, on the last line from
// the line start to the end column, and interior lines are taken whole.
func ExtractText(lines []Line, sel Selection) string {
	startRow, startCol, endRow, endCol := sel.Bounds()
	if len(lines) == 0 {
		return ""
	}

	clamp := func(row int) int {
		if row > len(lines)-1 {
			return len(lines) - 1
		}
		return row
	}
	clampedStart := clamp(startRow)
	clampedEnd := clamp(endRow)

	var segments []string
	for row := clampedStart; row <= clampedEnd; row++ {
		plain := []rune(lines[row].Plain())

		var segment string
		switch {
		case row == startRow && row == endRow:
			segment = runeSlice(plain, startCol, endCol)
		case row == startRow:
			segment = runeSlice(plain, startCol, len(plain))
		case row == endRow:
			segment = runeSlice(plain, 0, endCol)
		default:
			segment = string(plain)
		}
		segments = append(segments, segment)
	}
	return strings.Join(segments, "\n")
}

func runeSlice(runes []rune, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}

// HighlightLine splits the line's runs so the selected column range
// [selStart, selEnd) carries highlightStyle appended to each run's own
// style. Runs outside the range are returned unchanged; a partially covered
// run is split three ways with only the middle part restyled.
func HighlightLine(line Line, selStart, selEnd int, highlightStyle string) Line {
	if selEnd <= selStart {
		return line
	}

	var out Line
	col := 0
	for _, run := range line {
		runes := []rune(run.Text)
		runStart := col
		runEnd := col + len(runes)
		col = runEnd

		if runEnd <= selStart || runStart >= selEnd {
			out = append(out, run)
			continue
		}

		overlapStart := max(selStart, runStart) - runStart
		overlapEnd := min(selEnd, runEnd) - runStart

		if overlapStart > 0 {
			out = append(out, Run{Text: string(runes[:overlapStart]), Style: run.Style})
		}
		out = append(out, Run{
			Text:  string(runes[overlapStart:overlapEnd]),
			Style: run.Style + highlightStyle,
		})
		if overlapEnd < len(runes) {
			out = append(out, Run{Text: string(runes[overlapEnd:]), Style: run.Style})
		}
	}
	return out
}

// HighlightLines applies the selection highlight to every visible line the
// selection covers. Lines outside [scrollOffset, scrollOffset+visibleHeight)
// are left untouched since they are not rendered.
func HighlightLines(lines []Line, sel Selection, scrollOffset, visibleHeight int, highlightStyle string) []Line {
	startRow, startCol, endRow, endCol := sel.Bounds()

	out := make([]Line, len(lines))
	copy(out, lines)

	for row := startRow; row <= endRow && row < len(out); row++ {
		if row < scrollOffset || row >= scrollOffset+visibleHeight {
			continue
		}
		selStart := 0
		if row == startRow {
			selStart = startCol
		}
		selEnd := int(^uint(0) >> 1)
		if row == endRow {
			selEnd = endCol
		}
		out[row] = HighlightLine(out[row], selStart, selEnd, highlightStyle)
	}
	return out
}
