package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func plainLines(texts ...string) []Line {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = Line{{Text: t}}
	}
	return lines
}

func TestBoundsNormalization(t *testing.T) {
	sel := Selection{
		Anchor: ContentPosition{Row: 5, Col: 2},
		Cursor: ContentPosition{Row: 3, Col: 7},
	}
	startRow, startCol, endRow, endCol := sel.Bounds()
	assert.Equal(t, 3, startRow)
	assert.Equal(t, 7, startCol)
	assert.Equal(t, 5, endRow)
	assert.Equal(t, 2, endCol)
}

func TestBoundsSameRowOrdersByCol(t *testing.T) {
	sel := Selection{
		Anchor: ContentPosition{Row: 1, Col: 9},
		Cursor: ContentPosition{Row: 1, Col: 4},
	}
	startRow, startCol, _, endCol := sel.Bounds()
	assert.Equal(t, 1, startRow)
	assert.Equal(t, 4, startCol)
	assert.Equal(t, 9, endCol)
}

func TestExtractTextSingleLine(t *testing.T) {
	lines := plainLines("abcdef")
	sel := Selection{
		Anchor: ContentPosition{Row: 0, Col: 2},
		Cursor: ContentPosition{Row: 0, Col: 5},
	}
	assert.Equal(t, "cde", ExtractText(lines, sel))
}

func TestExtractTextMultiLine(t *testing.T) {
	lines := plainLines("hello", "middle", "world")
	sel := Selection{
		Anchor: ContentPosition{Row: 0, Col: 3},
		Cursor: ContentPosition{Row: 2, Col: 3},
	}
	assert.Equal(t, "lo\nmiddle\nwor", ExtractText(lines, sel))
}

func TestExtractTextReversedDragGivesSameText(t *testing.T) {
	lines := plainLines("hello", "middle", "world")
	sel := Selection{
		Anchor: ContentPosition{Row: 2, Col: 3},
		Cursor: ContentPosition{Row: 0, Col: 3},
	}
	assert.Equal(t, "lo\nmiddle\nwor", ExtractText(lines, sel))
}

func TestExtractTextClampsPastEnd(t *testing.T) {
	lines := plainLines("short")
	sel := Selection{
		Anchor: ContentPosition{Row: 0, Col: 2},
		Cursor: ContentPosition{Row: 9, Col: 3},
	}
	// End row clamps to the last line; since the clamped row is not the
	// selection's end row, the line is taken to its end.
	assert.Equal(t, "ort", ExtractText(lines, sel))
}

func TestExtractTextColumnPastLineEnd(t *testing.T) {
	lines := plainLines("ab")
	sel := Selection{
		Anchor: ContentPosition{Row: 0, Col: 0},
		Cursor: ContentPosition{Row: 0, Col: 99},
	}
	assert.Equal(t, "ab", ExtractText(lines, sel))
}

func TestExtractTextEmptyContent(t *testing.T) {
	assert.Equal(t, "", ExtractText(nil, Selection{}))
}

func TestExtractTextMultiByteRunes(t *testing.T) {
	lines := plainLines("héllo")
	sel := Selection{
		Anchor: ContentPosition{Row: 0, Col: 1},
		Cursor: ContentPosition{Row: 0, Col: 3},
	}
	assert.Equal(t, "él", ExtractText(lines, sel))
}

func TestHighlightLineThreeWaySplit(t *testing.T) {
	line := Line{{Text: "0123456789", Style: "\x1b[31m"}}
	out := HighlightLine(line, 3, 7, "\x1b[47m")

	require.Len(t, out, 3)
	assert.Equal(t, "012", out[0].Text)
	assert.Equal(t, "3456", out[1].Text)
	assert.Equal(t, "789", out[2].Text)

	assert.Equal(t, "\x1b[31m", out[0].Style)
	assert.Equal(t, "\x1b[31m\x1b[47m", out[1].Style)
	assert.Equal(t, "\x1b[31m", out[2].Style)
}

func TestHighlightLineFullyCoveredRun(t *testing.T) {
	line := Line{
		{Text: "abc", Style: ""},
		{Text: "def", Style: "\x1b[1m"},
		{Text: "ghi", Style: ""},
	}
	out := HighlightLine(line, 3, 6, "\x1b[47m")

	require.Len(t, out, 3)
	assert.Equal(t, Run{Text: "abc", Style: ""}, out[0])
	assert.Equal(t, Run{Text: "def", Style: "\x1b[1m\x1b[47m"}, out[1])
	assert.Equal(t, Run{Text: "ghi", Style: ""}, out[2])
}

func TestHighlightLineOutsideRangeUnchanged(t *testing.T) {
	line := Line{{Text: "abcdef"}}
	assert.Equal(t, line, HighlightLine(line, 10, 20, "\x1b[47m"))
	assert.Equal(t, line, HighlightLine(line, 3, 3, "\x1b[47m"))
}

func TestHighlightLinesOnlyVisibleRows(t *testing.T) {
	lines := plainLines("aaa", "bbb", "ccc", "ddd")
	sel := Selection{
		Anchor: ContentPosition{Row: 0, Col: 0},
		Cursor: ContentPosition{Row: 3, Col: 3},
	}
	out := HighlightLines(lines, sel, 1, 2, "\x1b[47m")

	// Rows 0 and 3 are scrolled out of view and stay untouched.
	assert.Equal(t, lines[0], out[0])
	assert.Equal(t, lines[3], out[3])
	assert.NotEqual(t, lines[1], out[1])
	assert.NotEqual(t, lines[2], out[2])
}

func TestMouseToContent(t *testing.T) {
	pane := Rect{X: 10, Y: 5, Width: 40, Height: 20}

	pos, ok := MouseToContent(11, 6, pane, 0)
	require.True(t, ok)
	assert.Equal(t, ContentPosition{Row: 0, Col: 0}, pos)

	// Scroll offset shifts rows into content space.
	pos, ok = MouseToContent(15, 8, pane, 100)
	require.True(t, ok)
	assert.Equal(t, ContentPosition{Row: 102, Col: 4}, pos)
}

func TestMouseToContentOutsideFrame(t *testing.T) {
	pane := Rect{X: 10, Y: 5, Width: 40, Height: 20}

	cases := []struct{ x, y int }{
		{10, 6},  // on the left border
		{9, 6},   // left of the pane
		{11, 5},  // on the top border
		{49, 6},  // on the right border
		{11, 24}, // on the bottom border
	}
	for _, c := range cases {
		_, ok := MouseToContent(c.x, c.y, pane, 0)
		assert.False(t, ok, "(%d,%d) should be outside", c.x, c.y)
	}
}

func TestClampToContent(t *testing.T) {
	pane := Rect{X: 10, Y: 5, Width: 40, Height: 20}

	// Inside the frame it agrees with MouseToContent.
	pos := ClampToContent(15, 8, pane, 2)
	want, ok := MouseToContent(15, 8, pane, 2)
	require.True(t, ok)
	assert.Equal(t, want, pos)

	cases := []struct {
		x, y int
		want ContentPosition
	}{
		{9, 6, ContentPosition{Row: 0, Col: 0}},    // left of the pane
		{12, 3, ContentPosition{Row: 0, Col: 1}},   // above the frame
		{60, 8, ContentPosition{Row: 2, Col: 37}},  // right of the pane
		{15, 40, ContentPosition{Row: 17, Col: 4}}, // below the frame
		{0, 99, ContentPosition{Row: 17, Col: 0}},  // past two edges at once
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClampToContent(c.x, c.y, pane, 0), "(%d,%d)", c.x, c.y)
	}
}

func TestExtractHighlightAgreeRandomized(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lineCount := rapid.IntRange(1, 5).Draw(t, "lineCount")
		texts := make([]string, lineCount)
		for i := range texts {
			n := rapid.IntRange(0, 12).Draw(t, "lineLen")
			texts[i] = strings.Repeat("x", n)
		}
		lines := plainLines(texts...)

		sel := Selection{
			Anchor: ContentPosition{
				Row: rapid.IntRange(0, lineCount-1).Draw(t, "anchorRow"),
				Col: rapid.IntRange(0, 12).Draw(t, "anchorCol"),
			},
			Cursor: ContentPosition{
				Row: rapid.IntRange(0, lineCount-1).Draw(t, "cursorRow"),
				Col: rapid.IntRange(0, 12).Draw(t, "cursorCol"),
			},
		}

		extracted := ExtractText(lines, sel)

		// Extraction never invents characters.
		for _, segment := range strings.Split(extracted, "\n") {
			assert.LessOrEqual(t, len(segment), 12)
		}

		// Highlighting preserves the text of every line.
		out := HighlightLines(lines, sel, 0, lineCount, "\x1b[47m")
		for i := range lines {
			assert.Equal(t, lines[i].Plain(), out[i].Plain())
		}

		// Swapping anchor and cursor changes nothing.
		swapped := Selection{Anchor: sel.Cursor, Cursor: sel.Anchor}
		assert.Equal(t, extracted, ExtractText(lines, swapped))
	})
}
