// Package preview turns captured tmux pane content into styled lines the
// dashboard can scroll, select from, and copy.
package preview

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Run is a stretch of text sharing one terminal style. Style holds the raw
// SGR sequences that were active when the text was emitted; empty means
// default styling.
type Run struct {
	Text  string
	Style string
}

// Line is one row of pane content.
type Line []Run

// Plain returns the line's text with styling dropped.
func (l Line) Plain() string {
	var b strings.Builder
	for _, r := range l {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Width returns the rune count of the line.
func (l Line) Width() int {
	n := 0
	for _, r := range l {
		n += len([]rune(r.Text))
	}
	return n
}

// ParseLines splits captured pane output into lines of styled runs. SGR
// sequences become run boundaries; every other escape sequence is dropped.
// Styles accumulate until a reset, mirroring how a terminal would interpret
// the stream.
func ParseLines(content string) []Line {
	var (
		lines   []Line
		current Line
		text    strings.Builder
		style   string
	)

	flushRun := func() {
		if text.Len() == 0 {
			return
		}
		current = append(current, Run{Text: text.String(), Style: style})
		text.Reset()
	}
	flushLine := func() {
		flushRun()
		if current == nil {
			current = Line{}
		}
		lines = append(lines, current)
		current = nil
	}

	var parserState byte
	for len(content) > 0 {
		seq, width, n, newState := ansi.DecodeSequence(content, parserState, nil)
		if n == 0 {
			break
		}

		switch {
		case width > 0:
			text.WriteString(seq)
		case seq == "\n":
			flushLine()
		case seq == "\r" || seq == "\t":
			if seq == "\t" {
				text.WriteString(seq)
			}
		case isSGR(seq):
			flushRun()
			if isReset(seq) {
				style = ""
			} else {
				style += seq
			}
		default:
			// Cursor movement, OSC titles, and other control sequences
			// carry no content.
		}

		content = content[n:]
		parserState = newState
	}
	flushLine()

	// capture-pane terminates output with a newline, which would otherwise
	// show up as a phantom empty line.
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func isSGR(seq string) bool {
	return strings.HasPrefix(seq, "\x1b[") && strings.HasSuffix(seq, "m")
}

func isReset(seq string) bool {
	return seq == "\x1b[m" || seq == "\x1b[0m"
}
