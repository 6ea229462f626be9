package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceCenter(t *testing.T) {
	bg := strings.Join([]string{
		"..........",
		"..........",
		"..........",
		"..........",
	}, "\n")

	out := Place(Config{Width: 10, Height: 4, Position: Center}, "XX", bg)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "....XX....", lines[1])
	assert.Equal(t, "..........", lines[0])
}

func TestPlaceBottomWithPadding(t *testing.T) {
	bg := strings.Join([]string{
		"..........",
		"..........",
		"..........",
		"..........",
	}, "\n")

	out := Place(Config{Width: 10, Height: 4, Position: Bottom, PadY: 1}, "XX", bg)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "....XX....", lines[2])
	assert.Equal(t, "..........", lines[3])
}

func TestPlacePadsShortBackground(t *testing.T) {
	out := Place(Config{Width: 6, Height: 3, Position: Center}, "ab", "")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "ab")
}

func TestPlaceOversizedForegroundClampsToOrigin(t *testing.T) {
	bg := "....\n...."
	out := Place(Config{Width: 4, Height: 2, Position: Center}, "abcdef", bg)
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "abcdef"))
}
