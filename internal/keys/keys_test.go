package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	assert.Len(t, Filter(""), len(Table))
}

func TestFilterMatchesDescription(t *testing.T) {
	got := Filter("scrollback")
	assert.Len(t, got, 1)
	assert.Equal(t, "O", got[0].Key)
}

func TestFilterCaseInsensitive(t *testing.T) {
	assert.Equal(t, Filter("SCROLL"), Filter("scroll"))
}

func TestFilterMatchesContext(t *testing.T) {
	got := Filter("sessions")
	assert.NotEmpty(t, got)
	for _, e := range got {
		assert.Equal(t, "sessions", e.Context)
	}
}

func TestFilterNoMatch(t *testing.T) {
	assert.Empty(t, Filter("zzzzz"))
}
