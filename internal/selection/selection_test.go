package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleAddsAndRemoves(t *testing.T) {
	s := New()
	assert.Equal(t, Added, s.Toggle("A1"))
	assert.Equal(t, Added, s.Toggle("G5"))
	assert.Equal(t, []string{"A1", "G5"}, s.Labels())

	assert.Equal(t, Removed, s.Toggle("A1"))
	assert.Equal(t, []string{"G5"}, s.Labels())
	assert.False(t, s.Contains("A1"))
}

func TestToggleTwiceRestoresState(t *testing.T) {
	s := New()
	s.Toggle("B2")
	s.Toggle("B3")
	before := s.Labels()

	s.Toggle("C7")
	s.Toggle("C7")
	assert.Equal(t, before, s.Labels())
}

func TestToggleRejectsEleventhSeat(t *testing.T) {
	s := New()
	for i := 1; i <= MaxSeats; i++ {
		assert.Equal(t, Added, s.Toggle(fmt.Sprintf("A%d", i)))
	}
	assert.True(t, s.Full())

	assert.Equal(t, Rejected, s.Toggle("B1"))
	assert.Equal(t, MaxSeats, s.Len())
	assert.False(t, s.Contains("B1"))

	// removal is always allowed at the cap
	assert.Equal(t, Removed, s.Toggle("A3"))
	assert.Equal(t, Added, s.Toggle("B1"))
}

func TestZeroValueAndReset(t *testing.T) {
	var s Selection
	s.Toggle("D4")
	assert.Equal(t, 1, s.Len())
	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Labels())
}

func TestLabelsReturnsCopy(t *testing.T) {
	s := New()
	s.Toggle("A1")
	out := s.Labels()
	out[0] = "Z9"
	assert.Equal(t, []string{"A1"}, s.Labels())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]string{"A1", "A2"}, 0))
	assert.ErrorIs(t, Validate(nil, 0), ErrEmpty)
	assert.ErrorIs(t, Validate([]string{"A1", "A1"}, 0), ErrDuplicateSeat)

	many := make([]string, 11)
	for i := range many {
		many[i] = fmt.Sprintf("A%d", i+1)
	}
	assert.ErrorIs(t, Validate(many, 0), ErrTooManySeats)
	assert.ErrorIs(t, Validate(many[:3], 2), ErrTooManySeats)
}
