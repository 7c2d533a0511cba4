package halls

import (
	"testing"

	"cinebook/internal/seats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeats(t *testing.T) {
	hallID := uuid.New()
	out, err := GenerateSeats(hallID, []RowLayout{
		{RowLabel: "A", SeatCount: 3},
		{RowLabel: "G", SeatCount: 2, SeatType: "vip"},
		{RowLabel: "K", SeatCount: 1, SeatType: "couple"},
	})
	require.NoError(t, err)
	require.Len(t, out, 6)

	assert.Equal(t, "A1", out[0].Label())
	assert.Equal(t, "A3", out[2].Label())
	assert.Equal(t, seats.SeatTypeStandard, out[0].SeatType)
	assert.Equal(t, seats.SeatTypeVIP, out[3].SeatType)
	assert.Equal(t, seats.SeatTypeCouple, out[5].SeatType)
	for _, s := range out {
		assert.Equal(t, hallID, s.HallID)
	}
}

func TestGenerateSeatsRejectsBadLayouts(t *testing.T) {
	cases := map[string][]RowLayout{
		"empty":     nil,
		"duplicate": {{RowLabel: "A", SeatCount: 2}, {RowLabel: "A", SeatCount: 3}},
		"no seats":  {{RowLabel: "B", SeatCount: 0}},
		"bad type":  {{RowLabel: "C", SeatCount: 2, SeatType: "balcony"}},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := GenerateSeats(uuid.New(), rows)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}
