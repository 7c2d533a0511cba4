package halls

import (
	"errors"
	"fmt"

	"cinebook/internal/seats"

	"github.com/google/uuid"
)

var ErrInvalidLayout = errors.New("invalid hall layout")

// GenerateSeats expands a row layout into seat records numbered from 1.
func GenerateSeats(hallID uuid.UUID, rows []RowLayout) ([]seats.Seat, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}

	seen := make(map[string]bool, len(rows))
	var out []seats.Seat
	for _, row := range rows {
		if row.RowLabel == "" || row.SeatCount <= 0 {
			return nil, fmt.Errorf("%w: row %q must have a label and at least one seat", ErrInvalidLayout, row.RowLabel)
		}
		if seen[row.RowLabel] {
			return nil, fmt.Errorf("%w: duplicate row %q", ErrInvalidLayout, row.RowLabel)
		}
		seen[row.RowLabel] = true

		seatType := seats.SeatTypeStandard
		if row.SeatType != "" {
			t, err := seats.ParseSeatType(row.SeatType)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
			}
			seatType = t
		}

		for n := 1; n <= row.SeatCount; n++ {
			out = append(out, seats.Seat{
				HallID:     hallID,
				RowLabel:   row.RowLabel,
				SeatNumber: n,
				SeatType:   seatType,
			})
		}
	}
	return out, nil
}
