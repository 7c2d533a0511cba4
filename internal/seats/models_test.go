package seats

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seat(row string, n int, t SeatType) CatalogSeat {
	return CatalogSeat{ID: uuid.New(), RowLabel: row, SeatNumber: n, SeatType: t}
}

func TestParseSeatType(t *testing.T) {
	for in, want := range map[string]SeatType{"standard": SeatTypeStandard, "VIP": SeatTypeVIP, " couple ": SeatTypeCouple} {
		got, err := ParseSeatType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseSeatType("deluxe")
	assert.Error(t, err)
}

func TestBuildCatalogOrdering(t *testing.T) {
	c := BuildCatalog(uuid.New(), []CatalogSeat{
		seat("B", 2, SeatTypeStandard),
		seat("AA", 1, SeatTypeCouple),
		seat("A", 10, SeatTypeStandard),
		seat("A", 2, SeatTypeStandard),
		seat("B", 1, SeatTypeVIP),
	})

	require.Len(t, c.Rows, 3)
	assert.Equal(t, "A", c.Rows[0].Label)
	assert.Equal(t, "B", c.Rows[1].Label)
	assert.Equal(t, "AA", c.Rows[2].Label)

	assert.Equal(t, []string{"A2", "A10"}, []string{c.Rows[0].Seats[0].Label, c.Rows[0].Seats[1].Label})
	assert.Equal(t, 1, c.Rows[1].Seats[0].SeatNumber)
	assert.Equal(t, 5, c.TotalSeats())
}

func TestCatalogLookup(t *testing.T) {
	g5 := seat("G", 5, SeatTypeVIP)
	g5.IsBooked = true
	c := BuildCatalog(uuid.New(), []CatalogSeat{seat("A", 1, SeatTypeStandard), g5})

	got, ok := c.Lookup("G5")
	require.True(t, ok)
	assert.Equal(t, g5.ID, got.ID)
	assert.True(t, got.IsBooked)

	typ, ok := c.TypeOf("A1")
	assert.True(t, ok)
	assert.Equal(t, SeatTypeStandard, typ)

	_, ok = c.Lookup("Z9")
	assert.False(t, ok)
	assert.Equal(t, 1, c.AvailableSeats())
}

func TestCatalogLookupAfterJSONRoundTrip(t *testing.T) {
	c := BuildCatalog(uuid.New(), []CatalogSeat{seat("C", 3, SeatTypeCouple)})
	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var cached Catalog
	require.NoError(t, json.Unmarshal(raw, &cached))

	typ, ok := cached.TypeOf("C3")
	assert.True(t, ok)
	assert.Equal(t, SeatTypeCouple, typ)
}

func TestNilCatalogLookup(t *testing.T) {
	var c *Catalog

	_, ok := c.Lookup("A1")
	assert.False(t, ok)

	_, ok = c.TypeOf("A1")
	assert.False(t, ok)
}
