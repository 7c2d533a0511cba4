package pricing

import (
	"fmt"
	"testing"

	"cinebook/internal/seats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type typeMap map[string]seats.SeatType

func (m typeMap) TypeOf(label string) (seats.SeatType, bool) {
	t, ok := m[label]
	return t, ok
}

func TestCalculateRegularAndVIP(t *testing.T) {
	catalog := seats.BuildCatalog(uuid.New(), []seats.CatalogSeat{
		{RowLabel: "A", SeatNumber: 1, SeatType: seats.SeatTypeStandard},
		{RowLabel: "G", SeatNumber: 5, SeatType: seats.SeatTypeVIP},
	})

	b := Calculate([]string{"A1", "G5"}, catalog, 150000, DefaultServiceFee)

	assert.Equal(t, 1, b.RegularCount)
	assert.Equal(t, int64(150000), b.RegularTotal)
	assert.Equal(t, 1, b.VIPCount)
	assert.Equal(t, int64(225000), b.VIPTotal)
	assert.Equal(t, int64(10000), b.ServiceFee)
	assert.Equal(t, int64(385000), b.Total)
	assert.Empty(t, b.Unresolved)
}

func TestCalculateTotalFormula(t *testing.T) {
	const base = int64(100000)
	tests := []struct {
		name             string
		regular, vip, cp int
	}{
		{"no seats", 0, 0, 0},
		{"regular only", 3, 0, 0},
		{"vip only", 0, 2, 0},
		{"couple only", 0, 0, 1},
		{"mixed", 2, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := typeMap{}
			var labels []string
			add := func(row string, n int, st seats.SeatType) {
				for i := 1; i <= n; i++ {
					label := fmt.Sprintf("%s%d", row, i)
					cat[label] = st
					labels = append(labels, label)
				}
			}
			add("A", tt.regular, seats.SeatTypeStandard)
			add("G", tt.vip, seats.SeatTypeVIP)
			add("H", tt.cp, seats.SeatTypeCouple)

			b := Calculate(labels, cat, base, DefaultServiceFee)

			want := int64(tt.regular)*base + int64(tt.vip)*base*150/100 + int64(tt.cp)*base*130/100 + DefaultServiceFee
			assert.Equal(t, want, b.Total)
			assert.Equal(t, DefaultServiceFee, b.ServiceFee)
			assert.Equal(t, b.RegularTotal+b.VIPTotal+b.CoupleTotal+b.ServiceFee, b.Total)
			assert.Equal(t, tt.regular+tt.vip+tt.cp, b.SeatCount())
		})
	}
}

func TestCalculateNilCatalog(t *testing.T) {
	var catalog *seats.Catalog
	b := Calculate([]string{"A1"}, catalog, 100000, DefaultServiceFee)
	assert.Equal(t, []string{"A1"}, b.Unresolved)
	assert.Equal(t, int64(110000), b.Total)
}

func TestCalculateCouple(t *testing.T) {
	b := Calculate([]string{"K1", "K2"}, typeMap{"K1": seats.SeatTypeCouple, "K2": seats.SeatTypeCouple}, 100000, 0)
	assert.Equal(t, 2, b.CoupleCount)
	assert.Equal(t, int64(260000), b.CoupleTotal)
	assert.Equal(t, int64(260000), b.Total)
}

func TestCalculateRoundsHalfUp(t *testing.T) {
	// 1 * 75001 * 150 / 100 = 112501.5
	b := Calculate([]string{"V1"}, typeMap{"V1": seats.SeatTypeVIP}, 75001, 0)
	assert.Equal(t, int64(112502), b.VIPTotal)

	// 1 * 10003 * 130 / 100 = 13003.9
	b = Calculate([]string{"C1"}, typeMap{"C1": seats.SeatTypeCouple}, 10003, 0)
	assert.Equal(t, int64(13004), b.CoupleTotal)
}

func TestCalculateUnresolvedPricedAsStandard(t *testing.T) {
	b := Calculate([]string{"A1", "Z99"}, typeMap{"A1": seats.SeatTypeVIP}, 100000, DefaultServiceFee)

	assert.Equal(t, []string{"Z99"}, b.Unresolved)
	assert.Equal(t, 1, b.RegularCount)
	assert.Equal(t, int64(100000), b.RegularTotal)
	assert.Equal(t, int64(150000), b.VIPTotal)
	assert.Equal(t, int64(260000), b.Total)
	assert.Equal(t, 2, b.SeatCount())
}

func TestCalculateIsDeterministic(t *testing.T) {
	cat := typeMap{"A1": seats.SeatTypeStandard, "B1": seats.SeatTypeVIP, "C1": seats.SeatTypeCouple}
	labels := []string{"C1", "A1", "B1"}
	assert.Equal(t, Calculate(labels, cat, 90000, 5000), Calculate(labels, cat, 90000, 5000))
}

func TestMultiplier(t *testing.T) {
	assert.Equal(t, int64(100), Multiplier(seats.SeatTypeStandard))
	assert.Equal(t, int64(150), Multiplier(seats.SeatTypeVIP))
	assert.Equal(t, int64(130), Multiplier(seats.SeatTypeCouple))
	assert.Panics(t, func() { Multiplier("balcony") })
}
