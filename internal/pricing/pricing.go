// Package pricing turns a seat selection into a price breakdown.
// All amounts are whole VND.
package pricing

import (
	"fmt"

	"cinebook/internal/seats"
)

// DefaultServiceFee is charged once per booking.
const DefaultServiceFee int64 = 10000

// Multiplier is expressed in percent of the base price.
func Multiplier(t seats.SeatType) int64 {
	switch t {
	case seats.SeatTypeStandard:
		return 100
	case seats.SeatTypeVIP:
		return 150
	case seats.SeatTypeCouple:
		return 130
	default:
		panic(fmt.Sprintf("pricing: unhandled seat type %q", t))
	}
}

// SeatTypes resolves a seat label to its category.
type SeatTypes interface {
	TypeOf(label string) (seats.SeatType, bool)
}

type Breakdown struct {
	RegularCount int      `json:"regular_count"`
	RegularTotal int64    `json:"regular_total"`
	VIPCount     int      `json:"vip_count"`
	VIPTotal     int64    `json:"vip_total"`
	CoupleCount  int      `json:"couple_count"`
	CoupleTotal  int64    `json:"couple_total"`
	ServiceFee   int64    `json:"service_fee"`
	Total        int64    `json:"total"`
	Unresolved   []string `json:"unresolved,omitempty"`
}

func (b Breakdown) SeatCount() int {
	return b.RegularCount + b.VIPCount + b.CoupleCount
}

// Calculate prices labels against the catalog. Labels the catalog does not know
// are priced as standard and listed in Unresolved.
func Calculate(labels []string, catalog SeatTypes, basePrice, serviceFee int64) Breakdown {
	var b Breakdown
	for _, label := range labels {
		t, ok := seats.SeatTypeStandard, false
		if catalog != nil {
			var found seats.SeatType
			found, ok = catalog.TypeOf(label)
			if ok {
				t = found
			}
		}
		if !ok {
			b.Unresolved = append(b.Unresolved, label)
		}

		switch t {
		case seats.SeatTypeStandard:
			b.RegularCount++
		case seats.SeatTypeVIP:
			b.VIPCount++
		case seats.SeatTypeCouple:
			b.CoupleCount++
		default:
			b.Unresolved = append(b.Unresolved, label)
			b.RegularCount++
		}
	}

	b.RegularTotal = categoryTotal(b.RegularCount, basePrice, seats.SeatTypeStandard)
	b.VIPTotal = categoryTotal(b.VIPCount, basePrice, seats.SeatTypeVIP)
	b.CoupleTotal = categoryTotal(b.CoupleCount, basePrice, seats.SeatTypeCouple)
	b.ServiceFee = serviceFee
	b.Total = b.RegularTotal + b.VIPTotal + b.CoupleTotal + b.ServiceFee
	return b
}

// categoryTotal is count*base*pct/100 rounded half up.
func categoryTotal(count int, basePrice int64, t seats.SeatType) int64 {
	if count == 0 {
		return 0
	}
	return (int64(count)*basePrice*Multiplier(t) + 50) / 100
}
