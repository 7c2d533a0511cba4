package seats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SeatType is the pricing category of a physical seat
type SeatType string

const (
	SeatTypeStandard SeatType = "standard"
	SeatTypeVIP      SeatType = "vip"
	SeatTypeCouple   SeatType = "couple"
)

// ParseSeatType accepts only the three known categories.
func ParseSeatType(s string) (SeatType, error) {
	switch t := SeatType(strings.ToLower(strings.TrimSpace(s))); t {
	case SeatTypeStandard, SeatTypeVIP, SeatTypeCouple:
		return t, nil
	default:
		return "", fmt.Errorf("unknown seat type %q", s)
	}
}

// Seat defines a physical seat in a hall
type Seat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	HallID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_hall_row_number" json:"hall_id"`
	RowLabel   string    `gorm:"type:varchar(4);not null;uniqueIndex:idx_hall_row_number" json:"row_label"`
	SeatNumber int       `gorm:"not null;uniqueIndex:idx_hall_row_number" json:"seat_number"`
	SeatType   SeatType  `gorm:"type:varchar(20);not null;default:'standard';check:seat_type IN ('standard','vip','couple')" json:"seat_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Seat) TableName() string {
	return "seats"
}

// Label is the human id of a seat, e.g. "G5"
func Label(row string, number int) string {
	return fmt.Sprintf("%s%d", row, number)
}

func (s *Seat) Label() string {
	return Label(s.RowLabel, s.SeatNumber)
}

// CatalogSeat is a seat as seen for one showtime
type CatalogSeat struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	RowLabel   string    `json:"row_label"`
	SeatNumber int       `json:"seat_number"`
	SeatType   SeatType  `json:"seat_type"`
	IsBooked   bool      `json:"is_booked"`
}

type CatalogRow struct {
	Label string        `json:"label"`
	Seats []CatalogSeat `json:"seats"`
}

// Catalog is the grouped seat map for a showtime
type Catalog struct {
	ShowtimeID uuid.UUID    `json:"showtime_id"`
	Rows       []CatalogRow `json:"rows"`

	byLabel map[string]CatalogSeat
}

// BuildCatalog groups seats into rows ordered by row label, seats in a row by number.
func BuildCatalog(showtimeID uuid.UUID, seats []CatalogSeat) *Catalog {
	rows := make(map[string][]CatalogSeat)
	for _, s := range seats {
		if s.Label == "" {
			s.Label = Label(s.RowLabel, s.SeatNumber)
		}
		rows[s.RowLabel] = append(rows[s.RowLabel], s)
	}

	labels := make([]string, 0, len(rows))
	for l := range rows {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return rowLess(labels[i], labels[j]) })

	c := &Catalog{ShowtimeID: showtimeID, Rows: make([]CatalogRow, 0, len(labels))}
	for _, l := range labels {
		rs := rows[l]
		sort.Slice(rs, func(i, j int) bool { return rs[i].SeatNumber < rs[j].SeatNumber })
		c.Rows = append(c.Rows, CatalogRow{Label: l, Seats: rs})
	}
	c.index()
	return c
}

// rowLess orders A..Z before AA..AZ
func rowLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func (c *Catalog) index() {
	c.byLabel = make(map[string]CatalogSeat)
	for _, r := range c.Rows {
		for _, s := range r.Seats {
			c.byLabel[s.Label] = s
		}
	}
}

// Lookup finds a seat by label
func (c *Catalog) Lookup(label string) (CatalogSeat, bool) {
	if c == nil {
		return CatalogSeat{}, false
	}
	if c.byLabel == nil {
		c.index()
	}
	s, ok := c.byLabel[label]
	return s, ok
}

// TypeOf returns the category for a label; unknown labels report ok=false.
func (c *Catalog) TypeOf(label string) (SeatType, bool) {
	s, ok := c.Lookup(label)
	if !ok {
		return "", false
	}
	return s.SeatType, true
}

func (c *Catalog) TotalSeats() int {
	n := 0
	for _, r := range c.Rows {
		n += len(r.Seats)
	}
	return n
}

func (c *Catalog) AvailableSeats() int {
	n := 0
	for _, r := range c.Rows {
		for _, s := range r.Seats {
			if !s.IsBooked {
				n++
			}
		}
	}
	return n
}

type UpdateSeatTypeRequest struct {
	SeatType string `json:"seat_type" validate:"required,oneof=standard vip couple"`
}
