// Package selection holds the set of seats a user is picking for one booking.
package selection

// MaxSeats caps how many seats a single booking may hold.
const MaxSeats = 10

type ToggleResult int

const (
	Added ToggleResult = iota
	Removed
	// Rejected means the seat was not selected and the set is full.
	Rejected
)

func (r ToggleResult) String() string {
	switch r {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Selection is an insertion-ordered set of seat labels. The zero value is ready to use.
type Selection struct {
	labels []string
	max    int
}

func New() *Selection {
	return &Selection{max: MaxSeats}
}

// WithLimit builds a selection with a custom cap; non-positive values fall back to MaxSeats.
func WithLimit(max int) *Selection {
	if max <= 0 {
		max = MaxSeats
	}
	return &Selection{max: max}
}

func (s *Selection) limit() int {
	if s.max <= 0 {
		return MaxSeats
	}
	return s.max
}

func (s *Selection) Toggle(label string) ToggleResult {
	if i := s.indexOf(label); i >= 0 {
		s.labels = append(s.labels[:i], s.labels[i+1:]...)
		return Removed
	}
	if len(s.labels) >= s.limit() {
		return Rejected
	}
	s.labels = append(s.labels, label)
	return Added
}

func (s *Selection) Contains(label string) bool {
	return s.indexOf(label) >= 0
}

// Labels returns a copy in selection order.
func (s *Selection) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

func (s *Selection) Len() int { return len(s.labels) }

func (s *Selection) Full() bool { return len(s.labels) >= s.limit() }

func (s *Selection) Reset() { s.labels = nil }

func (s *Selection) indexOf(label string) int {
	for i, l := range s.labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Validate checks a label list received from outside: 1..max entries, no duplicates.
func Validate(labels []string, max int) error {
	if max <= 0 {
		max = MaxSeats
	}
	if len(labels) == 0 {
		return ErrEmpty
	}
	if len(labels) > max {
		return ErrTooManySeats
	}
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l == "" {
			return ErrEmpty
		}
		if _, dup := seen[l]; dup {
			return ErrDuplicateSeat
		}
		seen[l] = struct{}{}
	}
	return nil
}
