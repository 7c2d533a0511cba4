package selection

import "errors"

var (
	ErrEmpty         = errors.New("at least one seat must be selected")
	ErrTooManySeats  = errors.New("too many seats selected")
	ErrDuplicateSeat = errors.New("seat selected more than once")
)
