package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinebook/internal/bookings"
	"cinebook/internal/pricing"
	"cinebook/internal/seats"
	"cinebook/internal/selection"

	"github.com/google/uuid"
)

// RedirectDelay is how long the confirmation stays up before moving on
const RedirectDelay = 3 * time.Second

type BookingState int

const (
	SelectingSeats BookingState = iota
	Summarizing
	AwaitingPaymentSubmission
	Processing
	Success
	Failed
)

func (s BookingState) String() string {
	switch s {
	case SelectingSeats:
		return "selecting_seats"
	case Summarizing:
		return "summarizing"
	case AwaitingPaymentSubmission:
		return "awaiting_payment_submission"
	case Processing:
		return "processing"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrSeatUnavailable   = errors.New("seat is already booked")
	ErrUnknownSeat       = errors.New("seat is not in this showtime")
)

func invalidTransition(from BookingState, action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, from)
}

// BookingAPI submits a booking to the backend
type BookingAPI interface {
	CreateBooking(ctx context.Context, req bookings.CreateBookingRequest) (*bookings.BookingResponse, error)
}

// Timer schedules fn after d; the returned func cancels it.
type Timer func(d time.Duration, fn func()) (cancel func())

func realTimer(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Payment is what the user enters on the payment screen
type Payment struct {
	Method     bookings.PaymentMethod
	CardNumber string
}

// BookingFlow drives one booking from seat picking to confirmation.
// It is not safe for concurrent use.
type BookingFlow struct {
	api        BookingAPI
	showtimeID uuid.UUID
	catalog    *seats.Catalog
	basePrice  int64
	serviceFee int64

	state     BookingState
	selection *selection.Selection
	breakdown pricing.Breakdown
	labels    []string
	booking   *bookings.BookingResponse
	errMsg    string

	timer          Timer
	onRedirect     func(*bookings.BookingResponse)
	cancelRedirect func()
}

type BookingOption func(*BookingFlow)

func WithTimer(t Timer) BookingOption {
	return func(f *BookingFlow) { f.timer = t }
}

// OnRedirect is called RedirectDelay after a successful booking
func OnRedirect(fn func(*bookings.BookingResponse)) BookingOption {
	return func(f *BookingFlow) { f.onRedirect = fn }
}

func WithServiceFee(fee int64) BookingOption {
	return func(f *BookingFlow) { f.serviceFee = fee }
}

// NewBookingFlow starts in SelectingSeats. The catalog must be fetched first; prices derive from it.
func NewBookingFlow(api BookingAPI, showtimeID uuid.UUID, catalog *seats.Catalog, basePrice int64, opts ...BookingOption) *BookingFlow {
	f := &BookingFlow{
		api:        api,
		showtimeID: showtimeID,
		catalog:    catalog,
		basePrice:  basePrice,
		serviceFee: pricing.DefaultServiceFee,
		state:      SelectingSeats,
		selection:  selection.New(),
		timer:      realTimer,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *BookingFlow) State() BookingState { return f.state }

func (f *BookingFlow) SelectedSeats() []string { return f.selection.Labels() }

// Breakdown is the price computed by the last Summarize
func (f *BookingFlow) Breakdown() pricing.Breakdown { return f.breakdown }

// Warnings lists selected labels the catalog could not resolve
func (f *BookingFlow) Warnings() []string { return f.breakdown.Unresolved }

func (f *BookingFlow) Booking() *bookings.BookingResponse { return f.booking }

// ErrorMessage is the backend's message for the last failed submission
func (f *BookingFlow) ErrorMessage() string { return f.errMsg }

// Toggle adds or removes a seat. Booked seats can not be added.
func (f *BookingFlow) Toggle(label string) (selection.ToggleResult, error) {
	if f.state != SelectingSeats {
		return selection.Rejected, invalidTransition(f.state, "change seats")
	}
	if !f.selection.Contains(label) {
		seat, ok := f.catalog.Lookup(label)
		if !ok {
			return selection.Rejected, fmt.Errorf("%w: %s", ErrUnknownSeat, label)
		}
		if seat.IsBooked {
			return selection.Rejected, fmt.Errorf("%w: %s", ErrSeatUnavailable, label)
		}
	}
	return f.selection.Toggle(label), nil
}

// Summarize prices the current selection
func (f *BookingFlow) Summarize() error {
	if f.state != SelectingSeats {
		return invalidTransition(f.state, "summarize")
	}
	if f.selection.Len() == 0 {
		return selection.ErrEmpty
	}
	f.labels = f.selection.Labels()
	f.breakdown = pricing.Calculate(f.labels, f.catalog, f.basePrice, f.serviceFee)
	f.state = Summarizing
	return nil
}

// Back returns to seat picking from the summary or payment screen
func (f *BookingFlow) Back() error {
	if f.state != Summarizing && f.state != AwaitingPaymentSubmission {
		return invalidTransition(f.state, "go back")
	}
	f.state = SelectingSeats
	return nil
}

func (f *BookingFlow) ProceedToPayment() error {
	if f.state != Summarizing {
		return invalidTransition(f.state, "proceed to payment")
	}
	f.state = AwaitingPaymentSubmission
	return nil
}

// Submit sends the booking and settles in Success or Failed. The returned
// error is the submission failure; the flow itself is already in Failed.
func (f *BookingFlow) Submit(ctx context.Context, p Payment) error {
	if f.state != AwaitingPaymentSubmission {
		return invalidTransition(f.state, "submit payment")
	}
	f.state = Processing
	f.errMsg = ""

	booking, err := f.api.CreateBooking(ctx, bookings.CreateBookingRequest{
		ShowtimeID:    f.showtimeID.String(),
		Seats:         f.labels,
		PaymentMethod: string(p.Method),
		CardNumber:    p.CardNumber,
	})
	if err != nil {
		f.state = Failed
		f.errMsg = err.Error()
		return err
	}

	f.booking = booking
	f.state = Success
	f.selection.Reset()
	if f.onRedirect != nil {
		f.cancelRedirect = f.timer(RedirectDelay, func() { f.onRedirect(booking) })
	}
	return nil
}

// Retry goes back to the summary with the same seats
func (f *BookingFlow) Retry() error {
	if f.state != Failed {
		return invalidTransition(f.state, "retry")
	}
	f.state = Summarizing
	return nil
}

// Reselect goes back to seat picking, keeping the selection for editing
func (f *BookingFlow) Reselect() error {
	if f.state != Failed {
		return invalidTransition(f.state, "reselect seats")
	}
	f.state = SelectingSeats
	return nil
}

// UpdateCatalog swaps in a fresh seat map, e.g. after a seat race was lost
func (f *BookingFlow) UpdateCatalog(c *seats.Catalog) {
	f.catalog = c
}

// Reset clears everything and cancels a pending redirect
func (f *BookingFlow) Reset() {
	if f.cancelRedirect != nil {
		f.cancelRedirect()
		f.cancelRedirect = nil
	}
	f.selection.Reset()
	f.labels = nil
	f.breakdown = pricing.Breakdown{}
	f.booking = nil
	f.errMsg = ""
	f.state = SelectingSeats
}
