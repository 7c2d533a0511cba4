package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"cinebook/internal/bookings"
	"cinebook/internal/seats"
	"cinebook/internal/selection"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingAPI struct {
	requests []bookings.CreateBookingRequest
	err      error
}

func (f *fakeBookingAPI) CreateBooking(_ context.Context, req bookings.CreateBookingRequest) (*bookings.BookingResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &bookings.BookingResponse{
		ID:          uuid.NewString(),
		BookingCode: "CB-20261019-ABCDEF",
		Status:      bookings.StatusConfirmed,
		Seats:       req.Seats,
	}, nil
}

// manualTimer records scheduled callbacks instead of sleeping
type manualTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

func (m *manualTimer) schedule(d time.Duration, fn func()) func() {
	m.delay, m.fn = d, fn
	return func() { m.cancelled = true }
}

func (m *manualTimer) fire() {
	if m.fn != nil && !m.cancelled {
		m.fn()
	}
}

func testCatalog(showtimeID uuid.UUID) *seats.Catalog {
	return seats.BuildCatalog(showtimeID, []seats.CatalogSeat{
		{RowLabel: "A", SeatNumber: 1, SeatType: seats.SeatTypeStandard},
		{RowLabel: "A", SeatNumber: 2, SeatType: seats.SeatTypeStandard, IsBooked: true},
		{RowLabel: "G", SeatNumber: 5, SeatType: seats.SeatTypeVIP},
		{RowLabel: "H", SeatNumber: 1, SeatType: seats.SeatTypeCouple},
	})
}

func newFlow(api BookingAPI, timer *manualTimer, redirected *[]*bookings.BookingResponse) *BookingFlow {
	showtimeID := uuid.New()
	return NewBookingFlow(api, showtimeID, testCatalog(showtimeID), 150000,
		WithTimer(timer.schedule),
		OnRedirect(func(b *bookings.BookingResponse) { *redirected = append(*redirected, b) }),
	)
}

func TestBookingFlowHappyPath(t *testing.T) {
	api := &fakeBookingAPI{}
	timer := &manualTimer{}
	var redirected []*bookings.BookingResponse
	f := newFlow(api, timer, &redirected)
	ctx := context.Background()

	for _, label := range []string{"A1", "G5"} {
		res, err := f.Toggle(label)
		require.NoError(t, err)
		assert.Equal(t, selection.Added, res)
	}

	require.NoError(t, f.Summarize())
	assert.Equal(t, Summarizing, f.State())
	b := f.Breakdown()
	assert.Equal(t, int64(150000), b.RegularTotal)
	assert.Equal(t, int64(225000), b.VIPTotal)
	assert.Equal(t, int64(10000), b.ServiceFee)
	assert.Equal(t, int64(385000), b.Total)
	assert.Empty(t, f.Warnings())

	require.NoError(t, f.ProceedToPayment())
	assert.Equal(t, AwaitingPaymentSubmission, f.State())

	require.NoError(t, f.Submit(ctx, Payment{Method: bookings.PaymentCard, CardNumber: "4111111111111111"}))
	assert.Equal(t, Success, f.State())
	require.Len(t, api.requests, 1)
	assert.Equal(t, []string{"A1", "G5"}, api.requests[0].Seats)
	assert.Equal(t, "CB-20261019-ABCDEF", f.Booking().BookingCode)
	assert.Empty(t, f.SelectedSeats())

	assert.Equal(t, RedirectDelay, timer.delay)
	assert.Empty(t, redirected)
	timer.fire()
	require.Len(t, redirected, 1)
	assert.Equal(t, f.Booking(), redirected[0])
}

func TestBookingFlowFailureThenRetry(t *testing.T) {
	api := &fakeBookingAPI{err: &APIError{Status: http.StatusConflict, Message: "one or more selected seats have just been booked"}}
	var redirected []*bookings.BookingResponse
	f := newFlow(api, &manualTimer{}, &redirected)
	ctx := context.Background()

	_, err := f.Toggle("H1")
	require.NoError(t, err)
	require.NoError(t, f.Summarize())
	require.NoError(t, f.ProceedToPayment())

	err = f.Submit(ctx, Payment{Method: bookings.PaymentWallet})
	require.Error(t, err)
	assert.Equal(t, Failed, f.State())
	assert.Equal(t, "one or more selected seats have just been booked", f.ErrorMessage())

	require.NoError(t, f.Retry())
	assert.Equal(t, Summarizing, f.State())
	assert.Equal(t, int64(195000+10000), f.Breakdown().Total)

	require.NoError(t, f.ProceedToPayment())
	api.err = nil
	require.NoError(t, f.Submit(ctx, Payment{Method: bookings.PaymentWallet}))
	assert.Equal(t, Success, f.State())
	assert.Empty(t, f.ErrorMessage())
}

func TestBookingFlowReselectKeepsSelection(t *testing.T) {
	api := &fakeBookingAPI{err: errors.New("connection refused")}
	var redirected []*bookings.BookingResponse
	f := newFlow(api, &manualTimer{}, &redirected)

	_, _ = f.Toggle("A1")
	_, _ = f.Toggle("G5")
	require.NoError(t, f.Summarize())
	require.NoError(t, f.ProceedToPayment())
	require.Error(t, f.Submit(context.Background(), Payment{Method: bookings.PaymentCard}))

	require.NoError(t, f.Reselect())
	assert.Equal(t, SelectingSeats, f.State())
	assert.Equal(t, []string{"A1", "G5"}, f.SelectedSeats())

	res, err := f.Toggle("G5")
	require.NoError(t, err)
	assert.Equal(t, selection.Removed, res)
	assert.Equal(t, []string{"A1"}, f.SelectedSeats())
}

func TestBookingFlowRejectsIllegalTransitions(t *testing.T) {
	var redirected []*bookings.BookingResponse
	f := newFlow(&fakeBookingAPI{}, &manualTimer{}, &redirected)
	ctx := context.Background()

	assert.ErrorIs(t, f.Summarize(), selection.ErrEmpty)
	assert.ErrorIs(t, f.ProceedToPayment(), ErrInvalidTransition)
	assert.ErrorIs(t, f.Submit(ctx, Payment{Method: bookings.PaymentCard}), ErrInvalidTransition)
	assert.ErrorIs(t, f.Retry(), ErrInvalidTransition)
	assert.ErrorIs(t, f.Reselect(), ErrInvalidTransition)

	_, err := f.Toggle("A2")
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	_, err = f.Toggle("Z9")
	assert.ErrorIs(t, err, ErrUnknownSeat)

	_, _ = f.Toggle("A1")
	require.NoError(t, f.Summarize())
	_, err = f.Toggle("G5")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, f.Summarize(), ErrInvalidTransition)

	require.NoError(t, f.Back())
	assert.Equal(t, SelectingSeats, f.State())
}

func TestBookingFlowResetCancelsRedirect(t *testing.T) {
	timer := &manualTimer{}
	var redirected []*bookings.BookingResponse
	f := newFlow(&fakeBookingAPI{}, timer, &redirected)

	_, _ = f.Toggle("A1")
	require.NoError(t, f.Summarize())
	require.NoError(t, f.ProceedToPayment())
	require.NoError(t, f.Submit(context.Background(), Payment{Method: bookings.PaymentCard}))

	f.Reset()
	timer.fire()

	assert.Empty(t, redirected)
	assert.True(t, timer.cancelled)
	assert.Equal(t, SelectingSeats, f.State())
	assert.Nil(t, f.Booking())
	assert.Zero(t, f.Breakdown().Total)
}
