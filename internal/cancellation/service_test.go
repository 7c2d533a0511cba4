package cancellation

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/bookings"
	"cinebook/internal/movies"
	"cinebook/internal/notifications"
	"cinebook/internal/showtimes"
	"cinebook/internal/users"
	"cinebook/internal/wallet"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memRepo struct {
	records map[uuid.UUID]*Cancellation
}

func (m *memRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *memRepo) Create(_ context.Context, _ *gorm.DB, c *Cancellation) error {
	c.ID = uuid.New()
	m.records[c.BookingID] = c
	return nil
}

func (m *memRepo) GetByBookingID(_ context.Context, id uuid.UUID) (*Cancellation, error) {
	if c, ok := m.records[id]; ok {
		return c, nil
	}
	return nil, ErrCancellationNotFound
}

type memBookings struct {
	items    map[uuid.UUID]*bookings.Booking
	refunded map[uuid.UUID]bool
}

func (m *memBookings) GetByID(_ context.Context, id uuid.UUID) (*bookings.Booking, error) {
	b, ok := m.items[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) LockByID(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*bookings.Booking, error) {
	return m.GetByID(ctx, id)
}

func (m *memBookings) CancelTx(_ context.Context, _ *gorm.DB, id uuid.UUID, at time.Time, refunded bool) error {
	b := m.items[id]
	if !b.Status.CanTransitionTo(bookings.StatusCancelled) {
		return bookings.ErrInvalidTransition
	}
	b.Status = bookings.StatusCancelled
	b.CancelledAt = &at
	m.refunded[id] = refunded
	return nil
}

type stubWallet struct {
	credits []wallet.Entry
}

func (w *stubWallet) Credit(_ context.Context, _ *gorm.DB, e wallet.Entry) (*wallet.Transaction, error) {
	w.credits = append(w.credits, e)
	return &wallet.Transaction{UserID: e.UserID, Amount: e.Amount}, nil
}

type countingCatalog struct{ n int }

func (c *countingCatalog) InvalidateCatalog(context.Context, uuid.UUID) { c.n++ }

type stubUsers struct{}

func (stubUsers) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	return &users.User{ID: id, FirstName: "Minh", Email: "minh@example.com"}, nil
}

type recordingNotifier struct {
	sent []notifications.BookingEmail
}

func (n *recordingNotifier) SendBookingCancelled(_ context.Context, b notifications.BookingEmail) error {
	n.sent = append(n.sent, b)
	return nil
}

type fixture struct {
	svc      *service
	repo     *memRepo
	bookings *memBookings
	wallet   *stubWallet
	catalog  *countingCatalog
	notifier *recordingNotifier
	userID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     &memRepo{records: map[uuid.UUID]*Cancellation{}},
		bookings: &memBookings{items: map[uuid.UUID]*bookings.Booking{}, refunded: map[uuid.UUID]bool{}},
		wallet:   &stubWallet{},
		catalog:  &countingCatalog{},
		notifier: &recordingNotifier{},
		userID:   uuid.New(),
	}
	f.svc = NewService(f.repo, Deps{
		Bookings: f.bookings,
		Wallet:   f.wallet,
		Catalog:  f.catalog,
		Users:    stubUsers{},
		Notifier: f.notifier,
	}, time.UTC).(*service)
	f.svc.now = func() time.Time { return now }
	return f
}

// addBooking stores a booking whose show starts `until` after now
func (f *fixture) addBooking(status bookings.Status, until time.Duration) uuid.UUID {
	showAt := now.Add(until)
	id := uuid.New()
	f.bookings.items[id] = &bookings.Booking{
		ID:          id,
		UserID:      f.userID,
		ShowtimeID:  uuid.New(),
		BookingCode: "CB-20261019-QWERTY",
		SeatList:    "A1,G5",
		Status:      status,
		TotalAmount: 385000,
		Showtime: &showtimes.Showtime{
			ShowDate: showAt.Format(showtimes.DateLayout),
			ShowTime: showAt.Format(showtimes.ClockLayout),
			StartsAt: showAt,
			Movie:    &movies.Movie{Title: "Mai"},
		},
	}
	return id
}

func TestCancelThirtyHoursAheadRefundsInFull(t *testing.T) {
	f := newFixture(t)
	id := f.addBooking(bookings.StatusConfirmed, 30*time.Hour)

	c, err := f.svc.Cancel(context.Background(), id, f.userID, false, CancelRequest{Reason: "  plans changed "})
	require.NoError(t, err)

	assert.Equal(t, 100, c.RefundPercentage)
	assert.Equal(t, int64(385000), c.RefundAmount)
	assert.Equal(t, "plans changed", c.Reason)
	assert.Equal(t, bookings.StatusCancelled, f.bookings.items[id].Status)
	assert.True(t, f.bookings.refunded[id])

	require.Len(t, f.wallet.credits, 1)
	assert.Equal(t, wallet.TypeRefund, f.wallet.credits[0].Type)
	assert.Equal(t, int64(385000), f.wallet.credits[0].Amount)

	assert.Equal(t, 1, f.catalog.n)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, 100, f.notifier.sent[0].RefundPercent)
	assert.Equal(t, []string{"A1", "G5"}, f.notifier.sent[0].Seats)
}

func TestCancelNinetyMinutesAheadRefundsNothing(t *testing.T) {
	f := newFixture(t)
	id := f.addBooking(bookings.StatusConfirmed, 90*time.Minute)

	c, err := f.svc.Cancel(context.Background(), id, f.userID, false, CancelRequest{})
	require.NoError(t, err)

	assert.Equal(t, 0, c.RefundPercentage)
	assert.Zero(t, c.RefundAmount)
	assert.Empty(t, f.wallet.credits)
	assert.False(t, f.bookings.refunded[id])
	assert.Equal(t, bookings.StatusCancelled, f.bookings.items[id].Status)
}

func TestCancelHalfRefund(t *testing.T) {
	f := newFixture(t)
	id := f.addBooking(bookings.StatusConfirmed, 5*time.Hour)

	c, err := f.svc.Cancel(context.Background(), id, f.userID, false, CancelRequest{})
	require.NoError(t, err)
	assert.Equal(t, 50, c.RefundPercentage)
	assert.Equal(t, int64(192500), c.RefundAmount)
}

func TestCancelPendingBookingHasNothingToRefund(t *testing.T) {
	f := newFixture(t)
	id := f.addBooking(bookings.StatusPending, 30*time.Hour)

	c, err := f.svc.Cancel(context.Background(), id, f.userID, false, CancelRequest{})
	require.NoError(t, err)
	assert.Equal(t, 100, c.RefundPercentage)
	assert.Zero(t, c.RefundAmount)
	assert.Empty(t, f.wallet.credits)
}

func TestCancelRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cancelled := f.addBooking(bookings.StatusCancelled, 30*time.Hour)
	_, err := f.svc.Cancel(ctx, cancelled, f.userID, false, CancelRequest{})
	assert.ErrorIs(t, err, ErrNotCancellable)

	started := f.addBooking(bookings.StatusConfirmed, -10*time.Minute)
	_, err = f.svc.Cancel(ctx, started, f.userID, false, CancelRequest{})
	assert.ErrorIs(t, err, ErrNotCancellable)

	other := f.addBooking(bookings.StatusConfirmed, 30*time.Hour)
	_, err = f.svc.Cancel(ctx, other, uuid.New(), false, CancelRequest{})
	assert.ErrorIs(t, err, bookings.ErrBookingForbidden)

	_, err = f.svc.Cancel(ctx, uuid.New(), f.userID, false, CancelRequest{})
	assert.ErrorIs(t, err, bookings.ErrBookingNotFound)

	assert.Empty(t, f.wallet.credits)
	assert.Empty(t, f.repo.records)
}

func TestCancelTwiceFails(t *testing.T) {
	f := newFixture(t)
	id := f.addBooking(bookings.StatusConfirmed, 30*time.Hour)

	_, err := f.svc.Cancel(context.Background(), id, f.userID, false, CancelRequest{})
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), id, f.userID, false, CancelRequest{})
	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.Len(t, f.wallet.credits, 1)
}

func TestQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.addBooking(bookings.StatusConfirmed, 24*time.Hour)
	q, err := f.svc.Quote(ctx, id, f.userID, false)
	require.NoError(t, err)
	assert.True(t, q.Cancellable)
	assert.Equal(t, 100, q.RefundPercentage)
	assert.Equal(t, int64(385000), q.RefundAmount)

	past := f.addBooking(bookings.StatusConfirmed, -time.Hour)
	q, err = f.svc.Quote(ctx, past, f.userID, false)
	require.NoError(t, err)
	assert.False(t, q.Cancellable)
	assert.Zero(t, q.RefundAmount)

	// quotes never change state
	assert.Equal(t, bookings.StatusConfirmed, f.bookings.items[id].Status)
}

func TestGetCancellation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addBooking(bookings.StatusConfirmed, 30*time.Hour)

	_, err := f.svc.GetCancellation(ctx, id, f.userID, false)
	assert.ErrorIs(t, err, ErrCancellationNotFound)

	_, err = f.svc.Cancel(ctx, id, f.userID, false, CancelRequest{})
	require.NoError(t, err)

	c, err := f.svc.GetCancellation(ctx, id, f.userID, false)
	require.NoError(t, err)
	assert.Equal(t, id, c.BookingID)

	_, err = f.svc.GetCancellation(ctx, id, uuid.New(), false)
	assert.ErrorIs(t, err, bookings.ErrBookingForbidden)
}
