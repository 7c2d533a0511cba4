package cancellation

import (
	"context"
	"errors"
	"strings"
	"time"

	"cinebook/internal/bookings"
	"cinebook/internal/notifications"
	"cinebook/internal/shared/constants"
	"cinebook/internal/users"
	"cinebook/internal/wallet"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotCancellable = errors.New("booking can no longer be cancelled")

// BookingStore is the part of the bookings repository cancellation needs
type BookingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*bookings.Booking, error)
	CancelTx(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, at time.Time, refunded bool) error
}

type WalletCrediter interface {
	Credit(ctx context.Context, tx *gorm.DB, entry wallet.Entry) (*wallet.Transaction, error)
}

type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context, showtimeID uuid.UUID)
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type Notifier interface {
	SendBookingCancelled(ctx context.Context, b notifications.BookingEmail) error
}

type Service interface {
	Quote(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*RefundQuote, error)
	Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool, req CancelRequest) (*Cancellation, error)
	GetCancellation(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*Cancellation, error)
}

type Deps struct {
	Bookings BookingStore
	Wallet   WalletCrediter
	Catalog  CatalogInvalidator
	Users    UserLookup
	Notifier Notifier
	Cache    cache.Service
}

type service struct {
	repo     Repository
	bookings BookingStore
	wallet   WalletCrediter
	catalog  CatalogInvalidator
	users    UserLookup
	notifier Notifier
	cache    cache.Service
	loc      *time.Location
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, deps Deps, loc *time.Location) Service {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:     repo,
		bookings: deps.Bookings,
		wallet:   deps.Wallet,
		catalog:  deps.Catalog,
		users:    deps.Users,
		notifier: deps.Notifier,
		cache:    deps.Cache,
		loc:      loc,
		log:      logger.GetDefault(),
		now:      time.Now,
	}
}

func (s *service) load(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*bookings.Booking, time.Time, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, time.Time{}, bookings.ErrBookingForbidden
	}
	showAt, err := s.showAt(booking)
	if err != nil {
		return nil, time.Time{}, err
	}
	return booking, showAt, nil
}

// showAt derives the start from the stored showtime date and clock
func (s *service) showAt(b *bookings.Booking) (time.Time, error) {
	if b.Showtime == nil {
		return time.Time{}, errors.New("booking has no showtime loaded")
	}
	return ShowDateTime(b.Showtime.ShowDate, b.Showtime.ShowTime, s.loc)
}

// refundFor only pays back what was actually charged
func refundFor(b *bookings.Booking, showAt, now time.Time) (int, int64) {
	pct := RefundPercentage(showAt, now)
	if b.Status != bookings.StatusConfirmed {
		return pct, 0
	}
	return pct, RefundAmount(b.TotalAmount, pct)
}

func (s *service) Quote(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*RefundQuote, error) {
	booking, showAt, err := s.load(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	now := s.now()
	quote := &RefundQuote{
		BookingID:   booking.ID,
		Cancellable: IsCancellable(booking.Status, showAt, now),
		TotalAmount: booking.TotalAmount,
		ShowAt:      showAt,
	}
	if quote.Cancellable {
		quote.RefundPercentage, quote.RefundAmount = refundFor(booking, showAt, now)
	}
	return quote, nil
}

func (s *service) Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool, req CancelRequest) (*Cancellation, error) {
	booking, showAt, err := s.load(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var record *Cancellation
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		locked, err := s.bookings.LockByID(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !IsCancellable(locked.Status, showAt, now) {
			return ErrNotCancellable
		}

		pct, amount := refundFor(locked, showAt, now)
		if err := s.bookings.CancelTx(ctx, tx, bookingID, now, amount > 0); err != nil {
			return err
		}

		record = &Cancellation{
			BookingID:        bookingID,
			UserID:           locked.UserID,
			RefundPercentage: pct,
			RefundAmount:     amount,
			Reason:           strings.TrimSpace(req.Reason),
			CancelledAt:      now,
		}
		if err := s.repo.Create(ctx, tx, record); err != nil {
			return err
		}

		if amount == 0 {
			return nil
		}
		_, err = s.wallet.Credit(ctx, tx, wallet.Entry{
			UserID:      locked.UserID,
			BookingID:   &bookingID,
			Type:        wallet.TypeRefund,
			Amount:      amount,
			Description: "Refund for booking " + locked.BookingCode,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidTransition) {
			return nil, ErrNotCancellable
		}
		return nil, err
	}

	s.catalog.InvalidateCatalog(ctx, booking.ShowtimeID)
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_REPORT); err != nil {
		s.log.Warn("failed to invalidate report cache", "error", err)
	}
	s.log.LogBookingCancelled(ctx, bookingID.String(), booking.ShowtimeID.String(), booking.UserID.String(),
		record.RefundPercentage, record.RefundAmount)
	s.notifyCancelled(ctx, booking, record)

	return record, nil
}

func (s *service) notifyCancelled(ctx context.Context, b *bookings.Booking, c *Cancellation) {
	if s.notifier == nil || s.users == nil {
		return
	}
	user, err := s.users.GetByID(ctx, b.UserID)
	if err != nil {
		s.log.Warn("skipping cancellation mail", "booking_id", b.ID.String(), "error", err)
		return
	}

	mail := notifications.BookingEmail{
		UserID:        user.ID,
		Email:         user.Email,
		Name:          strings.TrimSpace(user.FirstName + " " + user.LastName),
		BookingID:     b.ID,
		BookingCode:   b.BookingCode,
		Seats:         b.SeatLabels(),
		TotalAmount:   b.TotalAmount,
		RefundPercent: c.RefundPercentage,
		RefundAmount:  c.RefundAmount,
	}
	if st := b.Showtime; st != nil {
		mail.ShowAt = st.StartsAt
		if st.Movie != nil {
			mail.MovieTitle = st.Movie.Title
		}
		if st.Hall != nil {
			mail.HallName = st.Hall.Name
		}
	}
	if err := s.notifier.SendBookingCancelled(ctx, mail); err != nil {
		s.log.Warn("failed to send cancellation mail", "booking_id", b.ID.String(), "error", err)
	}
}

func (s *service) GetCancellation(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*Cancellation, error) {
	c, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && c.UserID != requesterID {
		return nil, bookings.ErrBookingForbidden
	}
	return c, nil
}
