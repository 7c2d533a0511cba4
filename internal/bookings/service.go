package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"cinebook/internal/notifications"
	"cinebook/internal/pricing"
	"cinebook/internal/seats"
	"cinebook/internal/selection"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/constants"
	"cinebook/internal/shared/utils/qrcode"
	"cinebook/internal/shared/utils/response"
	"cinebook/internal/showtimes"
	"cinebook/internal/users"
	"cinebook/internal/wallet"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrShowtimeNotBookable = errors.New("showtime is no longer open for booking")
	ErrUnknownSeats        = errors.New("unknown seats")
	ErrPaymentDeclined     = errors.New("payment declined by card issuer")
	ErrBookingForbidden    = errors.New("booking belongs to another user")
	ErrTicketUnavailable   = errors.New("ticket is only available for confirmed bookings")
)

// PaymentError reports a rejected payment. The booking has already been
// cancelled and its seats released.
type PaymentError struct {
	Booking BookingResponse
	Err     error
}

func (e *PaymentError) Error() string { return e.Err.Error() }
func (e *PaymentError) Unwrap() error { return e.Err }

type ShowtimeFinder interface {
	GetShowtime(ctx context.Context, id uuid.UUID) (*showtimes.Showtime, error)
}

type CatalogLoader interface {
	LoadCatalog(ctx context.Context, showtimeID uuid.UUID) (*seats.Catalog, error)
	InvalidateCatalog(ctx context.Context, showtimeID uuid.UUID)
}

type WalletDebiter interface {
	Debit(ctx context.Context, tx *gorm.DB, entry wallet.Entry) (*wallet.Transaction, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type Notifier interface {
	SendBookingConfirmed(ctx context.Context, b notifications.BookingEmail) error
}

type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error)
	ListMyBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*response.PaginatedData, error)
	ListBookings(ctx context.Context, query BookingListQuery) (*response.PaginatedData, error)
	TicketQR(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) ([]byte, error)
	// ExpirePending cancels pending bookings whose payment window has passed.
	ExpirePending(ctx context.Context) (int, error)
}

type Deps struct {
	Showtimes ShowtimeFinder
	Catalog   CatalogLoader
	Wallet    WalletDebiter
	Users     UserLookup
	Notifier  Notifier
	Cache     cache.Service
}

type service struct {
	repo      Repository
	showtimes ShowtimeFinder
	catalog   CatalogLoader
	wallet    WalletDebiter
	users     UserLookup
	notifier  Notifier
	cache     cache.Service
	cfg       config.BookingConfig
	log       *logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, deps Deps, cfg config.BookingConfig) Service {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if cfg.MaxSeats <= 0 {
		cfg.MaxSeats = selection.MaxSeats
	}
	return &service{
		repo:      repo,
		showtimes: deps.Showtimes,
		catalog:   deps.Catalog,
		wallet:    deps.Wallet,
		users:     deps.Users,
		notifier:  deps.Notifier,
		cache:     deps.Cache,
		cfg:       cfg,
		log:       logger.GetDefault(),
		now:       time.Now,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, showtimes.ErrShowtimeNotFound
	}
	if err := selection.Validate(req.Seats, s.cfg.MaxSeats); err != nil {
		return nil, err
	}

	showtime, err := s.showtimes.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	if !showtime.Bookable(s.now()) {
		return nil, ErrShowtimeNotBookable
	}

	catalog, err := s.catalog.LoadCatalog(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	rows, err := pickSeats(catalog, req.Seats)
	if err != nil {
		return nil, err
	}
	breakdown := pricing.Calculate(req.Seats, catalog, showtime.BasePrice, s.cfg.ServiceFee)

	code, err := s.generateBookingCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking code: %w", err)
	}

	expiresAt := s.now().Add(s.cfg.PendingTTL)
	booking := &Booking{
		UserID:        userID,
		ShowtimeID:    showtimeID,
		BookingCode:   code,
		SeatList:      strings.Join(req.Seats, ","),
		Status:        StatusPending,
		PaymentMethod: PaymentMethod(req.PaymentMethod),
		ExpiresAt:     &expiresAt,
		Seats:         rows,
	}
	booking.applyBreakdown(breakdown)

	if err := s.repo.CreatePending(ctx, booking); err != nil {
		if errors.Is(err, ErrSeatTaken) {
			s.catalog.InvalidateCatalog(ctx, showtimeID)
		}
		return nil, err
	}
	s.catalog.InvalidateCatalog(ctx, showtimeID)
	booking.Showtime = showtime

	if err := s.settle(ctx, booking, req.CardNumber); err != nil {
		return nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), showtimeID.String(), userID.String(), booking.TotalAmount)
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_REPORT); err != nil {
		s.log.Warn("failed to invalidate report cache", "error", err)
	}
	s.notifyConfirmed(ctx, booking)

	resp := ToResponse(booking)
	return &resp, nil
}

// pickSeats maps labels to seat rows, rejecting unknown and already booked seats.
func pickSeats(catalog *seats.Catalog, labels []string) ([]BookingSeat, error) {
	var unknown []string
	taken := false
	rows := make([]BookingSeat, 0, len(labels))
	for _, label := range labels {
		seat, ok := catalog.Lookup(label)
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		if seat.IsBooked {
			taken = true
			continue
		}
		rows = append(rows, BookingSeat{
			SeatID:    seat.ID,
			SeatLabel: seat.Label,
			SeatType:  seat.SeatType,
		})
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSeats, strings.Join(unknown, ", "))
	}
	if taken {
		return nil, ErrSeatTaken
	}
	return rows, nil
}

// settle runs the payment and moves the pending booking to confirmed or cancelled.
func (s *service) settle(ctx context.Context, booking *Booking, cardNumber string) error {
	now := s.now()
	payment := &Payment{
		Amount:        booking.TotalAmount,
		Currency:      "VND",
		Method:        booking.PaymentMethod,
		Status:        PaymentCompleted,
		TransactionID: generateTransactionID(now),
		ProcessedAt:   now,
	}

	var err error
	switch booking.PaymentMethod {
	case PaymentCard:
		payment.CardLast4 = last4(cardNumber)
		if s.cfg.DeclineCardLast4 != "" && payment.CardLast4 == s.cfg.DeclineCardLast4 {
			err = ErrPaymentDeclined
			break
		}
		err = s.repo.Confirm(ctx, nil, booking.ID, payment, now)
	case PaymentWallet:
		bookingID := booking.ID
		err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
			if _, err := s.wallet.Debit(ctx, tx, wallet.Entry{
				UserID:      booking.UserID,
				BookingID:   &bookingID,
				Type:        wallet.TypePayment,
				Amount:      booking.TotalAmount,
				Description: "Payment for booking " + booking.BookingCode,
			}); err != nil {
				return err
			}
			return s.repo.Confirm(ctx, tx, bookingID, payment, now)
		})
	default:
		err = fmt.Errorf("unsupported payment method %q", booking.PaymentMethod)
	}

	if err == nil {
		booking.Status = StatusConfirmed
		booking.ConfirmedAt = &now
		booking.ExpiresAt = nil
		booking.Payments = []Payment{*payment}
		return nil
	}

	rejected := errors.Is(err, ErrPaymentDeclined) || errors.Is(err, wallet.ErrInsufficientBalance)
	var failed *Payment
	if rejected {
		payment.ID = uuid.Nil
		payment.Status = PaymentFailed
		payment.FailureReason = err.Error()
		failed = payment
	}
	if ferr := s.repo.Fail(ctx, booking.ID, failed, err.Error(), now); ferr != nil {
		s.log.ErrorWithContext(ctx, "failed to release booking after payment error", ferr,
			map[string]interface{}{"booking_id": booking.ID.String()})
	}
	s.catalog.InvalidateCatalog(ctx, booking.ShowtimeID)
	s.log.LogPaymentFailed(ctx, booking.ID.String(), string(booking.PaymentMethod), err.Error())

	if !rejected {
		return fmt.Errorf("payment processing failed: %w", err)
	}
	booking.Status = StatusCancelled
	booking.CancelledAt = &now
	booking.ExpiresAt = nil
	booking.FailureReason = err.Error()
	if failed != nil {
		booking.Payments = []Payment{*failed}
	}
	return &PaymentError{Booking: ToResponse(booking), Err: err}
}

func (s *service) notifyConfirmed(ctx context.Context, booking *Booking) {
	if s.notifier == nil || s.users == nil {
		return
	}
	user, err := s.users.GetByID(ctx, booking.UserID)
	if err != nil {
		s.log.Warn("skipping booking confirmation mail", "booking_id", booking.ID.String(), "error", err)
		return
	}
	if err := s.notifier.SendBookingConfirmed(ctx, bookingEmail(booking, user)); err != nil {
		s.log.Warn("failed to send booking confirmation", "booking_id", booking.ID.String(), "error", err)
	}
}

// bookingEmail fills the mail payload from a booking with its showtime loaded
func bookingEmail(b *Booking, user *users.User) notifications.BookingEmail {
	email := notifications.BookingEmail{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        strings.TrimSpace(user.FirstName + " " + user.LastName),
		BookingID:   b.ID,
		BookingCode: b.BookingCode,
		Seats:       b.SeatLabels(),
		TotalAmount: b.TotalAmount,
	}
	if st := b.Showtime; st != nil {
		email.ShowAt = st.StartsAt
		if st.Movie != nil {
			email.MovieTitle = st.Movie.Title
		}
		if st.Hall != nil {
			email.HallName = st.Hall.Name
		}
	}
	return email
}

func (s *service) GetBooking(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error) {
	booking, err := s.owned(ctx, id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(booking)
	return &resp, nil
}

func (s *service) owned(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, ErrBookingForbidden
	}
	return booking, nil
}

func (s *service) ListMyBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*response.PaginatedData, error) {
	normalizePage(&query)
	list, total, err := s.repo.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	page := response.NewPaginatedData(toResponses(list), query.Page, query.Limit, total)
	return &page, nil
}

func (s *service) ListBookings(ctx context.Context, query BookingListQuery) (*response.PaginatedData, error) {
	normalizePage(&query)
	list, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	page := response.NewPaginatedData(toResponses(list), query.Page, query.Limit, total)
	return &page, nil
}

func normalizePage(q *BookingListQuery) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
}

func toResponses(list []Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, ToResponse(&list[i]))
	}
	return out
}

func (s *service) TicketQR(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) ([]byte, error) {
	booking, err := s.owned(ctx, id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	if booking.Status != StatusConfirmed {
		return nil, ErrTicketUnavailable
	}
	return qrcode.PNG(booking.BookingCode, qrcode.DefaultSize)
}

const expireBatchSize = 100

func (s *service) ExpirePending(ctx context.Context) (int, error) {
	now := s.now()
	expired, err := s.repo.ListExpiredPending(ctx, now, expireBatchSize)
	if err != nil {
		return 0, err
	}

	count := 0
	touched := make(map[uuid.UUID]struct{})
	for _, b := range expired {
		err := s.repo.Fail(ctx, b.ID, nil, "payment window expired", now)
		if errors.Is(err, ErrInvalidTransition) {
			continue
		}
		if err != nil {
			return count, err
		}
		count++
		touched[b.ShowtimeID] = struct{}{}
	}
	for showtimeID := range touched {
		s.catalog.InvalidateCatalog(ctx, showtimeID)
	}
	return count, nil
}

const codeAttempts = 5

// generateBookingCode returns an unused CB-YYYYMMDD-XXXXXX code
func (s *service) generateBookingCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := newBookingCode(s.now())
		if err != nil {
			return "", err
		}
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("booking code space exhausted")
}

func newBookingCode(at time.Time) (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("CB-%s-%s", at.Format("20060102"), string(randomPart)), nil
}

func generateTransactionID(at time.Time) string {
	short := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", at.Unix(), strings.ToUpper(short))
}

func last4(card string) string {
	if len(card) <= 4 {
		return card
	}
	return card[len(card)-4:]
}
