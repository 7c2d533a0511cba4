package routes

import (
	"cinebook/internal/analytics"
	"cinebook/internal/auth"
	"cinebook/internal/bookings"
	"cinebook/internal/cancellation"
	"cinebook/internal/halls"
	"cinebook/internal/movies"
	"cinebook/internal/notifications"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showtimes"
	"cinebook/internal/users"
	"cinebook/internal/wallet"
	"cinebook/pkg/cache"
)

// Services is the wired application, shared by the HTTP routes and the job scheduler
type Services struct {
	Auth         auth.Service
	Users        users.Service
	Wallet       wallet.Service
	Movies       movies.Service
	Halls        halls.Service
	Seats        seats.Service
	Showtimes    showtimes.Service
	Bookings     bookings.Service
	Cancellation cancellation.Service
	Analytics    analytics.Service
}

// NewServices builds every service over one database, cache and notifier
func NewServices(cfg *config.Config, db *database.DB, notifier *notifications.Service) *Services {
	pg := db.GetPostgreSQL()
	loc := cfg.GetLocation()

	var cacheService cache.Service = cache.Noop{}
	if db.Redis != nil {
		cacheService = cache.NewService(db.Redis)
	}

	userRepo := users.NewRepository(pg)
	walletRepo := wallet.NewRepository(pg)
	seatRepo := seats.NewRepository(pg)
	bookingRepo := bookings.NewRepository(pg)

	otpStore := auth.NewOTPStore(db.Redis, cfg.OTP.TTL, cfg.OTP.MaxAttempts, cfg.OTP.VerificationTTL)

	movieService := movies.NewService(movies.NewRepository(pg), cacheService)
	hallService := halls.NewService(halls.NewRepository(pg, seatRepo), cacheService)
	showtimeService := showtimes.NewService(showtimes.NewRepository(pg), movieService, hallService, loc)
	seatService := seats.NewService(seatRepo, showtimeService, cacheService)

	bookingService := bookings.NewService(bookingRepo, bookings.Deps{
		Showtimes: showtimeService,
		Catalog:   seatService,
		Wallet:    walletRepo,
		Users:     userRepo,
		Notifier:  notifier,
		Cache:     cacheService,
	}, cfg.Booking)

	cancellationService := cancellation.NewService(cancellation.NewRepository(pg), cancellation.Deps{
		Bookings: bookingRepo,
		Wallet:   walletRepo,
		Catalog:  seatService,
		Users:    userRepo,
		Notifier: notifier,
		Cache:    cacheService,
	}, loc)

	return &Services{
		Auth:         auth.NewService(auth.NewRepository(pg), otpStore, notifier, cfg),
		Users:        users.NewService(userRepo),
		Wallet:       wallet.NewService(walletRepo),
		Movies:       movieService,
		Halls:        hallService,
		Seats:        seatService,
		Showtimes:    showtimeService,
		Bookings:     bookingService,
		Cancellation: cancellationService,
		Analytics:    analytics.NewService(analytics.NewRepository(pg), cacheService),
	}
}
