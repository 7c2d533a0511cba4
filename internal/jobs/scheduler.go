package jobs

import (
	"context"
	"fmt"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

type ShowtimeFinisher interface {
	FinishPast(ctx context.Context) (int64, error)
}

type BookingExpirer interface {
	ExpirePending(ctx context.Context) (int, error)
}

type MoviePromoter interface {
	PromoteReleased(ctx context.Context, today string) (int64, error)
}

type Deps struct {
	Showtimes ShowtimeFinisher
	Bookings  BookingExpirer
	Movies    MoviePromoter
}

// Scheduler runs the periodic housekeeping jobs
type Scheduler struct {
	scheduler gocron.Scheduler
	deps      Deps
	loc       *time.Location
	log       *logger.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	now       func() time.Time
}

func NewScheduler(cfg config.JobsConfig, loc *time.Location, deps Deps) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &Scheduler{
		scheduler: s,
		deps:      deps,
		loc:       loc,
		log:       logger.GetDefault(),
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}

	if err := js.register(cfg); err != nil {
		cancel()
		_ = s.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *Scheduler) register(cfg config.JobsConfig) error {
	if js.deps.Showtimes != nil {
		if _, err := js.scheduler.NewJob(
			gocron.DurationJob(orDefault(cfg.ShowtimeFinishInterval, 5*time.Minute)),
			gocron.NewTask(js.FinishShowtimes),
			gocron.WithName("finish-showtimes"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			return fmt.Errorf("failed to schedule finish-showtimes: %w", err)
		}
	}

	if js.deps.Bookings != nil {
		if _, err := js.scheduler.NewJob(
			gocron.DurationJob(orDefault(cfg.PendingBookingsInterval, time.Minute)),
			gocron.NewTask(js.ExpireBookings),
			gocron.WithName("expire-pending-bookings"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			return fmt.Errorf("failed to schedule expire-pending-bookings: %w", err)
		}
	}

	if js.deps.Movies != nil {
		if _, err := js.scheduler.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
			gocron.NewTask(js.PromoteMovies),
			gocron.WithName("promote-released-movies"),
		); err != nil {
			return fmt.Errorf("failed to schedule promote-released-movies: %w", err)
		}
	}
	return nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func (js *Scheduler) Start() {
	js.log.Info("Starting background jobs", "jobs", len(js.scheduler.Jobs()))
	js.scheduler.Start()
}

func (js *Scheduler) Stop() error {
	js.cancel()
	return js.scheduler.Shutdown()
}

func (js *Scheduler) FinishShowtimes() {
	n, err := js.deps.Showtimes.FinishPast(js.ctx)
	if err != nil {
		js.log.Error("Failed to finish past showtimes", "error", err)
		return
	}
	if n > 0 {
		js.log.Info("Marked showtimes finished", "count", n)
	}
}

func (js *Scheduler) ExpireBookings() {
	n, err := js.deps.Bookings.ExpirePending(js.ctx)
	if err != nil {
		js.log.Error("Failed to expire pending bookings", "error", err)
		return
	}
	if n > 0 {
		js.log.Info("Expired pending bookings", "count", n)
	}
}

func (js *Scheduler) PromoteMovies() {
	today := js.now().In(js.loc).Format("2006-01-02")
	n, err := js.deps.Movies.PromoteReleased(js.ctx, today)
	if err != nil {
		js.log.Error("Failed to promote released movies", "error", err)
		return
	}
	if n > 0 {
		js.log.Info("Movies now showing", "count", n, "date", today)
	}
}
