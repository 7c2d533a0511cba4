package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinebook/internal/halls"
	"cinebook/internal/movies"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showtimes"
	"cinebook/internal/users"
	"cinebook/internal/wallet"
	"cinebook/pkg/cache"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Seeder struct {
	db  *database.DB
	cfg *config.Config

	movies    movies.Service
	halls     halls.Service
	showtimes showtimes.Service
	wallet    wallet.Service
}

func main() {
	fmt.Println("Starting CineBook database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := NewSeeder(cfg, db)

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed! Database is ready for testing.")
}

// NewSeeder goes through the services so seeded rows obey the same rules as the API
func NewSeeder(cfg *config.Config, db *database.DB) *Seeder {
	pg := db.GetPostgreSQL()
	noCache := cache.Noop{}

	movieService := movies.NewService(movies.NewRepository(pg), noCache)
	hallService := halls.NewService(halls.NewRepository(pg, seats.NewRepository(pg)), noCache)

	return &Seeder{
		db:        db,
		cfg:       cfg,
		movies:    movieService,
		halls:     hallService,
		showtimes: showtimes.NewService(showtimes.NewRepository(pg), movieService, hallService, cfg.GetLocation()),
		wallet:    wallet.NewService(wallet.NewRepository(pg)),
	}
}

// CleanDatabase truncates all tables, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"cancellations",
		"payments",
		"booking_seats",
		"bookings",
		"wallet_transactions",
		"showtimes",
		"seats",
		"halls",
		"movies",
		"users",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	userIDs, err := s.SeedUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	movieIDs, err := s.SeedMovies(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	hallIDs, err := s.SeedHalls(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed halls: %w", err)
	}

	if err := s.SeedShowtimes(ctx, movieIDs, hallIDs); err != nil {
		return fmt.Errorf("failed to seed showtimes: %w", err)
	}

	for key, id := range userIDs {
		if key == "admin" {
			continue
		}
		if _, err := s.wallet.TopUp(ctx, id, wallet.TopUpRequest{Amount: 1000000, Description: "Welcome credit"}); err != nil {
			return fmt.Errorf("failed to top up %s: %w", key, err)
		}
	}

	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: failed to clear Redis cache: %v", err)
		}
	}
	return nil
}

// SeedUsers creates one admin and two customers, all with password "qwerty"
func (s *Seeder) SeedUsers(ctx context.Context) (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Admin", "CineBook", "admin@cinebook.vn", users.RoleAdmin},
		{"user1", "Minh", "Nguyen", "minh@example.com", users.RoleUser},
		{"user2", "Lan", "Tran", "lan@example.com", users.RoleUser},
	}

	userIDs := make(map[string]uuid.UUID, len(usersData))
	for _, data := range usersData {
		user := users.User{
			FirstName: data.firstName,
			LastName:  data.lastName,
			Email:     data.email,
			Password:  string(hashedPassword),
			Role:      data.role,
		}
		if err := s.db.PostgreSQL.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", data.email, err)
		}
		userIDs[data.key] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", user.Email, user.Role)
	}
	return userIDs, nil
}

func (s *Seeder) SeedMovies(ctx context.Context) ([]uuid.UUID, error) {
	fmt.Println("  Seeding movies...")

	today := time.Now().In(s.cfg.GetLocation())
	requests := []movies.CreateMovieRequest{
		{
			Title:           "Mai",
			Description:     "A masseuse with a troubled past meets a carefree musician.",
			Genre:           "Drama",
			DurationMinutes: 131,
			Language:        "Vietnamese",
			AgeRating:       "T18",
			ReleaseDate:     today.AddDate(0, 0, -20).Format(showtimes.DateLayout),
			Status:          string(movies.StatusNowShowing),
		},
		{
			Title:           "Dune: Part Two",
			Description:     "Paul Atreides unites with the Fremen.",
			Genre:           "Sci-Fi",
			DurationMinutes: 166,
			Language:        "English",
			AgeRating:       "T13",
			ReleaseDate:     today.AddDate(0, 0, -5).Format(showtimes.DateLayout),
			Status:          string(movies.StatusNowShowing),
		},
		{
			Title:           "Doraemon: Nobita's Earth Symphony",
			Genre:           "Animation",
			DurationMinutes: 115,
			Language:        "Japanese",
			AgeRating:       "P",
			ReleaseDate:     today.AddDate(0, 0, 7).Format(showtimes.DateLayout),
			Status:          string(movies.StatusComingSoon),
		},
	}

	ids := make([]uuid.UUID, 0, len(requests))
	for _, req := range requests {
		movie, err := s.movies.CreateMovie(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to create movie %q: %w", req.Title, err)
		}
		ids = append(ids, movie.ID)
		fmt.Printf("    Created movie: %s\n", movie.Title)
	}
	return ids, nil
}

// SeedHalls creates two halls: standard rows up front, VIP in the middle, couple seats at the back
func (s *Seeder) SeedHalls(ctx context.Context) ([]uuid.UUID, error) {
	fmt.Println("  Seeding halls...")

	layout := func(standard, vip []string, couple string, perRow int) []halls.RowLayout {
		var rows []halls.RowLayout
		for _, r := range standard {
			rows = append(rows, halls.RowLayout{RowLabel: r, SeatCount: perRow, SeatType: string(seats.SeatTypeStandard)})
		}
		for _, r := range vip {
			rows = append(rows, halls.RowLayout{RowLabel: r, SeatCount: perRow, SeatType: string(seats.SeatTypeVIP)})
		}
		rows = append(rows, halls.RowLayout{RowLabel: couple, SeatCount: perRow / 2, SeatType: string(seats.SeatTypeCouple)})
		return rows
	}

	requests := []halls.CreateHallRequest{
		{
			Name:        "Hall 1",
			Description: "Main hall",
			Rows:        layout([]string{"A", "B", "C", "D", "E", "F"}, []string{"G"}, "H", 12),
		},
		{
			Name:        "Hall 2",
			Description: "Small hall",
			Rows:        layout([]string{"A", "B", "C"}, []string{"D"}, "E", 8),
		},
	}

	ids := make([]uuid.UUID, 0, len(requests))
	for _, req := range requests {
		hall, err := s.halls.CreateHall(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to create hall %q: %w", req.Name, err)
		}
		ids = append(ids, hall.ID)
		fmt.Printf("    Created hall: %s (%d seats)\n", hall.Name, hall.TotalSeats)
	}
	return ids, nil
}

// SeedShowtimes schedules the showing movies over the next three days
func (s *Seeder) SeedShowtimes(ctx context.Context, movieIDs, hallIDs []uuid.UUID) error {
	fmt.Println("  Seeding showtimes...")

	slots := []struct {
		clock string
		price int64
	}{
		{"10:00", 75000},
		{"14:30", 90000},
		{"19:30", 120000},
	}

	today := time.Now().In(s.cfg.GetLocation())
	created := 0
	for day := 1; day <= 3; day++ {
		date := today.AddDate(0, 0, day).Format(showtimes.DateLayout)
		for h, hallID := range hallIDs {
			movieID := movieIDs[h%2]
			for _, slot := range slots {
				_, err := s.showtimes.CreateShowtime(ctx, showtimes.CreateShowtimeRequest{
					MovieID:   movieID.String(),
					HallID:    hallID.String(),
					ShowDate:  date,
					ShowTime:  slot.clock,
					BasePrice: slot.price,
				})
				if err != nil {
					return fmt.Errorf("failed to create showtime %s %s: %w", date, slot.clock, err)
				}
				created++
			}
		}
	}
	fmt.Printf("    Created %d showtimes\n", created)
	return nil
}
