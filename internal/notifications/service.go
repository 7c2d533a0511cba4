package notifications

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// BookingEmail carries what the booking mails need
type BookingEmail struct {
	UserID        uuid.UUID
	Email         string
	Name          string
	BookingID     uuid.UUID
	BookingCode   string
	MovieTitle    string
	HallName      string
	ShowAt        time.Time
	Seats         []string
	TotalAmount   int64
	RefundPercent int
	RefundAmount  int64
}

type Service struct {
	producer NotificationProducer
	consumer NotificationConsumer
	workers  int
	log      *logger.Logger

	mu        sync.Mutex
	isRunning bool
}

// NewService wires Kafka when enabled, otherwise delivers in-process.
func NewService(cfg *config.Config) (*Service, error) {
	var sender EmailService
	smtp := &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}
	if smtp.Configured() {
		sender = NewGomailEmailService(smtp)
	} else {
		sender = NewLogEmailService()
	}

	if !cfg.Kafka.Enabled {
		return NewServiceWith(NewDirectProducer(sender), nil, 0), nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.NotificationTopic = cfg.Kafka.Topic
	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, err
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.Topic}
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroup
	consumer, err := NewKafkaNotificationConsumer(consumerConfig, sender)
	if err != nil {
		producer.Close()
		return nil, err
	}

	return NewServiceWith(producer, consumer, cfg.Kafka.Workers), nil
}

func NewServiceWith(producer NotificationProducer, consumer NotificationConsumer, workers int) *Service {
	return &Service{producer: producer, consumer: consumer, workers: workers, log: logger.GetDefault()}
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("notification service is already running")
	}
	if s.consumer != nil {
		if err := s.consumer.StartConsumers(ctx, s.workers); err != nil {
			return fmt.Errorf("failed to start consumers: %w", err)
		}
	}
	s.isRunning = true
	return nil
}

func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			s.log.Error("Error stopping consumer", "error", err)
		}
	}
	if err := s.producer.Close(); err != nil {
		s.log.Error("Error closing producer", "error", err)
	}
	s.isRunning = false
	return nil
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}
	if s.consumer != nil {
		if err := s.consumer.HealthCheck(ctx); err != nil {
			return fmt.Errorf("consumer health check failed: %w", err)
		}
	}
	return nil
}

var otpPurposeLabels = map[string]string{
	"register":       "your new account",
	"reset_password": "resetting your password",
}

// SendOTP mails a one-time code; the mail expires together with the code.
func (s *Service) SendOTP(ctx context.Context, email, code, purpose string, ttl time.Duration) error {
	label, ok := otpPurposeLabels[purpose]
	if !ok {
		label = purpose
	}

	n := NewNotificationBuilder().
		WithType(NotificationTypeOTPCode).
		WithRecipient(uuid.Nil, email, "").
		WithTemplateData(map[string]interface{}{
			"code":            code,
			"purpose":         purpose,
			"purpose_label":   label,
			"expires_minutes": int(ttl.Minutes()),
		}).
		WithExpiration(time.Now().Add(ttl)).
		Build()

	return s.producer.PublishNotification(ctx, n)
}

func (s *Service) SendBookingConfirmed(ctx context.Context, b BookingEmail) error {
	n := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(b.UserID, b.Email, b.Name).
		WithBookingContext(b.BookingID).
		WithTemplateData(map[string]interface{}{
			"booking_code": b.BookingCode,
			"movie_title":  b.MovieTitle,
			"hall_name":    b.HallName,
			"show_at":      b.ShowAt.Format("15:04 02/01/2006"),
			"seats":        strings.Join(b.Seats, ", "),
			"total":        FormatVND(b.TotalAmount),
		}).
		Build()

	return s.producer.PublishNotification(ctx, n)
}

func (s *Service) SendBookingCancelled(ctx context.Context, b BookingEmail) error {
	n := NewNotificationBuilder().
		WithType(NotificationTypeBookingCancelled).
		WithRecipient(b.UserID, b.Email, b.Name).
		WithBookingContext(b.BookingID).
		WithTemplateData(map[string]interface{}{
			"booking_code":      b.BookingCode,
			"movie_title":       b.MovieTitle,
			"refund_percentage": b.RefundPercent,
			"refund_amount":     FormatVND(b.RefundAmount),
		}).
		Build()

	return s.producer.PublishNotification(ctx, n)
}
