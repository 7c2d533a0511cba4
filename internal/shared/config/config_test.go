package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, int64(10000), cfg.Booking.ServiceFee)
	assert.Equal(t, 10, cfg.Booking.MaxSeats)
	assert.Equal(t, 300*time.Second, cfg.OTP.TTL)
	assert.Equal(t, 5, cfg.OTP.MaxAttempts)
	assert.Contains(t, cfg.Database.DSN, "dbname=cinebook_db")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BOOKING_SERVICE_FEE", "15000")
	t.Setenv("OTP_TTL", "120")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REDIS_HOST", "cache")

	cfg := Load()

	assert.Equal(t, int64(15000), cfg.Booking.ServiceFee)
	assert.Equal(t, 2*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
}

func TestGetLocationFallback(t *testing.T) {
	cfg := &Config{Booking: BookingConfig{Timezone: "Not/AZone"}}
	assert.Equal(t, time.UTC, cfg.GetLocation())
}
