package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	mu       sync.Mutex
	sent     []*EmailNotification
	failures int
}

func (r *recordingSender) SendNotification(_ context.Context, n *EmailNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("smtp unavailable")
	}
	r.sent = append(r.sent, n)
	return nil
}

func TestServiceSendOTPDirect(t *testing.T) {
	sender := &recordingSender{}
	svc := NewServiceWith(NewDirectProducer(sender), nil, 0)

	err := svc.SendOTP(context.Background(), "lan@example.com", "123456", "register", 5*time.Minute)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	n := sender.sent[0]
	assert.Equal(t, NotificationTypeOTPCode, n.Type)
	assert.Equal(t, "lan@example.com", n.RecipientEmail)
	assert.Equal(t, "123456", n.TemplateData["code"])
	assert.Equal(t, NotificationStatusSent, n.Status)
	require.NotNil(t, n.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), *n.ExpiresAt, time.Second)
}

func TestKafkaProducerPublishesJSON(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	bookingID := uuid.New()

	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var n EmailNotification
		if err := json.Unmarshal(val, &n); err != nil {
			return err
		}
		if n.Type != NotificationTypeBookingConfirmed || n.BookingID == nil || *n.BookingID != bookingID {
			return errors.New("unexpected payload")
		}
		return nil
	})

	svc := NewServiceWith(NewKafkaNotificationProducerWith(sp, "cinebook-notifications"), nil, 0)
	err := svc.SendBookingConfirmed(context.Background(), BookingEmail{
		UserID:      uuid.New(),
		Email:       "lan@example.com",
		BookingID:   bookingID,
		BookingCode: "CB-20260101-ABCDEF",
		Seats:       []string{"A1", "G5"},
		TotalAmount: 385000,
	})
	require.NoError(t, err)
	require.NoError(t, sp.Close())
}

func TestKafkaProducerFailureMarksNotification(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaNotificationProducerWith(sp, "topic")
	n := NewNotificationBuilder().WithType(NotificationTypeOTPCode).Build()

	err := p.PublishNotification(context.Background(), n)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.Equal(t, NotificationStatusFailed, n.Status)
	require.NoError(t, sp.Close())
}

func TestConsumerHandlerSkipsExpiredOTP(t *testing.T) {
	sender := &recordingSender{}
	h := NewConsumerGroupHandler(0, sender, 0, 0)

	n := NewNotificationBuilder().
		WithType(NotificationTypeOTPCode).
		WithExpiration(time.Now().Add(-time.Minute)).
		Build()
	payload, err := n.ToJSON()
	require.NoError(t, err)

	require.NoError(t, h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: payload}))
	assert.Empty(t, sender.sent)
}

func TestConsumerHandlerRetries(t *testing.T) {
	sender := &recordingSender{failures: 2}
	h := NewConsumerGroupHandler(0, sender, 3, time.Millisecond)

	payload, err := NewNotificationBuilder().WithType(NotificationTypeBookingCancelled).Build().ToJSON()
	require.NoError(t, err)

	require.NoError(t, h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: payload}))
	assert.Len(t, sender.sent, 1)
}

func TestConsumerHandlerGivesUp(t *testing.T) {
	sender := &recordingSender{failures: 5}
	h := NewConsumerGroupHandler(0, sender, 1, time.Millisecond)

	payload, err := NewNotificationBuilder().WithType(NotificationTypeBookingCancelled).Build().ToJSON()
	require.NoError(t, err)

	err = h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: payload})
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestConsumerHandlerRejectsGarbage(t *testing.T) {
	h := NewConsumerGroupHandler(0, &recordingSender{}, 0, 0)
	assert.Error(t, h.processMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte("{")}))
}

func TestRenderNotification(t *testing.T) {
	n := NewNotificationBuilder().
		WithType(NotificationTypeOTPCode).
		WithRecipient(uuid.Nil, "lan@example.com", "Lan").
		WithTemplateData(map[string]interface{}{"code": "654321", "purpose_label": "your new account", "expires_minutes": 5}).
		Build()

	body, err := RenderNotification(n)
	require.NoError(t, err)
	assert.Contains(t, body, "654321")
	assert.Contains(t, body, "Hi Lan")
	assert.Contains(t, body, "5 minutes")

	n.Type = NotificationType("UNKNOWN")
	_, err = RenderNotification(n)
	assert.Error(t, err)
}

type captureDialer struct {
	messages []*gomail.Message
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.messages = append(d.messages, m...)
	return nil
}

func TestGomailEmailServiceBuildsMessage(t *testing.T) {
	d := &captureDialer{}
	svc := &GomailEmailService{
		config: &SMTPConfig{Host: "smtp.test", FromEmail: "noreply@cinebook.vn", FromName: "CineBook"},
		dialer: d,
	}

	n := NewNotificationBuilder().
		WithType(NotificationTypeBookingCancelled).
		WithRecipient(uuid.New(), "lan@example.com", "Lan").
		WithTemplateData(map[string]interface{}{"booking_code": "CB-1", "refund_percentage": 50, "refund_amount": "100.000 ₫"}).
		Build()

	require.NoError(t, svc.SendNotification(context.Background(), n))
	require.Len(t, d.messages, 1)
	assert.Equal(t, []string{"lan@example.com"}, d.messages[0].GetHeader("To"))
	assert.Equal(t, []string{DefaultSubject(NotificationTypeBookingCancelled)}, d.messages[0].GetHeader("Subject"))
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "0 ₫", FormatVND(0))
	assert.Equal(t, "10.000 ₫", FormatVND(10000))
	assert.Equal(t, "385.000 ₫", FormatVND(385000))
	assert.Equal(t, "1.234.567 ₫", FormatVND(1234567))
	assert.Equal(t, "-5.000 ₫", FormatVND(-5000))
}
