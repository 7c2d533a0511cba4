package wallet

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeRefund  TransactionType = "refund"
	TypePayment TransactionType = "payment"
	TypeTopUp   TransactionType = "top_up"
)

// Transaction is one movement on a user's wallet. Amount is signed.
type Transaction struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID       uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	BookingID    *uuid.UUID      `json:"booking_id,omitempty" gorm:"type:uuid;index"`
	Type         TransactionType `json:"type" gorm:"type:varchar(20);not null;check:type IN ('refund','payment','top_up')"`
	Amount       int64           `json:"amount" gorm:"not null"`
	BalanceAfter int64           `json:"balance_after" gorm:"not null"`
	Description  string          `json:"description" gorm:"size:255"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (Transaction) TableName() string {
	return "wallet_transactions"
}

// Entry describes a movement before it is applied
type Entry struct {
	UserID      uuid.UUID
	BookingID   *uuid.UUID
	Type        TransactionType
	Amount      int64
	Description string
}

type Summary struct {
	Balance      int64         `json:"balance"`
	Transactions []Transaction `json:"transactions"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	Total        int64         `json:"total"`
}

type TopUpRequest struct {
	Amount      int64  `json:"amount" validate:"required,min=1000,max=100000000"`
	Description string `json:"description" validate:"max=255"`
}
