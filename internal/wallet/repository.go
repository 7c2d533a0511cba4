package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrWalletNotFound      = errors.New("wallet owner not found")
)

// Repository applies wallet movements. Credit and Debit accept an outer
// transaction so callers can combine them with booking changes.
type Repository interface {
	Credit(ctx context.Context, tx *gorm.DB, entry Entry) (*Transaction, error)
	Debit(ctx context.Context, tx *gorm.DB, entry Entry) (*Transaction, error)
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]Transaction, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Credit(ctx context.Context, tx *gorm.DB, entry Entry) (*Transaction, error) {
	return r.apply(ctx, tx, entry, entry.Amount)
}

func (r *repository) Debit(ctx context.Context, tx *gorm.DB, entry Entry) (*Transaction, error) {
	return r.apply(ctx, tx, entry, -entry.Amount)
}

func (r *repository) apply(ctx context.Context, tx *gorm.DB, entry Entry, delta int64) (*Transaction, error) {
	if entry.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if tx == nil {
		var out *Transaction
		err := r.db.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
			var err error
			out, err = r.apply(ctx, inner, entry, delta)
			return err
		})
		return out, err
	}

	var rows []struct{ WalletBalance int64 }
	err := tx.WithContext(ctx).Raw(
		"UPDATE users SET wallet_balance = wallet_balance + ?, updated_at = NOW() WHERE id = ? AND wallet_balance + ? >= 0 RETURNING wallet_balance",
		delta, entry.UserID, delta,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet balance: %w", err)
	}
	if len(rows) == 0 {
		var exists int64
		if err := tx.WithContext(ctx).Table("users").Where("id = ?", entry.UserID).Count(&exists).Error; err != nil {
			return nil, err
		}
		if exists > 0 {
			return nil, ErrInsufficientBalance
		}
		return nil, ErrWalletNotFound
	}

	txn := &Transaction{
		UserID:       entry.UserID,
		BookingID:    entry.BookingID,
		Type:         entry.Type,
		Amount:       delta,
		BalanceAfter: rows[0].WalletBalance,
		Description:  entry.Description,
	}
	if err := tx.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, fmt.Errorf("failed to record wallet transaction: %w", err)
	}
	return txn, nil
}

func (r *repository) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance []int64
	err := r.db.WithContext(ctx).Table("users").Where("id = ?", userID).Pluck("wallet_balance", &balance).Error
	if err != nil {
		return 0, err
	}
	if len(balance) == 0 {
		return 0, ErrWalletNotFound
	}
	return balance[0], nil
}

func (r *repository) ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]Transaction, int64, error) {
	var list []Transaction
	var total int64

	db := r.db.WithContext(ctx).Model(&Transaction{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}
