package wallet

import (
	"context"
	"fmt"

	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	GetSummary(ctx context.Context, userID uuid.UUID, page, limit int) (*Summary, error)
	TopUp(ctx context.Context, userID uuid.UUID, req TopUpRequest) (*Transaction, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{repo: repo, log: logger.GetDefault()}
}

func (s *service) GetSummary(ctx context.Context, userID uuid.UUID, page, limit int) (*Summary, error) {
	balance, err := s.repo.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, total, err := s.repo.ListTransactions(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	if list == nil {
		list = []Transaction{}
	}
	return &Summary{Balance: balance, Transactions: list, Page: page, Limit: limit, Total: total}, nil
}

func (s *service) TopUp(ctx context.Context, userID uuid.UUID, req TopUpRequest) (*Transaction, error) {
	desc := req.Description
	if desc == "" {
		desc = "Wallet top-up"
	}
	txn, err := s.repo.Credit(ctx, nil, Entry{
		UserID:      userID,
		Type:        TypeTopUp,
		Amount:      req.Amount,
		Description: desc,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Wallet topped up", "user_id", userID, "amount", req.Amount, "balance", txn.BalanceAfter)
	return txn, nil
}
