package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memRepo struct {
	balances map[uuid.UUID]int64
	txns     []Transaction
}

func (m *memRepo) apply(entry Entry, delta int64) (*Transaction, error) {
	if entry.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	bal, ok := m.balances[entry.UserID]
	if !ok {
		return nil, ErrWalletNotFound
	}
	if bal+delta < 0 {
		return nil, ErrInsufficientBalance
	}
	m.balances[entry.UserID] = bal + delta
	t := Transaction{ID: uuid.New(), UserID: entry.UserID, Type: entry.Type, Amount: delta, BalanceAfter: bal + delta, Description: entry.Description}
	m.txns = append(m.txns, t)
	return &t, nil
}

func (m *memRepo) Credit(_ context.Context, _ *gorm.DB, e Entry) (*Transaction, error) {
	return m.apply(e, e.Amount)
}

func (m *memRepo) Debit(_ context.Context, _ *gorm.DB, e Entry) (*Transaction, error) {
	return m.apply(e, -e.Amount)
}

func (m *memRepo) Balance(_ context.Context, id uuid.UUID) (int64, error) {
	b, ok := m.balances[id]
	if !ok {
		return 0, ErrWalletNotFound
	}
	return b, nil
}

func (m *memRepo) ListTransactions(_ context.Context, id uuid.UUID, _, _ int) ([]Transaction, int64, error) {
	var out []Transaction
	for _, t := range m.txns {
		if t.UserID == id {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func TestTopUpAndSummary(t *testing.T) {
	user := uuid.New()
	repo := &memRepo{balances: map[uuid.UUID]int64{user: 0}}
	svc := NewService(repo)
	ctx := context.Background()

	summary, err := svc.GetSummary(ctx, user, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, summary.Balance)
	assert.NotNil(t, summary.Transactions)

	txn, err := svc.TopUp(ctx, user, TopUpRequest{Amount: 200000})
	require.NoError(t, err)
	assert.Equal(t, "Wallet top-up", txn.Description)
	assert.Equal(t, int64(200000), txn.BalanceAfter)

	_, err = repo.Debit(ctx, nil, Entry{UserID: user, Type: TypePayment, Amount: 300000})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	summary, err = svc.GetSummary(ctx, user, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), summary.Balance)
	assert.Len(t, summary.Transactions, 1)
}

func TestGetWalletEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := uuid.New()
	ctrl := NewController(NewService(&memRepo{balances: map[uuid.UUID]int64{user: 50000}}))

	r := gin.New()
	r.GET("/anon", ctrl.GetWallet)
	r.GET("/wallet", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, user.String())
		c.Next()
	}, ctrl.GetWallet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anon", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool
		Data    Summary
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(50000), body.Data.Balance)
}
