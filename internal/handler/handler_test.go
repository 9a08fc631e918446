package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Travisswop/swop-redeem-token/internal/model"
	"github.com/Travisswop/swop-redeem-token/internal/service"
	solanakeys "github.com/Travisswop/swop-redeem-token/internal/solana"
	apperrors "github.com/Travisswop/swop-redeem-token/pkg/errors"
)

// memStore backs the handler tests with an in-memory pool store and ledger
// that honor the same contracts as the MongoDB repositories.
type memStore struct {
	mu          sync.Mutex
	pools       map[string]*model.Pool
	redemptions []*model.Redemption
}

func newMemStore() *memStore {
	return &memStore{pools: make(map[string]*model.Pool)}
}

func (m *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	poolsSnap := make(map[string]*model.Pool, len(m.pools))
	for id, p := range m.pools {
		cp := *p
		poolsSnap[id] = &cp
	}
	redemptionsSnap := append([]*model.Redemption(nil), m.redemptions...)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.pools = poolsSnap
		m.redemptions = redemptionsSnap
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Create(ctx context.Context, pool *model.Pool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pool
	m.pools[pool.PoolID] = &cp
	return nil
}

func (m *memStore) GetByID(ctx context.Context, poolID string) (*model.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.pools[poolID]
	if !ok {
		return nil, apperrors.ErrPoolNotFound
	}
	cp := *pool
	return &cp, nil
}

func (m *memStore) DecrementRemaining(ctx context.Context, poolID string, amount int64) (*model.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.pools[poolID]
	if !ok {
		return nil, apperrors.ErrPoolNotFound
	}
	if pool.RemainingAmount < amount {
		return nil, apperrors.ErrInsufficientFunds
	}
	pool.RemainingAmount -= amount
	cp := *pool
	return &cp, nil
}

func (m *memStore) ListByOwner(ctx context.Context, ownerID string) ([]*model.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pools []*model.Pool
	for _, p := range m.pools {
		if p.OwnerID == ownerID {
			cp := *p
			pools = append(pools, &cp)
		}
	}
	return pools, nil
}

func (m *memStore) Append(ctx context.Context, redemption *model.Redemption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.redemptions {
		if r.PoolID == redemption.PoolID && r.ClaimantAddress == redemption.ClaimantAddress {
			return apperrors.ErrAlreadyRedeemed
		}
	}
	cp := *redemption
	m.redemptions = append(m.redemptions, &cp)
	return nil
}

func (m *memStore) SumForWallet(ctx context.Context, poolID, claimantAddress string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, r := range m.redemptions {
		if r.PoolID == poolID && r.ClaimantAddress == claimantAddress {
			total += r.Amount
		}
	}
	return total, nil
}

func (m *memStore) DistinctClaimantCount(ctx context.Context, poolID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	for _, r := range m.redemptions {
		if r.PoolID == poolID {
			seen[r.ClaimantAddress] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (m *memStore) HasRedeemed(ctx context.Context, poolID, claimantAddress string) (bool, error) {
	total, err := m.SumForWallet(ctx, poolID, claimantAddress)
	return total > 0, err
}

func (m *memStore) ListForPool(ctx context.Context, poolID string) ([]*model.Redemption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []*model.Redemption
	for _, r := range m.redemptions {
		if r.PoolID == poolID {
			cp := *r
			entries = append(entries, &cp)
		}
	}
	return entries, nil
}

// passthroughResolver skips the upstream API in tests.
type passthroughResolver struct{}

func (passthroughResolver) Resolve(ctx context.Context, recipient string) (string, error) {
	return recipient, nil
}

func newTestRouter(store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	poolSvc := service.NewPoolService(store, store, solanakeys.NewKeygen(), "http://localhost:8080", logger)
	redeemSvc := service.NewRedeemService(store, store, store, nil, logger)

	router := gin.New()
	New(poolSvc, redeemSvc, passthroughResolver{}, logger).Register(router)
	return router
}

func seedPool(store *memStore, total, perWallet, maxWallets int64) *model.Pool {
	pool := &model.Pool{
		PoolID:          uuid.NewString(),
		OwnerID:         "owner_1",
		TotalAmount:     total,
		RemainingAmount: total,
		TokenName:       "Swop Token",
		TokenSymbol:     "SWOP",
		TokenLogo:       "https://example.com/logo.png",
		TokenMint:       solana.NewWallet().PublicKey().String(),
		TokenDecimals:   9,
		TokensPerWallet: perWallet,
		MaxWallets:      maxWallets,
		EscrowReference: "escrow-secret",
		CreatedAt:       time.Now().UTC(),
	}
	store.Create(context.Background(), pool)
	return pool
}

func postRedeem(router *gin.Engine, poolID, recipient string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(model.RedeemRequest{Recipient: recipient})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/pools/%s/redeem", poolID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRedeemEndpoint(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)
	pool := seedPool(store, 1_000_000, 100_000, 1)
	address := solana.NewWallet().PublicKey().String()

	w := postRedeem(router, pool.PoolID, address)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result model.RedemptionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.RedemptionID)
	assert.Equal(t, int64(100_000), result.AmountGranted)
	assert.Equal(t, int64(900_000), result.RemainingAfter)

	// Same wallet again → 409
	w = postRedeem(router, pool.PoolID, address)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wallet cap reached → 410
	w = postRedeem(router, pool.PoolID, solana.NewWallet().PublicKey().String())
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestRedeemEndpointErrors(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	// Unknown pool → 404
	w := postRedeem(router, uuid.NewString(), solana.NewWallet().PublicKey().String())
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Malformed address → 400
	pool := seedPool(store, 1_000_000, 100_000, 5)
	w = postRedeem(router, pool.PoolID, "not-an-address")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Balance short of one allotment → 402
	drained := seedPool(store, 50_000, 100_000, 5)
	w = postRedeem(router, drained.PoolID, solana.NewWallet().PublicKey().String())
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestCreateAndGetPoolEndpoints(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	body := []byte(`{
		"owner_id": "owner_1",
		"token_name": "Swop Token",
		"token_symbol": "SWOP",
		"token_logo": "https://example.com/logo.png",
		"token_mint": "` + solana.NewWallet().PublicKey().String() + `",
		"token_decimals": 6,
		"total_amount": "1000",
		"tokens_per_wallet": "10",
		"max_wallets": 100
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/pools", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.CreatePoolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, "/api/pools/"+created.PoolID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The escrow secret never leaves the service
	assert.NotContains(t, w.Body.String(), "escrow_reference")

	var pool model.Pool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pool))
	assert.Equal(t, int64(1_000_000_000), pool.TotalAmount)
	assert.Equal(t, int64(10_000_000), pool.TokensPerWallet)
}

func TestListPoolsEndpoint(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)
	seedPool(store, 1_000_000, 100_000, 5)

	req := httptest.NewRequest(http.MethodGet, "/api/pools?owner=owner_1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Pools []*model.PoolSummary `json:"pools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Pools, 1)

	// Missing owner query → 400
	req = httptest.NewRequest(http.MethodGet, "/api/pools", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
