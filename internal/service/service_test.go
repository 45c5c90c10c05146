package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settle/internal/auth"
	"github.com/mmynk/settle/internal/cache"
	"github.com/mmynk/settle/internal/metrics"
	"github.com/mmynk/settle/internal/middleware"
	"github.com/mmynk/settle/internal/storage/sqlite"
)

type testEnv struct {
	server *httptest.Server
	store  *sqlite.SQLiteStore
	redis  *miniredis.Miniredis
	plans  *cache.RedisPlanCache
	jwt    *auth.JWTManager
	groups *GroupServiceClient
}

// setupTestServer serves both services over httptest with a temp-file
// SQLite store and a miniredis-backed plan cache.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	plans := cache.NewRedisPlanCache(client, time.Hour)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	interceptors := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(NewGroupServiceHandler(NewGroupService(store, plans), interceptors))
	mux.Handle(NewSettlementServiceHandler(NewSettlementService(store, plans, metrics.New()), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		server: server,
		store:  store,
		redis:  mr,
		plans:  plans,
		jwt:    jwtManager,
		groups: NewGroupServiceClient(server.Client(), server.URL),
	}
}

// settlementsAs returns a SettlementService client authenticated as memberID.
// An empty memberID gives an anonymous client.
func (e *testEnv) settlementsAs(t *testing.T, memberID string) *SettlementServiceClient {
	t.Helper()
	if memberID == "" {
		return NewSettlementServiceClient(e.server.Client(), e.server.URL)
	}
	token, err := e.jwt.Generate(memberID, memberID)
	require.NoError(t, err)
	return NewSettlementServiceClient(e.server.Client(), e.server.URL,
		connect.WithInterceptors(bearer(token)),
	)
}

func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}

// createFlat creates a group of alice, bob and carol.
func createFlat(t *testing.T, e *testEnv) string {
	t.Helper()
	resp, err := e.groups.CreateGroup(context.Background(), connect.NewRequest(&CreateGroupRequest{
		Name: "Flat",
		Members: []MemberInput{
			{ID: "alice", Name: "Alice"},
			{ID: "bob", Name: "Bob"},
			{ID: "carol", Name: "Carol", PaymentAddress: "carol@upi"},
		},
	}))
	require.NoError(t, err)
	return resp.Msg.Group.ID
}

func addExpense(t *testing.T, e *testEnv, groupID, payer, amount string) AddExpenseResponse {
	t.Helper()
	resp, err := e.groups.AddExpense(context.Background(), connect.NewRequest(&AddExpenseRequest{
		GroupID: groupID,
		Title:   "Groceries",
		Amount:  amount,
		PayerID: payer,
	}))
	require.NoError(t, err)
	return *resp.Msg
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
