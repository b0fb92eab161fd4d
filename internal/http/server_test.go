package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
	"saldo/internal/kv"
	"saldo/internal/kv/memory"
	"saldo/internal/ledger"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *ledger.Store) {
	t.Helper()
	return newTestServerWithKV(t, memory.New(), opts...)
}

func newTestServerWithKV(t *testing.T, store kv.Store, opts ...Option) (*Server, *ledger.Store) {
	t.Helper()
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	ls := ledger.New(store, ledger.WithClock(ledger.ClockFunc(func() time.Time { return now })))
	ls.Load(context.Background())

	opts = append([]Option{WithRateLimit(1000)}, opts...)
	s := NewServer(":0", ledger.NewTracker(ls), opts...)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, ls
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func seed(t *testing.T, ls *ledger.Store, r core.Record) {
	t.Helper()
	require.NoError(t, ls.Append(context.Background(), r))
}

func expenseRecord(id, desc, amount string, cat core.Category, date core.Date) core.Record {
	return core.Record{
		ID:          id,
		Kind:        core.KindExpense,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Category:    cat,
		Date:        date,
	}
}

func incomeRecord(id, desc, amount string, date core.Date) core.Record {
	return core.Record{
		ID:          id,
		Kind:        core.KindIncome,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
	}
}

type unreachableKV struct{ *memory.Store }

func (unreachableKV) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestReadyz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())

	down, _ := newTestServerWithKV(t, unreachableKV{memory.New()})
	rec = do(down, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResponsesCarryRequestIDAndSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestStaticAssetsAreCached(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), ".pie")
}

func TestMissingTemplatesFailRender(t *testing.T) {
	s, _ := newTestServer(t, WithTemplatesFS(fstest.MapFS{}))
	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownPathIs404(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimitAppliesToMutations(t *testing.T) {
	s, _ := newTestServer(t, WithRateLimit(2))

	for i := 0; i < 2; i++ {
		rec := do(s, postForm("/incomes", url.Values{"description": {"x"}}))
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}
	rec := do(s, postForm("/incomes", url.Values{"description": {"x"}}))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// reads are never limited
	rec = do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShutdownIsIdempotent(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, s.Shutdown(context.Background()))
}
