package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
)

type fakeStore struct {
	data   map[string]string
	getErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	str, _ := value.(string)
	f.data[key] = str
	return nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func quoteRequest(body, key string) *http.Request {
	req := requestWithPattern(http.MethodPost, "/api/add-quote", "/api/add-quote", strings.NewReader(body))
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	return req
}

func countingHandler(calls *int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": status < 400, "call": n})
	})
}

func TestCoveredRoutes(t *testing.T) {
	tests := []struct {
		method  string
		pattern string
		want    bool
	}{
		{http.MethodPost, "/api/add-quote", true},
		{http.MethodGet, "/api/add-quote", false},
		{http.MethodPost, "/api/login", false},
		{http.MethodPost, "", false},
	}
	for _, tt := range tests {
		if got := covered(tt.method, tt.pattern); got != tt.want {
			t.Fatalf("covered(%s %q) = %v, want %v", tt.method, tt.pattern, got, tt.want)
		}
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	var calls int32
	handler := Idempotency(store, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusOK))

	body := `{"rfq":"R1","price":"10"}`
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, quoteRequest(body, "abc"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, quoteRequest(body, "abc"))

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body mismatch: %q vs %q", second.Body.String(), first.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected stored content type, got %q", second.Header().Get("Content-Type"))
	}
}

func TestIdempotencyRejectsDifferentBodyForSameKey(t *testing.T) {
	store := newFakeStore()
	var calls int32
	handler := Idempotency(store, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusOK))

	handler.ServeHTTP(httptest.NewRecorder(), quoteRequest(`{"price":"10"}`, "abc"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, quoteRequest(`{"price":"11"}`, "abc"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["code"] != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected idempotency code, got %v", payload["code"])
	}
	if calls != 1 {
		t.Fatalf("handler should not run for a mismatched body")
	}
}

func TestIdempotencyInProgressReturnsConflict(t *testing.T) {
	store := newFakeStore()
	store.data[store.IdempotencyKey("POST|/api/add-quote", "abc")] = pendingMarker
	var calls int32
	handler := Idempotency(store, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusOK))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, quoteRequest(`{}`, "abc"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler should not run while a request is pending")
	}
}

func TestIdempotencyReleasesKeyOnServerError(t *testing.T) {
	store := newFakeStore()
	var calls int32
	handler := Idempotency(store, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusInternalServerError))

	handler.ServeHTTP(httptest.NewRecorder(), quoteRequest(`{}`, "abc"))
	handler.ServeHTTP(httptest.NewRecorder(), quoteRequest(`{}`, "abc"))

	if calls != 2 {
		t.Fatalf("expected failed request to be retried, ran %d times", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("expected key to be released, got %v", store.data)
	}
}

func TestIdempotencyPassesThroughWithoutKeyOrStore(t *testing.T) {
	var calls int32

	withStore := Idempotency(newFakeStore(), time.Hour, logger.Nop())(countingHandler(&calls, http.StatusOK))
	withStore.ServeHTTP(httptest.NewRecorder(), quoteRequest(`{}`, ""))
	withStore.ServeHTTP(httptest.NewRecorder(), quoteRequest(`{}`, ""))

	withoutStore := Idempotency(nil, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusOK))
	withoutStore.ServeHTTP(httptest.NewRecorder(), quoteRequest(`{}`, "abc"))
	withoutStore.ServeHTTP(httptest.NewRecorder(), quoteRequest(`{}`, "abc"))

	if calls != 4 {
		t.Fatalf("expected every request to reach the handler, got %d", calls)
	}
}

func TestIdempotencyStoreFailureFallsThrough(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis down")
	var calls int32
	handler := Idempotency(store, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusOK))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, quoteRequest(`{}`, "abc"))

	if rec.Code != http.StatusOK || calls != 1 {
		t.Fatalf("expected request to be served without the store, status=%d calls=%d", rec.Code, calls)
	}
}

func TestIdempotencyPreservesRequestBody(t *testing.T) {
	store := newFakeStore()
	var seen string
	handler := Idempotency(store, time.Hour, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seen = string(raw)
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), quoteRequest(`{"rfq":"R1"}`, "abc"))
	if seen != `{"rfq":"R1"}` {
		t.Fatalf("handler saw body %q", seen)
	}
}
