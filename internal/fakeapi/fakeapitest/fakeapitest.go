// Package fakeapitest starts the stand-in storefront API on a loopback
// listener for tests.
package fakeapitest

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/fakeapi"
)

const Password = "let-me-in"

type Harness struct {
	API    *fakeapi.Server
	Server *httptest.Server

	mu  sync.Mutex
	now time.Time
}

// SetNow moves the server clock, e.g. past the lifetime of issued tokens.
func (h *Harness) SetNow(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = now
}

func (h *Harness) clock() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.now.IsZero() {
		return time.Now().UTC()
	}
	return h.now
}

// BaseURL is the "/api" root clients should be pointed at.
func (h *Harness) BaseURL() string {
	return h.Server.URL + "/api"
}

// Start runs a fresh server whose clock is fixed at now when now is
// non-zero and follows the wall clock otherwise.
func Start(t testing.TB, now time.Time) *Harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &Harness{now: now}
	api, err := fakeapi.New(fakeapi.Options{
		AdminPassword: Password,
		JWTSecret:     []byte("test-secret"),
		CORSOrigins:   []string{"*"},
		Now:           h.clock,
	})
	if err != nil {
		t.Fatalf("start fake api: %v", err)
	}
	h.API = api
	h.Server = httptest.NewServer(api.Handler())
	t.Cleanup(h.Server.Close)
	return h
}
