package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"telestrations/internal/config"
	"telestrations/internal/game"
	"telestrations/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// newOrderedServer keeps the seating in join order so prompts are predictable.
func newOrderedServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	srv := New(store.NewMemory(), nil, cfg, game.WithShuffle(func([]string) {}))
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}
