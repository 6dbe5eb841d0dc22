package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sohbetapp/sohbet-server/internal/auth"
	"github.com/sohbetapp/sohbet-server/internal/config"
	"github.com/sohbetapp/sohbet-server/internal/core"
	"github.com/sohbetapp/sohbet-server/internal/store"
	"github.com/sohbetapp/sohbet-server/internal/store/sqlite"
)

func nopLogger() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}

type testEnv struct {
	hub   *core.Hub
	auth  *auth.Service
	store store.Store
}

// startTestServer spins up the full HTTP surface backed by an in-memory
// SQLite store and a running hub.
func startTestServer(t *testing.T) (*httptest.Server, *testEnv) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	hub := core.NewHub(st, nil, core.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Default()
	cfg.Addr = ":0"
	server := NewServer(hub, authService, &cfg, nopLogger())

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, &testEnv{hub: hub, auth: authService, store: st}
}
