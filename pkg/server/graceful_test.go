package server

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestShutdownIsIdempotent(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler())

	done := make(chan error, 1)
	go func() { done <- gs.Start() }()
	time.Sleep(50 * time.Millisecond)

	if gs.IsShuttingDown() {
		t.Error("server should not report shutting down yet")
	}

	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("first shutdown failed: %v", err)
	}
	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("second shutdown should be a no-op, got %v", err)
	}
	if !gs.IsShuttingDown() {
		t.Error("server should report shutting down")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Start did not return after shutdown")
	}
}

func TestShutdownChannelCloses(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler())

	go gs.Start()
	time.Sleep(50 * time.Millisecond)

	ch := gs.ShutdownChannel()
	select {
	case <-ch:
		t.Fatal("channel closed before shutdown")
	default:
	}

	gs.Shutdown(time.Second)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Error("channel did not close on shutdown")
	}
}

func TestReloadWithoutHookIsNoop(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler())
	if err := gs.Reload(); err != nil {
		t.Errorf("reload without hook should succeed, got %v", err)
	}
}

func TestReloadInvokesHook(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler())

	called := false
	gs.SetReloadFunc(func() error {
		called = true
		return nil
	})
	if err := gs.Reload(); err != nil {
		t.Errorf("reload failed: %v", err)
	}
	if !called {
		t.Error("reload hook was not invoked")
	}

	gs.SetReloadFunc(func() error { return errors.New("bad config") })
	if err := gs.Reload(); err == nil {
		t.Error("expected reload error to propagate")
	}
}
