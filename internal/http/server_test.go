package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"nur/internal/core"
)

func TestCreateHTTPServer(t *testing.T) {
	config := &core.ServerConfig{
		Host:         "0.0.0.0",
		Port:         9090,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	mux := http.NewServeMux()
	server := createHTTPServer(config, mux)

	expectedAddr := "0.0.0.0:9090"
	if server.Addr != expectedAddr {
		t.Errorf("createHTTPServer() Addr = %q, expected %q", server.Addr, expectedAddr)
	}

	if server.Handler != mux {
		t.Errorf("createHTTPServer() Handler mismatch")
	}

	if server.ReadTimeout != config.ReadTimeout {
		t.Errorf("createHTTPServer() ReadTimeout = %v, expected %v", server.ReadTimeout, config.ReadTimeout)
	}

	if server.WriteTimeout != config.WriteTimeout {
		t.Errorf("createHTTPServer() WriteTimeout = %v, expected %v", server.WriteTimeout, config.WriteTimeout)
	}
}

func TestServerStartStopsOnCancel(t *testing.T) {
	config := &core.ServerConfig{Host: "127.0.0.1", Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second}
	server := NewServer(config, http.NewServeMux(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() = %v, expected nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}
