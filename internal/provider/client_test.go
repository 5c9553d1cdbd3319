package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(name string) *Client {
	return NewClient(name, nil, 2*time.Second, zap.NewNop(), nil)
}

func TestClientRequest_ErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   FetchErrorKind
		wantStatus int
	}{
		{
			name: "Non-2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantKind:   KindHTTPStatus,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "Invalid JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"data": [`))
			},
			wantKind: KindParse,
		},
		{
			name: "Empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantKind: KindParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := newTestClient("test").Request(context.Background(), server.URL)

			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FetchError, got %T (%v)", err, err)
			}
			if fe.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", fe.Kind, tt.wantKind)
			}
			if fe.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestClientRequest_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient("test").Request(context.Background(), url)
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected NETWORK error, got %v", err)
	}
}

func TestClientRequest_TimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient("slow", nil, 50*time.Millisecond, zap.NewNop(), nil)
	_, err := client.Request(context.Background(), server.URL)
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected NETWORK error on timeout, got %v", err)
	}
}

func TestClientRequest_SetsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.Header.Get("Accept") != "application/json" {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	body, err := newTestClient("test").Request(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
}

func TestClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"05:12 (CEST)", "05:12"},
		{"18:40", "18:40"},
		{" 04:01 (+03) ", "04:01"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ClockTime(tt.in); got != tt.want {
				t.Errorf("ClockTime(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
