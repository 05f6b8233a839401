package store

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/kravuar/arangate/model"
)

// fakeEndpoint serves the database lookup the dial sequence performs, with an
// optional per-request delay.
func fakeEndpoint(t *testing.T, delay time.Duration) model.ConnectionConfig {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":false,"code":200,"result":{"name":"app","id":"1","path":"/","isSystem":false}}`))
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}

	return model.ConnectionConfig{
		Host:     host,
		Port:     port,
		Username: "root",
		Password: "secret",
		Database: "app",
	}
}

func TestDial(t *testing.T) {
	cfg := fakeEndpoint(t, 0)

	client, err := Dial(context.Background(), cfg, DialOptions{
		ConnectTimeout: 5 * time.Second,
		RequestTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if client == nil {
		t.Fatal("nil client")
	}
}

func TestDialRequestTimeout(t *testing.T) {
	cfg := fakeEndpoint(t, 500*time.Millisecond)

	_, err := Dial(context.Background(), cfg, DialOptions{RequestTimeout: 50 * time.Millisecond})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	ge, ok := err.(*model.GatewayError)
	if !ok {
		t.Fatalf("error type %T", err)
	}
	if ge.Kind != model.ErrAdapter && ge.Kind != model.ErrNotFound {
		t.Errorf("kind = %q", ge.Kind)
	}
}

func TestDialTransportCarriesTimeouts(t *testing.T) {
	tr := dialTransport(DialOptions{
		ConnectTimeout: 2 * time.Second,
		RequestTimeout: 7 * time.Second,
	})

	if tr.ResponseHeaderTimeout != 7*time.Second {
		t.Errorf("ResponseHeaderTimeout = %v, want 7s", tr.ResponseHeaderTimeout)
	}
	if tr.DialContext == nil {
		t.Error("no DialContext configured")
	}

	unbounded := dialTransport(DialOptions{})
	if unbounded.ResponseHeaderTimeout != 0 {
		t.Errorf("zero options produced ResponseHeaderTimeout %v", unbounded.ResponseHeaderTimeout)
	}
}
