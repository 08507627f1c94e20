package infra

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPServerUsesConfiguredTimeouts(t *testing.T) {
	cfg := &Config{
		Port:             "9090",
		HTTPReadTimeout:  7 * time.Second,
		HTTPWriteTimeout: 11 * time.Second,
		HTTPIdleTimeout:  13 * time.Second,
	}

	srv := NewHTTPServer(cfg, http.NewServeMux())
	if srv.Addr() != ":9090" {
		t.Fatalf("Addr() = %q, want :9090", srv.Addr())
	}
	if srv.server.ReadTimeout != cfg.HTTPReadTimeout {
		t.Fatalf("ReadTimeout = %s, want %s", srv.server.ReadTimeout, cfg.HTTPReadTimeout)
	}
	if srv.server.WriteTimeout != cfg.HTTPWriteTimeout {
		t.Fatalf("WriteTimeout = %s, want %s", srv.server.WriteTimeout, cfg.HTTPWriteTimeout)
	}
	if srv.server.IdleTimeout != cfg.HTTPIdleTimeout {
		t.Fatalf("IdleTimeout = %s, want %s", srv.server.IdleTimeout, cfg.HTTPIdleTimeout)
	}
}
