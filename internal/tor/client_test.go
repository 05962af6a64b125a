package tor

import (
	"context"
	"io"
	"net"
	"testing"
	"time"
)

func TestIsValidProxyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address string
		want    bool
	}{
		{"127.0.0.1:9050", true},
		{"localhost:9150", true},
		{"127.0.0.1:1", true},
		{"127.0.0.1:65535", true},
		{"127.0.0.1:65536", false},
		{"127.0.0.1:0", false},
		{"127.0.0.1", false},
		{":9050", false},
		{"127.0.0.1:", false},
		{"127.0.0.1:abc", false},
		{"host:90:50", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isValidProxyAddress(tt.address); got != tt.want {
			t.Errorf("isValidProxyAddress(%q) = %v, expected %v", tt.address, got, tt.want)
		}
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("valid address", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient("127.0.0.1:9050", 30*time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.ProxyAddress() != "127.0.0.1:9050" {
			t.Errorf("proxy address = %q", c.ProxyAddress())
		}
	})

	t.Run("invalid address", func(t *testing.T) {
		t.Parallel()

		if _, err := NewClient("not-an-address", 30*time.Second); err != ErrInvalidProxyAddress {
			t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
		}
	})
}

// fakeSOCKS5 runs a minimal SOCKS5 server on a local listener that
// negotiates no-auth and replies to one CONNECT request.
func fakeSOCKS5(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() }) //nolint:errcheck,gosec // Test cleanup

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close() //nolint:errcheck,gosec // Test cleanup

		// Auth negotiation: read greeting, select no-auth.
		greeting := make([]byte, 3)
		if _, err := io.ReadFull(conn, greeting); err != nil {
			return
		}
		if _, err := conn.Write([]byte{socks5Version, socks5AuthNone}); err != nil {
			return
		}

		// CONNECT request: read header, domain, port; reply host unreachable.
		header := make([]byte, 5)
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		rest := make([]byte, int(header[4])+2)
		if _, err := io.ReadFull(conn, rest); err != nil {
			return
		}
		_, _ = conn.Write([]byte{socks5Version, 0x04, 0x00, 0x01, 0, 0, 0, 0, 0, 0})
	}()

	return ln.Addr().String()
}

func TestCheckConnection(t *testing.T) {
	t.Parallel()

	t.Run("well-behaved SOCKS5 proxy", func(t *testing.T) {
		t.Parallel()

		addr := fakeSOCKS5(t)
		c, err := NewClient(addr, 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status := c.CheckConnection(context.Background()); status != ProxyStatusOK {
			t.Errorf("status = %v, expected OK", status)
		}
	})

	t.Run("nothing listening", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		addr := ln.Addr().String()
		ln.Close() //nolint:errcheck,gosec // Free the port before probing

		c, err := NewClient(addr, 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status := c.CheckConnection(context.Background()); status != ProxyStatusCannotConnect {
			t.Errorf("status = %v, expected cannot connect", status)
		}
	})

	t.Run("non-SOCKS service", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		t.Cleanup(func() { ln.Close() }) //nolint:errcheck,gosec // Test cleanup

		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close() //nolint:errcheck,gosec // Test cleanup
			buf := make([]byte, 3)
			_, _ = io.ReadFull(conn, buf)
			_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\n\r\n"))
		}()

		c, err := NewClient(ln.Addr().String(), 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status := c.CheckConnection(context.Background()); status != ProxyStatusWrongType {
			t.Errorf("status = %v, expected wrong type", status)
		}
	})
}

func TestProxyStatus(t *testing.T) {
	t.Parallel()

	if ProxyStatusOK.Err() != nil {
		t.Error("OK must map to a nil error")
	}
	if ProxyStatusWrongType.Err() != ErrProxyNotTor {
		t.Error("wrong type must map to ErrProxyNotTor")
	}
	if ProxyStatusCannotConnect.Err() != ErrProxyCannotConnect {
		t.Error("cannot connect must map to ErrProxyCannotConnect")
	}
	if ProxyStatusTimeout.Err() != ErrProxyTimeout {
		t.Error("timeout must map to ErrProxyTimeout")
	}
	if ProxyStatusOK.String() != "OK" {
		t.Errorf("unexpected string: %q", ProxyStatusOK.String())
	}
}

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c, err := NewClient("127.0.0.1:9050", 42*time.Second, WithInsecureTLS())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	httpClient := c.NewHTTPClient()
	if httpClient.Timeout != 42*time.Second {
		t.Errorf("timeout = %v, expected 42s", httpClient.Timeout)
	}
	if httpClient.Transport == nil {
		t.Fatal("transport not configured")
	}
}

func TestEmbeddedTorLifecycle(t *testing.T) {
	t.Parallel()

	e := NewEmbeddedTor(WithStartupTimeout(time.Minute))
	if e.IsRunning() {
		t.Error("new instance must not report running")
	}
	if err := e.Stop(); err != nil {
		t.Errorf("stop on unstarted instance must be a no-op, got %v", err)
	}
	if _, err := e.NewClient(time.Second); err != ErrDaemonNotRunning {
		t.Errorf("expected ErrDaemonNotRunning, got %v", err)
	}
}
