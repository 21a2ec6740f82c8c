// Package safehttp provides an outbound transport that refuses to dial
// private address space. Tenant store URLs come from configuration, but a
// mistyped or hostile entry must not let a tenant probe the gateway's own
// network.
package safehttp

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// SafeTransport rejects connections to private or loopback IP ranges to
// reduce SSRF risk.
var SafeTransport = &http.Transport{
	DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialer := &net.Dialer{Timeout: 5 * time.Second}
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
		ip := net.ParseIP(host)
		if ip == nil {
			conn.Close()
			return nil, fmt.Errorf("failed to parse remote IP for %q", addr)
		}

		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			conn.Close()
			return nil, fmt.Errorf("access to private IP %s is denied", ip)
		}

		return conn, nil
	},
}

// Client is an http.Client using SafeTransport with a sane overall timeout
// for store API calls.
var Client = &http.Client{
	Transport: SafeTransport,
	Timeout:   30 * time.Second,
}
