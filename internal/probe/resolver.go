package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/nolindnaidoo/termfolio/schema"
)

// DefaultEndpoint is the public IP lookup service.
const DefaultEndpoint = "https://api.ipify.org?format=json"

// ErrMissingIP indicates a lookup response without an ip field.
var ErrMissingIP = errors.New("ip lookup response has no ip")

// Resolver looks up an IP address.
type Resolver interface {
	ResolveIP(ctx context.Context) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context) (string, error)

// ResolveIP calls f.
func (f ResolverFunc) ResolveIP(ctx context.Context) (string, error) {
	return f(ctx)
}

// LookupResolver issues one GET against a JSON endpoint shaped {"ip": "..."}.
type LookupResolver struct {
	Endpoint string
	Client   *http.Client
}

// ResolveIP performs the lookup.
func (r *LookupResolver) ResolveIP(ctx context.Context) (string, error) {
	endpoint := strings.TrimSpace(r.Endpoint)
	if endpoint == "" {
		return "", schema.ErrNoLookupEndpoint
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("ip lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ip lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ip lookup: unexpected status %d", resp.StatusCode)
	}
	var payload struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err != nil {
		return "", fmt.Errorf("ip lookup decode: %w", err)
	}
	ip := strings.TrimSpace(payload.IP)
	if ip == "" {
		return "", ErrMissingIP
	}
	return ip, nil
}

// RemoteResolver reports the connection's own address when it is public and
// defers to Next otherwise (loopback, private, or unparsable addresses).
type RemoteResolver struct {
	Remote string
	Next   Resolver
}

// ResolveIP returns the public remote address or the result of Next.
func (r RemoteResolver) ResolveIP(ctx context.Context) (string, error) {
	if ip := PublicIP(r.Remote); ip != "" {
		return ip, nil
	}
	if r.Next == nil {
		return "", fmt.Errorf("no public address in %q", r.Remote)
	}
	return r.Next.ResolveIP(ctx)
}

// PublicIP extracts the host of addr and returns it when it is a globally
// routable address, or "" otherwise. addr may carry a port.
func PublicIP(addr string) string {
	host := strings.TrimSpace(addr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.Trim(host, "[]"))
	if ip == nil {
		return ""
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return ""
	}
	return ip.String()
}
