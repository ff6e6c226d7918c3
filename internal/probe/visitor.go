package probe

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/schema"
)

// Visitor is the per-session probe handed to a terminal session.
type Visitor struct {
	device   schema.DeviceInfo
	resolver Resolver
	timeout  time.Duration
}

// NewVisitor binds a classification and a resolver. timeout bounds the
// lookup; <= 0 uses schema.DefaultProbeTimeout.
func NewVisitor(device schema.DeviceInfo, resolver Resolver, timeout time.Duration) *Visitor {
	if timeout <= 0 {
		timeout = schema.DefaultProbeTimeout
	}
	return &Visitor{device: device, resolver: resolver, timeout: timeout}
}

// DeviceInfo returns the classification.
func (v *Visitor) DeviceInfo() schema.DeviceInfo {
	return v.device
}

// UserIP resolves the visitor address. A response without an ip yields
// "unknown"; any other failure yields a simulated 192.168.1.x address.
func (v *Visitor) UserIP(ctx context.Context) string {
	if v.resolver == nil {
		return FallbackIP()
	}
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	ip, err := v.resolver.ResolveIP(ctx)
	if err == nil {
		return ip
	}
	log := logx.WithAction(logx.Ctx(ctx), "probe", "fetch")
	if errors.Is(err, ErrMissingIP) {
		log.Debug("ip lookup returned no address", "err", err)
		return schema.UnknownValue
	}
	fallback := FallbackIP()
	log.Debug("ip lookup failed", "err", err, "fallback", fallback)
	return fallback
}

// FallbackIP returns a simulated LAN address 192.168.1.1 to 192.168.1.254.
func FallbackIP() string {
	return "192.168.1." + strconv.Itoa(rand.IntN(254)+1)
}
