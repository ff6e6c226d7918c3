package terminal

import (
	"context"
	"fmt"

	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/schema"
)

// BootLines returns the banner played at startup, in order.
func BootLines(identity Identity, device schema.DeviceInfo, ip string) []string {
	id := identity.withDefaults()
	return []string{
		fmt.Sprintf("Initializing %s Portfolio Terminal...", id.Owner),
		"",
		"Browser: " + device.Browser,
		"Device: " + device.Device,
		"IP: " + ip,
		"",
		`Boot sequence complete. Type "help" for available commands.`,
		"",
	}
}

// Boot runs the boot sequence: idle -> booting -> ready. It resolves the
// probe, plays the banner with the configured per-line delay, then enables
// input. Only the first call runs the sequence; later calls return nil
// immediately. Boot returns once the session is ready, or early with the
// context error when ctx is cancelled or the session is closed.
func (s *Session) Boot(ctx context.Context) error {
	first := false
	s.bootOnce.Do(func() { first = true })
	if !first {
		return nil
	}
	ctx, stop := s.bind(ctx)
	defer stop()
	log := logx.WithAction(s.log, component, "boot_start")

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return schema.ErrSessionClosed
	}
	s.phase = schema.BootBooting
	state := s.stateEventLocked()
	s.mu.Unlock()
	s.sink.OnState(state)
	log.Debug("terminal boot started")

	device := schema.UnknownDevice()
	ip := schema.DefaultUser
	if s.probe != nil {
		device = s.probe.DeviceInfo()
		ip = s.probe.UserIP(ctx)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return schema.ErrSessionClosed
	}
	s.device = device
	s.userIP = ip
	s.mu.Unlock()

	for i, text := range BootLines(s.identity, device, ip) {
		if i > 0 {
			if err := wait(ctx, s.cfg.BootLineDelay); err != nil {
				logx.WithAction(s.log, component, "boot_error").Debug("terminal boot interrupted", "err", err)
				return s.interrupted(err)
			}
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return schema.ErrSessionClosed
		}
		line := s.buffer.Append(schema.LineBoot, text)
		s.mu.Unlock()
		s.sink.OnLine(schema.LineEvent{SessionID: s.id, Line: line})
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return schema.ErrSessionClosed
	}
	s.phase = schema.BootReady
	s.showInput = true
	state = s.stateEventLocked()
	s.mu.Unlock()
	s.sink.OnState(state)
	logx.WithAction(s.log, component, "boot_complete").Info("terminal ready", "browser", device.Browser, "device", device.Device, "ip", ip)
	return nil
}

// Phase returns the current boot phase.
func (s *Session) Phase() schema.BootPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}
