package logx

import (
	"context"

	"github.com/nolindnaidoo/termfolio/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	sessionKey contextKey = iota
	remoteKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithSession annotates the logger with the terminal session id if present.
func WithSession(ctx context.Context, sessionID schema.SessionID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if sessionID != "" {
		if current, ok := ctx.Value(sessionKey).(schema.SessionID); ok && current == sessionID {
			return log
		}
		log = log.With("session", sessionID)
	}
	return log
}

// WithSessionRemote annotates the logger with session and remote address.
func WithSessionRemote(ctx context.Context, sessionID schema.SessionID, remote string) pslog.Logger {
	log := WithSession(ctx, sessionID)
	if remote != "" {
		if current, ok := ctx.Value(remoteKey).(string); ok && current == remote {
			return log
		}
		log = log.With("remote", remote)
	}
	return log
}

// WithAction annotates the logger with the component and action of a
// structured event record.
func WithAction(log pslog.Logger, component, action string) pslog.Logger {
	if component != "" {
		log = log.With("component", component)
	}
	if action != "" {
		log = log.With("action", action)
	}
	return log
}

// WithSection annotates the logger with a content section when set.
func WithSection(log pslog.Logger, section schema.Section) pslog.Logger {
	if section != "" {
		log = log.With("section", section)
	}
	return log
}

// ContextWithSession stores the session marker on the context for log de-duplication.
func ContextWithSession(ctx context.Context, sessionID schema.SessionID) context.Context {
	if ctx == nil || sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, sessionID)
}

// ContextWithRemote stores the remote marker on the context for log de-duplication.
func ContextWithRemote(ctx context.Context, remote string) context.Context {
	if ctx == nil || remote == "" {
		return ctx
	}
	return context.WithValue(ctx, remoteKey, remote)
}

// ContextWithSessionLogger attaches the logger and session marker to the context.
func ContextWithSessionLogger(ctx context.Context, log pslog.Logger, sessionID schema.SessionID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithSession(ctx, sessionID)
}

// CopyContextFields copies session/remote markers from src to dst.
func CopyContextFields(dst context.Context, src context.Context) context.Context {
	if src == nil {
		return dst
	}
	if id, ok := src.Value(sessionKey).(schema.SessionID); ok && id != "" {
		dst = ContextWithSession(dst, id)
	}
	if remote, ok := src.Value(remoteKey).(string); ok && remote != "" {
		dst = ContextWithRemote(dst, remote)
	}
	return dst
}
