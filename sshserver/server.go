package sshserver

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	gliderssh "github.com/gliderlabs/ssh"
	"pkt.systems/pslog"

	"github.com/nolindnaidoo/termfolio/internal/content"
	"github.com/nolindnaidoo/termfolio/internal/eventbus"
	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/internal/probe"
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/terminal"
)

// Server exposes the portfolio terminal over SSH. Any user name is accepted
// without authentication.
type Server struct {
	Addr        string
	HostKeyPath string
	Listener    net.Listener
	Terminals   *terminal.Service
	Profile     content.Profile
	EventBus    *eventbus.Bus
	// Resolver looks up the visitor IP when the remote address is private.
	Resolver     probe.Resolver
	ProbeTimeout time.Duration
	Theme        schema.ThemeName
	QR           bool
	logger       pslog.Logger
}

// ListenAndServe starts the SSH server and shuts down on context cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.logger == nil {
		s.logger = pslog.Ctx(ctx)
	}
	if s.Terminals == nil {
		return errors.New("terminal service is required for SSH")
	}

	signer, err := EnsureHostKey(s.HostKeyPath)
	if err != nil {
		return err
	}
	s.logger.Info("ssh host key ready", "path", s.HostKeyPath, "fingerprint", HostKeyFingerprint(signer))

	server := &gliderssh.Server{
		Addr:    s.Addr,
		Handler: s.handleSession,
	}
	server.AddHostKey(signer)

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		_ = server.Close()
		return nil
	case err := <-errCh:
		if errors.Is(err, gliderssh.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleSession(sess gliderssh.Session) {
	log := s.logger
	if log == nil {
		log = pslog.Ctx(sess.Context())
	}
	remote := sess.RemoteAddr().String()
	log = log.With("remote", remote, "user", sess.User())
	if sshSession := sess.Context().SessionID(); sshSession != "" {
		log = log.With("ssh_session", sshSession)
	}

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "pty required\n")
		return
	}

	clientVersion := sess.Context().ClientVersion()
	visitor := probe.NewVisitor(
		probe.ClassifySSH(clientVersion),
		probe.RemoteResolver{Remote: remote, Next: s.Resolver},
		s.ProbeTimeout,
	)
	baseCtx := pslog.ContextWithLogger(sess.Context(), log)
	term, err := s.Terminals.Open(baseCtx, terminal.OpenRequest{Probe: visitor})
	if err != nil {
		log.Error("ssh session open failed", "err", err)
		_, _ = io.WriteString(sess, "terminal unavailable\n")
		return
	}
	defer func() { _ = s.Terminals.Close(term.ID()) }()
	ctx := logx.ContextWithSessionLogger(sess.Context(), log.With("session", term.ID()), term.ID())

	var events <-chan eventbus.Event
	if s.EventBus != nil {
		var unsubscribe func()
		events, unsubscribe = s.EventBus.Subscribe(term.ID())
		defer unsubscribe()
	}

	log.Info("ssh session opened", "term", pty.Term, "client", clientVersion)
	go func() {
		if err := term.Boot(ctx); err != nil && !errors.Is(err, schema.ErrSessionClosed) && !errors.Is(err, context.Canceled) {
			log.Warn("ssh session boot failed", "err", err)
		}
	}()

	windows := make(chan Window, 1)
	go forwardWindows(ctx, winCh, windows)
	err = Attach(ctx, sess, AttachOptions{
		Session: term,
		Profile: s.Profile,
		Theme:   s.Theme,
		Term:    pty.Term,
		QR:      s.QR,
		Events:  events,
		Width:   pty.Window.Width,
		Height:  pty.Window.Height,
	}, windows)
	if err != nil {
		log.Warn("ssh session ended with error", "err", err)
	}
	log.Info("ssh session closed", "term", pty.Term)
}

func forwardWindows(ctx context.Context, in <-chan gliderssh.Window, out chan<- Window) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case win, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- Window{Width: win.Width, Height: win.Height}:
			case <-ctx.Done():
				return
			}
		}
	}
}
