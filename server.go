// Package termfolio composes the portfolio terminal surfaces: the browser UI
// over HTTP and the full-screen TUI over SSH share one terminal service.
package termfolio

import (
	"context"
	"errors"
	"sync"
	"time"

	"pkt.systems/pslog"

	"github.com/nolindnaidoo/termfolio/httpapi"
	"github.com/nolindnaidoo/termfolio/internal/content"
	"github.com/nolindnaidoo/termfolio/internal/eventbus"
	"github.com/nolindnaidoo/termfolio/internal/probe"
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/sshserver"
	"github.com/nolindnaidoo/termfolio/terminal"
)

// Server composes the HTTP and SSH services.
type Server interface {
	Start(ctx context.Context) error
	Wait() error
	Stop(ctx context.Context) error
}

// ServerConfig configures the compositor.
type ServerConfig struct {
	Terminal schema.TerminalConfig
	HTTP     httpapi.Config
	SSH      sshserver.Config
}

// ServerDeps captures dependencies required to build the server.
type ServerDeps struct {
	Profile content.Profile
	// Resolver looks up visitor IPs whose connection address is private.
	Resolver probe.Resolver
	// EventSink optionally observes every session event alongside the
	// built-in surfaces.
	EventSink terminal.EventSink
	Logger    pslog.Logger
}

// ServerOption toggles compositor components.
type ServerOption func(*serverOptions)

type serverOptions struct {
	enableHTTP bool
	enableSSH  bool
}

// WithHTTP enables the HTTP API/UI server.
func WithHTTP() ServerOption {
	return func(o *serverOptions) { o.enableHTTP = true }
}

// WithSSH enables the SSH server.
func WithSSH() ServerOption {
	return func(o *serverOptions) { o.enableSSH = true }
}

// New constructs a composable termfolio server.
func New(cfg ServerConfig, deps ServerDeps, opts ...ServerOption) (Server, error) {
	options := serverOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if !options.enableHTTP && !options.enableSSH {
		return nil, errors.New("no services enabled")
	}
	if deps.Profile.Name == "" {
		deps.Profile = content.DefaultProfile()
	}

	var hub *httpapi.Hub
	var bus *eventbus.Bus
	if options.enableSSH {
		bus = eventbus.New(deps.Logger)
	}
	if options.enableHTTP {
		hub = httpapi.NewHub(cfg.HTTP.HubHistory)
	}
	sinks := make([]terminal.EventSink, 0, 3)
	if deps.EventSink != nil {
		sinks = append(sinks, deps.EventSink)
	}
	if hub != nil {
		sinks = append(sinks, hub)
	}
	if bus != nil {
		sinks = append(sinks, bus)
	}
	var sink terminal.EventSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else {
		sink = eventFanout{sinks: sinks}
	}

	terminals, err := terminal.NewService(cfg.Terminal, deps.Profile.Identity(), sink)
	if err != nil {
		return nil, err
	}

	var httpSrv *httpapi.Server
	if options.enableHTTP {
		httpSrv = httpapi.NewServer(cfg.HTTP, httpapi.Deps{
			Terminals:    terminals,
			Profile:      deps.Profile,
			Hub:          hub,
			Resolver:     deps.Resolver,
			ProbeTimeout: cfg.Terminal.ProbeTimeout,
		})
	}
	var sshSrv *sshserver.Server
	if options.enableSSH {
		sshSrv = &sshserver.Server{
			Addr:         cfg.SSH.Addr,
			HostKeyPath:  cfg.SSH.HostKeyPath,
			Terminals:    terminals,
			Profile:      deps.Profile,
			EventBus:     bus,
			Resolver:     deps.Resolver,
			ProbeTimeout: cfg.Terminal.ProbeTimeout,
			Theme:        schema.ThemeName(cfg.SSH.Theme),
			QR:           cfg.SSH.QR,
		}
	}

	return &compositeServer{
		cfg:       cfg,
		options:   options,
		terminals: terminals,
		httpSrv:   httpSrv,
		sshSrv:    sshSrv,
	}, nil
}

type compositeServer struct {
	cfg       ServerConfig
	options   serverOptions
	terminals *terminal.Service
	httpSrv   *httpapi.Server
	sshSrv    *sshserver.Server
	logger    pslog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	errCh   chan error
	started bool
}

func (s *compositeServer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		pslog.Ctx(ctx).Warn("server start rejected", "reason", "already started")
		return errors.New("server already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.errCh = make(chan error, 2)
	s.started = true
	s.logger = pslog.Ctx(s.ctx)
	s.mu.Unlock()

	log := s.logger
	log.Info(
		"server start",
		"http", s.options.enableHTTP,
		"ssh", s.options.enableSSH,
		"http_addr", s.cfg.HTTP.Addr,
		"http_base_url", s.cfg.HTTP.BaseURL,
		"http_base_path", s.cfg.HTTP.BasePath,
		"ssh_addr", s.cfg.SSH.Addr,
	)
	if s.httpSrv != nil {
		s.httpSrv.SetBaseContext(s.ctx)
		go func() {
			if err := httpapi.ListenAndServe(s.ctx, s.cfg.HTTP.Addr, s.httpSrv.Handler()); err != nil {
				log.Error("http server failed", "err", err)
				s.errCh <- err
			}
		}()
	}
	if s.sshSrv != nil {
		go func() {
			if err := s.sshSrv.ListenAndServe(s.ctx); err != nil {
				log.Error("ssh server failed", "err", err)
				s.errCh <- err
			}
		}()
	}
	return nil
}

func (s *compositeServer) Wait() error {
	s.mu.Lock()
	ctx := s.ctx
	errCh := s.errCh
	started := s.started
	s.mu.Unlock()
	if !started {
		return errors.New("server not started")
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			pslog.Ctx(ctx).Error("server stopped", "err", err)
			_ = s.Stop(context.Background())
			return err
		}
		return nil
	}
}

func (s *compositeServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	started := s.started
	log := s.logger
	s.mu.Unlock()
	if !started {
		return nil
	}
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	log.Info("server stop requested", "sessions", s.terminals.Count())
	if cancel != nil {
		cancel()
	}
	s.terminals.CloseAll()
	if ctx == nil {
		log.Info("server stop completed")
		return nil
	}
	select {
	case <-ctx.Done():
		log.Warn("server stop timed out", "err", ctx.Err())
		return ctx.Err()
	case <-s.ctx.Done():
		log.Info("server stopped")
		return nil
	}
}

// DefaultStopTimeout bounds a graceful stop from the CLI.
const DefaultStopTimeout = 5 * time.Second
