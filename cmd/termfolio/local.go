package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkt.systems/pslog"

	"github.com/nolindnaidoo/termfolio/internal/appconfig"
	"github.com/nolindnaidoo/termfolio/internal/content"
	"github.com/nolindnaidoo/termfolio/internal/eventbus"
	"github.com/nolindnaidoo/termfolio/internal/logx"
	"github.com/nolindnaidoo/termfolio/internal/probe"
	"github.com/nolindnaidoo/termfolio/schema"
	"github.com/nolindnaidoo/termfolio/sshserver"
	"github.com/nolindnaidoo/termfolio/terminal"
)

type localTTY struct {
	io.Reader
	io.Writer
}

func newLocalCmd() *cobra.Command {
	var cfgPath string
	var theme string
	var noQR bool
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Run the portfolio terminal in this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if theme != "" {
				if _, ok := schema.NormalizeThemeName(theme); !ok {
					return errors.New("unsupported theme " + theme)
				}
				cfg.SSH.Theme = theme
			}
			if noQR {
				cfg.SSH.QR = false
			}
			// The UI owns the terminal, so logs go to the log file or nowhere.
			ctx, closeLog, err := withLogFile(cmd.Context(), cfg.Logging, nil)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			return runLocal(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme (emerald, outrun, gruvbox, tokyo-midnight)")
	cmd.Flags().BoolVar(&noQR, "no-qr", false, "hide the contact QR code")
	return cmd
}

func runLocal(ctx context.Context, cfg appconfig.Config) error {
	inFd := int(os.Stdin.Fd())
	outFd := int(os.Stdout.Fd())
	if !term.IsTerminal(inFd) || !term.IsTerminal(outFd) {
		return errors.New("local mode needs an interactive terminal")
	}
	width, height, err := term.GetSize(outFd)
	if err != nil {
		return err
	}
	profile, err := content.Load(cfg.ProfilePath)
	if err != nil {
		return err
	}
	logger := pslog.Ctx(ctx)

	terminalCfg := cfg.TerminalConfig()
	bus := eventbus.New(logger)
	terms, err := terminal.NewService(terminalCfg, profile.Identity(), bus)
	if err != nil {
		return err
	}
	defer terms.CloseAll()
	visitor := probe.NewVisitor(probe.ServerSide(), newLookupResolver(cfg.Terminal), terminalCfg.ProbeTimeout)
	sess, err := terms.Open(ctx, terminal.OpenRequest{Probe: visitor})
	if err != nil {
		return err
	}
	ctx = logx.ContextWithSessionLogger(ctx, logger.With("session", sess.ID()), sess.ID())
	events, unsubscribe := bus.Subscribe(sess.ID())
	defer unsubscribe()

	state, err := term.MakeRaw(inFd)
	if err != nil {
		return err
	}
	defer func() { _ = term.Restore(inFd, state) }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	go func() {
		if err := sess.Boot(ctx); err != nil && !errors.Is(err, schema.ErrSessionClosed) && !errors.Is(err, context.Canceled) {
			logger.Warn("local session boot failed", "err", err)
		}
	}()
	logger.Info("local session started", "term", os.Getenv("TERM"), "width", width, "height", height)
	return sshserver.Attach(ctx, localTTY{Reader: os.Stdin, Writer: os.Stdout}, sshserver.AttachOptions{
		Session: sess,
		Profile: profile,
		Theme:   schema.ThemeName(cfg.SSH.Theme),
		Term:    os.Getenv("TERM"),
		QR:      cfg.SSH.QR,
		Events:  events,
		Width:   width,
		Height:  height,
	}, watchWindow(ctx, outFd))
}
