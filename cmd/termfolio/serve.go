package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"

	"github.com/nolindnaidoo/termfolio"
	"github.com/nolindnaidoo/termfolio/httpapi"
	"github.com/nolindnaidoo/termfolio/internal/appconfig"
	"github.com/nolindnaidoo/termfolio/internal/content"
	"github.com/nolindnaidoo/termfolio/internal/probe"
	"github.com/nolindnaidoo/termfolio/sshserver"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var disableAuditTrails bool
	var noHTTP bool
	var noSSH bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and SSH portfolio servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if disableAuditTrails {
				cfg.Logging.DisableAuditTrails = true
			}
			ctx, closeLog, err := withLogFile(cmd.Context(), cfg.Logging, os.Stderr)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			logger := pslog.Ctx(ctx)

			profile, err := content.Load(cfg.ProfilePath)
			if err != nil {
				return err
			}
			logger.Info("profile loaded", "name", profile.Name, "path", cfg.ProfilePath)

			opts := serveOptions(noHTTP, noSSH)
			if len(opts) == 0 {
				return errors.New("both --no-http and --no-ssh given; nothing to serve")
			}
			serverCfg := termfolio.ServerConfig{
				Terminal: cfg.TerminalConfig(),
				HTTP:     toHTTPConfig(cfg.HTTP),
				SSH:      toSSHConfig(cfg.SSH),
			}
			server, err := termfolio.New(serverCfg, termfolio.ServerDeps{
				Profile:  profile,
				Resolver: newLookupResolver(cfg.Terminal),
				Logger:   logger,
			}, opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), termfolio.DefaultStopTimeout)
				defer cancel()
				if err := server.Stop(stopCtx); err != nil {
					logger.Warn("server stop failed", "err", err)
				}
			}()
			if !noHTTP {
				logger.Info("http server listening", "addr", serverCfg.HTTP.Addr)
			}
			if !noSSH {
				logger.Info("ssh server listening", "addr", serverCfg.SSH.Addr)
			}
			if err := server.Start(ctx); err != nil {
				return err
			}
			return server.Wait()
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&disableAuditTrails, "disable-audit-trails", false, "disable audit trail logging for commands")
	cmd.Flags().BoolVar(&noHTTP, "no-http", false, "do not start the HTTP server")
	cmd.Flags().BoolVar(&noSSH, "no-ssh", false, "do not start the SSH server")
	return cmd
}

func serveOptions(noHTTP, noSSH bool) []termfolio.ServerOption {
	var opts []termfolio.ServerOption
	if !noHTTP {
		opts = append(opts, termfolio.WithHTTP())
	}
	if !noSSH {
		opts = append(opts, termfolio.WithSSH())
	}
	return opts
}

func newLookupResolver(cfg appconfig.TerminalConfig) probe.Resolver {
	return &probe.LookupResolver{Endpoint: cfg.LookupEndpoint}
}

func toHTTPConfig(cfg appconfig.HTTPConfig) httpapi.Config {
	return httpapi.Config{
		Addr:            cfg.Addr,
		SessionCookie:   cfg.SessionCookie,
		SessionTTLHours: cfg.SessionTTLHours,
		BaseURL:         cfg.BaseURL,
		BasePath:        cfg.BasePath,
		HubHistory:      cfg.HubHistory,
	}
}

func toSSHConfig(cfg appconfig.SSHConfig) sshserver.Config {
	return sshserver.Config{
		Addr:        cfg.Addr,
		HostKeyPath: cfg.HostKeyPath,
		Theme:       cfg.Theme,
		QR:          cfg.QR,
	}
}
