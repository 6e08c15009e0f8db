package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/osgb-lab/riskcatalog/pkg/cli/config"
	httpctrl "github.com/osgb-lab/riskcatalog/pkg/controller/http"
	"github.com/osgb-lab/riskcatalog/pkg/usecase"
	"github.com/osgb-lab/riskcatalog/pkg/utils/logging"
	"github.com/osgb-lab/riskcatalog/pkg/utils/safe"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var moderatorToken string
	var sentryDSN string
	var repoCfg config.Repository
	var docStoreCfg config.DocumentStore
	var catalogCfg config.Catalog

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RISKCATALOG_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "moderator-token",
			Usage:       "Bearer token required for moderation endpoints (empty disables the check)",
			Sources:     cli.EnvVars("RISKCATALOG_MODERATOR_TOKEN"),
			Destination: &moderatorToken,
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (empty disables Sentry)",
			Sources:     cli.EnvVars("RISKCATALOG_SENTRY_DSN"),
			Destination: &sentryDSN,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, docStoreCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if sentryDSN != "" {
				if err := sentry.Init(sentry.ClientOptions{
					Dsn:     sentryDSN,
					Release: version,
				}); err != nil {
					return goerr.Wrap(err, "failed to initialize sentry")
				}
				defer sentry.Flush(2 * time.Second)
				logging.Default().Info("Sentry error reporting enabled")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			docStore, err := docStoreCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize document store")
			}
			defer safe.Close(ctx, docStore)

			ucOpts, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure catalog")
			}

			uc := usecase.New(repo, docStore, ucOpts...)

			var srvOpts []httpctrl.Options
			if moderatorToken != "" {
				srvOpts = append(srvOpts, httpctrl.WithModeratorToken(moderatorToken))
			} else {
				logging.Default().Warn("Moderator token not configured, moderation endpoints are open")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, srvOpts...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("HTTP server starting", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server failed")
			case sig := <-sigCh:
				logging.Default().Info("Shutting down", "signal", sig.String())
			case <-ctx.Done():
				logging.Default().Info("Shutting down", "reason", "context cancelled")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down HTTP server")
			}

			logging.Default().Info("HTTP server stopped")
			return nil
		},
	}
}
