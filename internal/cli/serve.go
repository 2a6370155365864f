package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/person-registry/internal/httpapi"
	"github.com/rcliao/person-registry/internal/metrics"
	"github.com/rcliao/person-registry/internal/registry"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Long:  "Serve the registry over JSON HTTP until SIGINT or SIGTERM, then drain in-flight requests.",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: $REGISTRY_ADDR or :3000)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	a, err := openApp(ctx, registry.WithMetrics(m))
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.Addr
	}

	if err := serve(ctx, a, m, addr); err != nil {
		exitErr("serve", err)
	}
}

func serve(ctx context.Context, a *app, m *metrics.Metrics, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(a.svc, a.logger, m),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting HTTP server",
			"addr", addr,
			"driver", a.cfg.DBDriver,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down HTTP server", "timeout", a.cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
