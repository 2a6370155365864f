// Package cli implements the person-registry CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/person-registry/internal/config"
	"github.com/rcliao/person-registry/internal/events"
	"github.com/rcliao/person-registry/internal/logger"
	"github.com/rcliao/person-registry/internal/registry"
	"github.com/rcliao/person-registry/internal/store"
)

var (
	dbPath     string
	driverFlag string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "person-registry",
	Short: "Register, list, edit and delete people",
	Long:  "A small personnel registry. Validated records, SQLite-backed by default, served over JSON HTTP or edited from the terminal.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (default: $REGISTRY_DB or ~/.person-registry/registry.db)")
	RootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Storage driver: sqlite, postgres or memory (default: $REGISTRY_DB_DRIVER or sqlite)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (*config.Config, error) {
	return config.LoadConfig(func(cfg *config.Config) {
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if driverFlag != "" {
			cfg.DBDriver = driverFlag
		}
	})
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	default:
		return store.NewSQLiteStore(cfg.DBPath)
	}
}

// app bundles what a command needs to talk to the registry.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  store.Store
	svc    *registry.Service
	closer []func()
}

func (a *app) Close() {
	for i := len(a.closer) - 1; i >= 0; i-- {
		a.closer[i]()
	}
}

// openApp loads config, opens the store and, when REDIS_ADDR is set, the event
// stream. Extra options are applied after the defaults.
func openApp(ctx context.Context, opts ...registry.Option) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: log, store: st}
	a.closer = append(a.closer, func() { st.Close() })

	svcOpts := []registry.Option{registry.WithLogger(log)}
	if cfg.RedisAddr != "" {
		pub, err := events.NewRedisStream(cfg.RedisAddr, cfg.EventStream)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closer = append(a.closer, pub.Close)
		svcOpts = append(svcOpts, registry.WithPublisher(pub))
	}
	a.svc = registry.New(st, append(svcOpts, opts...)...)
	return a, nil
}

func mustOpenApp(cmd *cobra.Command) *app {
	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	return a
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	return id, nil
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
