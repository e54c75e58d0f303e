package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yourname/sleeprelay/internal"
	api "github.com/yourname/sleeprelay/internal/api"
	"github.com/yourname/sleeprelay/internal/config"
	"github.com/yourname/sleeprelay/internal/lock"
	"github.com/yourname/sleeprelay/internal/notion"
	"github.com/yourname/sleeprelay/internal/service"
	"github.com/yourname/sleeprelay/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "sleeprelay",
	Short: "Relay sleep and wake triggers into a Notion database",
	Long: `sleeprelay records sleep and wake timestamps as pages in a Notion database.
Run without a subcommand to start the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context()) },
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP relay",
	RunE:  func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context()) },
}

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Log a sleep start once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context(), func(ctx context.Context, r *service.Relay) (string, error) {
			res, err := r.RecordSleepStart(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		})
	},
}

var wakeCmd = &cobra.Command{
	Use:   "wake",
	Short: "Close the open sleep entry once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context(), func(ctx context.Context, r *service.Relay) (string, error) {
			res, err := r.RecordWakeEvent(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		})
	},
}

var contextsCmd = &cobra.Command{
	Use:   "contexts",
	Short: "Show which credential contexts are configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, name := range []string{config.SleepTracking, config.LifeOS} {
			creds, err := cfg.Context(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s token=%-5t database=%s\n", name, creds.Token != "", creds.DatabaseID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, sleepCmd, wakeCmd, contextsCmd)
	rootCmd.SilenceUsage = true
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type deps struct {
	cfg     *config.Config
	logger  internal.Logger
	relay   *service.Relay
	closers []func() error
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.logger.Warnf("shutdown: %v", err)
		}
	}
	_ = d.logger.Sync()
}

func build(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, logger: logger}

	creds, err := cfg.Context(config.SleepTracking)
	if err != nil {
		return nil, err
	}
	client := notion.NewClient(ctx, notion.Options{
		BaseURL: cfg.NotionBaseURL,
		Version: cfg.NotionVersion,
		Token:   creds.Token,
		Timeout: cfg.NotionTimeout,
		Logger:  logger,
	})

	journal, err := storage.NewJournal(ctx, cfg.JournalBackend, cfg.JournalFile, cfg.PostgresDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init journal: %w", err)
	}
	d.closers = append(d.closers, journal.Close)

	var locker lock.Locker = lock.NewMemory()
	if cfg.RedisAddr != "" {
		rl := lock.NewRedis(lock.RedisOpts{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.WakeLockTTL,
		}, logger)
		if err := rl.Ping(ctx); err != nil {
			logger.Warnf("redis unreachable at %s, wakes will fail until it recovers: %v", cfg.RedisAddr, err)
		}
		d.closers = append(d.closers, rl.Close)
		locker = rl
	}

	d.relay = service.NewRelay(service.RelayDeps{
		Notion:     client,
		DatabaseID: creds.DatabaseID,
		Locker:     locker,
		Journal:    journal,
		Logger:     logger,
	})
	return d, nil
}

func runServe(ctx context.Context) error {
	d, err := build(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if d.cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(api.NewApp(d.logger, d.relay))
	srv := &http.Server{
		Addr:              d.cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		d.logger.Infof("Server running on %s (env=%s journal=%s)", d.cfg.HTTPAddr, d.cfg.Env, d.cfg.JournalBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	d.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runOnce(ctx context.Context, fn func(context.Context, *service.Relay) (string, error)) error {
	d, err := build(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	msg, err := fn(ctx, d.relay)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}
