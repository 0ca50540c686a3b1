package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/codecoach/internal/config"
	"github.com/abhisek/codecoach/internal/llm"
	"github.com/abhisek/codecoach/internal/server"
	"github.com/abhisek/codecoach/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutor HTTP API",
	Long: "Serve the tutor, starter-suggestion, follow-up and PDF parsing endpoints over HTTP. " +
		"Configuration comes from CODECOACH_* environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		dbPath := cfg.DBPath
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			dbPath = p
		}
		if dbPath == "" {
			if dbPath, err = store.DefaultDBPath(); err != nil {
				return fmt.Errorf("resolve database path: %w", err)
			}
		} else if err := store.EnsureDir(dbPath); err != nil {
			return err
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			if !errors.Is(err, llm.ErrNotConfigured) {
				return fmt.Errorf("configure LLM provider: %w", err)
			}
			log.Warn().Err(err).Msg("LLM provider not configured, tutor endpoints will report misconfiguration")
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           server.New(cfg, provider, st.ConversationRepo()),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
			IdleTimeout:       120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Str("db", dbPath).Msg("tutor server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
		case <-ctx.Done():
		}
		stop()

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides CODECOACH_ADDR)")
}
