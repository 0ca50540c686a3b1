package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/codecoach/internal/app"
	"github.com/abhisek/codecoach/internal/client"
	"github.com/abhisek/codecoach/internal/config"
	"github.com/abhisek/codecoach/internal/llm"
	"github.com/abhisek/codecoach/internal/suggest"
	"github.com/abhisek/codecoach/internal/workspace"
)

// remoteTimeout bounds each call to a tutor server.
const remoteTimeout = 2 * time.Minute

// runApp opens the store, builds the tutoring services, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var svc workspace.Services
	if url, _ := cmd.Flags().GetString("server"); url != "" {
		c := client.New(url, remoteTimeout)
		svc = workspace.Services{Tutor: c, Starters: c, Followups: c, TaskParser: c}
		log.Info().Str("server", url).Msg("using remote tutor")
	} else {
		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			if !errors.Is(err, llm.ErrNotConfigured) {
				return fmt.Errorf("configure LLM provider: %w", err)
			}
			log.Warn().Err(err).Msg("LLM provider not configured, tutor features will be unavailable")
		}
		local := client.NewLocal(provider, st.ConversationRepo(), config.Development())
		svc = workspace.Services{Tutor: local, Starters: local, Followups: local, TaskParser: local}
	}

	table := suggest.NewTable(suggest.DefaultRules())
	if path, _ := cmd.Flags().GetString("rules"); path != "" {
		rs, err := suggest.LoadFile(path)
		if err != nil {
			return err
		}
		table.Replace(rs)

		watcher, err := suggest.NewWatcher(path, table)
		if err != nil {
			return fmt.Errorf("watch rules: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("watch rules: %w", err)
		}
	}

	sessionID, _ := cmd.Flags().GetString("session")
	w := workspace.New(svc, workspace.Options{SessionID: sessionID, Tips: table})
	defer w.Close()
	log.Info().Str("session", w.SessionID()).Msg("workspace started")

	return app.Run(ctx, w)
}
