package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codecoach/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List stored conversations, or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		repo := s.ConversationRepo()
		if len(args) == 1 {
			return printConversation(ctx, out, repo, args[0])
		}

		limit, _ := cmd.Flags().GetInt("limit")
		sessions, err := repo.Sessions(ctx, limit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No conversations yet.")
			return nil
		}

		rows := make([][]string, len(sessions))
		for i, c := range sessions {
			rows[i] = []string{c.SessionID, c.UpdatedAt.Local().Format(timeLayout), itoa(c.Messages)}
		}
		printTable(out, []string{"Session", "Updated", "Messages"}, rows, 2)
		return nil
	},
}

func printConversation(ctx context.Context, w io.Writer, repo store.ConversationRepo, sessionID string) error {
	msgs, err := repo.Recent(ctx, sessionID, 0)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	if len(msgs) == 0 {
		return fmt.Errorf("conversation %s not found", sessionID)
	}

	sep := strings.Repeat("\u2500", 60)
	for _, m := range msgs {
		fmt.Fprintf(w, "%s  %s\n", strings.ToUpper(m.Role), m.At.Local().Format(timeLayout))
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, m.Content)
		fmt.Fprintln(w)
	}
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of conversations to list")
}
