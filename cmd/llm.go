package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codecoach/internal/llm"
	"github.com/abhisek/codecoach/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model calls made for tutor answers and suggestions",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts store.QueryOpts
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.SessionID, _ = cmd.Flags().GetString("session")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No model calls recorded.")
			return nil
		}

		rows := make([][]string, len(events))
		for i, e := range events {
			status := "ok"
			if !e.Success {
				status = "failed"
			}
			rows[i] = []string{
				itoa(e.ID),
				e.Timestamp.Local().Format(timeLayout),
				e.Purpose,
				shortSession(e.SessionID),
				e.Model,
				itoa(e.InputTokens),
				itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				status,
			}
		}
		printTable(out,
			[]string{"ID", "When", "Purpose", "Session", "Model", "In", "Out", "Ms", "Status"},
			rows, 0, 5, 6, 7)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		printEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func printEvent(w io.Writer, e *store.LLMEvent) {
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-10s %s\n", label+":", value)
		}
	}
	field("Call", itoa(e.ID))
	field("When", e.Timestamp.Local().Format(timeLayout))
	field("Purpose", e.Purpose)
	field("Session", e.SessionID)
	field("Model", e.Provider+"/"+e.Model)
	field("Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens))
	field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	if e.Success {
		field("Status", "ok")
	} else {
		field("Status", "failed")
		field("Error", e.ErrorMessage)
	}

	section := func(title, body string) {
		fmt.Fprintf(w, "\n== %s ==\n", title)
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintln(w, body)
	}
	section("Prompt", e.RequestBody)
	section("Reply", e.ResponseBody)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No model calls recorded.")
			return nil
		}

		var calls, in, outTokens int
		rows := make([][]string, 0, len(byPurpose)+1)
		for _, u := range byPurpose {
			rows = append(rows, []string{
				u.Purpose, itoa(u.Calls), itoa(u.InputTokens), itoa(u.OutputTokens),
				strconv.FormatInt(u.AvgLatencyMs, 10),
			})
			calls += u.Calls
			in += u.InputTokens
			outTokens += u.OutputTokens
		}
		rows = append(rows, []string{"total", itoa(calls), itoa(in), itoa(outTokens), ""})
		fmt.Fprintln(out, "Successful calls by purpose")
		printTable(out, []string{"Purpose", "Calls", "Input", "Output", "Avg ms"}, rows, 1, 2, 3, 4)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		var total float64
		var unpriced []string
		rows = rows[:0]
		for _, u := range byModel {
			cost := "?"
			if p := llm.LookupCost(u.Model); p != nil {
				c := p.Cost(u.InputTokens, u.OutputTokens)
				total += c
				cost = formatCost(c)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			rows = append(rows, []string{u.Model, itoa(u.Calls), itoa(u.InputTokens), itoa(u.OutputTokens), cost})
		}
		label := "total"
		if len(unpriced) > 0 {
			label = "total (partial)"
		}
		rows = append(rows, []string{label, "", "", "", formatCost(total)})

		fmt.Fprintln(out, "\nEstimated cost (USD)")
		printTable(out, []string{"Model", "Calls", "Input", "Output", "Cost"}, rows, 1, 2, 3, 4)
		if len(unpriced) > 0 {
			fmt.Fprintf(out, "No pricing for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

// shortSession keeps the first block of a uuid so list rows stay narrow.
func shortSession(id string) string {
	if head, _, ok := strings.Cut(id, "-"); ok {
		return head
	}
	return id
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls for this purpose (tutor, starters, followups)")
	llmListCmd.Flags().StringP("session", "s", "", "Only calls made for this session ID")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
