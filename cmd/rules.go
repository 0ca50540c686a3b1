package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/codecoach/internal/suggest"
	"github.com/abhisek/codecoach/internal/tutor"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Work with typing-tip rule tables",
}

var rulesDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in rule table as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := os.Stdout.Write(suggest.DefaultRulesYAML())
		return err
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a rule table and try it on sample text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := suggest.LoadFile(args[0])
		if err != nil {
			return err
		}
		for _, m := range tutor.Modes() {
			fmt.Printf("%-12s %d rules\n", m.Label(), len(rs.Modes[m].Rules))
		}

		text, _ := cmd.Flags().GetString("try")
		if text == "" {
			return nil
		}
		withTask, _ := cmd.Flags().GetBool("task")
		for _, m := range tutor.Modes() {
			fmt.Printf("\n%s:\n", m.Label())
			for _, tip := range rs.Suggest(text, m, withTask) {
				fmt.Printf("  • %s\n", tip)
			}
		}
		return nil
	},
}

func init() {
	rulesCheckCmd.Flags().String("try", "", "Sample question to run through every mode")
	rulesCheckCmd.Flags().Bool("task", false, "Pretend a task is uploaded")

	rulesCmd.AddCommand(rulesDefaultCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
}
