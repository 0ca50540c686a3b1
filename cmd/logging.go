package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// logFile is the file opened by setupLogging, closed by closeLogging.
var logFile *os.File

// setupLogging configures the global zerolog logger. The TUI (the root
// command) owns the terminal, so it logs to a file; other commands log to
// stderr.
func setupLogging(cmd *cobra.Command) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	if env := os.Getenv("CODECOACH_LOG_LEVEL"); env != "" && !cmd.Flags().Changed("log-level") {
		levelName = env
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}
	zerolog.SetGlobalLevel(level)

	path, _ := cmd.Flags().GetString("log-file")
	if path == "" && !cmd.HasParent() {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		path = filepath.Join(filepath.Dir(dbPath), "codecoach.log")
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

// closeLogging closes the log file, if any, and points the logger back at
// stderr.
func closeLogging() error {
	if logFile == nil {
		return nil
	}
	f := logFile
	logFile = nil
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	return f.Close()
}
