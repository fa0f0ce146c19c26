// Command plantctl drives the plant care assistant from a terminal against
// the same database the server uses.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plantcare/config"
	"plantcare/pkg/app"
	"plantcare/pkg/assistant/service"
	"plantcare/pkg/logging"
)

var (
	dbPath   string
	asJSON   bool
	verbose  bool
	logger   *zap.Logger
	instance *app.App
)

var rootCmd = &cobra.Command{
	Use:           "plantctl",
	Short:         "Houseplant care assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		// the CLI fires reminders on demand via "remind fire"
		cfg.RemindersEnabled = false

		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		if logger, err = logging.New(level, true); err != nil {
			return err
		}
		instance, err = app.New(cfg, logger, app.Options{})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if instance != nil {
			_ = instance.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default from DB_PATH)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print the full reply as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// show prints a reply. Non-ok replies exit 1 without being treated as
// failures of the tool itself.
func show(w io.Writer, r service.Reply, err error) error {
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, r.Text)
	}
	if !r.OK() {
		return errReply
	}
	return nil
}

type replyError struct{}

func (replyError) Error() string { return "" }

var errReply error = replyError{}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if err != errReply {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
