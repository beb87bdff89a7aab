package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmatch",
		Short: "Match known book records against WorldCat bibliographic data",
		Long: `Bookmatch reconciles locally-known book metadata against WorldCat records.

For each known book it fetches candidate bibliographic records, fuzzily
compares titles and publishers, classifies physical formats, and reduces
accepted candidates to unique (ISBN, format) manifestations. Responses are
cached in SQLite so repeated runs never re-issue identical requests.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			configureLogging()
		},
	}

	// Add subcommands
	cmd.AddCommand(newIdentifyCmd())
	cmd.AddCommand(newInitDBCmd())

	return cmd
}

func configureLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("BOOKMATCH_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
