package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nick-skriabin/readtime/internal/api"
	"github.com/nick-skriabin/readtime/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the annotation HTTP service",
	Long: `Serve starts the readtime HTTP API. Configuration comes from the
environment: PORT, READTIME_API_KEY, WORDS_PER_MINUTE, FORMAT,
DEBOUNCE, SESSION_TTL, MAX_UPLOAD_BYTES.

Example:
  PORT=8091 readtime serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return api.Run(ctx, cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
