package bplog

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zzanghsi8873/bplog/internal/server"
)

var (
	serveAddr        string
	serveCORSOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal as a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(logLevel) == "" && os.Getenv("BPLOG_LOG_LEVEL") == "" {
			logLevel = "info"
		}
		addr := serveAddr
		if !cmd.Flags().Changed("addr") {
			if v := strings.TrimSpace(os.Getenv(envAddr)); v != "" {
				addr = v
			}
		}
		return withSession(func(s *session) error {
			srv := server.New(server.Config{
				DB:          s.db,
				Store:       s.store,
				Backend:     s.backend,
				DefaultUser: s.userID,
				CORSOrigins: serveCORSOrigins,
				Logger:      s.logger,
			})
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Listen address (env BPLOG_ADDR)")
	serveCmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origin", nil, "Allowed CORS origins (repeatable)")
}
