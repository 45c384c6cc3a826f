package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/exifreport/internal/handlers"
	"github.com/lehigh-university-libraries/exifreport/internal/storage"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the EXIF report HTTP API",
		Long: `Starts an HTTP server that reports on images by URL or upload.

Endpoints:
  POST   /api/inspect          JSON {"image_url": "..."} or multipart field "file"
  GET    /api/reports          stored reports, newest first
  GET    /api/reports/{id}     one report (?format=text for the plain layout)
  DELETE /api/reports/{id}     remove a report
  GET    /report?image=URL     plain text report
  GET    /healthcheck`,
		Example: `  # Start server on default port 8888
  exifreport serve

  # Start server on custom port
  exifreport serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			handler := handlers.New(a.service(), storage.New(), a.cfg.Server.MaxUploadBytes)

			addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("exifreport API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8888, "Port to listen on (overrides config and $PORT)")

	return cmd
}
