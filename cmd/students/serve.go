package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-records/internal/http/handlers/student"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the records as a JSON API",
	Long: `Serve loads the records, exposes them under /api/students, and
saves them back when it receives SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.persister.Close()

	if err := a.load(); err != nil {
		return err
	}

	router := http.NewServeMux()
	student.Register(router, a.store, a.persister)

	server := &http.Server{
		Addr:         a.cfg.HTTPServer.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ListenAndServe blocks, so the signal wait below runs on main.
	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("server started", slog.String("address", a.cfg.HTTPServer.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		a.log.Info("shutdown signal received, stopping server...")
	case err := <-serveErr:
		a.log.Error("server encountered an error", slog.String("error", err.Error()))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		a.log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
	}

	// A failed final save is reported; the process still exits.
	if err := a.persister.Save(a.store.Serialize()); err != nil {
		a.log.Error("failed to save students on shutdown", slog.String("error", err.Error()))
		return err
	}
	a.log.Info("server stopped gracefully", slog.Int("saved", a.store.Len()))
	return nil
}
