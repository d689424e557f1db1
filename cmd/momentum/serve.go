package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/momentum/internal/handler"
	"github.com/mtlprog/momentum/internal/middleware"
	"github.com/mtlprog/momentum/internal/service"
	"github.com/mtlprog/momentum/internal/validation"
)

func runServe(c *cli.Context) error {
	ctx := c.Context

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	port := e.cfg.Port
	if c.IsSet("port") {
		port = c.String("port")
	}
	accessToken := e.cfg.AccessToken
	if c.IsSet("access-token") {
		accessToken = c.String("access-token")
	}
	if accessToken == "" {
		slog.Warn("access token not set, local API is unauthenticated")
	}

	taskForm := service.NewTaskFormService(e.api, e.state, validation.SystemClock)
	defer taskForm.Close()

	h := handler.New(e.db, e.api, e.boardService(ctx), taskForm, accessToken)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(time.Duration(e.cfg.RequestTimeout+5) * time.Second))
	r.Mount("/", mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port, "api_url", e.cfg.APIURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
