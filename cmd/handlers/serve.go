package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vegly/internal/logger"
	"vegly/internal/review"
	"vegly/internal/server"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command for starting the HTTP server
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the menu classification HTTP server",
		Long: `Start the vegly HTTP server.

The server provides:
  • POST /api/classify for classifying whole menus
  • POST /api/review for submitting human corrections
  • POST /api/search for querying the knowledge base
  • Health check and status endpoints

At startup the server indexes the built-in knowledge base, which needs
a reachable embedding server (Ollama by default).

Examples:
  # Start server on default port 8080
  vegly serve

  # Start on custom port
  vegly serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, host)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")

	return cmd
}

func runServe(ctx context.Context, port int, host string) error {
	log := logger.Get()
	log.Info("Starting HTTP server")

	// Build the classification stack
	st, err := buildStack(ctx)
	if err != nil {
		return err
	}

	// Override server config from flags if provided
	serverCfg := st.cfg.Server
	if port != 0 {
		serverCfg.Port = port
	}
	if host != "" {
		serverCfg.Host = host
	}

	// Review state lives in memory; feedback is appended to a JSONL log
	reviews := review.NewStore()
	feedback := review.NewFeedbackLog(st.cfg.Review.FeedbackLog)
	log.Info("Review components ready", "feedback_log", feedback.Path())

	// Create HTTP server
	srv := server.New(server.Deps{
		Service:  st.service,
		Store:    st.store,
		Provider: st.provider,
		Reviews:  reviews,
		Feedback: feedback,
	}, serverCfg)

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		log.Info(fmt.Sprintf("Server listening on http://%s:%d", serverCfg.Host, serverCfg.Port))
		log.Info("Press Ctrl+C to stop")
		serverErrors <- srv.Start()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive our signal or an error from server
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("Server shutdown initiated", "signal", sig.String())

		// Create shutdown context with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeoutDuration())
		defer cancel()

		// Attempt graceful shutdown
		if err := srv.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			log.Error("Server shutdown failed, forcing close", "error", err)
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		log.Info("Server stopped successfully")
	}

	return nil
}
