package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/schemapad/schemapad/daemon"
	padotel "github.com/schemapad/schemapad/otel"
	"github.com/schemapad/schemapad/server"
)

// NewServeCmd creates the "serve" subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the schemapad HTTP server",
		RunE:  runServe,
	}

	cmd.Flags().IntP("port", "p", 8080, "Listen port")
	cmd.Flags().String("host", "0.0.0.0", "Listen host")
	cmd.Flags().String("cors-origin", "", "Allowed CORS origin (default: config or *)")
	cmd.Flags().String("sqlite-path", "", "Path to SQLite database (default: ~/.schemapad/schemapad.db)")
	cmd.Flags().String("config", "", "Path to schemapad.yaml config")
	cmd.Flags().String("document-id", "", "Document id to serve (default: config or \"default\")")
	cmd.Flags().String("otlp-endpoint", "", "OTLP/HTTP collector endpoint for tracing")
	cmd.Flags().Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", 60*time.Second, "HTTP write timeout")
	cmd.Flags().Int64("max-body", 1<<20, "Max request body size in bytes")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadDaemonConfig(cmd)
	if err != nil {
		return err
	}

	host, _ := cmd.Flags().GetString("host")
	if !cmd.Flags().Changed("host") && cfg.Host != "" {
		host = cfg.Host
	}
	port, _ := cmd.Flags().GetInt("port")
	if !cmd.Flags().Changed("port") && cfg.Port != 0 {
		port = cfg.Port
	}
	corsOrigin, _ := cmd.Flags().GetString("cors-origin")
	if corsOrigin == "" {
		corsOrigin = cfg.CORSOrigin
	}
	readTimeout, _ := cmd.Flags().GetDuration("read-timeout")
	writeTimeout, _ := cmd.Flags().GetDuration("write-timeout")
	maxBody, _ := cmd.Flags().GetInt64("max-body")
	otlpEndpoint, _ := cmd.Flags().GetString("otlp-endpoint")
	docID := resolveDocumentID(cmd, cfg)

	st, err := openDocumentStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	logger := slog.Default()

	var tracer trace.Tracer
	if otlpEndpoint != "" {
		shutdown, err := padotel.SetupTracing(cmd.Context(), padotel.TracingConfig{
			Endpoint: otlpEndpoint,
			Insecure: true,
		})
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
		tracer = otelapi.GetTracerProvider().Tracer("schemapad/server")
	}

	apiServer := server.NewServer(server.ServerConfig{
		Store:      st,
		DocumentID: docID,
		CORSOrigin: corsOrigin,
		MaxBody:    maxBody,
		Logger:     logger,
		Tracer:     tracer,
	})

	if cfg.SnapshotCron != "" {
		snapshotter, err := daemon.NewSnapshotter(daemon.SnapshotterConfig{
			Store:      st,
			DocumentID: docID,
			Dir:        cfg.SnapshotDir,
			CronExpr:   cfg.SnapshotCron,
			Logger:     logger,
		})
		if err != nil {
			return exitError(exitConfig, "configuring snapshots: %v", err)
		}
		snapshotter.Start()
		defer snapshotter.Stop()
	}

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      apiServer.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	// Signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.OutOrStdout(), "schemapad listening on %s (document %q)\n", addr, docID)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return exitError(exitRuntime, "shutdown error: %v", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return exitError(exitRuntime, "server error: %v", err)
		}
		return nil
	}
}
