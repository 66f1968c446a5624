// main package for the voice-synthesis service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/ngqkhai/voice-synthesis/internal/broker"
	"github.com/ngqkhai/voice-synthesis/internal/catalog"
	"github.com/ngqkhai/voice-synthesis/internal/config"
	"github.com/ngqkhai/voice-synthesis/internal/provider/googletts"
	"github.com/ngqkhai/voice-synthesis/internal/server"
	"github.com/ngqkhai/voice-synthesis/internal/storage"
	"github.com/ngqkhai/voice-synthesis/internal/synthesis"
	"github.com/ngqkhai/voice-synthesis/internal/uploader"
)

const shutdownTimeout = 10 * time.Second

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "voice-synthesis.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// Bootstrap logger until the configured logs dir is known.
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// Credentials live in the environment; a .env file is optional.
	envErr := godotenv.Load()
	if envErr != nil {
		bootstrapLog.Info("No .env file loaded, using process environment.")
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, finalLog)
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	srv, worker, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}

	if worker != nil {
		go func() {
			runErr := worker.Run(ctx)
			if runErr != nil {
				log.Error("NATS worker stopped: %v", runErr)
			}
		}()

		log.System("NATS worker listening for jobs on subject: %s", cfg.NATS.SynthesisSubject)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Router(cfg.Server.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	log.System("voice-synthesis listening on %s", cfg.ListenAddr())

	select {
	case err = <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}

		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			return fmt.Errorf("http server shutdown failed: %w", shutdownErr)
		}

		return nil
	}
}

// buildService wires the catalog, provider, storage and CDN capabilities
// into the HTTP server and the optional NATS worker.
func buildService(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
) (*server.Server, *broker.NatsWorker, error) {
	tokenSource, err := googletts.TokenSourceFromEnv(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build google credentials: %w", err)
	}

	synthesizer := googletts.NewClient(
		googletts.DefaultBaseURL,
		time.Duration(cfg.Synthesis.TimeoutSeconds)*time.Second,
		tokenSource,
	)

	audioStore, err := storage.NewFileStore(cfg.Paths.AudioDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create audio store: %w", err)
	}

	cdnUploader, err := uploader.NewCloudinaryUploader(
		cfg.Cloudinary.Folder,
		time.Duration(cfg.Cloudinary.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cloudinary uploader: %w", err)
	}

	voiceCatalog := catalog.Default()
	validator := synthesis.NewValidator(voiceCatalog, cfg.Synthesis)
	orchestrator := synthesis.NewOrchestrator(
		synthesizer, audioStore, cdnUploader, cfg.Cloudinary.RequireCDN, log,
	)

	srv := server.New(voiceCatalog, validator, orchestrator, log)

	if !cfg.NATS.Enabled {
		return srv, nil, nil
	}

	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}

	worker := broker.NewNatsWorker(
		natsConnection,
		cfg.NATS.SynthesisSubject,
		cfg.NATS.VoiceResultSubject,
		validator,
		orchestrator,
		log,
	)

	return srv, worker, nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
