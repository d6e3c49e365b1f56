package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/greetingcard/internal/api"
	"github.com/youruser/greetingcard/internal/card"
	"github.com/youruser/greetingcard/internal/config"
	"github.com/youruser/greetingcard/internal/fonts"
	"github.com/youruser/greetingcard/internal/logging"
	"github.com/youruser/greetingcard/internal/name"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	fm := fonts.NewManager(
		fonts.Source{Family: cfg.Font.Family, URL: cfg.Font.URL},
		fonts.WithTimeout(cfg.Font.FetchTimeout),
		fonts.WithDPI(cfg.Font.DPI),
		fonts.WithLogger(logger.Named("fonts")),
	)

	// Warm the font cache (best-effort); renders retry on their own.
	if _, err := fm.Load(ctx); err != nil {
		logger.Warn("font preload failed", zap.Error(err))
	}

	compositor := card.NewCompositor(fm,
		card.SourceBackground{Source: cfg.Background.Source, Timeout: cfg.Background.FetchTimeout},
		card.WithStyle(cfg.Style()),
		card.WithFontSize(cfg.Font.Size),
		card.WithLogger(logger.Named("card")),
	)

	gin.SetMode(cfg.Server.GinMode)
	handler := api.NewHandler(api.HandlerConfig{
		Normalizer:    name.NewNormalizer(cfg.Name.MinLen, cfg.Name.MaxLen),
		Renderer:      compositor,
		PublicURL:     cfg.Server.PublicURL,
		RenderTimeout: cfg.Server.RenderTimeout,
		Logger:        logger.Named("api"),
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      api.NewEngine(handler, logger.Named("http")),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", "http://"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
