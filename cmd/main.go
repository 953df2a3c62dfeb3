package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"bullet-vision/config"
	telegram "bullet-vision/internal/api"
	"bullet-vision/internal/api/rest"
	"bullet-vision/internal/container"
	"bullet-vision/internal/infrastructure/report"
	"bullet-vision/internal/infrastructure/storage"
	"bullet-vision/internal/infrastructure/vision"
	"bullet-vision/internal/logger"
)

const shutdownTimeout = 10 * time.Second

const usage = `usage:
  bullet-vision               запустить HTTP API (и Telegram-бота, если задан TELEGRAM_TOKEN)
  bullet-vision detect <file> найти пробоины на изображении и напечатать JSON`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	params, err := vision.LoadParams(cfg.DetectorParams)
	if err != nil {
		return fmt.Errorf("load detector params: %w", err)
	}

	detector, err := vision.NewHoleDetector(params, log)
	if err != nil {
		return fmt.Errorf("create detector: %w", err)
	}

	// Создаём хранилище пользователей и собираем сервисы приложения
	userRepo := storage.NewMemoryUserRepository()
	appContainer := container.New(userRepo, detector, report.NewTextDescriber())

	if len(args) == 0 {
		return serve(ctx, cfg, appContainer, log)
	}

	switch args[0] {
	case "detect":
		if len(args) != 2 {
			return errors.New(usage)
		}
		return detectFile(ctx, appContainer, args[1], os.Stdout)
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// detectFile печатает результат поиска пробоин в формате HTTP API.
func detectFile(ctx context.Context, c *container.Container, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	result, err := c.DetectionService.Locate(ctx, data)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rest.NewDetectResponse(result))
}

func serve(ctx context.Context, cfg *config.Config, c *container.Container, log zerolog.Logger) error {
	var bot *telegram.Bot
	if cfg.TelegramToken != "" {
		var err error
		bot, err = telegram.NewBot(cfg.TelegramToken, c, log)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
	} else {
		log.Warn().Msg("TELEGRAM_TOKEN is not set, bot is disabled")
	}

	server := rest.NewServer(cfg.HTTPAddr, c.DetectionService, cfg.MaxUploadBytes, log)

	errCh := make(chan error, 2)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	if bot != nil {
		go func() {
			log.Info().Msg("bot is running")
			errCh <- bot.Run(ctx)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return runErr
}
