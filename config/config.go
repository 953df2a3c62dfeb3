package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr       = ":8080"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultMaxUploadBytes = 20 << 20
)

type Config struct {
	HTTPAddr       string
	TelegramToken  string
	LogLevel       string
	LogFormat      string
	DetectorParams string // путь к YAML с параметрами детектора, может быть пустым
	MaxUploadBytes int64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", defaultHTTPAddr),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:       getEnv("LOG_LEVEL", defaultLogLevel),
		LogFormat:      getEnv("LOG_FORMAT", defaultLogFormat),
		DetectorParams: os.Getenv("DETECTOR_PARAMS"),
		MaxUploadBytes: defaultMaxUploadBytes,
	}

	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %q", raw)
		}
		cfg.MaxUploadBytes = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
