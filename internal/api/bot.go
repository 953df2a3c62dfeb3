package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	app "bullet-vision/internal/application"
	"bullet-vision/internal/container"
	"bullet-vision/internal/domain/entity"
	"bullet-vision/internal/logger"
)

const (
	msgStart = `👋 Привет! Я бот для подсчёта пробоин на мишени.

📸 Отправьте мне фото мишени, и я найду пробоины, отмечу их на снимке и опишу результат.

📋 Команды:
/check — начать проверку мишени
/last — показать последнюю проверку
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото мишени
2️⃣ Бот найдёт светлые пробоины на тёмном фоне
3️⃣ Вы получите результат: текст + фото с отмеченными пробоинами

💡 Рекомендации:
• Снимайте мишень на просвет или с подсветкой сзади
• Держите камеру перпендикулярно мишени
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/last — последняя проверка
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото мишени для подсчёта пробоин."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото мишени."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgNoHistory       = "🗂 Проверок ещё не было. Отправьте фото мишени."
	msgInvalidImage    = "⚠️ Не удалось прочитать изображение. Попробуйте отправить другое фото."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

// botAPI покрывает часть Telegram API, которой пользуется бот.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	client     *tgbotapi.BotAPI
	api        botAPI
	users      *app.UserService
	detections *app.DetectionService
	download   func(ctx context.Context, fileID string) ([]byte, error)
	log        zerolog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, services *container.Container, log zerolog.Logger) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newBot(client, services, log)
	b.client = client
	b.download = b.downloadFile
	b.log.Info().Str("account", client.Self.UserName).Msg("authorized")

	return b, nil
}

func newBot(api botAPI, services *container.Container, log zerolog.Logger) *Bot {
	return &Bot{
		api:        api,
		users:      services.UserService,
		detections: services.DetectionService,
		log:        logger.Component(log, "telegram"),
	}
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	defer b.client.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		if _, err := b.users.BeginCheck(ctx, userID, chatID); err != nil {
			b.log.Error().Err(err).Int64("user_id", userID).Msg("begin check")
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			b.log.Error().Err(err).Int64("user_id", userID).Msg("cancel")
		}
		b.sendMessage(chatID, msgCancelled)

	case "last":
		b.sendLastDetection(ctx, userID, chatID)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	b.sendMessage(chatID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.download(ctx, photo.FileID)
	if err != nil {
		b.log.Error().Err(err).Int64("user_id", userID).Msg("download photo")
		b.sendMessage(chatID, msgProcessingError)
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		return
	}

	out, err := b.detections.ProcessPhoto(ctx, userID, chatID, imageData)
	if err != nil {
		b.log.Error().Err(err).Int64("user_id", userID).Int("bytes", len(imageData)).Msg("process photo")
		if errors.Is(err, entity.ErrInvalidImage) {
			b.sendMessage(chatID, msgInvalidImage)
		} else {
			b.sendMessage(chatID, msgProcessingError)
		}
		return
	}

	b.sendMessage(chatID, summaryText(out))
	if len(out.Highlighted) > 0 {
		b.sendPhoto(chatID, out.Highlighted, fmt.Sprintf("🎯 Пробоин: %d", out.Result.Count()))
	}
}

func (b *Bot) sendLastDetection(ctx context.Context, userID, chatID int64) {
	last, err := b.users.LastDetection(ctx, userID, chatID)
	if err != nil {
		b.log.Error().Err(err).Int64("user_id", userID).Msg("load last detection")
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	if last == nil {
		b.sendMessage(chatID, msgNoHistory)
		return
	}

	summary, err := b.detections.Describe(ctx, last)
	if err != nil {
		b.log.Error().Err(err).Int64("user_id", userID).Msg("describe last detection")
		b.sendMessage(chatID, fmt.Sprintf("🗂 Последняя проверка: пробоин %d", last.Count()))
		return
	}
	b.sendMessage(chatID, "🗂 Последняя проверка\n\n"+summary.Text)
}

func summaryText(out *app.DetectionOutput) string {
	if out.Summary != nil {
		return out.Summary.Text
	}
	return fmt.Sprintf("🎯 Найдено пробоин: %d", out.Result.Count())
}

func (b *Bot) setState(ctx context.Context, userID, chatID int64, state entity.UserState) {
	if _, err := b.users.SetState(ctx, userID, chatID, state); err != nil {
		b.log.Error().Err(err).Int64("user_id", userID).Str("state", string(state)).Msg("set state")
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.client.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "holes.jpg", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send photo")
	}
}
