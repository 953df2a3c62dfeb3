package port

import (
	"context"

	"bullet-vision/internal/domain/entity"
)

// UserRepository хранит пользователей бота и их последние результаты.
// Реализации возвращают копии: изменения вступают в силу только после Save.
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет пользователя целиком
	Save(ctx context.Context, user *entity.User) error

	// SaveDetection запоминает последний результат проверки пользователя
	SaveDetection(ctx context.Context, userID int64, result *entity.Detection) error
}
