package app

import (
	"context"

	"bullet-vision/internal/domain/entity"
	"bullet-vision/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// RememberDetection сохраняет результат как последнюю проверку пользователя.
func (s *UserService) RememberDetection(ctx context.Context, userID int64, result *entity.Detection) error {
	return s.repo.SaveDetection(ctx, userID, result)
}

// LastDetection возвращает последнюю проверку пользователя или nil, если проверок не было.
func (s *UserService) LastDetection(ctx context.Context, userID, chatID int64) (*entity.Detection, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	return user.LastDetection, nil
}
