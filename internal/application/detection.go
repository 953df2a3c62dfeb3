package app

import (
	"context"
	"errors"
	"fmt"

	"bullet-vision/internal/domain/entity"
	"bullet-vision/internal/domain/port"
)

var errNoDetector = errors.New("detector is not configured")

type DetectionService struct {
	users     *UserService
	detector  port.HoleDetector
	describer port.DetectionDescriber
}

// DetectionOutput содержит найденные пробоины, сводку и картинку с подсветкой.
type DetectionOutput struct {
	Result      *entity.Detection
	Summary     *entity.Summary
	Highlighted []byte
}

// NewDetectionService создаёт сервис проверки мишеней.
func NewDetectionService(users *UserService, detector port.HoleDetector, describer port.DetectionDescriber) *DetectionService {
	return &DetectionService{
		users:     users,
		detector:  detector,
		describer: describer,
	}
}

// Locate только ищет пробоины: без сводки и подсветки.
func (s *DetectionService) Locate(ctx context.Context, photo []byte) (*entity.Detection, error) {
	if s.detector == nil {
		return nil, errNoDetector
	}
	return s.detector.Detect(ctx, photo)
}

// Detect ищет пробоины на фото и описывает результат. Подсветку не строит.
func (s *DetectionService) Detect(ctx context.Context, photo []byte) (*DetectionOutput, error) {
	result, err := s.Locate(ctx, photo)
	if err != nil {
		return nil, err
	}

	out := &DetectionOutput{Result: result}
	if s.describer != nil {
		out.Summary, err = s.describer.Describe(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("describe detection: %w", err)
		}
	}
	return out, nil
}

// Describe строит сводку по уже готовому результату, например по последней проверке.
func (s *DetectionService) Describe(ctx context.Context, result *entity.Detection) (*entity.Summary, error) {
	if s.describer == nil {
		return nil, errors.New("describer is not configured")
	}
	return s.describer.Describe(ctx, result)
}

// Annotate ищет пробоины и возвращает фото с их подсветкой.
func (s *DetectionService) Annotate(ctx context.Context, photo []byte) ([]byte, *entity.Detection, error) {
	if s.detector == nil {
		return nil, nil, errNoDetector
	}

	result, err := s.detector.Detect(ctx, photo)
	if err != nil {
		return nil, nil, err
	}

	highlighted, err := s.detector.Highlight(photo, result)
	if err != nil {
		return nil, nil, fmt.Errorf("highlight holes: %w", err)
	}
	return highlighted, result, nil
}

// ProcessPhoto проводит фото пользователя через проверку: состояние «обработка»,
// поиск и подсветка, сохранение результата и возврат в главное меню.
// В главное меню пользователь возвращается и при ошибке.
func (s *DetectionService) ProcessPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*DetectionOutput, error) {
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}

	out, err := s.process(ctx, userID, photo)

	if _, stateErr := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); stateErr != nil && err == nil {
		return nil, stateErr
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DetectionService) process(ctx context.Context, userID int64, photo []byte) (*DetectionOutput, error) {
	out, err := s.Detect(ctx, photo)
	if err != nil {
		return nil, err
	}

	if out.Result.HasHoles() {
		out.Highlighted, err = s.detector.Highlight(photo, out.Result)
		if err != nil {
			return nil, fmt.Errorf("highlight holes: %w", err)
		}
	}

	if err := s.users.RememberDetection(ctx, userID, out.Result); err != nil {
		return nil, err
	}
	return out, nil
}
