package container

import (
	app "bullet-vision/internal/application"
	"bullet-vision/internal/domain/port"
)

type Container struct {
	UserService      *app.UserService
	DetectionService *app.DetectionService
}

func New(userRepo port.UserRepository, detector port.HoleDetector, describer port.DetectionDescriber) *Container {
	userService := app.NewUserService(userRepo)
	detectionService := app.NewDetectionService(userService, detector, describer)

	return &Container{
		UserService:      userService,
		DetectionService: detectionService,
	}
}
