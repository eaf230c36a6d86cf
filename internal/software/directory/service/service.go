package service

import (
	"kids-carpool/internal/general/jwt"
	"kids-carpool/internal/general/logger"
	"kids-carpool/internal/ports"
)

// directoryService covers the record storage around the booking core:
// accounts, children, schools and messages.
type directoryService struct {
	logger      *logger.Logger
	uow         ports.UnitOfWork
	userRepo    ports.UserRepository
	childRepo   ports.ChildRepository
	schoolRepo  ports.SchoolRepository
	messageRepo ports.MessageRepository
	tokens      *jwt.Manager
}

// NewDirectoryService creates a new directory service with the provided dependencies.
func NewDirectoryService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	userRepo ports.UserRepository,
	childRepo ports.ChildRepository,
	schoolRepo ports.SchoolRepository,
	messageRepo ports.MessageRepository,
	tokens *jwt.Manager,
) ports.Directory {
	return &directoryService{
		logger:      logger,
		uow:         uow,
		userRepo:    userRepo,
		childRepo:   childRepo,
		schoolRepo:  schoolRepo,
		messageRepo: messageRepo,
		tokens:      tokens,
	}
}
