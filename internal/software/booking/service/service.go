package service

import (
	"kids-carpool/internal/general/logger"
	"kids-carpool/internal/ports"
)

// bookingService owns the ride request lifecycle. Every transition that
// implies a seat change commits the status write and the seat write in a
// single transaction, with the conditional seat update deciding winners
// under concurrency.
type bookingService struct {
	logger      *logger.Logger
	uow         ports.UnitOfWork
	requestRepo ports.RideRequestRepository
	rideRepo    ports.RideRepository
	childRepo   ports.ChildRepository
	catalog     ports.RideCatalog
	pub         ports.EventPublisher
}

// NewBookingService creates a new booking processor with the provided dependencies.
func NewBookingService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	requestRepo ports.RideRequestRepository,
	rideRepo ports.RideRepository,
	childRepo ports.ChildRepository,
	catalog ports.RideCatalog,
	pub ports.EventPublisher,
) ports.BookingProcessor {
	return &bookingService{
		logger:      logger,
		uow:         uow,
		requestRepo: requestRepo,
		rideRepo:    rideRepo,
		childRepo:   childRepo,
		catalog:     catalog,
		pub:         pub,
	}
}
