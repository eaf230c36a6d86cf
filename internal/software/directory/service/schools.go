package service

import (
	"context"
	"fmt"

	"kids-carpool/internal/domain/directory"
	"kids-carpool/internal/ports"
)

// AddSchool creates a school directory entry. Role enforcement (ADMIN only)
// happens at the HTTP boundary; actorID is carried for the audit log.
func (service *directoryService) AddSchool(ctx context.Context, actorID string, in ports.CreateSchoolInput) (*directory.School, error) {
	school, err := directory.NewSchool(in.Name, in.Address, in.District)
	if err != nil {
		return nil, err
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.schoolRepo.Create(txCtx, school)
	})
	if err != nil {
		service.logger.Error(ctx, "school_create_failed", "Failed to create school", err, map[string]any{
			"actor_id": actorID,
		})
		return nil, err
	}

	service.logger.Info(ctx, "school_created", fmt.Sprintf("School %s created", school.ID), map[string]any{
		"school_id": school.ID,
		"actor_id":  actorID,
	})

	return school, nil
}

// GetSchool loads one school entry.
func (service *directoryService) GetSchool(ctx context.Context, schoolID string) (*directory.School, error) {
	var school *directory.School
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		school, err = service.schoolRepo.GetByID(txCtx, schoolID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return school, nil
}

// ListSchools returns the full school directory.
func (service *directoryService) ListSchools(ctx context.Context) ([]*directory.School, error) {
	var schools []*directory.School
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		schools, err = service.schoolRepo.List(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return schools, nil
}

// RemoveSchool deletes a school entry.
func (service *directoryService) RemoveSchool(ctx context.Context, schoolID, actorID string) error {
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.schoolRepo.Delete(txCtx, schoolID)
	})
	if err != nil {
		return err
	}

	service.logger.Info(ctx, "school_removed", fmt.Sprintf("School %s removed", schoolID), map[string]any{
		"school_id": schoolID,
		"actor_id":  actorID,
	})
	return nil
}
