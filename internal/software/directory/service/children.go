package service

import (
	"context"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/directory"
	"kids-carpool/internal/ports"
)

// AddChild creates a child profile owned by parentID.
func (service *directoryService) AddChild(ctx context.Context, parentID string, in ports.CreateChildInput) (*directory.Child, error) {
	child, err := directory.NewChild(parentID, in.SchoolID, in.Name, in.Age, in.Grade)
	if err != nil {
		return nil, err
	}
	child.EmergencyContactName = in.EmergencyContactName
	child.EmergencyContactPhone = in.EmergencyContactPhone
	child.MedicalInfo = in.MedicalInfo
	child.SpecialNeeds = in.SpecialNeeds

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if child.SchoolID != "" {
			if _, err := service.schoolRepo.GetByID(txCtx, child.SchoolID); err != nil {
				return err
			}
		}
		return service.childRepo.Create(txCtx, child)
	})
	if err != nil {
		service.logger.Error(ctx, "child_create_failed", "Failed to create child profile", err, map[string]any{
			"parent_id": parentID,
		})
		return nil, err
	}

	service.logger.Info(ctx, "child_created", fmt.Sprintf("Child %s created", child.ID), map[string]any{
		"child_id":  child.ID,
		"parent_id": parentID,
	})

	return child, nil
}

// GetChild loads a child profile; only the owning parent may read it.
func (service *directoryService) GetChild(ctx context.Context, childID, parentID string) (*directory.Child, error) {
	var child *directory.Child
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		child, err = service.childRepo.GetByID(txCtx, childID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if child.ParentID != parentID {
		return nil, fmt.Errorf("%w: child %s does not belong to this parent", carpool.ErrUnauthorized, childID)
	}
	return child, nil
}

// ListChildren returns the parent's child profiles.
func (service *directoryService) ListChildren(ctx context.Context, parentID string) ([]*directory.Child, error) {
	var children []*directory.Child
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		children, err = service.childRepo.ListByParent(txCtx, parentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

// RemoveChild deletes a child profile owned by parentID.
func (service *directoryService) RemoveChild(ctx context.Context, childID, parentID string) error {
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.childRepo.Delete(txCtx, childID, parentID)
	})
	if err != nil {
		return err
	}

	service.logger.Info(ctx, "child_removed", fmt.Sprintf("Child %s removed", childID), map[string]any{
		"child_id":  childID,
		"parent_id": parentID,
	})
	return nil
}
