package database

import (
	"fmt"

	"gorm.io/gorm"

	"agrovision/entities"
)

// ReassignCropChildren points the pests and losses of the crops in cropIDs
// (a list or a subquery) at clientID. Soft-deleted rows follow too.
func ReassignCropChildren(tx *gorm.DB, cropIDs any, clientID string) error {
	for _, model := range []any{&entities.Pest{}, &entities.Loss{}} {
		err := tx.Unscoped().Model(model).
			Where("crop_id IN (?) AND client_id <> ?", cropIDs, clientID).
			Update("client_id", clientID).Error
		if err != nil {
			return fmt.Errorf("reassign %T: %w", model, err)
		}
	}
	return nil
}
