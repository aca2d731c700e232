package pgerr

import (
	"context"

	"labflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// UpdateVersioned writes row only while the stored version equals expected.
// row must already carry the next version. When no row matches, the id is
// probed once more to tell a missing row (ObjectNotFoundError) from a stale
// one (ConcurrencyConflictError).
func UpdateVersioned(ctx context.Context, db *gorm.DB, row any, key any, expected int, entity, id string) error {
	res := db.WithContext(ctx).
		Model(row).
		Where("version = ?", expected).
		Select("*").
		Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(row).Where("id = ?", key).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError(entity, id)
	}
	return errs.NewConcurrencyConflictError(entity, id)
}
