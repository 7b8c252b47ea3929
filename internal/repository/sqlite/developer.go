package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZertGraf/roster-bot/internal/domain"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"gorm.io/gorm"
)

type DeveloperRepo struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewDeveloperRepo(db *gorm.DB, logger *logger.Logger) *DeveloperRepo {
	return &DeveloperRepo{
		db:     db,
		logger: logger.Component("repository/sqlite/developer"),
	}
}

func (r *DeveloperRepo) Exists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&developerModel{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check developer exists: %w", err)
	}
	return count > 0, nil
}

func (r *DeveloperRepo) GetByUsername(ctx context.Context, username string) (*domain.Developer, error) {
	var m developerModel
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeveloperNotFound
		}
		return nil, fmt.Errorf("get developer: %w", err)
	}
	return m.toDomain(), nil
}

// Create checks for an existing row inside the insert transaction, so a
// duplicate yields ErrDeveloperExists regardless of driver error codes.
func (r *DeveloperRepo) Create(ctx context.Context, dev *domain.Developer) error {
	m := developerModel{
		Username:  dev.Username,
		GitLab:    dev.GitLabUsername,
		CreatedAt: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&developerModel{}).Where("username = ?", dev.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("check developer exists: %w", err)
		}
		if count > 0 {
			return domain.ErrDeveloperExists
		}

		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("insert developer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	dev.CreatedAt = &m.CreatedAt
	return nil
}

func (r *DeveloperRepo) Delete(ctx context.Context, username string) (int64, error) {
	var removed int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("developer = ?", username).Delete(&assignmentModel{})
		if res.Error != nil {
			return fmt.Errorf("delete assignments: %w", res.Error)
		}
		removed = res.RowsAffected

		res = tx.Where("username = ?", username).Delete(&developerModel{})
		if res.Error != nil {
			return fmt.Errorf("delete developer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrDeveloperNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
