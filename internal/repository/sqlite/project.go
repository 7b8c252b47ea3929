package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZertGraf/roster-bot/internal/domain"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewProjectRepo(db *gorm.DB, logger *logger.Logger) *ProjectRepo {
	return &ProjectRepo{
		db:     db,
		logger: logger.Component("repository/sqlite/project"),
	}
}

func (r *ProjectRepo) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	var m projectModel
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &domain.Project{ProjectID: m.ProjectID}, nil
}
