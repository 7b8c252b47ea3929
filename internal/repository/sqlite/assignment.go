package sqlite

import (
	"context"
	"fmt"

	"github.com/ZertGraf/roster-bot/internal/domain"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepo struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, logger *logger.Logger) *AssignmentRepo {
	return &AssignmentRepo{
		db:     db,
		logger: logger.Component("repository/sqlite/assignment"),
	}
}

func (r *AssignmentRepo) Upsert(ctx context.Context, a *domain.Assignment) error {
	m := assignmentModel{
		Developer: a.Username,
		Project:   a.ProjectID,
		Impact:    a.Impact,
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "developer"}, {Name: "project"}},
			DoUpdates: clause.AssignmentColumns([]string{"impact"}),
		}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepo) Delete(ctx context.Context, username, projectID string) error {
	res := r.db.WithContext(ctx).
		Where("developer = ? AND project = ?", username, projectID).
		Delete(&assignmentModel{})
	if res.Error != nil {
		return fmt.Errorf("delete assignment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotAssigned
	}
	return nil
}

func (r *AssignmentRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error) {
	var rows []assignmentModel
	err := r.db.WithContext(ctx).
		Where("project = ?", projectID).
		Order("impact DESC").
		Order("developer").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}

	assignments := make([]*domain.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toDomain())
	}
	return assignments, nil
}
