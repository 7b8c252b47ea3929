package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/ZertGraf/roster-bot/internal/domain"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepo struct {
	db     *pgxpool.Pool
	logger *logger.Logger
}

func NewProjectRepo(db *pgxpool.Pool, logger *logger.Logger) *ProjectRepo {
	return &ProjectRepo{
		db:     db,
		logger: logger.Component("repository/project"),
	}
}

// GetByID получает проект, ErrProjectNotFound если его нет
func (r *ProjectRepo) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	var project domain.Project
	query := `SELECT project_id FROM project WHERE project_id = $1`

	if err := r.db.QueryRow(ctx, query, projectID).Scan(&project.ProjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}
