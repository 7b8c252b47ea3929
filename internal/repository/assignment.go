package repository

import (
	"context"
	"fmt"
	"github.com/ZertGraf/roster-bot/internal/domain"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssignmentRepo struct {
	db     *pgxpool.Pool
	logger *logger.Logger
}

func NewAssignmentRepo(db *pgxpool.Pool, logger *logger.Logger) *AssignmentRepo {
	return &AssignmentRepo{
		db:     db,
		logger: logger.Component("repository/assignment"),
	}
}

// Upsert assigns a developer to a project. Assigning again only updates the
// impact.
func (r *AssignmentRepo) Upsert(ctx context.Context, a *domain.Assignment) error {
	query := `
		INSERT INTO developer_project (developer, project, impact)
		VALUES ($1, $2, $3)
		ON CONFLICT (developer, project)
		DO UPDATE SET impact = EXCLUDED.impact
	`

	if _, err := r.db.Exec(ctx, query, a.Username, a.ProjectID, a.Impact); err != nil {
		return fmt.Errorf("upsert assignment: %w", err)
	}

	return nil
}

// Delete returns ErrNotAssigned when the developer isn't on the project.
func (r *AssignmentRepo) Delete(ctx context.Context, username, projectID string) error {
	query := `DELETE FROM developer_project WHERE developer = $1 AND project = $2`

	result, err := r.db.Exec(ctx, query, username, projectID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotAssigned
	}

	return nil
}

// ListByProject returns the project's assignments, highest impact first.
// Returns empty slice if nobody is assigned.
func (r *AssignmentRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error) {
	query := `
		SELECT developer, project, impact
		FROM developer_project
		WHERE project = $1
		ORDER BY impact DESC, developer
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*domain.Assignment{}
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.Username, &a.ProjectID, &a.Impact); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return assignments, nil
}
