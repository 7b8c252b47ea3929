package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/ZertGraf/roster-bot/internal/domain"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/ZertGraf/roster-bot/internal/pkg/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type DeveloperRepo struct {
	db     *pgxpool.Pool
	logger *logger.Logger
}

func NewDeveloperRepo(db *pgxpool.Pool, logger *logger.Logger) *DeveloperRepo {
	return &DeveloperRepo{
		db:     db,
		logger: logger.Component("repository/developer"),
	}
}

// Exists проверяет существование разработчика
func (r *DeveloperRepo) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM developer WHERE username = $1)`

	if err := r.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check developer exists: %w", err)
	}

	return exists, nil
}

// GetByUsername returns ErrDeveloperNotFound if the developer doesn't exist.
func (r *DeveloperRepo) GetByUsername(ctx context.Context, username string) (*domain.Developer, error) {
	query := `
		SELECT username, gitlab, created_at
		FROM developer
		WHERE username = $1
	`

	var dev domain.Developer
	err := r.db.QueryRow(ctx, query, username).Scan(
		&dev.Username,
		&dev.GitLabUsername,
		&dev.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeveloperNotFound
		}
		return nil, fmt.Errorf("get developer: %w", err)
	}

	return &dev, nil
}

// Create inserts a developer. A duplicate username yields ErrDeveloperExists.
func (r *DeveloperRepo) Create(ctx context.Context, dev *domain.Developer) error {
	query := `
		INSERT INTO developer (username, gitlab, created_at)
		VALUES ($1, $2, NOW())
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, dev.Username, dev.GitLabUsername).Scan(&dev.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDeveloperExists
		}
		return fmt.Errorf("insert developer: %w", err)
	}

	return nil
}

// Delete удаляет назначения и самого разработчика в одной транзакции
func (r *DeveloperRepo) Delete(ctx context.Context, username string) (int64, error) {
	var removed int64

	err := postgres.WithTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM developer_project WHERE developer = $1`, username)
		if err != nil {
			return fmt.Errorf("delete assignments: %w", err)
		}
		removed = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM developer WHERE username = $1`, username)
		if err != nil {
			return fmt.Errorf("delete developer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrDeveloperNotFound
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
