package repository

import (
	"context"
	"github.com/ZertGraf/roster-bot/internal/domain"
)

// DeveloperRepository - интерфейс для работы с разработчиками
type DeveloperRepository interface {
	Exists(ctx context.Context, username string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*domain.Developer, error)
	Create(ctx context.Context, dev *domain.Developer) error
	// Delete удаляет разработчика вместе со всеми назначениями,
	// возвращает число удаленных назначений
	Delete(ctx context.Context, username string) (int64, error)
}

// ProjectRepository - только чтение, проекты заводятся вне бота
type ProjectRepository interface {
	GetByID(ctx context.Context, projectID string) (*domain.Project, error)
}

// AssignmentRepository - интерфейс для работы с назначениями на проекты
type AssignmentRepository interface {
	Upsert(ctx context.Context, assignment *domain.Assignment) error
	Delete(ctx context.Context, username, projectID string) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error)
}
