// Package sqlite implements the roster repositories on top of gorm for the
// embedded SQLite backend.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ZertGraf/roster-bot/internal/domain"
	"gorm.io/gorm"
)

type developerModel struct {
	Username  string    `gorm:"column:username;primaryKey"`
	GitLab    string    `gorm:"column:gitlab;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (developerModel) TableName() string { return "developer" }

func (m developerModel) toDomain() *domain.Developer {
	createdAt := m.CreatedAt
	return &domain.Developer{
		Username:       m.Username,
		GitLabUsername: m.GitLab,
		CreatedAt:      &createdAt,
	}
}

type projectModel struct {
	ProjectID string `gorm:"column:project_id;primaryKey"`
}

func (projectModel) TableName() string { return "project" }

type assignmentModel struct {
	Developer string `gorm:"column:developer;primaryKey"`
	Project   string `gorm:"column:project;primaryKey;index:developer_project_project_idx"`
	Impact    int    `gorm:"column:impact;not null;default:0"`

	DeveloperRef developerModel `gorm:"foreignKey:Developer;references:Username;constraint:OnDelete:CASCADE"`
	ProjectRef   projectModel   `gorm:"foreignKey:Project;references:ProjectID;constraint:OnDelete:CASCADE"`
}

func (assignmentModel) TableName() string { return "developer_project" }

func (m assignmentModel) toDomain() *domain.Assignment {
	return &domain.Assignment{
		Username:  m.Developer,
		ProjectID: m.Project,
		Impact:    m.Impact,
	}
}

// Migrate creates or updates the roster tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&developerModel{}, &projectModel{}, &assignmentModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedProjects inserts project rows that don't exist yet. Projects are owned
// by an outside process; this exists for local setups and tests.
func SeedProjects(ctx context.Context, db *gorm.DB, projectIDs ...string) error {
	for _, id := range projectIDs {
		if err := db.WithContext(ctx).FirstOrCreate(&projectModel{}, projectModel{ProjectID: id}).Error; err != nil {
			return fmt.Errorf("seed project %s: %w", id, err)
		}
	}
	return nil
}
