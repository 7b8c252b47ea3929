package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/ZertGraf/roster-bot/internal/domain"
	"github.com/ZertGraf/roster-bot/internal/events"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/ZertGraf/roster-bot/internal/repository"
	. "github.com/go-ozzo/ozzo-validation"
	"math"
)

// RosterService owns the roster operations. Every operation resolves the
// entities it touches first and fails with a not-found error before writing.
type RosterService struct {
	developers  repository.DeveloperRepository
	projects    repository.ProjectRepository
	assignments repository.AssignmentRepository
	publisher   events.Publisher
	logger      *logger.Logger
}

func NewRosterService(
	developers repository.DeveloperRepository,
	projects repository.ProjectRepository,
	assignments repository.AssignmentRepository,
	publisher events.Publisher,
	logger *logger.Logger,
) *RosterService {
	return &RosterService{
		developers:  developers,
		projects:    projects,
		assignments: assignments,
		publisher:   publisher,
		logger:      logger.Component("service/roster"),
	}
}

func (s *RosterService) CreateDeveloper(ctx context.Context, username, gitlabUsername string) (*domain.Developer, error) {
	dev := &domain.Developer{
		Username:       username,
		GitLabUsername: gitlabUsername,
	}
	if err := validateDeveloper(dev); err != nil {
		return nil, err
	}

	exists, err := s.developers.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check developer exists: %w", err)
	}
	if exists {
		return nil, domain.ErrDeveloperExists
	}

	if err := s.developers.Create(ctx, dev); err != nil {
		return nil, fmt.Errorf("create developer: %w", err)
	}

	s.logger.Info("developer created",
		"username", dev.Username,
		"gitlab", dev.GitLabUsername,
	)
	s.publisher.Publish(events.TopicDeveloperCreated, events.DeveloperCreated{Developer: *dev})

	return dev, nil
}

// AssignDeveloper adds the developer to the project, or updates the impact
// if they are already assigned.
func (s *RosterService) AssignDeveloper(ctx context.Context, username, projectID string, impact int) (*domain.Assignment, error) {
	if err := validateImpact(impact); err != nil {
		return nil, err
	}

	dev, err := s.resolveDeveloper(ctx, username)
	if err != nil {
		return nil, err
	}

	project, err := s.resolveProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	assignment := &domain.Assignment{
		Username:  dev.Username,
		ProjectID: project.ProjectID,
		Impact:    impact,
	}
	if err := s.assignments.Upsert(ctx, assignment); err != nil {
		return nil, fmt.Errorf("assign developer: %w", err)
	}

	s.logger.Info("developer assigned",
		"username", dev.Username,
		"project_id", project.ProjectID,
		"impact", impact,
	)
	s.publisher.Publish(events.TopicAssignmentUpserted, events.AssignmentUpserted{Assignment: *assignment})

	return assignment, nil
}

// DeleteDeveloper removes the developer and all of their assignments. It
// returns the number of assignments removed.
func (s *RosterService) DeleteDeveloper(ctx context.Context, username string) (int64, error) {
	dev, err := s.resolveDeveloper(ctx, username)
	if err != nil {
		return 0, err
	}

	removed, err := s.developers.Delete(ctx, dev.Username)
	if err != nil {
		if errors.Is(err, domain.ErrDeveloperNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("delete developer: %w", err)
	}

	s.logger.Info("developer deleted",
		"username", dev.Username,
		"removed_assignments", removed,
	)
	s.publisher.Publish(events.TopicDeveloperDeleted, events.DeveloperDeleted{
		Username:           dev.Username,
		RemovedAssignments: removed,
	})

	return removed, nil
}

func (s *RosterService) UnassignDeveloper(ctx context.Context, username, projectID string) error {
	dev, err := s.resolveDeveloper(ctx, username)
	if err != nil {
		return err
	}

	project, err := s.resolveProject(ctx, projectID)
	if err != nil {
		return err
	}

	if err := s.assignments.Delete(ctx, dev.Username, project.ProjectID); err != nil {
		if errors.Is(err, domain.ErrNotAssigned) {
			return err
		}
		return fmt.Errorf("unassign developer: %w", err)
	}

	s.logger.Info("developer unassigned",
		"username", dev.Username,
		"project_id", project.ProjectID,
	)
	s.publisher.Publish(events.TopicAssignmentRemoved, events.AssignmentRemoved{
		Username:  dev.Username,
		ProjectID: project.ProjectID,
	})

	return nil
}

func (s *RosterService) ProjectDevelopers(ctx context.Context, projectID string) (*domain.ProjectRoster, error) {
	project, err := s.resolveProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByProject(ctx, project.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("list project developers: %w", err)
	}

	s.logger.Debug("project roster retrieved",
		"project_id", project.ProjectID,
		"developers_count", len(assignments),
	)

	return &domain.ProjectRoster{
		ProjectID:   project.ProjectID,
		Assignments: assignments,
	}, nil
}

func (s *RosterService) resolveDeveloper(ctx context.Context, username string) (*domain.Developer, error) {
	dev, err := s.developers.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrDeveloperNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve developer: %w", err)
	}
	return dev, nil
}

func (s *RosterService) resolveProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve project: %w", err)
	}
	return project, nil
}

func validateDeveloper(dev *domain.Developer) error {
	err := ValidateStruct(dev,
		Field(&dev.Username, Required, Length(1, 255)),
		Field(&dev.GitLabUsername, Required, Length(1, 255)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

func validateImpact(impact int) error {
	if err := Validate(impact, Min(math.MinInt32), Max(math.MaxInt32)); err != nil {
		return fmt.Errorf("%w: impact %v", domain.ErrInvalidArgument, err)
	}
	return nil
}
