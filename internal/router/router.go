// Package router executes decoded commands against the roster and renders
// the outcome as chat text.
package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZertGraf/roster-bot/internal/command"
	"github.com/ZertGraf/roster-bot/internal/domain"
	"github.com/ZertGraf/roster-bot/internal/metrics"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
)

// Roster is the set of roster operations the router dispatches to.
type Roster interface {
	CreateDeveloper(ctx context.Context, username, gitlabUsername string) (*domain.Developer, error)
	AssignDeveloper(ctx context.Context, username, projectID string, impact int) (*domain.Assignment, error)
	DeleteDeveloper(ctx context.Context, username string) (int64, error)
	UnassignDeveloper(ctx context.Context, username, projectID string) error
	ProjectDevelopers(ctx context.Context, projectID string) (*domain.ProjectRoster, error)
}

// Router is stateless apart from its dependencies; every call is independent.
type Router struct {
	roster  Roster
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func New(roster Roster, metrics *metrics.Metrics, logger *logger.Logger) *Router {
	return &Router{
		roster:  roster,
		metrics: metrics,
		logger:  logger.Component("router"),
	}
}

// Handle decodes a tokenized directive and executes it. It always returns a
// reply; failures are rendered as text.
func (r *Router) Handle(ctx context.Context, tokens []string) string {
	cmd, err := command.Decode(tokens)
	if err != nil {
		return r.rejected(tokens, err)
	}
	return r.Execute(ctx, cmd)
}

// Execute runs a decoded command.
func (r *Router) Execute(ctx context.Context, cmd command.Command) string {
	start := time.Now()

	reply, err := r.dispatch(ctx, cmd)
	if err != nil {
		reply = renderError(cmd, err)
	}

	outcome := outcomeOf(err)
	r.metrics.ObserveCommand(string(cmd.Name()), outcome, time.Since(start))

	if outcome == outcomeError {
		r.logger.ErrorContext(ctx, "command failed",
			"command", cmd.Name(),
			"error", err,
		)
	} else {
		r.logger.DebugContext(ctx, "command handled",
			"command", cmd.Name(),
			"outcome", outcome,
		)
	}

	return reply
}

func (r *Router) dispatch(ctx context.Context, cmd command.Command) (string, error) {
	switch c := cmd.(type) {
	case command.CreateUser:
		if _, err := r.roster.CreateDeveloper(ctx, c.Username, c.GitLabUsername); err != nil {
			return "", err
		}
		return fmt.Sprintf("User %s created", c.Username), nil

	case command.AddUserToProject:
		if _, err := r.roster.AssignDeveloper(ctx, c.Username, c.ProjectID, c.Impact); err != nil {
			return "", err
		}
		return fmt.Sprintf("User %s added to project %s", c.Username, c.ProjectID), nil

	case command.DeleteUser:
		if _, err := r.roster.DeleteDeveloper(ctx, c.Username); err != nil {
			return "", err
		}
		return fmt.Sprintf("User %s removed", c.Username), nil

	case command.DeleteUserFromProject:
		if err := r.roster.UnassignDeveloper(ctx, c.Username, c.ProjectID); err != nil {
			return "", err
		}
		return fmt.Sprintf("User %s removed from %s project", c.Username, c.ProjectID), nil

	case command.ListProjectUsers:
		roster, err := r.roster.ProjectDevelopers(ctx, c.ProjectID)
		if err != nil {
			return "", err
		}
		return renderRoster(roster), nil

	case command.Help:
		return renderHelp(), nil

	default:
		return "", fmt.Errorf("%w: %T", command.ErrUnknownCommand, cmd)
	}
}

func (r *Router) rejected(tokens []string, err error) string {
	name := "unknown"
	var argErr *command.ArgumentError
	if errors.As(err, &argErr) {
		name = string(argErr.Command)
	}

	r.metrics.ObserveCommand(name, outcomeInvalid, 0)
	r.logger.Debug("command rejected", "tokens", len(tokens), "error", err)

	return renderDecodeError(err)
}
