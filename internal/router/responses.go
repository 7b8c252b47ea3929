package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZertGraf/roster-bot/internal/command"
	"github.com/ZertGraf/roster-bot/internal/domain"
)

const requestError = "request error"

const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeConflict = "conflict"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrDeveloperNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrNotAssigned):
		return outcomeNotFound
	case errors.Is(err, domain.ErrDeveloperExists):
		return outcomeConflict
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, command.ErrUnknownCommand):
		return outcomeInvalid
	default:
		return outcomeError
	}
}

// renderError maps a failed command to its reply. Anything that isn't a
// domain error is a storage failure and gets a generic reply.
func renderError(cmd command.Command, err error) string {
	username, projectID := subjects(cmd)

	switch {
	case errors.Is(err, domain.ErrDeveloperExists):
		return fmt.Sprintf("User %s already exists", username)
	case errors.Is(err, domain.ErrDeveloperNotFound):
		return fmt.Sprintf("User %s not found", username)
	case errors.Is(err, domain.ErrProjectNotFound):
		return fmt.Sprintf("Project %s not found", projectID)
	case errors.Is(err, domain.ErrNotAssigned):
		return fmt.Sprintf("User %s is not assigned to project %s", username, projectID)
	case errors.Is(err, domain.ErrInvalidArgument):
		return fmt.Sprintf("%s: %v", requestError, err)
	case errors.Is(err, command.ErrUnknownCommand):
		return requestError
	default:
		return fmt.Sprintf("internal error: %s failed, try again later", cmd.Name())
	}
}

func renderDecodeError(err error) string {
	var argErr *command.ArgumentError
	if errors.As(err, &argErr) {
		return fmt.Sprintf("%s: %s\nusage: %s", requestError, argErr.Reason, argErr.Usage())
	}
	return requestError
}

func renderRoster(roster *domain.ProjectRoster) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Users in the project %s:", roster.ProjectID)
	for _, name := range roster.Usernames() {
		b.WriteString("\n")
		b.WriteString(name)
	}
	return b.String()
}

func renderHelp() string {
	return strings.Join(command.HelpLines(), "\n")
}

func subjects(cmd command.Command) (username, projectID string) {
	switch c := cmd.(type) {
	case command.CreateUser:
		return c.Username, ""
	case command.AddUserToProject:
		return c.Username, c.ProjectID
	case command.DeleteUser:
		return c.Username, ""
	case command.DeleteUserFromProject:
		return c.Username, c.ProjectID
	case command.ListProjectUsers:
		return "", c.ProjectID
	}
	return "", ""
}
