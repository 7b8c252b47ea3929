package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ZertGraf/roster-bot/internal/command"
	"github.com/ZertGraf/roster-bot/internal/domain"
	"github.com/ZertGraf/roster-bot/internal/metrics"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type rosterMock struct{ mock.Mock }

var _ Roster = (*rosterMock)(nil)

func (m *rosterMock) CreateDeveloper(ctx context.Context, username, gitlabUsername string) (*domain.Developer, error) {
	args := m.Called(ctx, username, gitlabUsername)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Developer), args.Error(1)
}

func (m *rosterMock) AssignDeveloper(ctx context.Context, username, projectID string, impact int) (*domain.Assignment, error) {
	args := m.Called(ctx, username, projectID, impact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *rosterMock) DeleteDeveloper(ctx context.Context, username string) (int64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(int64), args.Error(1)
}

func (m *rosterMock) UnassignDeveloper(ctx context.Context, username, projectID string) error {
	args := m.Called(ctx, username, projectID)
	return args.Error(0)
}

func (m *rosterMock) ProjectDevelopers(ctx context.Context, projectID string) (*domain.ProjectRoster, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectRoster), args.Error(1)
}

func newTestRouter(t *testing.T) (*Router, *rosterMock, *metrics.Metrics) {
	t.Helper()
	roster := &rosterMock{}
	m := metrics.New()
	t.Cleanup(func() { roster.AssertExpectations(t) })
	return New(roster, m, logger.Discard()), roster, m
}

func tokens(line string) []string {
	return command.Tokenize(line)
}

func TestHandleDeleteUnknownUser(t *testing.T) {
	r, roster, m := newTestRouter(t)
	ctx := context.Background()

	roster.On("DeleteDeveloper", ctx, "bob").Return(int64(0), domain.ErrDeveloperNotFound).Once()

	reply := r.Handle(ctx, []string{"$bot_api", "delete_user", "bob"})
	assert.Equal(t, "User bob not found", reply)
	count, err := testutil.GatherAndCount(m.Registry(), "roster_commands_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandleUnknownCommand(t *testing.T) {
	r, _, _ := newTestRouter(t)

	assert.Equal(t, "request error", r.Handle(context.Background(), []string{"$bot_api", "unknown_cmd"}))
	assert.Equal(t, "request error", r.Handle(context.Background(), []string{"$bot_api"}))
}

func TestHandleArgumentError(t *testing.T) {
	r, _, _ := newTestRouter(t)

	reply := r.Handle(context.Background(), tokens("$bot_api add_user_to_project alice P1"))
	assert.Equal(t,
		"request error: expected 3 argument(s), got 2\nusage: $bot_api add_user_to_project username project_id impact",
		reply)

	reply = r.Handle(context.Background(), tokens("$bot_api add_user_to_project alice P1 lots"))
	assert.Contains(t, reply, "request error: impact must be an integer")
}

func TestHandleHelp(t *testing.T) {
	r, _, _ := newTestRouter(t)

	reply := r.Handle(context.Background(), tokens("$bot_api help"))
	assert.Equal(t, "$bot_api create_new_user username gitlab_username\n"+
		"$bot_api add_user_to_project username project_id impact\n"+
		"$bot_api delete_user username\n"+
		"$bot_api delete_user_from_project username project_id\n"+
		"$bot_api ger_users_from_project project_id", reply)
}

func TestHandleReplies(t *testing.T) {
	ctx := context.Background()
	storageErr := fmt.Errorf("create developer: %w", errors.New("connection refused"))

	tests := []struct {
		name  string
		line  string
		setup func(*rosterMock)
		want  string
	}{
		{
			name: "create",
			line: "$bot_api create_new_user alice alice-gl",
			setup: func(m *rosterMock) {
				m.On("CreateDeveloper", ctx, "alice", "alice-gl").Return(&domain.Developer{Username: "alice"}, nil)
			},
			want: "User alice created",
		},
		{
			name: "create conflict",
			line: "$bot_api create_new_user alice alice-gl",
			setup: func(m *rosterMock) {
				m.On("CreateDeveloper", ctx, "alice", "alice-gl").Return(nil, domain.ErrDeveloperExists)
			},
			want: "User alice already exists",
		},
		{
			name: "create storage failure",
			line: "$bot_api create_new_user alice alice-gl",
			setup: func(m *rosterMock) {
				m.On("CreateDeveloper", ctx, "alice", "alice-gl").Return(nil, storageErr)
			},
			want: "internal error: create_new_user failed, try again later",
		},
		{
			name: "add",
			line: "$bot_api add_user_to_project alice P1 5",
			setup: func(m *rosterMock) {
				m.On("AssignDeveloper", ctx, "alice", "P1", 5).Return(&domain.Assignment{}, nil)
			},
			want: "User alice added to project P1",
		},
		{
			name: "add unknown user",
			line: "$bot_api add_user_to_project ghost P1 5",
			setup: func(m *rosterMock) {
				m.On("AssignDeveloper", ctx, "ghost", "P1", 5).Return(nil, domain.ErrDeveloperNotFound)
			},
			want: "User ghost not found",
		},
		{
			name: "add unknown project",
			line: "$bot_api add_user_to_project alice P404 5",
			setup: func(m *rosterMock) {
				m.On("AssignDeveloper", ctx, "alice", "P404", 5).Return(nil, domain.ErrProjectNotFound)
			},
			want: "Project P404 not found",
		},
		{
			name: "delete",
			line: "$bot_api delete_user alice",
			setup: func(m *rosterMock) {
				m.On("DeleteDeveloper", ctx, "alice").Return(int64(2), nil)
			},
			want: "User alice removed",
		},
		{
			name: "delete from project",
			line: "$bot_api delete_user_from_project alice P1",
			setup: func(m *rosterMock) {
				m.On("UnassignDeveloper", ctx, "alice", "P1").Return(nil)
			},
			want: "User alice removed from P1 project",
		},
		{
			name: "delete from project not assigned",
			line: "$bot_api delete_user_from_project alice P1",
			setup: func(m *rosterMock) {
				m.On("UnassignDeveloper", ctx, "alice", "P1").Return(domain.ErrNotAssigned)
			},
			want: "User alice is not assigned to project P1",
		},
		{
			name: "list",
			line: "$bot_api ger_users_from_project P1",
			setup: func(m *rosterMock) {
				m.On("ProjectDevelopers", ctx, "P1").Return(&domain.ProjectRoster{
					ProjectID: "P1",
					Assignments: []*domain.Assignment{
						{Username: "bob", ProjectID: "P1", Impact: 9},
						{Username: "alice", ProjectID: "P1", Impact: 5},
					},
				}, nil)
			},
			want: "Users in the project P1:\nbob\nalice",
		},
		{
			name: "list empty",
			line: "$bot_api ger_users_from_project P2",
			setup: func(m *rosterMock) {
				m.On("ProjectDevelopers", ctx, "P2").Return(&domain.ProjectRoster{ProjectID: "P2"}, nil)
			},
			want: "Users in the project P2:",
		},
		{
			name: "list unknown project",
			line: "$bot_api ger_users_from_project P404",
			setup: func(m *rosterMock) {
				m.On("ProjectDevelopers", ctx, "P404").Return(nil, domain.ErrProjectNotFound)
			},
			want: "Project P404 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, roster, _ := newTestRouter(t)
			tt.setup(roster)

			require.Equal(t, tt.want, r.Handle(ctx, tokens(tt.line)))
		})
	}
}

func TestExecuteRecordsOutcome(t *testing.T) {
	r, roster, m := newTestRouter(t)
	ctx := context.Background()

	roster.On("UnassignDeveloper", ctx, "alice", "P1").Return(errors.New("disk I/O error")).Once()
	roster.On("UnassignDeveloper", ctx, "bob", "P1").Return(domain.ErrProjectNotFound).Once()

	r.Execute(ctx, command.DeleteUserFromProject{Username: "alice", ProjectID: "P1"})
	r.Execute(ctx, command.DeleteUserFromProject{Username: "bob", ProjectID: "P1"})

	count, err := testutil.GatherAndCount(m.Registry(), "roster_commands_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
