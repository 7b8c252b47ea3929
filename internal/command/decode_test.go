package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{"create user", "$bot_api create_new_user alice alice-gl", CreateUser{Username: "alice", GitLabUsername: "alice-gl"}},
		{"add to project", "$bot_api add_user_to_project alice P1 5", AddUserToProject{Username: "alice", ProjectID: "P1", Impact: 5}},
		{"negative impact", "$bot_api add_user_to_project alice P1 -3", AddUserToProject{Username: "alice", ProjectID: "P1", Impact: -3}},
		{"delete user", "$bot_api delete_user bob", DeleteUser{Username: "bob"}},
		{"delete from project", "$bot_api delete_user_from_project bob P1", DeleteUserFromProject{Username: "bob", ProjectID: "P1"}},
		{"list", "$bot_api ger_users_from_project P1", ListProjectUsers{ProjectID: "P1"}},
		{"help", "$bot_api help", Help{}},
		{"extra whitespace", "  $bot_api   delete_user\tbob  ", DeleteUser{Username: "bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(Tokenize(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeNotDirective(t *testing.T) {
	for _, line := range []string{"", "hello there", "bot_api delete_user bob", "$BOT_API delete_user bob"} {
		_, err := Decode(Tokenize(line))
		assert.ErrorIs(t, err, ErrNotDirective, line)
	}
}

func TestDecodeUnknownCommand(t *testing.T) {
	for _, line := range []string{"$bot_api", "$bot_api unknown_cmd", "$bot_api get_users_from_project P1"} {
		_, err := Decode(Tokenize(line))
		assert.ErrorIs(t, err, ErrUnknownCommand, line)
	}
}

func TestDecodeArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		command Name
		reason  string
	}{
		{"missing impact", "$bot_api add_user_to_project alice P1", NameAddUserToProject, "expected 3 argument(s), got 2"},
		{"missing username", "$bot_api delete_user", NameDeleteUser, "expected 1 argument(s), got 0"},
		{"extra argument", "$bot_api delete_user bob alice", NameDeleteUser, "expected 1 argument(s), got 2"},
		{"help with arguments", "$bot_api help me", NameHelp, "expected 0 argument(s), got 1"},
		{"non numeric impact", "$bot_api add_user_to_project alice P1 high", NameAddUserToProject, `impact must be an integer`},
		{"impact overflow", "$bot_api add_user_to_project alice P1 99999999999", NameAddUserToProject, `impact must be an integer`},
		{"username too long", "$bot_api delete_user " + strings.Repeat("x", 256), NameDeleteUser, "Username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(Tokenize(tt.line))

			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tt.command, argErr.Command)
			assert.Contains(t, argErr.Reason, tt.reason)
			assert.Equal(t, Usage(tt.command), argErr.Usage())
		})
	}
}

func TestHelpLines(t *testing.T) {
	assert.Equal(t, []string{
		"$bot_api create_new_user username gitlab_username",
		"$bot_api add_user_to_project username project_id impact",
		"$bot_api delete_user username",
		"$bot_api delete_user_from_project username project_id",
		"$bot_api ger_users_from_project project_id",
	}, HelpLines())
}

func TestUsageUnknown(t *testing.T) {
	assert.Empty(t, Usage("nope"))
	assert.Equal(t, "$bot_api help", Usage(NameHelp))
}
