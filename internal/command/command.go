// Package command decodes bot directives into typed commands.
//
// A directive is a single chat line:
//
//	$bot_api <command> [args...]
//
// Decoding is separate from execution: Decode either returns one of the
// command variants below with validated arguments, or an error describing why
// the line could not be understood.
package command

// Marker is the first token of every directive.
const Marker = "$bot_api"

// Name is the wire name of a command.
type Name string

const (
	NameCreateUser            Name = "create_new_user"
	NameAddUserToProject      Name = "add_user_to_project"
	NameDeleteUser            Name = "delete_user"
	NameDeleteUserFromProject Name = "delete_user_from_project"
	// the list command keeps its historical spelling
	NameListProjectUsers Name = "ger_users_from_project"
	NameHelp             Name = "help"
)

// Command is implemented only by the variants in this package.
type Command interface {
	Name() Name
	isCommand()
}

type CreateUser struct {
	Username       string
	GitLabUsername string
}

type AddUserToProject struct {
	Username  string
	ProjectID string
	Impact    int
}

type DeleteUser struct {
	Username string
}

type DeleteUserFromProject struct {
	Username  string
	ProjectID string
}

type ListProjectUsers struct {
	ProjectID string
}

type Help struct{}

func (CreateUser) Name() Name            { return NameCreateUser }
func (AddUserToProject) Name() Name      { return NameAddUserToProject }
func (DeleteUser) Name() Name            { return NameDeleteUser }
func (DeleteUserFromProject) Name() Name { return NameDeleteUserFromProject }
func (ListProjectUsers) Name() Name      { return NameListProjectUsers }
func (Help) Name() Name                  { return NameHelp }

func (CreateUser) isCommand()            {}
func (AddUserToProject) isCommand()      {}
func (DeleteUser) isCommand()            {}
func (DeleteUserFromProject) isCommand() {}
func (ListProjectUsers) isCommand()      {}
func (Help) isCommand()                  {}
