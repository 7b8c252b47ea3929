package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	. "github.com/go-ozzo/ozzo-validation"
)

var (
	ErrNotDirective   = errors.New("not a bot directive")
	ErrUnknownCommand = errors.New("unknown command")
)

// ArgumentError reports a known command with missing, extra or invalid
// arguments.
type ArgumentError struct {
	Command Name
	Reason  string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

// Usage returns the usage line of the failed command.
func (e *ArgumentError) Usage() string {
	return Usage(e.Command)
}

// Tokenize splits a chat line into whitespace-separated tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// IsDirective reports whether tokens start with the bot marker.
func IsDirective(tokens []string) bool {
	return len(tokens) > 0 && tokens[0] == Marker
}

// Decode turns a tokenized directive into a Command.
func Decode(tokens []string) (Command, error) {
	if !IsDirective(tokens) {
		return nil, ErrNotDirective
	}
	if len(tokens) < 2 {
		return nil, ErrUnknownCommand
	}

	name := Name(tokens[1])
	s, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, tokens[1])
	}

	args := tokens[2:]
	if len(args) != len(s.args) {
		return nil, &ArgumentError{
			Command: name,
			Reason:  fmt.Sprintf("expected %d argument(s), got %d", len(s.args), len(args)),
		}
	}

	cmd, err := build(name, args)
	if err != nil {
		return nil, &ArgumentError{Command: name, Reason: err.Error()}
	}
	return cmd, nil
}

func build(name Name, args []string) (Command, error) {
	switch name {
	case NameCreateUser:
		cmd := CreateUser{Username: args[0], GitLabUsername: args[1]}
		return cmd, ValidateStruct(&cmd,
			Field(&cmd.Username, identifier()...),
			Field(&cmd.GitLabUsername, identifier()...),
		)
	case NameAddUserToProject:
		impact, err := parseImpact(args[2])
		if err != nil {
			return nil, err
		}
		cmd := AddUserToProject{Username: args[0], ProjectID: args[1], Impact: impact}
		return cmd, ValidateStruct(&cmd,
			Field(&cmd.Username, identifier()...),
			Field(&cmd.ProjectID, identifier()...),
		)
	case NameDeleteUser:
		cmd := DeleteUser{Username: args[0]}
		return cmd, ValidateStruct(&cmd,
			Field(&cmd.Username, identifier()...),
		)
	case NameDeleteUserFromProject:
		cmd := DeleteUserFromProject{Username: args[0], ProjectID: args[1]}
		return cmd, ValidateStruct(&cmd,
			Field(&cmd.Username, identifier()...),
			Field(&cmd.ProjectID, identifier()...),
		)
	case NameListProjectUsers:
		cmd := ListProjectUsers{ProjectID: args[0]}
		return cmd, ValidateStruct(&cmd,
			Field(&cmd.ProjectID, identifier()...),
		)
	case NameHelp:
		return Help{}, nil
	default:
		return nil, ErrUnknownCommand
	}
}

func identifier() []Rule {
	return []Rule{Required, Length(1, 255)}
}

func parseImpact(raw string) (int, error) {
	impact, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("impact must be an integer between %d and %d, got %q", math.MinInt32, math.MaxInt32, raw)
	}
	return int(impact), nil
}
