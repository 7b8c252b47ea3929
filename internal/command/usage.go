package command

import "strings"

type signature struct {
	name Name
	args []string
}

// signatures is ordered as shown by help.
var signatures = []signature{
	{NameCreateUser, []string{"username", "gitlab_username"}},
	{NameAddUserToProject, []string{"username", "project_id", "impact"}},
	{NameDeleteUser, []string{"username"}},
	{NameDeleteUserFromProject, []string{"username", "project_id"}},
	{NameListProjectUsers, []string{"project_id"}},
}

func lookup(name Name) (signature, bool) {
	if name == NameHelp {
		return signature{name: NameHelp}, true
	}
	for _, s := range signatures {
		if s.name == name {
			return s, true
		}
	}
	return signature{}, false
}

func (s signature) usage() string {
	parts := append([]string{Marker, string(s.name)}, s.args...)
	return strings.Join(parts, " ")
}

// Usage returns the usage line of a command, or "" for unknown names.
func Usage(name Name) string {
	s, ok := lookup(name)
	if !ok {
		return ""
	}
	return s.usage()
}

// HelpLines lists the usage of every roster command.
func HelpLines() []string {
	lines := make([]string, 0, len(signatures))
	for _, s := range signatures {
		lines = append(lines, s.usage())
	}
	return lines
}
