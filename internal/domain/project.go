package domain

// Project is created outside the bot; the roster only checks that it exists.
type Project struct {
	ProjectID string
}

// ProjectRoster lists the developers assigned to a project, highest impact first.
type ProjectRoster struct {
	ProjectID   string
	Assignments []*Assignment
}

func (r *ProjectRoster) Usernames() []string {
	names := make([]string, 0, len(r.Assignments))
	for _, a := range r.Assignments {
		names = append(names, a.Username)
	}
	return names
}
