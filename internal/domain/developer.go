package domain

import "time"

// Developer is a person tracked by the roster. GitLabUsername is the handle
// of the same person in GitLab.
type Developer struct {
	Username       string
	GitLabUsername string
	CreatedAt      *time.Time
}
