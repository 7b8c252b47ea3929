// Package events defines the roster's domain events and their in-process
// subscribers.
package events

import "github.com/ZertGraf/roster-bot/internal/domain"

const (
	TopicDeveloperCreated   = "developer:created"
	TopicDeveloperDeleted   = "developer:deleted"
	TopicAssignmentUpserted = "assignment:upserted"
	TopicAssignmentRemoved  = "assignment:removed"
)

// Publisher is the publishing half of the message bus.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

type DeveloperCreated struct {
	Developer domain.Developer
}

type DeveloperDeleted struct {
	Username           string
	RemovedAssignments int64
}

type AssignmentUpserted struct {
	Assignment domain.Assignment
}

type AssignmentRemoved struct {
	Username  string
	ProjectID string
}
