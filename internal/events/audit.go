package events

import (
	"fmt"

	"github.com/ZertGraf/roster-bot/internal/metrics"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	messagebus "github.com/vardius/message-bus"
)

// Audit records every roster change in the log and in metrics.
type Audit struct {
	logger  *logger.Logger
	metrics *metrics.Metrics

	// handlers keeps the exact func values handed to the bus; Unsubscribe
	// matches on them.
	handlers map[string]interface{}
}

func NewAudit(logger *logger.Logger, metrics *metrics.Metrics) *Audit {
	a := &Audit{
		logger:  logger.Component("events/audit"),
		metrics: metrics,
	}
	a.handlers = map[string]interface{}{
		TopicDeveloperCreated:   a.developerCreated,
		TopicDeveloperDeleted:   a.developerDeleted,
		TopicAssignmentUpserted: a.assignmentUpserted,
		TopicAssignmentRemoved:  a.assignmentRemoved,
	}
	return a
}

// Register subscribes the audit handlers to bus.
func (a *Audit) Register(bus messagebus.MessageBus) error {
	for topic, fn := range a.handlers {
		if err := bus.Subscribe(topic, fn); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	return nil
}

// Unregister removes the audit handlers from bus.
func (a *Audit) Unregister(bus messagebus.MessageBus) {
	for topic, fn := range a.handlers {
		if err := bus.Unsubscribe(topic, fn); err != nil {
			a.logger.Warn("failed to unsubscribe", "topic", topic, "error", err)
		}
	}
}

func (a *Audit) developerCreated(e DeveloperCreated) {
	a.metrics.ObserveEvent(TopicDeveloperCreated)
	a.logger.Info("developer created",
		"username", e.Developer.Username,
		"gitlab", e.Developer.GitLabUsername,
	)
}

func (a *Audit) developerDeleted(e DeveloperDeleted) {
	a.metrics.ObserveEvent(TopicDeveloperDeleted)
	a.logger.Info("developer deleted",
		"username", e.Username,
		"removed_assignments", e.RemovedAssignments,
	)
}

func (a *Audit) assignmentUpserted(e AssignmentUpserted) {
	a.metrics.ObserveEvent(TopicAssignmentUpserted)
	a.logger.Info("developer assigned",
		"username", e.Assignment.Username,
		"project_id", e.Assignment.ProjectID,
		"impact", e.Assignment.Impact,
	)
}

func (a *Audit) assignmentRemoved(e AssignmentRemoved) {
	a.metrics.ObserveEvent(TopicAssignmentRemoved)
	a.logger.Info("developer unassigned",
		"username", e.Username,
		"project_id", e.ProjectID,
	)
}
