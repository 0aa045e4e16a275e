package converter

import (
	"context"

	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/pkg/logger"
)

// Notifier tells an assignee about a new task. Delivery is best effort.
type Notifier interface {
	NotifyTaskAssigned(ctx context.Context, event entities.TaskAssignedEvent) error
}

// LogNotifier writes assignment events to the log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.OrNop(log)}
}

// NotifyTaskAssigned logs the event
func (n *LogNotifier) NotifyTaskAssigned(_ context.Context, event entities.TaskAssignedEvent) error {
	n.logger.Info("task.assigned",
		zap.String("task_id", event.TaskID.String()),
		zap.String("assignee_id", event.AssigneeID.String()),
		zap.String("meeting_id", event.MeetingID.String()),
	)
	return nil
}
