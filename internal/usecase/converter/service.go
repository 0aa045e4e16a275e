package converter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/errors"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/repositories"
	"github.com/FizzahNasir/FYP-Synkro/pkg/logger"
)

const notifyTimeout = 10 * time.Second

// Service turns pending action items into tasks or rejects them
type Service struct {
	meetings repositories.MeetingRepository
	items    repositories.ActionItemRepository
	members  repositories.TeamMemberRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a converter. notifier may be nil.
func NewService(
	meetings repositories.MeetingRepository,
	items repositories.ActionItemRepository,
	members repositories.TeamMemberRepository,
	notifier Notifier,
	log *zap.Logger,
) *Service {
	return &Service{
		meetings: meetings,
		items:    items,
		members:  members,
		notifier: notifier,
		logger:   logger.OrNop(log),
	}
}

// Convert creates a task from a pending action item and marks the item
// converted in the same transaction
func (s *Service) Convert(ctx context.Context, actor entities.Actor, meetingID, itemID uuid.UUID) (*entities.Task, error) {
	item, err := s.pendingItem(ctx, actor, meetingID, itemID)
	if err != nil {
		return nil, err
	}

	var mention string
	if item.AssigneeMentioned != nil {
		mention = *item.AssigneeMentioned
	}
	assigneeID, err := s.ResolveAssignee(ctx, actor.TeamID, mention)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("resolve assignee", err)
	}

	task := entities.NewTaskFromActionItem(item, actor.TeamID, actor.UserID, assigneeID)

	ok, err := s.items.Convert(ctx, meetingID, itemID, task)
	if err != nil {
		return nil, errors.ErrDBTransactionFailed(err)
	}
	if !ok {
		return nil, s.invalidState(ctx, meetingID, itemID)
	}

	s.logger.Info("action_item.converted",
		zap.String("meeting_id", meetingID.String()),
		zap.String("item_id", itemID.String()),
		zap.String("task_id", task.ID.String()),
		zap.Bool("assigned", assigneeID != nil),
	)

	if assigneeID != nil {
		s.notify(ctx, actor, task)
	}
	return task, nil
}

// Reject marks a pending action item rejected
func (s *Service) Reject(ctx context.Context, actor entities.Actor, meetingID, itemID uuid.UUID) error {
	if _, err := s.pendingItem(ctx, actor, meetingID, itemID); err != nil {
		return err
	}

	ok, err := s.items.Reject(ctx, meetingID, itemID)
	if err != nil {
		return errors.ErrDBQueryFailed("reject action item", err)
	}
	if !ok {
		return s.invalidState(ctx, meetingID, itemID)
	}

	s.logger.Info("action_item.rejected",
		zap.String("meeting_id", meetingID.String()),
		zap.String("item_id", itemID.String()),
	)
	return nil
}

// List returns the action items of a meeting visible to the actor
func (s *Service) List(ctx context.Context, actor entities.Actor, meetingID uuid.UUID) ([]*entities.ActionItem, error) {
	if _, err := s.visibleMeeting(ctx, actor, meetingID); err != nil {
		return nil, err
	}
	items, err := s.items.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list action items", err)
	}
	return items, nil
}

// ResolveAssignee matches a mentioned name or email against the team. Only a
// single unambiguous match is returned; zero or several matches yield nil.
func (s *Service) ResolveAssignee(ctx context.Context, teamID uuid.UUID, mention string) (*uuid.UUID, error) {
	mention = strings.TrimSpace(mention)
	if mention == "" {
		return nil, nil
	}

	members, err := s.members.SearchByNameOrEmail(ctx, teamID, mention, 2)
	if err != nil {
		return nil, err
	}
	if len(members) != 1 {
		s.logger.Debug("assignee.unresolved",
			zap.String("mention", mention),
			zap.Int("matches", len(members)),
		)
		return nil, nil
	}

	id := members[0].ID
	return &id, nil
}

func (s *Service) visibleMeeting(ctx context.Context, actor entities.Actor, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("find meeting", err)
	}
	// Meetings of other teams are reported as missing.
	if meeting == nil || meeting.TeamID != actor.TeamID {
		return nil, errors.ErrNotFound("Meeting")
	}
	return meeting, nil
}

func (s *Service) pendingItem(ctx context.Context, actor entities.Actor, meetingID, itemID uuid.UUID) (*entities.ActionItem, error) {
	if _, err := s.visibleMeeting(ctx, actor, meetingID); err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, meetingID, itemID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("find action item", err)
	}
	if item == nil {
		return nil, errors.ErrNotFound("Action item")
	}
	if item.IsTerminal() {
		return nil, errors.ErrActionItemInvalidState(itemID.String(), string(item.Status))
	}
	return item, nil
}

// invalidState reports a lost race with the item's current status
func (s *Service) invalidState(ctx context.Context, meetingID, itemID uuid.UUID) error {
	current := "unknown"
	if item, err := s.items.FindByID(ctx, meetingID, itemID); err == nil && item != nil {
		current = string(item.Status)
	}
	return errors.ErrActionItemInvalidState(itemID.String(), current)
}

func (s *Service) notify(ctx context.Context, actor entities.Actor, task *entities.Task) {
	if s.notifier == nil || task.AssigneeID == nil {
		return
	}

	event := entities.TaskAssignedEvent{
		TaskID:     task.ID,
		TeamID:     task.TeamID,
		AssigneeID: *task.AssigneeID,
		Title:      task.Title,
		AssignedBy: actor.UserID,
		OccurredAt: time.Now().UTC(),
	}
	if id, err := uuid.Parse(task.SourceID); err == nil {
		event.MeetingID = id
	}
	if task.DueDate != nil {
		due := time.Time(*task.DueDate)
		event.DueDate = &due
	}

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyTaskAssigned(notifyCtx, event); err != nil {
			s.logger.Warn("task.notify_failed",
				zap.String("task_id", event.TaskID.String()),
				zap.Error(err),
			)
		}
	}()
}
