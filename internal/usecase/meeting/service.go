package meeting

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/errors"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/repositories"
	"github.com/FizzahNasir/FYP-Synkro/pkg/logger"
	"github.com/FizzahNasir/FYP-Synkro/pkg/validator"
)

const artifactPrefix = "meetings/"

// ArtifactStore is the subset of artifact storage the service needs
type ArtifactStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Scheduler queues pipeline runs
type Scheduler interface {
	Enqueue(ctx context.Context, meetingID uuid.UUID) error
	RequestRetry(ctx context.Context, meetingID uuid.UUID) error
}

// UploadInput is a recording received from a client
type UploadInput struct {
	Title       string
	Filename    string
	ContentType string
	Data        []byte
}

// Service manages meeting records on behalf of team members
type Service struct {
	meetings  repositories.MeetingRepository
	artifacts ArtifactStore
	scheduler Scheduler
	maxBytes  int64
	logger    *zap.Logger
}

// NewService creates a meeting service
func NewService(
	meetings repositories.MeetingRepository,
	artifacts ArtifactStore,
	scheduler Scheduler,
	maxBytes int64,
	log *zap.Logger,
) *Service {
	return &Service{
		meetings:  meetings,
		artifacts: artifacts,
		scheduler: scheduler,
		maxBytes:  maxBytes,
		logger:    logger.OrNop(log),
	}
}

// Upload stores the recording, creates the meeting and queues its first run
func (s *Service) Upload(ctx context.Context, actor entities.Actor, input UploadInput) (*entities.Meeting, error) {
	ext := strings.ToLower(filepath.Ext(input.Filename))
	if !validator.IsAllowedAudio(input.Filename) {
		return nil, errors.ErrUnsupportedMedia(ext, validator.AllowedAudioExtensions)
	}
	if len(input.Data) == 0 {
		return nil, errors.ErrInvalidArgument("Uploaded file is empty")
	}
	if s.maxBytes > 0 && int64(len(input.Data)) > s.maxBytes {
		return nil, errors.ErrPayloadTooLarge(int64(len(input.Data)), s.maxBytes)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(input.Filename), filepath.Ext(input.Filename))
	}

	ref, err := s.artifacts.Put(ctx, artifactPrefix+uuid.NewString()+ext, input.Data, input.ContentType)
	if err != nil {
		return nil, errors.ErrStorageFailed("put", err)
	}

	meeting, err := entities.NewMeeting(actor.TeamID, actor.UserID, title, ref)
	if err != nil {
		s.discardArtifact(ctx, ref)
		return nil, errors.ErrInvalidArgument(err.Error())
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		s.discardArtifact(ctx, ref)
		return nil, errors.ErrDBQueryFailed("create meeting", err)
	}

	s.logger.Info("meeting.uploaded",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("artifact_ref", ref),
		zap.Int("size_bytes", len(input.Data)),
	)

	// The meeting stays uploaded when queueing fails and can be run later.
	if err := s.scheduler.Enqueue(ctx, meeting.ID); err != nil {
		return meeting, err
	}
	return meeting, nil
}

// List returns the actor's team meetings, newest first
func (s *Service) List(ctx context.Context, actor entities.Actor, statuses []entities.MeetingStatus, limit, offset int) ([]*entities.Meeting, error) {
	teamID := actor.TeamID
	meetings, err := s.meetings.List(ctx, repositories.MeetingFilters{
		TeamID:   &teamID,
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list meetings", err)
	}
	return meetings, nil
}

// Get returns a meeting with its action items
func (s *Service) Get(ctx context.Context, actor entities.Actor, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByIDWithItems(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("find meeting", err)
	}
	if meeting == nil || meeting.TeamID != actor.TeamID {
		return nil, errors.ErrNotFound("Meeting")
	}
	return meeting, nil
}

// Rename changes the title of a team meeting. Transcript and summary are
// pipeline outputs and cannot be edited.
func (s *Service) Rename(ctx context.Context, actor entities.Actor, meetingID uuid.UUID, title string) (*entities.Meeting, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.ErrInvalidArgument("Title must not be empty")
	}
	if _, err := s.visible(ctx, actor, meetingID); err != nil {
		return nil, err
	}

	ok, err := s.meetings.UpdateTitle(ctx, meetingID, title)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("update meeting", err)
	}
	if !ok {
		return nil, errors.ErrNotFound("Meeting")
	}
	s.logger.Info("meeting.renamed", zap.String("meeting_id", meetingID.String()))
	return s.Get(ctx, actor, meetingID)
}

// Retry queues a new run of a failed meeting
func (s *Service) Retry(ctx context.Context, actor entities.Actor, meetingID uuid.UUID) error {
	if _, err := s.visible(ctx, actor, meetingID); err != nil {
		return err
	}
	return s.scheduler.RequestRetry(ctx, meetingID)
}

// Delete removes a meeting that no run owns, then its recording
func (s *Service) Delete(ctx context.Context, actor entities.Actor, meetingID uuid.UUID) error {
	meeting, err := s.visible(ctx, actor, meetingID)
	if err != nil {
		return err
	}

	ok, err := s.meetings.Delete(ctx, meetingID)
	if err != nil {
		return errors.ErrDBQueryFailed("delete meeting", err)
	}
	if !ok {
		current := meeting.Status
		if fresh, ferr := s.meetings.FindByID(ctx, meetingID); ferr == nil && fresh != nil {
			current = fresh.Status
		}
		return errors.ErrMeetingInvalidState(meetingID.String(), string(current),
			string(entities.MeetingStatusUploaded), string(entities.MeetingStatusCompleted), string(entities.MeetingStatusFailed))
	}

	s.discardArtifact(ctx, meeting.ArtifactRef)
	s.logger.Info("meeting.deleted", zap.String("meeting_id", meetingID.String()))
	return nil
}

func (s *Service) visible(ctx context.Context, actor entities.Actor, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("find meeting", err)
	}
	if meeting == nil || meeting.TeamID != actor.TeamID {
		return nil, errors.ErrNotFound("Meeting")
	}
	return meeting, nil
}

// discardArtifact is best effort
func (s *Service) discardArtifact(ctx context.Context, ref string) {
	if err := s.artifacts.Delete(context.WithoutCancel(ctx), ref); err != nil {
		s.logger.Warn("meeting.artifact_delete_failed", zap.String("artifact_ref", ref), zap.Error(err))
	}
}
