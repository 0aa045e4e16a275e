package pipeline

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/errors"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/repositories"
	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
	"github.com/FizzahNasir/FYP-Synkro/pkg/jobcontext"
	"github.com/FizzahNasir/FYP-Synkro/pkg/logger"
)

const (
	defaultMaxArtifactBytes = 25 * 1024 * 1024
	defaultStageTimeout     = 10 * time.Minute
	defaultFinalizeTimeout  = 30 * time.Second
	maxFailureMessageLength = 1000
)

// Options tunes a pipeline run. Zero values fall back to defaults.
type Options struct {
	AcceptThreshold  float64
	MaxArtifactBytes int64
	MaxDuration      time.Duration
	StageTimeout     time.Duration
	FinalizeTimeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.AcceptThreshold <= 0 {
		o.AcceptThreshold = entities.DefaultAcceptThreshold
	}
	if o.MaxArtifactBytes <= 0 {
		o.MaxArtifactBytes = defaultMaxArtifactBytes
	}
	if o.StageTimeout <= 0 {
		o.StageTimeout = defaultStageTimeout
	}
	if o.FinalizeTimeout <= 0 {
		o.FinalizeTimeout = defaultFinalizeTimeout
	}
	return o
}

// Orchestrator drives a meeting through transcription, summarization and
// action item extraction
type Orchestrator struct {
	meetings    repositories.MeetingRepository
	artifacts   ArtifactStore
	transcriber TranscriptionEngine
	summarizer  SummarizationEngine
	prober      DurationProber
	dispatcher  Dispatcher
	opts        Options
	logger      *zap.Logger
}

// NewOrchestrator constructs an orchestrator. prober may be nil.
func NewOrchestrator(
	meetings repositories.MeetingRepository,
	artifacts ArtifactStore,
	transcriber TranscriptionEngine,
	summarizer SummarizationEngine,
	prober DurationProber,
	opts Options,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		meetings:    meetings,
		artifacts:   artifacts,
		transcriber: transcriber,
		summarizer:  summarizer,
		prober:      prober,
		opts:        opts.withDefaults(),
		logger:      logger.OrNop(log),
	}
}

// SetDispatcher wires the dispatcher used by Enqueue and RequestRetry
func (o *Orchestrator) SetDispatcher(d Dispatcher) {
	o.dispatcher = d
}

// Run processes an uploaded (or failed) meeting end to end. Once the meeting
// is claimed, Run never returns with it left in an in-flight status.
func (o *Orchestrator) Run(ctx context.Context, meetingID uuid.UUID) error {
	return o.claimAndExecute(ctx, meetingID, entities.JobKindRun,
		entities.MeetingStatusUploaded, entities.MeetingStatusFailed)
}

// Retry re-runs a failed meeting from the artifact fetch onwards
func (o *Orchestrator) Retry(ctx context.Context, meetingID uuid.UUID) error {
	return o.claimAndExecute(ctx, meetingID, entities.JobKindRetry, entities.MeetingStatusFailed)
}

// Enqueue schedules a run without waiting for it
func (o *Orchestrator) Enqueue(ctx context.Context, meetingID uuid.UUID) error {
	return o.dispatch(ctx, entities.NewPipelineJob(meetingID, entities.JobKindRun))
}

// RequestRetry checks that the meeting is failed and schedules a retry
func (o *Orchestrator) RequestRetry(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := o.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return errors.ErrInternal(err)
	}
	if meeting == nil {
		return errors.ErrNotFound("Meeting")
	}
	if meeting.Status != entities.MeetingStatusFailed {
		return errors.ErrMeetingInvalidState(meetingID.String(), string(meeting.Status), string(entities.MeetingStatusFailed))
	}
	return o.dispatch(ctx, entities.NewPipelineJob(meetingID, entities.JobKindRetry))
}

// HandleJob executes a dispatched job. It is the Handler given to workers.
func (o *Orchestrator) HandleJob(ctx context.Context, job entities.PipelineJob) error {
	switch job.Kind {
	case entities.JobKindRun:
		return o.Run(ctx, job.MeetingID)
	case entities.JobKindRetry:
		return o.Retry(ctx, job.MeetingID)
	default:
		return errors.ErrInvalidArgument(fmt.Sprintf("unknown job kind %q", job.Kind))
	}
}

func (o *Orchestrator) dispatch(ctx context.Context, job entities.PipelineJob) error {
	if o.dispatcher == nil {
		return errors.ErrQueueFailed("dispatch", usecaseErrors.ErrDispatcherClosed)
	}
	if err := o.dispatcher.Dispatch(ctx, job); err != nil {
		return errors.ErrQueueFailed("dispatch", err)
	}
	o.logger.Info("pipeline.job.enqueued",
		zap.String("meeting_id", job.MeetingID.String()),
		zap.String("job_kind", string(job.Kind)),
	)
	return nil
}

func (o *Orchestrator) claimAndExecute(ctx context.Context, meetingID uuid.UUID, kind entities.JobKind, from ...entities.MeetingStatus) error {
	meeting, err := o.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return errors.ErrInternal(err)
	}
	if meeting == nil {
		return errors.ErrNotFound("Meeting")
	}

	claimed, err := o.meetings.Claim(ctx, meetingID, from...)
	if err != nil {
		return errors.ErrInternal(err)
	}
	if !claimed {
		current := meeting.Status
		if fresh, ferr := o.meetings.FindByID(ctx, meetingID); ferr == nil && fresh != nil {
			current = fresh.Status
		}
		return errors.ErrMeetingInvalidState(meetingID.String(), string(current), statusNames(from)...)
	}

	o.logger.Info("pipeline.run.claimed",
		zap.String("meeting_id", meetingID.String()),
		zap.String("job_kind", string(kind)),
		zap.String("previous_status", string(meeting.Status)),
	)

	return o.execute(ctx, meeting)
}

// execute runs the stages of a claimed meeting and records any failure
func (o *Orchestrator) execute(ctx context.Context, meeting *entities.Meeting) error {
	started := time.Now()

	err := jobcontext.JobEnd(ctx, func(ctx context.Context) error {
		return o.process(ctx, meeting)
	})
	if err == nil {
		o.logger.Info("pipeline.run.completed",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Duration("elapsed", time.Since(started)),
		)
		return nil
	}

	var panicErr *jobcontext.PanicError
	if stdErrors.As(err, &panicErr) {
		o.logger.Error("pipeline.run.panic",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Any("panic", panicErr.Value),
			zap.ByteString("stack", panicErr.Stack),
		)
		err = errors.ErrInternal(panicErr)
	}

	o.fail(ctx, meeting.ID, err)
	return err
}

func (o *Orchestrator) process(ctx context.Context, meeting *entities.Meeting) error {
	log := o.logger.With(zap.String("meeting_id", meeting.ID.String()))

	data, err := o.fetchArtifact(ctx, meeting.ArtifactRef)
	if err != nil {
		return err
	}
	if int64(len(data)) > o.opts.MaxArtifactBytes {
		return errors.ErrPayloadTooLarge(int64(len(data)), o.opts.MaxArtifactBytes)
	}

	duration := o.probeDuration(ctx, data, log)
	if err := o.checkDuration(duration); err != nil {
		return err
	}

	transcription, err := o.transcribe(ctx, meeting, data)
	if err != nil {
		return err
	}
	if duration == nil && transcription.DurationSeconds > 0 {
		d := transcription.DurationSeconds
		duration = &d
		// Engines that report duration without enforcing the limit.
		if err := o.checkDuration(duration); err != nil {
			return err
		}
	}

	ok, err := o.meetings.MarkTranscribed(ctx, meeting.ID, transcription, duration)
	if err != nil {
		return errors.ErrInternal(err)
	}
	if !ok {
		return errors.ErrInternal(fmt.Errorf("mark transcribed: %w", usecaseErrors.ErrNotClaimed))
	}
	log.Info("pipeline.stage.transcribed",
		zap.String("status", string(entities.MeetingStatusTranscribed)),
		zap.Int("segments", len(transcription.Segments)),
	)

	ok, err = o.meetings.MarkSummarizing(ctx, meeting.ID)
	if err != nil {
		return errors.ErrInternal(err)
	}
	if !ok {
		return errors.ErrInternal(fmt.Errorf("mark summarizing: %w", usecaseErrors.ErrNotClaimed))
	}

	result, err := o.summarize(ctx, meeting, transcription)
	if err != nil {
		return err
	}

	items, discarded := FilterCandidates(meeting.ID, result.Candidates, o.opts.AcceptThreshold)
	log.Info("pipeline.candidates.filtered",
		zap.Int("kept", len(items)),
		zap.Int("discarded", discarded),
		zap.Float64("threshold", o.opts.AcceptThreshold),
	)

	ok, err = o.meetings.Complete(ctx, meeting.ID, result.Summary, items)
	if err != nil {
		return errors.ErrInternal(err)
	}
	if !ok {
		return errors.ErrInternal(fmt.Errorf("complete: %w", usecaseErrors.ErrNotClaimed))
	}
	return nil
}

func (o *Orchestrator) fetchArtifact(ctx context.Context, ref string) ([]byte, error) {
	stageCtx, cancel := context.WithTimeout(ctx, o.opts.StageTimeout)
	defer cancel()

	data, err := o.artifacts.Get(stageCtx, ref)
	if err != nil {
		return nil, errors.ErrArtifactUnavailable(ref, err)
	}
	if len(data) == 0 {
		return nil, errors.ErrArtifactUnavailable(ref, fmt.Errorf("artifact is empty"))
	}
	return data, nil
}

// probeDuration is best effort; failures are logged and ignored
func (o *Orchestrator) probeDuration(ctx context.Context, data []byte, log *zap.Logger) *float64 {
	if o.prober == nil {
		return nil
	}
	stageCtx, cancel := context.WithTimeout(ctx, o.opts.StageTimeout)
	defer cancel()

	d, err := o.prober.ProbeDuration(stageCtx, data)
	if err != nil || d <= 0 {
		log.Warn("pipeline.probe.failed", zap.Error(err))
		return nil
	}
	return &d
}

func (o *Orchestrator) checkDuration(seconds *float64) error {
	if seconds == nil || o.opts.MaxDuration <= 0 {
		return nil
	}
	d := time.Duration(*seconds * float64(time.Second))
	if d > o.opts.MaxDuration {
		return errors.ErrDurationTooLong(d, o.opts.MaxDuration)
	}
	return nil
}

func (o *Orchestrator) transcribe(ctx context.Context, meeting *entities.Meeting, data []byte) (*entities.Transcription, error) {
	stageCtx, cancel := context.WithTimeout(ctx, o.opts.StageTimeout)
	defer cancel()

	result, err := o.transcriber.Transcribe(stageCtx, data, entities.TranscribeOptions{
		Filename:    meeting.ArtifactRef,
		MaxDuration: o.opts.MaxDuration,
	})
	if err != nil {
		if !errors.HasCode(err, errors.ErrorCode_TRANSCRIPTION_FAILED) && !errors.HasCode(err, errors.ErrorCode_PAYLOAD_TOO_LARGE) {
			err = errors.ErrTranscriptionFailed(err)
		}
		return nil, err
	}
	if result == nil || result.Text == "" {
		return nil, errors.ErrTranscriptionFailed(usecaseErrors.ErrEmptyTranscript)
	}
	if result.Segments == nil {
		result.Segments = []entities.Segment{}
	}
	return result, nil
}

func (o *Orchestrator) summarize(ctx context.Context, meeting *entities.Meeting, transcription *entities.Transcription) (*entities.SummaryResult, error) {
	stageCtx, cancel := context.WithTimeout(ctx, o.opts.StageTimeout)
	defer cancel()

	transcript := entities.FormatTranscript(transcription.Text, transcription.Segments)
	result, err := o.summarizer.Summarize(stageCtx, transcript, meeting.Title)
	if err != nil {
		if !errors.HasCode(err, errors.ErrorCode_SUMMARIZATION_FAILED) {
			err = errors.ErrSummarizationFailed(err)
		}
		return nil, err
	}
	if result == nil || result.Summary == "" {
		return nil, errors.ErrSummarizationFailed(usecaseErrors.ErrMalformedSummary)
	}
	return result, nil
}

// fail records the terminal failure on a context detached from the caller,
// so a cancelled job still leaves the meeting in failed
func (o *Orchestrator) fail(ctx context.Context, meetingID uuid.UUID, cause error) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.opts.FinalizeTimeout)
	defer cancel()

	code := errors.CodeOf(cause).String()
	message := failureMessage(cause)

	ok, err := o.meetings.MarkFailed(writeCtx, meetingID, code, message)
	switch {
	case err != nil:
		o.logger.Error("pipeline.fail.write_failed",
			zap.String("meeting_id", meetingID.String()),
			zap.String("failure_code", code),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
	case !ok:
		o.logger.Warn("pipeline.fail.not_in_flight",
			zap.String("meeting_id", meetingID.String()),
			zap.String("failure_code", code),
		)
	default:
		o.logger.Warn("pipeline.run.failed",
			zap.String("meeting_id", meetingID.String()),
			zap.String("status", string(entities.MeetingStatusFailed)),
			zap.String("failure_code", code),
			zap.Error(cause),
		)
	}
}

func failureMessage(err error) string {
	msg := err.Error()
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		msg = appErr.Message
		if appErr.Raw != nil {
			msg += ": " + appErr.Raw.Error()
		}
	}
	if runes := []rune(msg); len(runes) > maxFailureMessageLength {
		msg = string(runes[:maxFailureMessageLength])
	}
	return msg
}

func statusNames(statuses []entities.MeetingStatus) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}
