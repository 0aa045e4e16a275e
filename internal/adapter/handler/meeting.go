package handler

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/errors"
	"github.com/FizzahNasir/FYP-Synkro/internal/adapter/dto/common"
	meetingdto "github.com/FizzahNasir/FYP-Synkro/internal/adapter/dto/meeting"
	"github.com/FizzahNasir/FYP-Synkro/internal/adapter/presenter"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	meetingUsecase "github.com/FizzahNasir/FYP-Synkro/internal/usecase/meeting"
)

// Meeting handles meeting upload and lifecycle requests
type Meeting struct {
	svc      *meetingUsecase.Service
	maxBytes int64
	logger   *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(svc *meetingUsecase.Service, maxBytes int64, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, maxBytes: maxBytes, logger: logger}
}

// Upload handles POST /meetings
// @Summary      Upload a meeting recording
// @Description  Stores the recording and queues transcription, summarization and action item extraction
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file   formData  file    true   "Audio recording (.mp3 .wav .m4a .webm .mp4 .mpeg .mpga)"
// @Param        title  formData  string  false  "Meeting title, defaults to the file name"
// @Success      201    {object}  meeting.UploadMeetingResponse
// @Failure      400    {object}  common.ErrorResponse  "Missing file or unsupported format"
// @Failure      401    {object}  common.ErrorResponse
// @Failure      413    {object}  common.ErrorResponse  "Recording too large"
// @Router       /meetings [post]
func (h *Meeting) Upload(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.UploadMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("No file provided"))
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(fileHeader.Size, h.maxBytes))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Unable to read uploaded file"))
	}
	defer file.Close()

	reader := io.Reader(file)
	if h.maxBytes > 0 {
		reader = io.LimitReader(file, h.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Unable to read uploaded file"))
	}

	m, err := h.svc.Upload(c.Request().Context(), actor, meetingUsecase.UploadInput{
		Title:       req.Title,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, meetingdto.UploadMeetingResponse{
		ID:      m.ID.String(),
		Title:   m.Title,
		Status:  string(m.Status),
		Message: "Recording uploaded, processing has been queued",
	})
}

// List handles GET /meetings
// @Summary      List meetings
// @Description  Lists the caller's team meetings, newest first
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        limit   query     int     false  "Page size (max 200)"
// @Param        offset  query     int     false  "Offset"
// @Success      200     {object}  common.ListResponse
// @Failure      400     {object}  common.ErrorResponse
// @Failure      401     {object}  common.ErrorResponse
// @Router       /meetings [get]
func (h *Meeting) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.ListMeetingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	var statuses []entities.MeetingStatus
	if req.Status != "" {
		statuses = []entities.MeetingStatus{entities.MeetingStatus(req.Status)}
	}

	meetings, err := h.svc.List(c.Request().Context(), actor, statuses, req.Limit, req.Offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, common.ListResponse{
		Data: presenter.ToMeetingListResponse(meetings),
		Pagination: &common.PaginationResponse{
			Limit:  req.Limit,
			Offset: req.Offset,
			Count:  len(meetings),
		},
	})
}

// Get handles GET /meetings/:id
// @Summary      Get a meeting
// @Description  Returns the meeting with its transcript, summary and action items
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /meetings/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	actor, id, err := h.meetingParams(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m, true))
}

// Update handles PATCH /meetings/:id
// @Summary      Rename a meeting
// @Description  Updates the meeting title. Transcript and summary cannot be edited.
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                             true  "Meeting ID (UUID)"
// @Param        request  body      meeting.UpdateMeetingRequest       true  "New title"
// @Success      200      {object}  meeting.MeetingResponse
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /meetings/{id} [patch]
func (h *Meeting) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingdto.UpdateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid meeting ID"))
	}
	if req.Transcript != nil || req.Summary != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Transcript and summary cannot be edited"))
	}
	if req.Title == nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Nothing to update"))
	}

	m, err := h.svc.Rename(c.Request().Context(), actor, id, *req.Title)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m, true))
}

// Delete handles DELETE /meetings/:id
// @Summary      Delete a meeting
// @Description  Deletes a meeting that is not being processed, with its action items and recording
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  common.SuccessResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      409  {object}  common.ErrorResponse  "Meeting is being processed"
// @Router       /meetings/{id} [delete]
func (h *Meeting) Delete(c echo.Context) error {
	actor, id, err := h.meetingParams(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.svc.Delete(c.Request().Context(), actor, id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": id.String()})
}

// Retry handles POST /meetings/:id/retry
// @Summary      Retry a failed meeting
// @Description  Queues a new processing run for a meeting in the failed state
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      202  {object}  common.SuccessResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      409  {object}  common.ErrorResponse  "Meeting is not failed"
// @Router       /meetings/{id}/retry [post]
func (h *Meeting) Retry(c echo.Context) error {
	actor, id, err := h.meetingParams(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.svc.Retry(c.Request().Context(), actor, id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusAccepted, map[string]string{
		"id":     id.String(),
		"status": "retry_queued",
	})
}

func (h *Meeting) meetingParams(c echo.Context) (entities.Actor, uuid.UUID, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return actor, uuid.Nil, err
	}
	var req meetingdto.MeetingPathRequest
	if err := bindAndValidate(c, &req); err != nil {
		return actor, uuid.Nil, errors.ErrInvalidArgument("Invalid meeting ID")
	}
	return actor, uuid.MustParse(req.ID), nil
}
