package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/errors"
	meetingdto "github.com/FizzahNasir/FYP-Synkro/internal/adapter/dto/meeting"
	"github.com/FizzahNasir/FYP-Synkro/internal/adapter/presenter"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/internal/usecase/converter"
)

// ActionItem handles review of extracted action items
type ActionItem struct {
	svc    *converter.Service
	logger *zap.Logger
}

// NewActionItemHandler creates a new action item handler
func NewActionItemHandler(svc *converter.Service, logger *zap.Logger) *ActionItem {
	return &ActionItem{svc: svc, logger: logger}
}

// List handles GET /meetings/:id/action-items
// @Summary      List action items
// @Tags         Action Items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {array}   meeting.ActionItemResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /meetings/{id}/action-items [get]
func (h *ActionItem) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req meetingdto.MeetingPathRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid meeting ID"))
	}

	items, err := h.svc.List(c.Request().Context(), actor, uuid.MustParse(req.ID))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToActionItemListResponse(items))
}

// Convert handles POST /meetings/:id/action-items/:item_id/convert
// @Summary      Convert an action item into a task
// @Description  Creates a task from a pending action item. The assignee is set only when exactly one team member matches the mention.
// @Tags         Action Items
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Meeting ID (UUID)"
// @Param        item_id  path      string  true  "Action item ID (UUID)"
// @Success      201      {object}  meeting.ConvertActionItemResponse
// @Failure      404      {object}  common.ErrorResponse
// @Failure      409      {object}  common.ErrorResponse  "Action item already handled"
// @Router       /meetings/{id}/action-items/{item_id}/convert [post]
func (h *ActionItem) Convert(c echo.Context) error {
	var req meetingdto.ActionItemPathRequest
	actor, err := h.params(c, &req)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	task, err := h.svc.Convert(c.Request().Context(), actor, uuid.MustParse(req.ID), uuid.MustParse(req.ItemID))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccessWithStatus(h.logger, c, http.StatusCreated, presenter.ToConvertResponse(req.ItemID, task))
}

// Reject handles POST /meetings/:id/action-items/:item_id/reject
// @Summary      Reject an action item
// @Tags         Action Items
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Meeting ID (UUID)"
// @Param        item_id  path      string  true  "Action item ID (UUID)"
// @Success      200      {object}  common.SuccessResponse
// @Failure      404      {object}  common.ErrorResponse
// @Failure      409      {object}  common.ErrorResponse  "Action item already handled"
// @Router       /meetings/{id}/action-items/{item_id}/reject [post]
func (h *ActionItem) Reject(c echo.Context) error {
	var req meetingdto.ActionItemPathRequest
	actor, err := h.params(c, &req)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.svc.Reject(c.Request().Context(), actor, uuid.MustParse(req.ID), uuid.MustParse(req.ItemID)); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{
		"action_item_id": req.ItemID,
		"status":         "rejected",
	})
}

func (h *ActionItem) params(c echo.Context, req *meetingdto.ActionItemPathRequest) (entities.Actor, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return actor, err
	}
	if err := bindAndValidate(c, req); err != nil {
		return actor, errors.ErrInvalidArgument("Invalid meeting or action item ID")
	}
	return actor, nil
}
