package presenter

import (
	"time"

	"github.com/FizzahNasir/FYP-Synkro/internal/adapter/dto/meeting"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
)

const dateLayout = "2006-01-02"

// ToMeetingResponse converts a Meeting entity to its API form. Transcript and
// segments are only included when withTranscript is set.
func ToMeetingResponse(m *entities.Meeting, withTranscript bool) *meeting.MeetingResponse {
	if m == nil {
		return nil
	}

	resp := &meeting.MeetingResponse{
		ID:              m.ID.String(),
		TeamID:          m.TeamID.String(),
		CreatedByID:     m.CreatedByID.String(),
		Title:           m.Title,
		Status:          string(m.Status),
		Summary:         m.Summary,
		DurationSeconds: m.DurationSeconds,
		FailureCode:     m.FailureCode,
		FailureMessage:  m.FailureMessage,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.DurationSeconds != nil {
		resp.Duration = (time.Duration(*m.DurationSeconds * float64(time.Second))).Round(time.Second).String()
	}
	if withTranscript {
		resp.Transcript = m.Transcript
		resp.Segments = m.Segments
	}

	if len(m.ActionItems) > 0 {
		resp.ActionItems = make([]*meeting.ActionItemResponse, len(m.ActionItems))
		for i := range m.ActionItems {
			resp.ActionItems[i] = ToActionItemResponse(&m.ActionItems[i])
		}
	}
	return resp
}

// ToMeetingListResponse converts meetings without transcripts
func ToMeetingListResponse(meetings []*entities.Meeting) []*meeting.MeetingResponse {
	out := make([]*meeting.MeetingResponse, len(meetings))
	for i, m := range meetings {
		out[i] = ToMeetingResponse(m, false)
	}
	return out
}

// ToActionItemResponse converts an ActionItem entity
func ToActionItemResponse(a *entities.ActionItem) *meeting.ActionItemResponse {
	if a == nil {
		return nil
	}

	resp := &meeting.ActionItemResponse{
		ID:                a.ID.String(),
		MeetingID:         a.MeetingID.String(),
		Description:       a.Description,
		AssigneeMentioned: a.AssigneeMentioned,
		Confidence:        a.Confidence,
		Status:            string(a.Status),
	}
	if a.DeadlineMentioned != nil {
		d := time.Time(*a.DeadlineMentioned).Format(dateLayout)
		resp.DeadlineMentioned = &d
	}
	if a.TaskID != nil {
		id := a.TaskID.String()
		resp.TaskID = &id
	}
	return resp
}

// ToActionItemListResponse converts a slice of action items
func ToActionItemListResponse(items []*entities.ActionItem) []*meeting.ActionItemResponse {
	out := make([]*meeting.ActionItemResponse, len(items))
	for i, item := range items {
		out[i] = ToActionItemResponse(item)
	}
	return out
}

// ToConvertResponse describes the task created from an action item
func ToConvertResponse(itemID string, task *entities.Task) *meeting.ConvertActionItemResponse {
	resp := &meeting.ConvertActionItemResponse{
		ActionItemID: itemID,
		TaskID:       task.ID.String(),
	}
	if task.AssigneeID != nil {
		id := task.AssigneeID.String()
		resp.AssigneeID = &id
	}
	if task.DueDate != nil {
		d := time.Time(*task.DueDate).Format(dateLayout)
		resp.DueDate = &d
	}
	return resp
}
