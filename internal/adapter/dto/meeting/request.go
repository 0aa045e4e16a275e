package meeting

// UploadMeetingRequest carries the form fields sent with a recording
type UploadMeetingRequest struct {
	Title string `form:"title" validate:"max=500"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=uploaded processing transcribed summarizing completed failed"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

// MeetingPathRequest binds the meeting id path parameter
type MeetingPathRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

// UpdateMeetingRequest is the body of PATCH /meetings/:id. Transcript and
// Summary are bound only to reject them.
type UpdateMeetingRequest struct {
	ID         string  `param:"id" validate:"required,uuid"`
	Title      *string `json:"title" validate:"omitempty,max=500"`
	Transcript *string `json:"transcript"`
	Summary    *string `json:"summary"`
}

// ActionItemPathRequest binds meeting and action item path parameters
type ActionItemPathRequest struct {
	ID     string `param:"id" validate:"required,uuid"`
	ItemID string `param:"item_id" validate:"required,uuid"`
}
