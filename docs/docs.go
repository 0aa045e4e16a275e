// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/meetings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Meetings"],
                "summary": "List meetings",
                "parameters": [
                    {"type": "string", "description": "Filter by status", "name": "status", "in": "query"},
                    {"type": "integer", "description": "Page size (max 200)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.ListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Meetings"],
                "summary": "Upload a meeting recording",
                "parameters": [
                    {"type": "file", "description": "Audio recording", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Meeting title, defaults to the file name", "name": "title", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/meeting.UploadMeetingResponse"}},
                    "400": {"description": "Missing file or unsupported format", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "413": {"description": "Recording too large", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/meetings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Meetings"],
                "summary": "Get a meeting",
                "parameters": [{"type": "string", "description": "Meeting ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/meeting.MeetingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Updates the meeting title. Transcript and summary cannot be edited.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Meetings"],
                "summary": "Rename a meeting",
                "parameters": [
                    {"type": "string", "description": "Meeting ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"description": "New title", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/meeting.UpdateMeetingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/meeting.MeetingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Meetings"],
                "summary": "Delete a meeting",
                "parameters": [{"type": "string", "description": "Meeting ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "409": {"description": "Meeting is being processed", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/meetings/{id}/retry": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Meetings"],
                "summary": "Retry a failed meeting",
                "parameters": [{"type": "string", "description": "Meeting ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "409": {"description": "Meeting is not failed", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/meetings/{id}/action-items": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Action Items"],
                "summary": "List action items",
                "parameters": [{"type": "string", "description": "Meeting ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/meeting.ActionItemResponse"}}}
                }
            }
        },
        "/meetings/{id}/action-items/{item_id}/convert": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Action Items"],
                "summary": "Convert an action item into a task",
                "parameters": [
                    {"type": "string", "description": "Meeting ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Action item ID (UUID)", "name": "item_id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/meeting.ConvertActionItemResponse"}},
                    "409": {"description": "Action item already handled", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/meetings/{id}/action-items/{item_id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Action Items"],
                "summary": "Reject an action item",
                "parameters": [
                    {"type": "string", "description": "Meeting ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Action item ID (UUID)", "name": "item_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "409": {"description": "Action item already handled", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "common.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "info": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "common.SuccessResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "common.ListResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "pagination": {
                    "type": "object",
                    "properties": {
                        "limit": {"type": "integer"},
                        "offset": {"type": "integer"},
                        "count": {"type": "integer"}
                    }
                }
            }
        },
        "meeting.UpdateMeetingRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 500}
            }
        },
        "meeting.UploadMeetingResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "meeting.ActionItemResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "meeting_id": {"type": "string"},
                "description": {"type": "string"},
                "assignee_mentioned": {"type": "string"},
                "deadline_mentioned": {"type": "string"},
                "confidence": {"type": "number"},
                "status": {"type": "string"},
                "task_id": {"type": "string"}
            }
        },
        "meeting.MeetingResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "team_id": {"type": "string"},
                "created_by_id": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "string"},
                "transcript": {"type": "string"},
                "summary": {"type": "string"},
                "duration_seconds": {"type": "number"},
                "duration": {"type": "string"},
                "failure_code": {"type": "string"},
                "failure_message": {"type": "string"},
                "action_items": {"type": "array", "items": {"$ref": "#/definitions/meeting.ActionItemResponse"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "meeting.ConvertActionItemResponse": {
            "type": "object",
            "properties": {
                "action_item_id": {"type": "string"},
                "task_id": {"type": "string"},
                "assignee_id": {"type": "string"},
                "due_date": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Synkro Meetings API",
	Description:      "Meeting recording processing: transcription, summarization and action item review",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
