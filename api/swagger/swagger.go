package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Allocator API",
        "description": "Course seat allocation, activity scheduling, reading plans and course recommendations",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Allocation", "description": "Priority seat allocation snapshots"},
        {"name": "Applications", "description": "Requester applications for course seats"},
        {"name": "Activities", "description": "Venue scheduling and availability"},
        {"name": "Planning", "description": "Reading plans and course recommendations"},
        {"name": "Exports", "description": "CSV and PDF renderings"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check over database and cache",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated service metrics",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/allocations/preview": {
            "post": {
                "tags": ["Allocation"],
                "summary": "Allocate an inline instance without touching stored state",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/AllocateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Instance too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations": {
            "get": {
                "tags": ["Allocation"],
                "summary": "Latest allocation snapshot over stored applications",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/allocations/recompute": {
            "post": {
                "tags": ["Allocation"],
                "summary": "Recompute the allocation snapshot synchronously",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/allocations/me": {
            "get": {
                "tags": ["Allocation"],
                "summary": "Courses granted to the authenticated requester",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/applications": {
            "post": {
                "tags": ["Applications"],
                "summary": "Apply for a course seat",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SubmitApplicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Course full, already held or clashing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/applications/{id}": {
            "delete": {
                "tags": ["Applications"],
                "summary": "Withdraw an application",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Withdrawn"},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown application", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/activities/schedule": {
            "post": {
                "tags": ["Activities"],
                "summary": "Place activities into venue time slots",
                "parameters": [
                    {"in": "body", "name": "payload", "required": false, "schema": {"$ref": "#/definitions/ScheduleActivitiesRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/venues/{name}/availability": {
            "get": {
                "tags": ["Activities"],
                "summary": "Free windows of a venue on one day",
                "parameters": [
                    {"in": "path", "name": "name", "required": true, "type": "string"},
                    {"in": "query", "name": "day", "required": true, "type": "string"},
                    {"in": "query", "name": "min", "required": false, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown venue", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reading-plans": {
            "post": {
                "tags": ["Planning"],
                "summary": "Plan non-overlapping reading intervals",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ReadingPlanRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/recommendations": {
            "post": {
                "tags": ["Planning"],
                "summary": "Rank courses under a credit ceiling",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RecommendRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/recommendations/top": {
            "get": {
                "tags": ["Planning"],
                "summary": "Catalog courses with the highest recommendation index",
                "parameters": [
                    {"in": "query", "name": "n", "required": false, "type": "integer", "default": 5}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/allocations": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export the current allocation snapshot",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "format", "required": false, "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/exports/timetable": {
            "post": {
                "tags": ["Exports"],
                "summary": "Export an activity timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "required": false, "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"in": "body", "name": "payload", "required": false, "schema": {"$ref": "#/definitions/ScheduleActivitiesRequest"}}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        }
    },
    "definitions": {
        "Course": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "teacher": {"type": "string"},
                "capacity": {"type": "integer"},
                "enrolled": {"type": "integer"},
                "credits": {"type": "integer"},
                "interest": {"type": "number"},
                "workload": {"type": "number"},
                "recommend": {"type": "number"},
                "schedule": {"type": "array", "items": {"type": "string"}, "example": ["Mon 1-2"]}
            }
        },
        "Application": {
            "type": "object",
            "required": ["id", "requesterId", "courseId"],
            "properties": {
                "id": {"type": "string"},
                "requesterId": {"type": "string"},
                "courseId": {"type": "string"},
                "priority": {"type": "integer"},
                "submittedAt": {"type": "integer"}
            }
        },
        "AllocateRequest": {
            "type": "object",
            "required": ["courses"],
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/Course"}},
                "applications": {"type": "array", "items": {"$ref": "#/definitions/Application"}},
                "prior": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "SubmitApplicationRequest": {
            "type": "object",
            "required": ["courseId"],
            "properties": {
                "courseId": {"type": "string"},
                "priority": {"type": "integer", "minimum": 0, "maximum": 100}
            }
        },
        "HourSlot": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "start": {"type": "integer"},
                "end": {"type": "integer"}
            }
        },
        "Venue": {
            "type": "object",
            "required": ["name", "type"],
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "capacity": {"type": "integer"},
                "booked": {"type": "array", "items": {"$ref": "#/definitions/HourSlot"}}
            }
        },
        "Activity": {
            "type": "object",
            "required": ["id", "duration"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "duration": {"type": "integer"},
                "requiredTypes": {"type": "array", "items": {"type": "string"}},
                "frequency": {"type": "string", "enum": ["WEEKLY", "BIWEEKLY", "MONTHLY", "ONCE"]},
                "members": {"type": "integer"}
            }
        },
        "ScheduleActivitiesRequest": {
            "type": "object",
            "properties": {
                "venues": {"type": "array", "items": {"$ref": "#/definitions/Venue"}},
                "activities": {"type": "array", "items": {"$ref": "#/definitions/Activity"}},
                "requireSeats": {"type": "boolean"}
            }
        },
        "ReadingTask": {
            "type": "object",
            "required": ["id", "duration"],
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "earliestStart": {"type": "integer"},
                "duration": {"type": "integer"}
            }
        },
        "ReadingPlanRequest": {
            "type": "object",
            "properties": {
                "tasks": {"type": "array", "items": {"$ref": "#/definitions/ReadingTask"}},
                "bookIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RecommendRequest": {
            "type": "object",
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/Course"}},
                "ceiling": {"type": "integer"},
                "strategy": {"type": "string", "enum": ["credits", "interest", "workload", "balanced", "recommend"]},
                "strict": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
