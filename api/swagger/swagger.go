package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SmartAttend Attendance API",
        "description": "Employee attendance, leave and tour tracking backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Calendar", "description": "Holidays and weekend configuration"},
        {"name": "Leave", "description": "Leave requests and balances"},
        {"name": "Tour", "description": "Official tour requests"},
        {"name": "Attendance", "description": "Daily check-in and check-out"},
        {"name": "Directory", "description": "Employee roster"},
        {"name": "Reports", "description": "Daily attendance reports"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/calendar/weekend": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Get weekend configuration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/holidays": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List holidays for a year",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/working-days": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Count working days in a date range",
                "parameters": [
                    {"name": "start", "in": "query", "type": "string", "required": true},
                    {"name": "end", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/leaves": {
            "get": {
                "tags": ["Leave"],
                "summary": "List own leave requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Leave"],
                "summary": "Apply for leave",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyLeaveRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Insufficient balance or no working days"}
                }
            }
        },
        "/leaves/balance": {
            "get": {
                "tags": ["Leave"],
                "summary": "Get own leave balance",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tours": {
            "get": {
                "tags": ["Tour"],
                "summary": "List own tour requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Tour"],
                "summary": "Apply for an official tour",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyTourRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List own attendance records",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/check-in": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record today's check-in",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already checked in"}
                }
            }
        },
        "/attendance/check-out": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record today's check-out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Check-in required"}
                }
            }
        },
        "/admin/calendar/weekend": {
            "put": {
                "tags": ["Calendar"],
                "summary": "Update weekend configuration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateWeekendRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/calendar/holidays": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Add a holiday",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddHolidayRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate holiday"}
                }
            }
        },
        "/admin/calendar/holidays/{id}": {
            "delete": {
                "tags": ["Calendar"],
                "summary": "Delete a holiday",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/admin/calendar/holidays/seed": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Seed the built-in holiday table",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/leaves": {
            "get": {
                "tags": ["Leave"],
                "summary": "List leave requests across employees",
                "parameters": [
                    {"name": "employee_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/leaves/{id}/decision": {
            "patch": {
                "tags": ["Leave"],
                "summary": "Approve or reject a leave request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/admin/employees": {
            "get": {
                "tags": ["Directory"],
                "summary": "List employees",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/employees/{id}/leave-balance": {
            "put": {
                "tags": ["Leave"],
                "summary": "Set an employee's total leave allocation",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdjustBalanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/tours": {
            "get": {
                "tags": ["Tour"],
                "summary": "List tour requests across employees",
                "parameters": [
                    {"name": "employee_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/tours/{id}/decision": {
            "patch": {
                "tags": ["Tour"],
                "summary": "Approve or reject a tour request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/admin/reports/daily": {
            "get": {
                "tags": ["Reports"],
                "summary": "Get the daily attendance report",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/reports/daily/run": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a daily report delivery run",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        }
    },
    "definitions": {
        "ApplyLeaveRequest": {
            "type": "object",
            "required": ["start_date", "end_date"],
            "properties": {
                "start_date": {"type": "string", "example": "2026-03-02"},
                "end_date": {"type": "string", "example": "2026-03-06"},
                "reason": {"type": "string"},
                "leave_type": {"type": "string", "enum": ["paid", "unpaid"]}
            }
        },
        "ApplyTourRequest": {
            "type": "object",
            "required": ["start_date", "end_date", "location"],
            "properties": {
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "location": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "DecideRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]}
            }
        },
        "UpdateWeekendRequest": {
            "type": "object",
            "properties": {
                "weekend_days": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "AddHolidayRequest": {
            "type": "object",
            "required": ["date", "name"],
            "properties": {
                "date": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["gazetted", "restricted"]}
            }
        },
        "AdjustBalanceRequest": {
            "type": "object",
            "required": ["year"],
            "properties": {
                "year": {"type": "integer"},
                "total_leaves": {"type": "integer"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
