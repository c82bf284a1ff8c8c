package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Fly8 API",
        "description": "Study-abroad case management backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Signup, login, token lifecycle"},
        {"name": "Students", "description": "Onboarding, profile, service applications"},
        {"name": "Counselors", "description": "Caseload and application updates"},
        {"name": "Agents", "description": "Referred students and commissions"},
        {"name": "Admin", "description": "Assignments, commissions, dashboard, rosters"},
        {"name": "Notifications", "description": "Inbox and read state"},
        {"name": "Events", "description": "Server-sent event stream"},
        {"name": "Catalog", "description": "Services and universities"}
    ],
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Duplicate email or invalid payload"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate refresh token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/students/onboarding": {
            "post": {
                "tags": ["Students"],
                "summary": "Complete onboarding and create the student case",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Already onboarded"}
                }
            }
        },
        "/students/profile": {
            "get": {
                "tags": ["Students"],
                "summary": "Own student profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No student case"}
                }
            }
        },
        "/students/apply-services": {
            "post": {
                "tags": ["Students"],
                "summary": "Apply for services; held services are skipped",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created applications"}
                }
            }
        },
        "/students/my-applications": {
            "get": {
                "tags": ["Students"],
                "summary": "Own applications with notes",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/counselors/my-students": {
            "get": {
                "tags": ["Counselors"],
                "summary": "Assigned students with user and applications",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/counselors/applications/{applicationId}": {
            "put": {
                "tags": ["Counselors"],
                "summary": "Update status and/or append a note",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "applicationId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Application not found"}
                }
            }
        },
        "/agents/my-students": {
            "get": {
                "tags": ["Agents"],
                "summary": "Referred students scoped to the agent",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/agents/commissions": {
            "get": {
                "tags": ["Agents"],
                "summary": "Own commissions with summary totals",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/agents/commissions/export": {
            "get": {
                "tags": ["Agents"],
                "summary": "Commission statement as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Statement file"}
                }
            }
        },
        "/admin/metrics": {
            "get": {
                "tags": ["Admin"],
                "summary": "Dashboard metrics snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/students": {
            "get": {
                "tags": ["Admin"],
                "summary": "All students with user and applications",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/users": {
            "post": {
                "tags": ["Admin"],
                "summary": "Provision counselor or agent accounts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Duplicate email"}
                }
            }
        },
        "/admin/students/{studentId}/assign-counselor": {
            "put": {
                "tags": ["Admin"],
                "summary": "Assign counselor; cascades to all applications",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/admin/students/{studentId}/assign-agent": {
            "put": {
                "tags": ["Admin"],
                "summary": "Assign agent with commission percentage",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/admin/commissions": {
            "get": {
                "tags": ["Admin"],
                "summary": "All commissions with summary totals",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Book a pending commission",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/admin/commissions/{commissionId}/approve": {
            "put": {
                "tags": ["Admin"],
                "summary": "Approve a commission",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "commissionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Commission not found"}
                }
            }
        },
        "/admin/commissions/{commissionId}/payout": {
            "post": {
                "tags": ["Admin"],
                "summary": "Pay out an approved commission",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "commissionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Commission must be approved first"}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Own notifications, newest first, with unread count",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/notifications/{notificationId}/read": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Mark one notification read",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "notificationId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/notifications/mark-all-read": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Mark every notification read",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "Open the live event stream (SSE)",
                "security": [{"BearerAuth": []}],
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "Event stream"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/services": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Active service catalog",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/services/init": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Seed the default service catalog",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/universities": {
            "get": {
                "tags": ["Catalog"],
                "summary": "University course finder data",
                "parameters": [
                    {"name": "country", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Add a university",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "required": ["email", "password", "firstName", "lastName"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "counselor", "agent", "super_admin"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
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
                "pagination": {"type": "object"},
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
