package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMS Auth API",
        "description": "Tenant-aware authentication gateway for the school management system",
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
        {"name": "Authentication", "description": "Login flows and token lifecycle"},
        {"name": "Teachers", "description": "Teacher roster management"}
    ],
    "paths": {
        "/school/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate school admin",
                "description": "Authenticates a school admin against the school bound to the request domain",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AdminLoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorDetail"}},
                    "403": {"description": "Denied", "schema": {"$ref": "#/definitions/ErrorDetail"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ErrorDetail"}}
                }
            }
        },
        "/teacher/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate teacher",
                "description": "Authenticates a teacher against an explicit school id",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TeacherLoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorDetail"}},
                    "403": {"description": "Denied", "schema": {"$ref": "#/definitions/ErrorDetail"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ErrorDetail"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh token pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TokenPair"}},
                    "401": {"description": "Invalid token", "schema": {"$ref": "#/definitions/ErrorDetail"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorDetail"}}
                }
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TeacherListResponse"}}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/TeacherDetail"}},
                    "409": {"description": "Duplicate email", "schema": {"$ref": "#/definitions/ErrorDetail"}}
                }
            }
        },
        "/teachers/export": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Export roster",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Roster file"}
                }
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TeacherDetail"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorDetail"}}
                }
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Deactivate teacher",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorDetail"}}
                }
            }
        }
    },
    "definitions": {
        "AdminLoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "TeacherLoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "school_id": {"type": "integer"}
            },
            "required": ["email", "password", "school_id"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh": {"type": "string"}
            },
            "required": ["refresh"]
        },
        "TokenPair": {
            "type": "object",
            "properties": {
                "refresh": {"type": "string"},
                "access": {"type": "string"}
            }
        },
        "SchoolInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "unique_id": {"type": "string"},
                "subscription_valid": {"type": "boolean"}
            }
        },
        "UserInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "TeacherInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "employee_id": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"}
            }
        },
        "AdminLoginResponse": {
            "type": "object",
            "properties": {
                "school": {"$ref": "#/definitions/SchoolInfo"},
                "user": {"$ref": "#/definitions/UserInfo"},
                "tokens": {"$ref": "#/definitions/TokenPair"}
            }
        },
        "TeacherLoginResponse": {
            "type": "object",
            "properties": {
                "school": {"$ref": "#/definitions/SchoolInfo"},
                "teacher": {"$ref": "#/definitions/TeacherInfo"},
                "user": {"$ref": "#/definitions/UserInfo"},
                "tokens": {"$ref": "#/definitions/TokenPair"}
            }
        },
        "MeResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/UserInfo"},
                "school_id": {"type": "integer"},
                "school_unique_id": {"type": "string"},
                "domain": {"type": "string"},
                "teacher_id": {"type": "integer"},
                "employee_id": {"type": "string"}
            }
        },
        "CreateTeacherRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "employee_id": {"type": "string"}
            },
            "required": ["email", "password", "employee_id"]
        },
        "TeacherDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "employee_id": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "full_name": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "TeacherListResponse": {
            "type": "object",
            "properties": {
                "teachers": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/TeacherDetail"}
                },
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"}
            }
        },
        "ErrorDetail": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"}
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
