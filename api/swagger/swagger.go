package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Portal API",
        "description": "Course enrollment portal backed by the remote course directory",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Portal", "description": "Shell state, overlays and session"},
        {"name": "Catalog", "description": "Course grid, filters and export"},
        {"name": "Detail", "description": "Course detail overlay and enrollment"},
        {"name": "MyCourses", "description": "Enrollments of the signed-in student"},
        {"name": "Admin", "description": "Course creation and bulk unenroll"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Session restore settled"},
                    "503": {"description": "Restoring session"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/portal/state": {
            "get": {
                "tags": ["Portal"],
                "summary": "Portal shell state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/portal/modals/{modal}": {
            "post": {
                "tags": ["Portal"],
                "summary": "Open an overlay",
                "parameters": [
                    {"name": "modal", "in": "path", "required": true, "type": "string", "enum": ["login", "admin", "my-courses"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown overlay", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/modals": {
            "delete": {
                "tags": ["Portal"],
                "summary": "Close the active overlay",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/portal/session": {
            "post": {
                "tags": ["Portal"],
                "summary": "Sign in or register",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Name and email are required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Name or email already exists but does not match", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Directory unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Portal"],
                "summary": "Sign out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/portal/catalog": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Displayed courses",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/portal/catalog/filter": {
            "put": {
                "tags": ["Catalog"],
                "summary": "Replace the keyword and student filter",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FilterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Lookup failed; previous courses kept", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/catalog/refresh": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Reload courses and students",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Directory unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/catalog/export": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Download the displayed courses",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/courses/{id}/detail": {
            "post": {
                "tags": ["Detail"],
                "summary": "Open the detail overlay for a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Course could not be loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/detail": {
            "get": {
                "tags": ["Detail"],
                "summary": "Current detail view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No detail view open", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Detail"],
                "summary": "Close the detail overlay",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No detail view open", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/detail/enroll": {
            "post": {
                "tags": ["Detail"],
                "summary": "Enroll in the open course",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No detail view open", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Enroll failed, possibly already enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/detail/unenroll": {
            "post": {
                "tags": ["Detail"],
                "summary": "Drop the open course",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No detail view open", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Unenroll failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/my-courses": {
            "get": {
                "tags": ["MyCourses"],
                "summary": "Courses of the signed-in student",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/portal/my-courses/{courseId}": {
            "delete": {
                "tags": ["MyCourses"],
                "summary": "Drop one of my courses",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Sign in required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Unenroll failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/admin/courses": {
            "get": {
                "tags": ["Admin"],
                "summary": "Full course list",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Add a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Failed to add course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/portal/admin/courses/{id}/students": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Remove every student from a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkUnenrollRequest"}}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "400": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Failed to remove students", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Credentials": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
            },
            "required": ["name", "email"]
        },
        "FilterRequest": {
            "type": "object",
            "properties": {
                "keyword": {"type": "string"},
                "student_id": {"type": "string", "description": "student id or \"all\""}
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "course_code": {"type": "string"},
                "course_name": {"type": "string"},
                "course_description": {"type": "string"},
                "credits": {"type": "integer", "minimum": 1, "maximum": 8, "default": 3},
                "instructor": {"type": "string"},
                "semester": {"type": "string"},
                "time_slot": {"type": "string"},
                "course_location": {"type": "string"}
            },
            "required": ["course_code", "course_name"]
        },
        "BulkUnenrollRequest": {
            "type": "object",
            "properties": {
                "confirm": {"type": "boolean"}
            },
            "required": ["confirm"]
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
