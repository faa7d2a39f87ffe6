// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/reports": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "List reports, newest first",
                "parameters": [
                    {"type": "string", "description": "Pending, In Progress or Resolved", "name": "status", "in": "query"},
                    {"type": "string", "description": "Search location or username", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listReportsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Submit a cleanliness report",
                "parameters": [
                    {"type": "string", "description": "Where the problem is", "name": "location", "in": "formData", "required": true},
                    {"type": "string", "description": "What the problem is", "name": "description", "in": "formData", "required": true},
                    {"type": "file", "description": "JPEG or PNG photo", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Report"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/reports/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Change a report's status",
                "parameters": [
                    {"type": "string", "description": "Report id, or - to use the legacy key in the body", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Report"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/users/{username}/tokens": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Token balance",
                "parameters": [{"type": "string", "description": "Username", "name": "username", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokensResponse"}}}
            }
        },
        "/v1/users/{username}/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Participation stats",
                "parameters": [{"type": "string", "description": "Username", "name": "username", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserStats"}}}
            }
        },
        "/v1/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Top submitters",
                "parameters": [{"type": "integer", "description": "Number of entries (default 5)", "name": "limit", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.leaderboardResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/geocode": {
            "get": {
                "produces": ["application/json"],
                "tags": ["map"],
                "summary": "Resolve a location to coordinates",
                "parameters": [
                    {"type": "string", "description": "Free-text location", "name": "q", "in": "query", "required": true},
                    {"type": "boolean", "description": "Skip the cache", "name": "fresh", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.geocodeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/map": {
            "get": {
                "produces": ["application/json"],
                "tags": ["map"],
                "summary": "Geocoded reports for the map view",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.mapResponse"}}}
            }
        }
    },
    "definitions": {
        "domain.Report": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "location": {"type": "string"},
                "description": {"type": "string"},
                "image": {"type": "string"},
                "timestamp": {"type": "string"},
                "status": {"type": "string", "enum": ["Pending", "In Progress", "Resolved"]}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "tokens": {"type": "integer"},
                "role": {"type": "string"}
            }
        },
        "domain.UserStats": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "total_reports": {"type": "integer"},
                "streak": {"type": "integer"},
                "tokens": {"type": "integer"},
                "goal_progress": {"type": "number"}
            }
        },
        "domain.LeaderboardEntry": {
            "type": "object",
            "properties": {
                "rank": {"type": "integer"},
                "username": {"type": "string"},
                "reports": {"type": "integer"}
            }
        },
        "domain.MapPoint": {
            "type": "object",
            "properties": {
                "report_id": {"type": "string"},
                "location": {"type": "string"},
                "status": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.registerRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/domain.User"}}
        },
        "handler.updateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string"},
                "username": {"type": "string"},
                "timestamp": {"type": "string"},
                "location": {"type": "string"}
            }
        },
        "handler.listReportsResponse": {
            "type": "object",
            "properties": {
                "reports": {"type": "array", "items": {"$ref": "#/definitions/domain.Report"}},
                "count": {"type": "integer"}
            }
        },
        "handler.tokensResponse": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "tokens": {"type": "integer"}, "goal": {"type": "integer"}}
        },
        "handler.leaderboardResponse": {
            "type": "object",
            "properties": {"leaderboard": {"type": "array", "items": {"$ref": "#/definitions/domain.LeaderboardEntry"}}}
        },
        "handler.geocodeResponse": {
            "type": "object",
            "properties": {"location": {"type": "string"}, "lat": {"type": "number"}, "lon": {"type": "number"}}
        },
        "handler.mapResponse": {
            "type": "object",
            "properties": {"points": {"type": "array", "items": {"$ref": "#/definitions/domain.MapPoint"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Civic Reports API",
	Description:      "Citizen cleanliness reports, token rewards and map view.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
