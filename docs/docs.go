// Package docs holds the OpenAPI document served by the swagger UI.
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
        "/v1/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "email already registered"},
                    "422": {"description": "validation failed"}
                }
            }
        },
        "/v1/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "invalid email or password"}
                }
            }
        },
        "/v1/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/rides": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["rides"],
                "summary": "Create a ride request",
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "validation failed"}
                }
            }
        },
        "/v1/rides/fare": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["rides"],
                "summary": "Quote fares for a route",
                "parameters": [
                    {"name": "pickup", "in": "query", "type": "string", "required": true},
                    {"name": "destination", "in": "query", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/rides/{ride_id}/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["rides"],
                "summary": "Confirm a ride",
                "parameters": [{"name": "ride_id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "ride already accepted"}
                }
            }
        },
        "/v1/rides/{ride_id}/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["rides"],
                "summary": "Start a ride",
                "parameters": [{"name": "ride_id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "invalid otp"},
                    "403": {"description": "not the assigned driver"}
                }
            }
        },
        "/v1/rides/{ride_id}/end": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["rides"],
                "summary": "End a ride",
                "parameters": [{"name": "ride_id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "ride not eligible to end"}
                }
            }
        },
        "/v1/drivers/location": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["drivers"],
                "summary": "Update driver location",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/drivers/offline": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["drivers"],
                "summary": "Driver goes offline",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/ws": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ws"],
                "summary": "Websocket notifications",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token."
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "gocab API",
	Description:      "Ride-hailing backend: accounts, fare quotes, ride lifecycle and live notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
