// Package docs holds the OpenAPI document served under /swagger.
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
        "/api/v1/trip-plans": {
            "post": {
                "description": "Generates a structured itinerary for a destination, duration and travel type.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["TripPlans"],
                "summary": "Generate a trip plan",
                "parameters": [
                    {
                        "description": "Trip request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.TripPlanRequest"}
                    },
                    {
                        "type": "string",
                        "description": "Client-chosen generation ID (UUID), used for cancellation",
                        "name": "X-Generation-ID",
                        "in": "header"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TripPlanResponse"}},
                    "400": {"description": "Missing or invalid input", "schema": {"$ref": "#/definitions/types.TripPlanErrorResponse"}},
                    "502": {"description": "Service error or unusable response", "schema": {"$ref": "#/definitions/types.TripPlanErrorResponse"}},
                    "504": {"description": "Generative service timed out", "schema": {"$ref": "#/definitions/types.TripPlanErrorResponse"}}
                }
            }
        },
        "/api/v1/trip-plans/schema": {
            "get": {
                "description": "Returns the JSON Schema every generated plan must satisfy.",
                "produces": ["application/json"],
                "tags": ["TripPlans"],
                "summary": "Trip plan response schema",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/trip-plans/{generationID}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["TripPlans"],
                "summary": "Cancel a trip plan generation",
                "parameters": [
                    {"type": "string", "description": "Generation ID", "name": "generationID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Invalid generation ID", "schema": {"$ref": "#/definitions/types.TripPlanErrorResponse"}},
                    "404": {"description": "No generation in progress", "schema": {"$ref": "#/definitions/types.TripPlanErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.TripPlanRequest": {
            "type": "object",
            "properties": {
                "destination": {"type": "string", "example": "Tokyo"},
                "duration": {"type": "string", "example": "8"},
                "travelType": {"type": "string", "example": "family"}
            }
        },
        "types.SemanticWarning": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "types.TripPlanResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "generation_id": {"type": "string"},
                "data": {"type": "object", "additionalProperties": true},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/types.SemanticWarning"}}
            }
        },
        "types.TripPlanErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"type": "string", "example": "Missing user prompt"},
                "kind": {"type": "string", "example": "missing_input"},
                "request_id": {"type": "string"},
                "generation_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Trip Planner API",
	Description:      "Generates structured trip plans with a generative language model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
