// Package docs Snapship API documentation served by gin-swagger.
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
        "/api/deploy": {
            "post": {
                "description": "Upload a zip archive with index.html at its root; every file is submitted to Vercel and the live URL is returned",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Deploy"],
                "summary": "Deploy a static site",
                "parameters": [
                    {"type": "file", "description": "zip archive", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.DeployResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.DeployResponse"}},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/respond.DeployResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/respond.DeployResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.DeployResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/respond.DeployResponse"}}
                }
            }
        },
        "/api/v1/deployments": {
            "get": {
                "description": "Deployment history, newest first, with cursor pagination",
                "produces": ["application/json"],
                "tags": ["Deployments"],
                "summary": "List deployments",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Cursor (offset)", "name": "cursor", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.Response"}}
                }
            },
            "post": {
                "description": "Same as /api/deploy",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Deploy"],
                "summary": "Deploy a static site",
                "parameters": [
                    {"type": "file", "description": "zip archive", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.DeployResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.DeployResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/respond.DeployResponse"}}
                }
            }
        },
        "/api/v1/deployments/{id}": {
            "get": {
                "description": "Single deployment history record",
                "produces": ["application/json"],
                "tags": ["Deployments"],
                "summary": "Get a deployment",
                "parameters": [
                    {"type": "string", "description": "Deployment ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.Response"}}
                }
            }
        },
        "/api/v1/config": {
            "get": {
                "description": "Whether a deployment credential is configured, the upload limit and whether history is kept",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Get service configuration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "respond.DeployResponse": {
            "type": "object",
            "properties": {
                "url": {"type": "string", "example": "https://snapship-m1x2y3.vercel.app"},
                "error": {"type": "string", "example": "index.html not found in root of zip file"},
                "logs": {"type": "array", "items": {"type": "string"}},
                "deployment_id": {"type": "string"}
            }
        },
        "respond.Response": {
            "description": "Unified API response structure",
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 0},
                "message": {"type": "string", "example": "success"},
                "processingTime": {"type": "integer", "example": 12},
                "data": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:7330",
	BasePath:         "/",
	Schemes:          []string{"https", "http"},
	Title:            "Snapship API",
	Description:      "Upload a zipped static site and get a live Vercel URL back",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
