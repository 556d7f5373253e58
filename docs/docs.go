// Package docs holds the generated OpenAPI document for the samjd HTTP API.
// Regenerate with: swag init -g cmd/samjd/main.go -o docs
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
        "/models": {
            "get": {
                "produces": ["application/json"],
                "summary": "List model families",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.ModelsResponse"}
                    }
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Daemon status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.StatusResponse"}
                    }
                }
            }
        },
        "/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Bind a model family to one image",
                "parameters": [
                    {
                        "description": "session request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.OpenSessionRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.SessionResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    }
                }
            }
        },
        "/sessions/{id}": {
            "delete": {
                "summary": "Close a session",
                "parameters": [
                    {
                        "type": "string",
                        "description": "session id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    }
                }
            }
        },
        "/sessions/{id}/points": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Segment from point prompts",
                "parameters": [
                    {
                        "type": "string",
                        "description": "session id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "point prompts",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.PointsRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.SegmentationResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    }
                }
            }
        },
        "/sessions/{id}/box": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Segment from a bounding-box prompt",
                "parameters": [
                    {
                        "type": "string",
                        "description": "session id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "box prompt",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.BoxRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.SegmentationResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    }
                }
            }
        },
        "/sessions/{id}/mask": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Segment from a mask prompt",
                "parameters": [
                    {
                        "type": "string",
                        "description": "session id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "mask prompt",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.MaskRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.SegmentationResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/types.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "types.BoxRequest": {
            "type": "object",
            "properties": {
                "min": {"type": "array", "items": {"type": "number"}},
                "max": {"type": "array", "items": {"type": "number"}}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "integer"}
            }
        },
        "types.MaskRequest": {
            "type": "object",
            "properties": {
                "mask": {"$ref": "#/definitions/types.Raster"}
            }
        },
        "types.ModelInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "axes": {"type": "string"},
                "installed": {"type": "boolean"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.ModelInfo"}}
            }
        },
        "types.OpenSessionRequest": {
            "type": "object",
            "properties": {
                "model": {"type": "string"},
                "image_path": {"type": "string"}
            }
        },
        "types.PointsRequest": {
            "type": "object",
            "properties": {
                "points": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "neg_points": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}}
            }
        },
        "types.Polygon": {
            "type": "object",
            "properties": {
                "xs": {"type": "array", "items": {"type": "integer"}},
                "ys": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "types.Raster": {
            "type": "object",
            "properties": {
                "width": {"type": "integer"},
                "height": {"type": "integer"},
                "pix": {"type": "array", "items": {"type": "number"}}
            }
        },
        "types.SegmentationResponse": {
            "type": "object",
            "properties": {
                "polygons": {"type": "array", "items": {"$ref": "#/definitions/types.Polygon"}}
            }
        },
        "types.SessionResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "model": {"type": "string"},
                "image_path": {"type": "string"}
            }
        },
        "types.SessionStatus": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "model": {"type": "string"},
                "image_path": {"type": "string"},
                "last_used_unix": {"type": "integer"},
                "port": {"type": "integer"},
                "pid": {"type": "integer"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "sessions": {"type": "array", "items": {"$ref": "#/definitions/types.SessionStatus"}},
                "uptime_seconds": {"type": "integer"},
                "server_time_unix": {"type": "integer"},
                "opens_total": {"type": "integer"},
                "contained_failures_total": {"type": "integer"},
                "last_error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "samjd API",
	Description:      "Promptable segmentation daemon API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
