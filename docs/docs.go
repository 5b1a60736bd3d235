// Package docs registers the OpenAPI description of the HTTP API with swag,
// served by echo-swagger at /swagger/*. Keep it in step with the handler
// annotations when routes change.
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
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Request a one-time login code",
                "parameters": [
                    {
                        "description": "Email",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "End the current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LogoutResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/research/{ticker}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["research"],
                "summary": "Synthesize research for a ticker",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Ticker symbol",
                        "name": "ticker",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ResearchView"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["research"],
                "summary": "Suggest tickers by symbol or name",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Search text",
                        "name": "q",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Ticker"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Report the current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.SessionStatus"}}
                }
            }
        },
        "/stock-of-day": {
            "get": {
                "produces": ["application/json"],
                "tags": ["research"],
                "summary": "Get the pinned daily pick",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ResearchView"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/verify": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Verify a login code and start a session",
                "parameters": [
                    {
                        "description": "Email and code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.VerifyRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.VerifyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "handler.LogoutResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"}
            }
        },
        "handler.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handler.VerifyRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "handler.VerifyResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "model.ConsensusScore": {
            "type": "object",
            "properties": {
                "score": {"type": "number"},
                "source": {"type": "string"},
                "summary": {"type": "string"}
            }
        },
        "model.Direction": {
            "type": "string",
            "enum": ["bullish", "bearish"],
            "x-enum-varnames": ["DirectionBullish", "DirectionBearish"]
        },
        "model.ResearchView": {
            "type": "object",
            "properties": {
                "consensus": {"type": "array", "items": {"$ref": "#/definitions/model.ConsensusScore"}},
                "direction": {"$ref": "#/definitions/model.Direction"},
                "displayDate": {"type": "string"},
                "moveSummary": {"type": "string"},
                "name": {"type": "string"},
                "retrievedAt": {"type": "string"},
                "symbol": {"type": "string"},
                "thesis": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.SessionStatus": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "email": {"type": "string"}
            }
        },
        "model.Ticker": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "symbol": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Stock Research API",
	Description:      "One-time code login and deterministic per-ticker research cards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
