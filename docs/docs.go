// Package docs holds the swagger document served under /swagger.
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
        "/api/tournaments/{tournamentID}/bracket": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Seeds the roster, creates and schedules the first-round matches and moves the tournament to in_progress.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "brackets"
                ],
                "summary": "Generate tournament bracket",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Tournament ID",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.GenerateBracketResult"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/api/tournaments/{tournamentID}/matches": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "brackets"
                ],
                "summary": "List tournament matches",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Tournament ID",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "array",
                                "items": {
                                    "$ref": "#/definitions/models.Match"
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "models.Match": {
            "type": "object",
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "generation_run_id": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "location": {
                    "type": "string"
                },
                "match_number": {
                    "type": "integer"
                },
                "player1_id": {
                    "type": "integer"
                },
                "player2_id": {
                    "type": "integer"
                },
                "round": {
                    "type": "integer"
                },
                "status": {
                    "type": "string"
                },
                "tournament_id": {
                    "type": "integer"
                }
            }
        },
        "services.GenerateBracketResult": {
            "type": "object",
            "properties": {
                "byes": {
                    "type": "integer"
                },
                "format": {
                    "type": "string"
                },
                "matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Match"
                    }
                },
                "matches_created": {
                    "type": "integer"
                },
                "run_id": {
                    "type": "string"
                },
                "seed_update_failures": {
                    "type": "integer"
                },
                "snapshot_url": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "tournament_id": {
                    "type": "integer"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tennis Ladder Bracket API",
	Description:      "Bracket generation and seeding for tennis ladder tournaments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
