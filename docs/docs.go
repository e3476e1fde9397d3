// Package docs holds the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/health": {
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Service health",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Healthy or degraded"
                    },
                    "503": {
                        "description": "Database unavailable"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Readiness probe",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "Not ready"
                    }
                }
            }
        },
        "/live": {
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Liveness probe",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/token": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Issue a JWT",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Token issued"
                    },
                    "400": {
                        "description": "Bad request"
                    },
                    "401": {
                        "description": "Invalid credentials"
                    },
                    "429": {
                        "description": "Too many attempts"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "JSON body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/wp-json/wp/v2/posts": {
            "get": {
                "tags": [
                    "posts"
                ],
                "summary": "List posts",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Posts; totals in X-WP-Total and X-WP-TotalPages"
                    },
                    "400": {
                        "description": "Invalid parameters"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Page number",
                        "name": "page",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Items per page (max 100)",
                        "name": "per_page",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Full text search",
                        "name": "search",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Category name",
                        "name": "categories",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Exact slug",
                        "name": "slug",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "boolean",
                        "description": "Embed author, media and terms",
                        "name": "_embed",
                        "in": "query",
                        "required": false
                    }
                ]
            },
            "post": {
                "tags": [
                    "posts"
                ],
                "summary": "Create post",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "Invalid fields"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "409": {
                        "description": "Slug exists"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "JSON body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/wp-json/wp/v2/posts/{id}": {
            "get": {
                "tags": [
                    "posts"
                ],
                "summary": "Get post",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Invalid post ID"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Resource ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "put": {
                "tags": [
                    "posts"
                ],
                "summary": "Update post",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid fields"
                    },
                    "404": {
                        "description": "Invalid post ID"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Resource ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "JSON body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "posts"
                ],
                "summary": "Delete post",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Invalid post ID"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Resource ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/wp-json/jobs/v1/listings": {
            "get": {
                "tags": [
                    "jobs"
                ],
                "summary": "List published jobs",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "jobs, total, total_pages, current_page"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Page number",
                        "name": "page",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Items per page (max 100)",
                        "name": "per_page",
                        "in": "query",
                        "required": false
                    }
                ]
            },
            "post": {
                "tags": [
                    "jobs"
                ],
                "summary": "Create job opening",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "Invalid fields"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "JSON body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/wp-json/jobs/v1/listings/{id}": {
            "get": {
                "tags": [
                    "jobs"
                ],
                "summary": "Get published job",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Job not found."
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Resource ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "put": {
                "tags": [
                    "jobs"
                ],
                "summary": "Update job opening",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid fields"
                    },
                    "404": {
                        "description": "Job not found."
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Resource ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "JSON body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "jobs"
                ],
                "summary": "Delete job opening",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Job not found."
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Resource ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/wp-json/jobs/v1/apply_job/{id}": {
            "post": {
                "tags": [
                    "jobs"
                ],
                "summary": "Apply for a job",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Application stored"
                    },
                    "400": {
                        "description": "Name and valid email required."
                    },
                    "404": {
                        "description": "Invalid or unpublished job."
                    },
                    "429": {
                        "description": "Too many submissions"
                    }
                },
                "consumes": [
                    "application/json",
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Resource ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "JSON body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/wp-json/jobs/v1/applications": {
            "get": {
                "tags": [
                    "jobs"
                ],
                "summary": "List job applications",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "applications, total"
                    },
                    "403": {
                        "description": "Admin only"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Only this job",
                        "name": "job_id",
                        "in": "query",
                        "required": false
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/wp-json/contact-form-7/v1/contact-forms/{form_id}/feedback": {
            "post": {
                "tags": [
                    "contact"
                ],
                "summary": "Submit contact form",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "mail_sent or validation_failed"
                    },
                    "400": {
                        "description": "No submission data provided."
                    },
                    "404": {
                        "description": "Contact Form 7 form not found."
                    },
                    "429": {
                        "description": "Too many submissions"
                    }
                },
                "consumes": [
                    "multipart/form-data",
                    "application/x-www-form-urlencoded",
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Form ID",
                        "name": "form_id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/wp-json/contact-form-7/v1/submissions": {
            "get": {
                "tags": [
                    "contact"
                ],
                "summary": "List contact submissions",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "submissions, total"
                    },
                    "403": {
                        "description": "Admin only"
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Only this form",
                        "name": "form_id",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Maximum rows (default 50, max 200)",
                        "name": "limit",
                        "in": "query",
                        "required": false
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT from /auth/token, sent as \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "TN Systems Content API",
	Description:      "Posts, job listings, job applications and contact form submissions for the TN Systems site.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
