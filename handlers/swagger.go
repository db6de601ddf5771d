package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the JSON API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRoutes) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>devfolio API - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "devfolio", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Project": {"type":"object","required":["title","description"],"properties":{"id":{"type":"string"},"title":{"type":"string"},"description":{"type":"string"},"technologies":{"type":"string","description":"comma separated"},"imageUrl":{"type":"string"},"liveUrl":{"type":"string"},"githubUrl":{"type":"string"}}},
      "Skill": {"type":"object","required":["name","category"],"properties":{"id":{"type":"string"},"name":{"type":"string"},"category":{"type":"string"},"level":{"type":"integer","minimum":1,"maximum":10}}},
      "Contact": {"type":"object","required":["name","email","subject","message"],"properties":{"name":{"type":"string"},"email":{"type":"string"},"subject":{"type":"string"},"message":{"type":"string"}}},
      "Error": {"type":"object","properties":{"error":{"type":"string"},"field":{"type":"string"},"notices":{"type":"array","items":{"type":"object"}}}}
    }
  },
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Sign in with email/password (mode=password) or an OIDC ID token (mode=oidc)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"mode":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"},"id_token":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens returned" }, "401": { "description": "authentication failed" }, "403": { "description": "identity is not an operator" } }
      }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Revoke the refresh token and blacklist the access token", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/site/layout": { "get": { "summary": "Site metadata, brand and social links", "responses": { "200": { "description": "layout" } } } },
    "/api/v1/site/home": { "get": { "summary": "Hero, featured projects and top skills", "responses": { "200": { "description": "home view" } } } },
    "/api/v1/site/projects": { "get": { "summary": "All projects", "responses": { "200": { "description": "projects view" } } } },
    "/api/v1/site/about": { "get": { "summary": "About text, grouped skills, education and certifications", "responses": { "200": { "description": "about view" } } } },
    "/api/v1/contact": {
      "post": { "summary": "Submit a contact message", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Contact"}}}}, "responses": { "201": { "description": "stored" }, "400": { "description": "validation failure" }, "429": { "description": "rate limited" } } }
    },
    "/api/v1/admin/dashboard": { "get": { "summary": "Content counts", "security": [{"bearer": []}], "responses": { "200": { "description": "metrics" }, "503": { "description": "store unavailable" } } } },
    "/api/v1/admin/projects": {
      "get": { "summary": "List projects", "security": [{"bearer": []}], "responses": { "200": { "description": "items" } } },
      "post": { "summary": "Create a project", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Project"}}}}, "responses": { "201": { "description": "resynchronised items" }, "400": { "description": "validation failure" } } }
    },
    "/api/v1/admin/projects/{id}": {
      "put": { "summary": "Update a project", "security": [{"bearer": []}], "responses": { "200": { "description": "resynchronised items" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a project (requires confirm=true)", "security": [{"bearer": []}], "parameters": [{"name":"confirm","in":"query","schema":{"type":"boolean"}}], "responses": { "200": { "description": "resynchronised items" }, "428": { "description": "confirmation required" } } }
    },
    "/api/v1/admin/skills": {
      "get": { "summary": "List skills", "security": [{"bearer": []}], "responses": { "200": { "description": "items" } } },
      "post": { "summary": "Create a skill", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Skill"}}}}, "responses": { "201": { "description": "resynchronised items" }, "400": { "description": "validation failure" } } }
    },
    "/api/v1/admin/skills/{id}": {
      "put": { "summary": "Update a skill", "security": [{"bearer": []}], "responses": { "200": { "description": "resynchronised items" } } },
      "delete": { "summary": "Delete a skill (requires confirm=true)", "security": [{"bearer": []}], "responses": { "200": { "description": "resynchronised items" }, "428": { "description": "confirmation required" } } }
    },
    "/api/v1/admin/messages": { "get": { "summary": "Messages, newest first", "security": [{"bearer": []}], "responses": { "200": { "description": "items and unread count" } } } },
    "/api/v1/admin/messages/{id}/read": { "post": { "summary": "Mark a message as read", "security": [{"bearer": []}], "responses": { "200": { "description": "resynchronised items" } } } },
    "/api/v1/admin/messages/{id}": { "delete": { "summary": "Delete a message (requires confirm=true)", "security": [{"bearer": []}], "responses": { "200": { "description": "resynchronised items" }, "428": { "description": "confirmation required" } } } },
    "/api/v1/admin/settings": {
      "get": { "summary": "Settings (bootstrapped on first read)", "security": [{"bearer": []}], "responses": { "200": { "description": "settings" } } },
      "put": { "summary": "Replace settings", "security": [{"bearer": []}], "responses": { "200": { "description": "saved" }, "400": { "description": "validation failure" } } }
    },
    "/api/v1/admin/uploads": { "post": { "summary": "Upload an image (multipart field 'file')", "security": [{"bearer": []}], "responses": { "201": { "description": "public URL" }, "413": { "description": "too large" }, "415": { "description": "not an image" } } } },
    "/media/{key}": { "get": { "summary": "Uploaded image", "responses": { "200": { "description": "image bytes" }, "404": { "description": "not found" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
