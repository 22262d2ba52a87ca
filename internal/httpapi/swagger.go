package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) swaggerUI(w http.ResponseWriter, r *http.Request) {
	const page = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Willena Progress API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/swagger/openapi.json',
      dom_id: '#swagger-ui'
    });
  </script>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (h *Handler) swaggerSpec(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, openAPISpec(requestBaseURL(r)))
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); forwarded != "" {
		scheme = strings.Split(forwarded, ",")[0]
		scheme = strings.TrimSpace(scheme)
	}

	host := strings.TrimSpace(r.Host)
	if host == "" {
		host = "localhost:8080"
	}
	return scheme + "://" + host
}

func openAPISpec(serverURL string) map[string]any {
	userIDParam := map[string]any{
		"name":     "user_id",
		"in":       "query",
		"required": true,
		"schema":   map[string]any{"type": "string"},
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "Willena Progress API",
			"description": "Progress aggregation and event recording for the practice games",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": serverURL},
		},
		"paths": map[string]any{
			"/healthz": map[string]any{
				"get": map[string]any{
					"summary":     "Health check",
					"operationId": "healthz",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "OK",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{"$ref": "#/components/schemas/HealthResponse"},
								},
							},
						},
					},
				},
			},
			"/api/v1/progress/summary": map[string]any{
				"get": map[string]any{
					"summary":     "Per-list progress with best scores, completion and stars",
					"operationId": "progressSummary",
					"parameters": []map[string]any{
						userIDParam,
						{
							"name":     "category",
							"in":       "query",
							"required": false,
							"schema": map[string]any{
								"type": "string",
								"enum": []string{"wordlist", "grammar", "phonics"},
							},
						},
					},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Always well-formed; ready=false while data is loading",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{"$ref": "#/components/schemas/ProgressResponse"},
								},
							},
						},
						"400": map[string]any{"description": "Unknown category"},
					},
				},
			},
			"/api/v1/progress/stars": map[string]any{
				"get": map[string]any{
					"summary":     "Star totals rolled up per catalog level",
					"operationId": "starCounts",
					"parameters":  []map[string]any{userIDParam},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "OK",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{"$ref": "#/components/schemas/StarCounts"},
								},
							},
						},
					},
				},
			},
			"/api/v1/progress/challenging": map[string]any{
				"get": map[string]any{
					"summary":     "Words the learner keeps getting wrong, grouped by skill",
					"operationId": "challengingWords",
					"parameters":  []map[string]any{userIDParam},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "OK",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{"$ref": "#/components/schemas/ChallengingResponse"},
								},
							},
						},
					},
				},
			},
			"/api/v1/events": map[string]any{
				"get": map[string]any{
					"summary":     "Raw event rows, in the upstream event-store shape",
					"operationId": "eventRows",
					"parameters": []map[string]any{
						userIDParam,
						{
							"name":     "section",
							"in":       "query",
							"required": true,
							"schema": map[string]any{
								"type": "string",
								"enum": []string{"sessions", "attempts"},
							},
						},
					},
					"responses": map[string]any{
						"200": map[string]any{"description": "OK"},
						"400": map[string]any{"description": "Missing user_id or unsupported section"},
					},
				},
			},
			"/api/v1/events/attempts": map[string]any{
				"post": map[string]any{
					"summary":     "Record one answer event",
					"operationId": "recordAttempt",
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": map[string]any{"$ref": "#/components/schemas/RecordAttemptRequest"},
							},
						},
					},
					"responses": map[string]any{
						"201": map[string]any{"description": "Created"},
						"400": map[string]any{"description": "Missing user_id, mode or word"},
						"503": map[string]any{"description": "This instance does not record events"},
					},
				},
			},
			"/api/v1/events/sessions": map[string]any{
				"post": map[string]any{
					"summary":     "Open a practice session",
					"operationId": "startSession",
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": map[string]any{"$ref": "#/components/schemas/StartSessionRequest"},
							},
						},
					},
					"responses": map[string]any{
						"201": map[string]any{"description": "Created"},
						"400": map[string]any{"description": "Missing user_id or mode"},
						"503": map[string]any{"description": "This instance does not record events"},
					},
				},
			},
			"/api/v1/events/sessions/close": map[string]any{
				"post": map[string]any{
					"summary":     "Close a session and attach its summary",
					"operationId": "closeSession",
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": map[string]any{"$ref": "#/components/schemas/CloseSessionRequest"},
							},
						},
					},
					"responses": map[string]any{
						"200": map[string]any{"description": "OK"},
						"400": map[string]any{"description": "Missing session_id"},
						"404": map[string]any{"description": "Session not found"},
						"503": map[string]any{"description": "This instance does not record events"},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"HealthResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"status": map[string]any{"type": "string", "example": "ok"},
					},
				},
				"ErrorResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": map[string]any{"type": "string"},
					},
				},
				"ListSummary": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"key":        map[string]any{"type": "string"},
						"label":      map[string]any{"type": "string"},
						"emoji":      map[string]any{"type": "string"},
						"level":      map[string]any{"type": "integer"},
						"type":       map[string]any{"type": "string", "enum": []string{"wordlist", "grammar", "phonics"}},
						"completion": map[string]any{"type": "number"},
						"stars":      map[string]any{"type": "integer"},
						"modes": map[string]any{
							"type":                 "object",
							"additionalProperties": map[string]any{"type": "number"},
						},
					},
				},
				"ProgressResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"user_id":    map[string]any{"type": "string"},
						"category":   map[string]any{"type": "string"},
						"ready":      map[string]any{"type": "boolean"},
						"from_cache": map[string]any{"type": "boolean"},
						"lists": map[string]any{
							"type":  "array",
							"items": map[string]any{"$ref": "#/components/schemas/ListSummary"},
						},
					},
				},
				"StarCounts": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"user_id": map[string]any{"type": "string"},
						"ready":   map[string]any{"type": "boolean"},
						"level0":  map[string]any{"type": "integer"},
						"level1":  map[string]any{"type": "integer"},
						"level2":  map[string]any{"type": "integer"},
						"level3":  map[string]any{"type": "integer"},
					},
				},
				"ChallengingWord": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"word":     map[string]any{"type": "string"},
						"skill":    map[string]any{"type": "string", "enum": []string{"spelling", "listening", "reading", "meaning"}},
						"accuracy": map[string]any{"type": "number"},
						"attempts": map[string]any{"type": "integer"},
					},
				},
				"ChallengingResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"user_id": map[string]any{"type": "string"},
						"ready":   map[string]any{"type": "boolean"},
						"words": map[string]any{
							"type":  "array",
							"items": map[string]any{"$ref": "#/components/schemas/ChallengingWord"},
						},
					},
				},
				"RecordAttemptRequest": map[string]any{
					"type":     "object",
					"required": []string{"user_id", "mode", "word"},
					"properties": map[string]any{
						"user_id":        map[string]any{"type": "string"},
						"session_id":     map[string]any{"type": "string"},
						"mode":           map[string]any{"type": "string"},
						"word":           map[string]any{"type": "string"},
						"is_correct":     map[string]any{"type": "boolean"},
						"points":         map[string]any{"type": "number"},
						"correct_answer": map[string]any{"type": "string"},
						"extra":          map[string]any{"type": "object"},
					},
				},
				"StartSessionRequest": map[string]any{
					"type":     "object",
					"required": []string{"user_id", "mode"},
					"properties": map[string]any{
						"user_id":   map[string]any{"type": "string"},
						"mode":      map[string]any{"type": "string"},
						"list_name": map[string]any{"type": "string"},
						"list_size": map[string]any{"type": "integer"},
					},
				},
				"CloseSessionRequest": map[string]any{
					"type":     "object",
					"required": []string{"session_id"},
					"properties": map[string]any{
						"session_id": map[string]any{"type": "string"},
						"summary":    map[string]any{"type": "object"},
						"correct":    map[string]any{"type": "integer"},
						"total":      map[string]any{"type": "integer"},
					},
				},
			},
		},
	}
}
