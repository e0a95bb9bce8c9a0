// Package handler provides the HTTP handlers for the activities API.
//
// Handlers are thin: they bind path and query parameters, call the
// ActivityService, and write either a JSON body or an RFC 9457 problem
// document. Service errors are translated in one place, MapServiceError.
//
// # Routes
//
// NewRouter registers every route on a Go 1.22 http.ServeMux:
//
//	GET  /                                     307 to /static/index.html
//	GET  /static/                              embedded landing page
//	GET  /activities                           all activities keyed by name
//	GET  /activities/events                    Server-Sent Events stream
//	GET  /activities/{activity_name}           one activity
//	POST /activities/{activity_name}/signup    ?email=
//	POST /activities/{activity_name}/unregister ?email=
//	GET  /health
//	GET  /metrics                              when enabled
//
// # Error Format
//
//	{
//	  "type": "https://activities.mergington.edu/errors/not-found",
//	  "title": "Not Found",
//	  "status": 404,
//	  "detail": "Activity not found",
//	  "code": 3001
//	}
package handler
