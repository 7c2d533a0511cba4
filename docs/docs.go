// Package docs holds the OpenAPI description served at /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/otp/request": {"post": {"tags": ["auth"], "summary": "Send a one-time code to an email address", "responses": {"200": {"description": "OK"}, "429": {"description": "Too many requests"}}}},
        "/auth/otp/verify": {"post": {"tags": ["auth"], "summary": "Verify a one-time code", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid or expired code"}}}},
        "/auth/register/complete": {"post": {"tags": ["auth"], "summary": "Create an account from a verified email", "responses": {"201": {"description": "Created"}}}},
        "/auth/password/reset": {"post": {"tags": ["auth"], "summary": "Set a new password from a verified email", "responses": {"200": {"description": "OK"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in with email and password", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Exchange a refresh token", "responses": {"200": {"description": "OK"}}}},
        "/movies": {
            "get": {"tags": ["movies"], "summary": "List movies", "parameters": [{"name": "status", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK"}}}
        },
        "/movies/{id}": {"get": {"tags": ["movies"], "summary": "Get a movie", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/showtimes": {"get": {"tags": ["showtimes"], "summary": "List showtimes", "responses": {"200": {"description": "OK"}}}},
        "/showtimes/{id}/seats": {"get": {"tags": ["showtimes"], "summary": "Seat map with availability and prices", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/bookings": {
            "post": {"tags": ["bookings"], "summary": "Book seats and pay", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Confirmed"}, "400": {"description": "Invalid selection"}, "402": {"description": "Payment failed"}, "409": {"description": "Seat already booked"}}},
            "get": {"tags": ["bookings"], "summary": "List my bookings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/bookings/{id}": {"get": {"tags": ["bookings"], "summary": "Get a booking", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not found"}}}},
        "/bookings/{id}/qr": {"get": {"tags": ["bookings"], "summary": "Ticket QR code", "produces": ["image/png"], "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "PNG"}, "409": {"description": "Booking not confirmed"}}}},
        "/bookings/{id}/refund-quote": {"get": {"tags": ["cancellation"], "summary": "Refund if cancelled now", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/bookings/{id}/cancel": {"post": {"tags": ["cancellation"], "summary": "Cancel a booking", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Not cancellable"}}}},
        "/wallet": {"get": {"tags": ["wallet"], "summary": "Wallet balance and history", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/reports/summary": {"get": {"tags": ["reports"], "summary": "Revenue summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/reports/movies": {"get": {"tags": ["reports"], "summary": "Revenue per movie", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/reports/daily": {"get": {"tags": ["reports"], "summary": "Bookings per day", "security": [{"BearerAuth": []}], "parameters": [{"name": "days", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo is filled in by the server before routes are mounted
var SwaggerInfo = &swag.Spec{
	Version:          "v1",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Cinebook API",
	Description:      "Movie ticket booking backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
