// Package client is the transport to the recipe API.
//
// # Overview
//
// Client describes every REST call the application makes. HTTPClient
// implements it over net/http with JSON bodies. Its round tripper attaches
// "Authorization: Bearer <token>" whenever the session has a token, stamps
// each request with an X-Request-ID, and ends the session as soon as the
// server answers 401.
//
// # Error Handling
//
// Non-2xx responses come back as *APIError, which unwraps to one of the
// sentinels (ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound,
// ErrConflict, ErrServer). Transport failures wrap ErrUnavailable. Nothing
// is retried. UserMessage turns any of them into text for the user.
package client
