//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// Error codes in the 40001-49999 range are the client's fault,
// and they return HTTP Status 400, 401 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault,
// and they return HTTP Status 500 or 503.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXXX or 5XXXX.
// There's no correlation between Code and HTTP Status.
var (
	// Authentication errors (401)
	ErrUnauthorized = Error{Code: 40001, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("authentication required")}

	// Validation errors (400)
	ErrMalformedBody      = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrMalformedURLParam  = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid URL parameter")}
	ErrInvalidProvider    = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid provider information provided")}
	ErrInvalidRecipient   = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid recipient information provided")}
	ErrInvalidIncident    = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid incident information provided")}
	ErrInvalidEventKind   = Error{Code: 40007, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid event kind")}
	ErrProviderKindLocked = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("provider kind cannot be changed")}

	// Not found errors (404)
	ErrProviderNotFound  = Error{Code: 40009, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("provider not found")}
	ErrRecipientNotFound = Error{Code: 40010, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("recipient not found")}
	ErrIncidentNotFound  = Error{Code: 40011, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("incident not found")}

	// Internal server errors (500)
	ErrGenericInternalServerError = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrMarshalingServerJSONFailed = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrStorageFailure             = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("storage operation failed")}
	ErrNotificationFailure        = Error{Code: 50004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("notification dispatch failed")}
)
