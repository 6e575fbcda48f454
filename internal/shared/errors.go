package shared

import "errors"

// Sentinels shared across modules.
var (
	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials covers every login failure, unknown email and
	// disabled account included, so the form cannot be used to probe for
	// registered addresses.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing is returned when a mutating request carries no
	// token in the X-CSRF-Token header or csrf_token form field.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch is returned when the submitted token does not
	// match the one bound to the session.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
