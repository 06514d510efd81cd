package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Ownership denials on specific-resource reads also surface as ErrNotFound
	// so a caller cannot probe for the existence of another user's resources.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken signals a registration attempt with an already-used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnauthorized covers missing or invalid session credentials and
	// federated exchanges that produced no authenticated profile.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is the explicit denial used on listing and administrative
	// operations, where hiding existence serves no purpose.
	ErrForbidden = errors.New("forbidden")
	// ErrGoogleNotConfigured is returned when the OAuth client id, secret, or
	// redirect URI is absent. It fails fast so a misconfigured deployment is
	// distinguishable from a failed login.
	ErrGoogleNotConfigured = errors.New("google oauth is not configured")
	// ErrCalendarNotLinked is returned when a delegated call is requested for a
	// user with no stored token pair. The caller must not reach the network.
	ErrCalendarNotLinked = errors.New("user has not connected google calendar")
	// ErrCalendarCallFailed wraps provider rejections of a delegated call.
	// Stored tokens are left untouched when this is returned.
	ErrCalendarCallFailed = errors.New("google calendar call failed")
	ErrInvalidInput       = errors.New("invalid input")
)
