package sessions

import "errors"

// Error kinds surfaced to the presentation layer. Handlers map each to a
// distinct HTTP outcome; none may be downgraded to a generic failure.
var (
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so responses cannot be used for user enumeration.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrTokenInvalid marks a token with a bad signature, malformed structure
	// or out-of-window iat/nbf/exp.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenRevoked marks an access token whose jti is blocklisted.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrSessionNotFound marks a refresh jti that is no longer registered,
	// typically a refresh token reused after rotation.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRefreshRotationFailed marks a rotation that consumed the old refresh
	// jti but could not establish the replacement; the client must log in again.
	ErrRefreshRotationFailed = errors.New("refresh rotation failed")
	// ErrUserNotFound marks a valid token whose subject no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
