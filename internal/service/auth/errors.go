// Package auth implements credential verification, access token issuance,
// and refresh token rotation.
package auth

import "errors"

// Errors returned by the auth services.
var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	// Callers must not reveal which one.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when an access token fails signature or
	// structural validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when an access token is past its expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrWrongTokenType is returned when a token's type claim does not match
	// what the operation expects.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidRefreshToken is returned when a presented refresh token is
	// unknown, already used, or revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrInactiveUser is returned when an otherwise valid credential belongs
	// to a deactivated account.
	ErrInactiveUser = errors.New("user account is inactive")
)
