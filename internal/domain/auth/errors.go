package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrMissingClaims          = errors.New("token is missing required claims")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
