package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRefreshToken   = errors.New("no refresh token available")
)
