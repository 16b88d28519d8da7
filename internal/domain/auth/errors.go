package auth

import "errors"

var (
	ErrHandleAlreadyTaken = errors.New("handle already taken")
	ErrInvalidCredentials = errors.New("invalid handle or password")
)
