package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrHandleAlreadyTaken = errors.New("handle already taken")
)
