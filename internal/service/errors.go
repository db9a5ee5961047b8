package service

import "errors"

var (
	ErrFollowSelf         = errors.New("cannot follow self")
	ErrInvalidAction      = errors.New("invalid action")
	ErrUserNotFound       = errors.New("user not found")
	ErrImageNotFound      = errors.New("image not found")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid login")
	ErrInvalidInput       = errors.New("invalid input")
)
