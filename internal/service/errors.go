package service

import "errors"

var (
	ErrDeviceNotFound     = errors.New("device not found")
	ErrDeviceExists       = errors.New("device already exists")
	ErrDeviceUnavailable  = errors.New("device not available or already taken")
	ErrDeviceNotHeld      = errors.New("device not taken by any user")
	ErrNotHolder          = errors.New("device is held by another user")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
