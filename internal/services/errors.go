package services

import "errors"

var (
	ErrMissingImageURL    = errors.New("Missing image_url")
	ErrMissingCredentials = errors.New("Missing username or password")
	ErrUserExists         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrNoProfileData      = errors.New("No data provided")
	ErrUnknownKind        = errors.New("unknown interaction kind")
)
