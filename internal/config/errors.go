package config

import "errors"

// Errors returned by configuration loading.
var (
	// ErrInvalidJSON indicates the config file is not well-formed JSON.
	ErrInvalidJSON = errors.New("config: invalid JSON")

	// ErrOutOfRange indicates a numeric setting is outside its allowed range.
	ErrOutOfRange = errors.New("config: value out of range")
)
