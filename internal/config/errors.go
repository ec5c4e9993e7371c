package config

import (
	"errors"
)

var (
	// ErrInvalidConfig marks settings that failed validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig marks a dotenv, config file or env source that could not be read.
	ErrLoadConfig = errors.New("load config failed")
)
