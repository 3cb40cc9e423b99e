package config

import "errors"

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrMissingPlayer       = errors.New("no player command configured")
	ErrMissingSetting      = errors.New("missing setting")
	ErrUnknownProvider     = errors.New("unknown synthesis provider")
	ErrMissingStorage      = errors.New("no upload storage configured")
)
