package shortener

import "errors"

var (
	ErrInvalidTarget       = errors.New("invalid url: must be an absolute http or https url")
	ErrInvalidValidity     = errors.New("validity must be a positive integer representing minutes")
	ErrInvalidCode         = errors.New("invalid shortcode: must be alphanumeric and 3-20 characters long")
	ErrCodeConflict        = errors.New("shortcode already exists")
	ErrNotFound            = errors.New("short url not found or has expired")
	ErrGenerationExhausted = errors.New("failed to generate a unique shortcode")
)
