package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrValidation      = errors.New("malformed input")
	ErrStorage         = errors.New("storage failure")
	ErrArchive         = errors.New("archive failure")
	ErrDelivery        = errors.New("message delivery failed")
)
