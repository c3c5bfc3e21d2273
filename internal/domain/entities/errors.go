package entities

import "errors"

// Domain errors
var (
	// Mentee errors
	ErrMenteeNotFound      = errors.New("mentee not found")
	ErrMenteeAlreadyExists = errors.New("mentee already exists")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrInvalidName         = errors.New("invalid name")

	// Survey errors
	ErrResponseNotFound = errors.New("survey response not found")
	ErrAnalysisNotFound = errors.New("survey analysis not found")

	// Pendency errors
	ErrPendencyNotFound = errors.New("pendency not found")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)
