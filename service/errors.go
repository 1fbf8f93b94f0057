package service

import "errors"

var (
	// ErrIncidentNotFound is returned when the referenced incident does not exist.
	ErrIncidentNotFound = errors.New("incident not found")

	// ErrTanodNotFound is returned when the referenced tanod does not exist.
	ErrTanodNotFound = errors.New("tanod not found")
)
