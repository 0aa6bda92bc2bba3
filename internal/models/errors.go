package models

import "errors"

var (
	ErrEmptyTitle       = errors.New("title is required")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidTimeRange = errors.New("end time is before start time")
	ErrTrackingState    = errors.New("isTracking does not match currentStartTime")
)
