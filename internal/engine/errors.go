package engine

import "errors"

// Errors returned by engine operations. None of them leaves a partial update.
var (
	ErrLessonNotFound  = errors.New("lesson not found in catalog")
	ErrLessonLocked    = errors.New("lesson is locked")
	ErrInvalidAccuracy = errors.New("accuracy must be within [0, 1]")
	ErrItemNotFound    = errors.New("review item not found")
	ErrInvalidPractice = errors.New("invalid practice session")
)
