package resumes

import "errors"

var (
	// ErrNotFound indicates a missing or foreign resume record.
	ErrNotFound = errors.New("resume not found")
	// ErrInvalidInput indicates a rejected request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidFeedback indicates the model reply could not be parsed
	// into a feedback payload.
	ErrInvalidFeedback = errors.New("invalid feedback payload")
	// ErrMissingJobContext indicates a strengths analysis was requested
	// for a record without job title and description.
	ErrMissingJobContext = errors.New("job title and job description are required")
)
