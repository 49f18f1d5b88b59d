package domain

import "errors"

var (
	ErrNotFound               = errors.New("project not found")
	ErrDuplicateID            = errors.New("project id already exists")
	ErrInvalidStructuredField = errors.New("invalid structured field")
	ErrUnsupportedImage       = errors.New("unsupported image type")
	ErrImageTooLarge          = errors.New("image exceeds upload size limit")
)

// ValidationError reports the first form field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsClientError reports whether err was caused by the request payload.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrInvalidStructuredField) ||
		errors.Is(err, ErrUnsupportedImage) ||
		errors.Is(err, ErrImageTooLarge)
}
