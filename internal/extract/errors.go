package extract

import "fmt"

// ExtractionError indicates that text could not be recovered from a
// document or image.
type ExtractionError struct {
	Source string // file path or "image"
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
