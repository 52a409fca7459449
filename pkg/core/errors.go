package core

import (
	"errors"
	"fmt"
)

// Error classes surfaced by the pipeline. Typed errors below match these
// through errors.Is.
var (
	// ErrParse indicates document metadata did not match the expected shape.
	ErrParse = errors.New("parse error")

	// ErrAnnotation indicates the Annotator produced malformed or unlabelled output.
	ErrAnnotation = errors.New("annotation error")

	// ErrPool indicates a task failed inside dispatch rather than in annotation logic.
	ErrPool = errors.New("pool error")
)

// ParseError reports a filename that does not follow <identifier>-<name>.<extension>.
type ParseError struct {
	Filename string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Filename, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// AnnotationError reports malformed Annotator output for one paragraph.
// Sentence is -1 when the failure is not tied to a single sentence.
type AnnotationError struct {
	Paragraph int
	Sentence  int
	Reason    string
	Err       error
}

func (e *AnnotationError) Error() string {
	msg := fmt.Sprintf("annotate paragraph %d", e.Paragraph)
	if e.Sentence >= 0 {
		msg += fmt.Sprintf(" sentence %d", e.Sentence)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AnnotationError) Is(target error) bool { return target == ErrAnnotation }

func (e *AnnotationError) Unwrap() error { return e.Err }

// PoolError reports a task that crashed or could not be dispatched.
type PoolError struct {
	Index int
	Panic any
	Err   error
}

func (e *PoolError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("task %d panicked: %v", e.Index, e.Panic)
	}
	return fmt.Sprintf("task %d: %v", e.Index, e.Err)
}

func (e *PoolError) Is(target error) bool { return target == ErrPool }

func (e *PoolError) Unwrap() error { return e.Err }
