package utils

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrStageOutputInvalid = errors.New("stage output invalid")
	ErrUnknownComponent   = errors.New("unknown component")
	ErrOptionNotOffered   = errors.New("option not offered")
	ErrSessionNotFound    = errors.New("session not found")
	ErrPendingComponents  = errors.New("pending components")
	ErrEngineUnavailable  = errors.New("generation engine unavailable")
)

const stageExcerptLimit = 200

// StageError is fatal to a pipeline run: a stage produced output the
// contract validator could not accept. Excerpt is capped so raw model
// output never floods logs or responses.
type StageError struct {
	Stage   string
	Excerpt string
	Reason  string
}

func NewStageError(stage, raw, reason string) *StageError {
	return &StageError{
		Stage:   stage,
		Excerpt: Excerpt(raw, stageExcerptLimit),
		Reason:  reason,
	}
}

func (e *StageError) Error() string {
	if e.Excerpt == "" {
		return fmt.Sprintf("stage %q produced invalid output: %s", e.Stage, e.Reason)
	}
	return fmt.Sprintf("stage %q produced invalid output: %s: %q", e.Stage, e.Reason, e.Excerpt)
}

func (e *StageError) Unwrap() error { return ErrStageOutputInvalid }

// ValidationError carries field-level detail for caller-correctable input.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// PendingComponentsError names the next component still awaiting confirmation.
type PendingComponentsError struct {
	Next string
}

func (e *PendingComponentsError) Error() string {
	return fmt.Sprintf("cannot finalize: %s is not confirmed yet", e.Next)
}

func (e *PendingComponentsError) Unwrap() error { return ErrPendingComponents }

// Excerpt truncates s for safe inclusion in errors and logs.
func Excerpt(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
