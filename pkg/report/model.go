// Package report generates narrative exhibition reports with a language
// model conditioned on retrieved context.
package report

import (
	"context"
	"errors"
)

var (
	// ErrCompletion is returned when the language model call fails.
	ErrCompletion = errors.New("language model completion failed")

	// ErrMalformedReport is returned when the model's answer carries no
	// report.
	ErrMalformedReport = errors.New("model answer is not a report")

	// ErrExhibitionNotFound is returned when a report is requested for an
	// unknown exhibition.
	ErrExhibitionNotFound = errors.New("exhibition not found")
)

// Params tune one completion. Zero values leave the provider default.
type Params struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// LanguageModel completes a single user prompt.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string, params Params) (string, error)
}
