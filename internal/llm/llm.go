// Package llm wraps the hosted language model used by the chat endpoints.
package llm

import (
	"context"
	"errors"
	"fmt"

	"arogyakrishi/internal/model"
)

// ErrDisabled is returned by operations that need a hosted model when none is configured.
var ErrDisabled = errors.New("language model not configured")

// Assistant produces chat replies, transcripts and synthesized speech.
type Assistant interface {
	// Enabled reports whether a hosted model backs this assistant.
	Enabled() bool
	Reply(ctx context.Context, language string, history []model.ChatTurn) (string, error)
	Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SystemPrompt is sent ahead of the history on every completion.
func SystemPrompt(language string) string {
	return fmt.Sprintf("You are ArogyaKrishi, an agricultural assistant for farmers. "+
		"Provide concise, practical guidance. "+
		"Reply in language code '%s'.", language)
}

