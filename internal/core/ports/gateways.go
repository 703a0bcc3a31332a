package ports

import (
	"context"
	"io"
	"time"
)

// Mailer sends a plain-text email. Callers treat failures as best-effort.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// GenerationRequest is a single prompt for a text-generation backend.
type GenerationRequest struct {
	System      string
	Prompt      string
	JSON        bool // ask the backend for a JSON object payload
	Temperature float32
	MaxTokens   int
}

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// FileStorage keeps uploaded files under generated, collision-free names.
type FileStorage interface {
	// Save stores r and returns the generated name. The extension of
	// originalName is kept.
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}

// TokenRevoker records tokens that were logged out before they expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
