package ports

import (
	"context"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// DraftInput carries the sparse inputs for a generated task description.
type DraftInput struct {
	ServiceType string
	Keywords    string
	ClientName  string // optional
	Priority    string // optional
}

// DraftingService produces advisory task content. None of its operations
// writes to the store.
type DraftingService interface {
	DraftTaskDescription(ctx context.Context, input DraftInput) (*domain.TaskDraft, error)
	// SuggestPriority never fails; it degrades to domain.DefaultPriority.
	SuggestPriority(ctx context.Context, description string, deadlineDays *int) domain.Priority
	ExtractTaskFromSpeech(ctx context.Context, audio string) (*domain.SpeechTask, error)
}
