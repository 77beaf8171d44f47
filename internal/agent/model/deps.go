package model

import (
	"context"
)

// StateRepository persists per-user conversation state.
type StateRepository interface {
	// Load retrieves the state for a user; an unknown user yields a fresh
	// empty state, not an error.
	Load(ctx context.Context, userID string) (*ConversationState, error)

	// Save persists the state for a user with the configured TTL.
	Save(ctx context.Context, userID string, state *ConversationState) error

	// Clear removes all persisted state for a user.
	Clear(ctx context.Context, userID string) error
}

// Retriever returns up to k relevant passages for a query, best first.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

// Lead is the finalized contact record, complete and validated.
type Lead struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Platform string `json:"platform"`
}

// LeadSink receives a finalized lead exactly once per conversation and
// returns a human-readable confirmation.
type LeadSink interface {
	Capture(ctx context.Context, lead Lead) (string, error)
}
