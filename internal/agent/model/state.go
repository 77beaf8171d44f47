package model

import (
	"github.com/cloudwego/eino/schema"
)

// Intent is the per-turn classification of the conversation.
type Intent string

const (
	IntentUnset    Intent = ""
	IntentGreeting Intent = "GREETING"
	IntentInquiry  Intent = "INQUIRY"
	IntentLead     Intent = "LEAD"
)

// Slot names the lead-capture agent must fill before a lead is finalized.
const (
	SlotName     = "name"
	SlotEmail    = "email"
	SlotPlatform = "platform"
)

// RequiredSlots returns the ordered set of fields a lead needs.
func RequiredSlots() []string {
	return []string{SlotName, SlotEmail, SlotPlatform}
}

// ConversationState is the per-user state threaded through a turn.
// Messages are append-only; UserInfo holds validated slot values keyed by
// slot name; LeadCaptured stays true for the rest of the conversation once
// a lead has been submitted.
//
// Concurrency model: a single turn mutates the state sequentially. Two
// concurrent turns for the same user race on the load-mutate-save cycle and
// the last writer wins; serializing per user is a hosting concern.
type ConversationState struct {
	Messages     []*schema.Message
	Intent       Intent
	UserInfo     map[string]string
	LeadCaptured bool
}

// NewConversationState returns the fresh state used for unknown users.
func NewConversationState() *ConversationState {
	return &ConversationState{
		Messages: []*schema.Message{},
		UserInfo: map[string]string{},
	}
}

// AppendUser appends a human message to the history.
func (s *ConversationState) AppendUser(content string) {
	s.Messages = append(s.Messages, schema.UserMessage(content))
}

// AppendAssistant appends an agent message to the history.
func (s *ConversationState) AppendAssistant(content string) {
	s.Messages = append(s.Messages, schema.AssistantMessage(content, nil))
}

// LastUserContent returns the content of the most recent human message,
// or "" when the history holds none.
func (s *ConversationState) LastUserContent() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		msg := s.Messages[i]
		if msg != nil && msg.Role == schema.User {
			return msg.Content
		}
	}
	return ""
}

// MissingSlots returns the required slots with no non-empty value yet,
// preserving the required order.
func (s *ConversationState) MissingSlots() []string {
	missing := make([]string, 0, len(RequiredSlots()))
	for _, slot := range RequiredSlots() {
		if s.UserInfo[slot] == "" {
			missing = append(missing, slot)
		}
	}
	return missing
}
