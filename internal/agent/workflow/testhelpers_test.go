package workflow

import (
	"context"
	"errors"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/inflx/social-to-lead/internal/agent/model"
)

// scriptedChatModel returns canned replies in order and records the
// requests it saw.
type scriptedChatModel struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]*schema.Message
}

func (s *scriptedChatModel) Generate(_ context.Context, in []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, in)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.replies) == 0 {
		return nil, errors.New("no scripted reply available")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return schema.AssistantMessage(reply, nil), nil
}

func (s *scriptedChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

// recordingSink counts captures and remembers the last lead.
type recordingSink struct {
	captures int
	last     model.Lead
	err      error
}

func (r *recordingSink) Capture(_ context.Context, lead model.Lead) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.captures++
	r.last = lead
	return "Lead captured: " + lead.Name + ", " + lead.Email + ", " + lead.Platform, nil
}

// fixedRetriever returns the same passages for every query.
type fixedRetriever struct {
	passages []string
	queries  []string
}

func (f *fixedRetriever) Retrieve(_ context.Context, query string, k int) ([]string, error) {
	f.queries = append(f.queries, query)
	if len(f.passages) > k {
		return f.passages[:k], nil
	}
	return f.passages, nil
}

func lastContent(state *model.ConversationState) string {
	if len(state.Messages) == 0 {
		return ""
	}
	return state.Messages[len(state.Messages)-1].Content
}
