package workflow

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/inflx/social-to-lead/internal/agent/model"
	"github.com/inflx/social-to-lead/internal/agent/workflow/prompts"
	logx "github.com/inflx/social-to-lead/pkg/logger"
)

// RAGResponder answers product inquiries: top-k passages for the latest
// user message are injected into a fixed system prompt ahead of the full
// history.
type RAGResponder struct {
	llm       einomodel.BaseChatModel
	retriever model.Retriever
	topK      int
	prompt    model.PromptConfig
	policy    callPolicy
}

func NewRAGResponder(llm einomodel.BaseChatModel, retriever model.Retriever, topK int, prompt model.PromptConfig, policy callPolicy) *RAGResponder {
	if topK <= 0 {
		topK = 3
	}
	return &RAGResponder{llm: llm, retriever: retriever, topK: topK, prompt: prompt, policy: policy}
}

func (r *RAGResponder) Handle(ctx context.Context, state *model.ConversationState) error {
	question := state.LastUserContent()

	passages, err := r.retriever.Retrieve(ctx, question, r.topK)
	if err != nil {
		return fmt.Errorf("retrieve passages: %w", err)
	}
	logx.Debug().Int("passages", len(passages)).Msg("retrieved context for inquiry")

	systemPrompt, err := prompts.RenderRAGSystem(ctx, r.prompt, question, strings.Join(passages, "\n\n"))
	if err != nil {
		return fmt.Errorf("render rag prompt: %w", err)
	}

	messages := make([]*schema.Message, 0, len(state.Messages)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, state.Messages...)

	out, err := r.policy.generate(ctx, r.llm, messages)
	if err != nil {
		return fmt.Errorf("rag response: %w", err)
	}
	state.AppendAssistant(out.Content)
	return nil
}
