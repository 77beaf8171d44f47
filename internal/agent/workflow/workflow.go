package workflow

import (
	"context"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/inflx/social-to-lead/internal/agent/model"
	logx "github.com/inflx/social-to-lead/pkg/logger"
)

// Workflow is the turn dispatcher: classify the history, route to exactly
// one handler, let it append exactly one assistant message. Each turn is
// independent; intent never carries over except through the history itself.
type Workflow struct {
	classifier *IntentClassifier
	lead       *LeadAgent
	rag        *RAGResponder
	greeter    *Greeter
}

// Config holds everything needed to compose the full workflow end-to-end.
type Config struct {
	APIKey  string
	BaseURL string

	Classifier model.ClassifierModelConfig
	Response   model.ResponseModelConfig
	Prompt     model.PromptConfig
	Retrieval  model.RetrieverConfig
	Generate   model.GenerateConfig

	Retriever model.Retriever
	LeadSink  model.LeadSink
}

// Build creates the Gemini chat models and wires the four handlers.
func Build(ctx context.Context, cfg Config) (*Workflow, error) {
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("retriever is nil")
	}
	if cfg.LeadSink == nil {
		return nil, fmt.Errorf("lead sink is nil")
	}

	timeout, err := time.ParseDuration(cfg.Generate.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid generate timeout %q: %w", cfg.Generate.Timeout, err)
	}
	policy := callPolicy{timeout: timeout, maxRetries: cfg.Generate.MaxRetries}

	cms, err := NewChatModels(ctx, ChatModelConfig{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		ClassifierConfig: &cfg.Classifier,
		ResponseConfig:   &cfg.Response,
	})
	if err != nil {
		return nil, err
	}

	wf := assemble(cms.Classifier, cms.Response, cfg, policy)
	logx.Debug().Msg("workflow assembled")
	return wf, nil
}

// assemble wires the handlers around already-constructed chat models.
func assemble(classifierLLM, responseLLM einomodel.BaseChatModel, cfg Config, policy callPolicy) *Workflow {
	return &Workflow{
		classifier: NewIntentClassifier(classifierLLM, cfg.Prompt, policy),
		lead:       NewLeadAgent(responseLLM, cfg.LeadSink, cfg.Prompt, policy),
		rag:        NewRAGResponder(responseLLM, cfg.Retriever, cfg.Retrieval.TopK, cfg.Prompt, policy),
		greeter:    NewGreeter(responseLLM, policy),
	}
}

// Invoke runs one conversation turn over the given state. The caller has
// already appended the new user message; on success the state carries the
// classified intent, any merged slot values and one new assistant message.
func (w *Workflow) Invoke(ctx context.Context, state *model.ConversationState) error {
	intent, err := w.classifier.Classify(ctx, state.Messages)
	if err != nil {
		return err
	}
	state.Intent = intent

	switch intent {
	case model.IntentLead:
		err = w.lead.Handle(ctx, state)
	case model.IntentInquiry:
		err = w.rag.Handle(ctx, state)
	default:
		err = w.greeter.Handle(ctx, state)
	}
	if err != nil {
		return fmt.Errorf("%s handler: %w", intentOrGreeting(intent), err)
	}
	return nil
}

func intentOrGreeting(i model.Intent) string {
	if i == model.IntentUnset {
		return string(model.IntentGreeting)
	}
	return string(i)
}
