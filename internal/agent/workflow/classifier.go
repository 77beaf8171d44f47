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

// IntentClassifier labels the conversation with a single-shot model call.
type IntentClassifier struct {
	llm    einomodel.BaseChatModel
	prompt model.PromptConfig
	policy callPolicy
}

func NewIntentClassifier(llm einomodel.BaseChatModel, prompt model.PromptConfig, policy callPolicy) *IntentClassifier {
	return &IntentClassifier{llm: llm, prompt: prompt, policy: policy}
}

// Classify runs the fixed instruction prompt over the full history and
// normalizes the reply. "LEAD" wins over "INQUIRY" when a reply mentions
// both; anything else defaults to GREETING.
func (c *IntentClassifier) Classify(ctx context.Context, history []*schema.Message) (model.Intent, error) {
	systemPrompt, err := prompts.RenderClassifierSystem(ctx, c.prompt)
	if err != nil {
		return model.IntentUnset, fmt.Errorf("render classifier prompt: %w", err)
	}

	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, history...)

	out, err := c.policy.generate(ctx, c.llm, messages)
	if err != nil {
		return model.IntentUnset, fmt.Errorf("classify intent: %w", err)
	}

	label := strings.ToUpper(strings.TrimSpace(out.Content))
	intent := model.IntentGreeting
	switch {
	case strings.Contains(label, string(model.IntentLead)):
		intent = model.IntentLead
	case strings.Contains(label, string(model.IntentInquiry)):
		intent = model.IntentInquiry
	}

	logx.Debug().Str("label", label).Str("intent", string(intent)).Msg("intent classified")
	return intent, nil
}
