package workflow

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/inflx/social-to-lead/internal/agent/model"
	"github.com/inflx/social-to-lead/internal/agent/workflow/parsers"
	"github.com/inflx/social-to-lead/internal/agent/workflow/prompts"
	logx "github.com/inflx/social-to-lead/pkg/logger"
)

const (
	// fallbackPrompt is the fixed reply when the extraction model produced
	// nothing parseable; slot state stays untouched in that case.
	fallbackPrompt = "I'd love to help you get started! Could you please tell me your name?"
)

// LeadAgent incrementally fills the required slots from free-text messages
// and finalizes the lead once name, email and platform are all present.
type LeadAgent struct {
	llm    einomodel.BaseChatModel
	sink   model.LeadSink
	prompt model.PromptConfig
	policy callPolicy
}

func NewLeadAgent(llm einomodel.BaseChatModel, sink model.LeadSink, prompt model.PromptConfig, policy callPolicy) *LeadAgent {
	return &LeadAgent{llm: llm, sink: sink, prompt: prompt, policy: policy}
}

func (a *LeadAgent) Handle(ctx context.Context, state *model.ConversationState) error {
	missing := state.MissingSlots()
	if len(missing) == 0 {
		return a.finalize(ctx, state)
	}

	systemPrompt, err := prompts.RenderLeadSystem(ctx, a.prompt, state.UserInfo, missing)
	if err != nil {
		return fmt.Errorf("render lead prompt: %w", err)
	}

	messages := make([]*schema.Message, 0, len(state.Messages)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, state.Messages...)

	out, err := a.policy.generate(ctx, a.llm, messages)
	if err != nil {
		return fmt.Errorf("lead extraction: %w", err)
	}

	reply, err := parsers.ParseLeadReply(out.Content)
	if err != nil {
		// Fail soft: no merge, fixed prompt, log for diagnostics.
		logx.Warn().Err(err).Str("reply", out.Content).Msg("unparseable extraction reply")
		state.AppendAssistant(fallbackPrompt)
		return nil
	}

	if email, ok := reply.Collected[model.SlotEmail]; ok && !ValidEmail(email) {
		state.AppendAssistant(fmt.Sprintf(
			"Hmm, '%s' doesn't look like a valid email. Could you please provide a valid email address (e.g., name@example.com)?",
			email,
		))
		return nil
	}

	// Last-write-wins per field.
	for k, v := range reply.Collected {
		state.UserInfo[k] = v
	}

	state.AppendAssistant(reply.ResponseText)
	return nil
}

// finalize fires the capture side effect exactly once per conversation.
// A turn that lands here with LeadCaptured already set re-acknowledges
// without touching the sink.
func (a *LeadAgent) finalize(ctx context.Context, state *model.ConversationState) error {
	name := state.UserInfo[model.SlotName]
	if state.LeadCaptured {
		state.AppendAssistant(fmt.Sprintf("Thanks %s for your interest!", name))
		return nil
	}

	lead := model.Lead{
		Name:     name,
		Email:    state.UserInfo[model.SlotEmail],
		Platform: state.UserInfo[model.SlotPlatform],
	}
	result, err := a.sink.Capture(ctx, lead)
	if err != nil {
		return fmt.Errorf("capture lead: %w", err)
	}

	state.LeadCaptured = true
	state.AppendAssistant(fmt.Sprintf("Thanks %s for your interest!\n%s", name, result))
	return nil
}

// ValidEmail applies the literal lead-form rule: exactly one '@', and the
// domain part contains a '.' and is longer than two characters. This is a
// form check, not an RFC parser.
func ValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	domain := parts[1]
	return strings.Contains(domain, ".") && len(domain) > 2
}
