package workflow

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/inflx/social-to-lead/internal/agent/model"
)

// Greeter is the passthrough handler: the full history goes to the model
// with no added instruction and the reply is appended verbatim.
type Greeter struct {
	llm    einomodel.BaseChatModel
	policy callPolicy
}

func NewGreeter(llm einomodel.BaseChatModel, policy callPolicy) *Greeter {
	return &Greeter{llm: llm, policy: policy}
}

func (g *Greeter) Handle(ctx context.Context, state *model.ConversationState) error {
	out, err := g.policy.generate(ctx, g.llm, state.Messages)
	if err != nil {
		return fmt.Errorf("greeter response: %w", err)
	}
	state.AppendAssistant(out.Content)
	return nil
}
