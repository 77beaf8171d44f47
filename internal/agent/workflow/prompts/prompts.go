package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/inflx/social-to-lead/internal/agent/model"
)

//go:embed template/classifier_prompt.txt
var classifierSystemPrompt string

//go:embed template/lead_prompt.txt
var leadSystemPrompt string

//go:embed template/rag_prompt.txt
var ragSystemPrompt string

// RenderClassifierSystem renders the intent-classifier system prompt via the
// Eino prompt component, which also triggers prompt callbacks.
func RenderClassifierSystem(ctx context.Context, cfg model.PromptConfig) (string, error) {
	content := strings.NewReplacer(
		"{product_name}", cfg.ProductName,
	).Replace(classifierSystemPrompt)

	return renderSystem(ctx, content, "classifier")
}

// RenderLeadSystem renders the slot-filling extraction prompt with the
// current slot state and the missing-field list. Known tokens are replaced
// by hand so the JSON braces in the template survive untouched.
func RenderLeadSystem(ctx context.Context, cfg model.PromptConfig, userInfo map[string]string, missing []string) (string, error) {
	currentInfo, err := json.Marshal(userInfo)
	if err != nil {
		return "", fmt.Errorf("marshal current info: %w", err)
	}
	missingFields, err := json.Marshal(missing)
	if err != nil {
		return "", fmt.Errorf("marshal missing fields: %w", err)
	}

	content := strings.NewReplacer(
		"{product_name}", cfg.ProductName,
		"{company_name}", cfg.CompanyName,
		"{current_info}", string(currentInfo),
		"{missing_fields}", string(missingFields),
	).Replace(leadSystemPrompt)

	return renderSystem(ctx, content, "lead")
}

// RenderRAGSystem renders the retrieval-augmented system prompt with the
// question and the concatenated context passages.
func RenderRAGSystem(ctx context.Context, cfg model.PromptConfig, question, contextText string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(ragSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"ProductName": cfg.ProductName,
		"CompanyName": cfg.CompanyName,
		"Question":    question,
		"Context":     contextText,
	})
	if err != nil {
		return "", fmt.Errorf("rag prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("rag prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// renderSystem wraps pre-rendered content through the Eino prompt component
// using a messages placeholder so formatting callbacks still fire.
func renderSystem(ctx context.Context, content, name string) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("%s prompt callbacks: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("%s prompt callbacks: empty result", name)
	}
	return msgs[0].Content, nil
}
