package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inflx/social-to-lead/internal/agent/model"
)

func TestClassifierLabelNormalization(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  model.Intent
	}{
		{"exact lead", "LEAD", model.IntentLead},
		{"lowercase lead", "lead", model.IntentLead},
		{"exact inquiry", "INQUIRY", model.IntentInquiry},
		{"chatty inquiry", "The intent here is INQUIRY.", model.IntentInquiry},
		{"greeting", "GREETING", model.IntentGreeting},
		{"lead wins over inquiry", "This is both an INQUIRY and a LEAD", model.IntentLead},
		{"no label words", "I'm not sure what this is", model.IntentGreeting},
		{"empty reply", "", model.IntentGreeting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &scriptedChatModel{replies: []string{tt.reply}}
			c := NewIntentClassifier(llm, model.PromptConfig{ProductName: "Inflx"}, callPolicy{})

			intent, err := c.Classify(context.Background(), []*schema.Message{
				schema.UserMessage("hello there"),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, intent)
		})
	}
}

func TestClassifierSendsSystemPromptAndHistory(t *testing.T) {
	llm := &scriptedChatModel{replies: []string{"GREETING"}}
	c := NewIntentClassifier(llm, model.PromptConfig{ProductName: "Inflx"}, callPolicy{})

	history := []*schema.Message{
		schema.UserMessage("hi"),
		schema.AssistantMessage("hello!", nil),
		schema.UserMessage("how are you"),
	}
	_, err := c.Classify(context.Background(), history)
	require.NoError(t, err)

	require.Len(t, llm.calls, 1)
	sent := llm.calls[0]
	require.Len(t, sent, 4)
	assert.Equal(t, schema.System, sent[0].Role)
	assert.Contains(t, sent[0].Content, "intent classifier for Inflx")
	assert.Equal(t, history, sent[1:])
}

func TestClassifierPropagatesTransportError(t *testing.T) {
	llm := &scriptedChatModel{err: errors.New("upstream down")}
	c := NewIntentClassifier(llm, model.PromptConfig{}, callPolicy{})

	_, err := c.Classify(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
}
