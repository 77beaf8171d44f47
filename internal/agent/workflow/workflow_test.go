package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inflx/social-to-lead/internal/agent/model"
)

func newTestWorkflow(classifier, responder *scriptedChatModel, retr *fixedRetriever, sink *recordingSink) *Workflow {
	cfg := Config{
		Prompt:    model.PromptConfig{ProductName: "Inflx", CompanyName: "ServiceHive"},
		Retrieval: model.RetrieverConfig{TopK: 3},
		Retriever: retr,
		LeadSink:  sink,
	}
	return assemble(classifier, responder, cfg, callPolicy{})
}

func TestInvokeRoutesLeadIntent(t *testing.T) {
	classifier := &scriptedChatModel{replies: []string{"LEAD"}}
	responder := &scriptedChatModel{replies: []string{
		`{"collected": {"name": "Jane"}, "response_text": "Nice to meet you Jane! What's your email address?"}`,
	}}
	wf := newTestWorkflow(classifier, responder, &fixedRetriever{}, &recordingSink{})

	state := model.NewConversationState()
	state.AppendUser("I'd like to sign up, I'm Jane")

	require.NoError(t, wf.Invoke(context.Background(), state))

	assert.Equal(t, model.IntentLead, state.Intent)
	assert.Equal(t, "Jane", state.UserInfo[model.SlotName])
	assert.Equal(t, "Nice to meet you Jane! What's your email address?", lastContent(state))
}

func TestInvokeRoutesInquiryToRetrieval(t *testing.T) {
	classifier := &scriptedChatModel{replies: []string{"INQUIRY"}}
	responder := &scriptedChatModel{replies: []string{"The Creator plan costs $79/month."}}
	retr := &fixedRetriever{passages: []string{"Plan: Creator\nPrice: $79/month"}}
	wf := newTestWorkflow(classifier, responder, retr, &recordingSink{})

	state := model.NewConversationState()
	state.AppendUser("How much is the Creator plan?")

	require.NoError(t, wf.Invoke(context.Background(), state))

	assert.Equal(t, model.IntentInquiry, state.Intent)
	assert.Equal(t, []string{"How much is the Creator plan?"}, retr.queries)
	assert.Equal(t, "The Creator plan costs $79/month.", lastContent(state))

	// The retrieved passage rides in the system prompt, not the history.
	require.Len(t, responder.calls, 1)
	assert.Contains(t, responder.calls[0][0].Content, "Plan: Creator")
}

func TestInvokeDefaultsToGreeter(t *testing.T) {
	classifier := &scriptedChatModel{replies: []string{"GREETING"}}
	responder := &scriptedChatModel{replies: []string{"Hello! How can I help you today?"}}
	retr := &fixedRetriever{}
	wf := newTestWorkflow(classifier, responder, retr, &recordingSink{})

	state := model.NewConversationState()
	state.AppendUser("hi!")

	require.NoError(t, wf.Invoke(context.Background(), state))

	assert.Equal(t, model.IntentGreeting, state.Intent)
	assert.Empty(t, retr.queries)
	assert.Equal(t, "Hello! How can I help you today?", lastContent(state))

	// Greeter forwards the history with no added instruction.
	require.Len(t, responder.calls, 1)
	require.Len(t, responder.calls[0], 1)
	assert.Equal(t, "hi!", responder.calls[0][0].Content)
}

func TestInvokeAppendsExactlyOneAssistantMessage(t *testing.T) {
	classifier := &scriptedChatModel{replies: []string{"GREETING"}}
	responder := &scriptedChatModel{replies: []string{"hey"}}
	wf := newTestWorkflow(classifier, responder, &fixedRetriever{}, &recordingSink{})

	state := model.NewConversationState()
	state.AppendUser("hi")
	before := len(state.Messages)

	require.NoError(t, wf.Invoke(context.Background(), state))
	assert.Equal(t, before+1, len(state.Messages))
}
