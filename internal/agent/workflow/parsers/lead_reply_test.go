package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeadReplyBareObject(t *testing.T) {
	reply, err := ParseLeadReply(`{"collected": {"name": "A"}, "response_text": "hi"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "A"}, reply.Collected)
	assert.Equal(t, "hi", reply.ResponseText)
}

func TestParseLeadReplyFencedBlock(t *testing.T) {
	inputs := []string{
		"```json\n{\"collected\":{\"name\":\"A\"},\"response_text\":\"hi\"}\n```",
		"```\n{\"collected\":{\"name\":\"A\"},\"response_text\":\"hi\"}\n```",
		"Here you go:\n```json\n{\"collected\":{\"name\":\"A\"},\"response_text\":\"hi\"}\n```\nLet me know!",
	}
	for _, in := range inputs {
		reply, err := ParseLeadReply(in)
		require.NoError(t, err, in)
		assert.Equal(t, map[string]string{"name": "A"}, reply.Collected)
		assert.Equal(t, "hi", reply.ResponseText)
	}
}

func TestParseLeadReplyPrefersFenceOverBareMatch(t *testing.T) {
	in := "```json\n{\"collected\":{\"name\":\"Fenced\"},\"response_text\":\"from fence\"}\n```\n" +
		`Ignore this: {"collected":{"name":"Bare"},"response_text":"from prose"}`
	reply, err := ParseLeadReply(in)
	require.NoError(t, err)
	assert.Equal(t, "Fenced", reply.Collected["name"])
}

func TestParseLeadReplySurroundingProse(t *testing.T) {
	reply, err := ParseLeadReply(`Sure! {"collected": {}, "response_text": "What's your name?"} Hope that helps.`)
	require.NoError(t, err)
	assert.Equal(t, "What's your name?", reply.ResponseText)
}

func TestParseLeadReplyDropsFalsyValues(t *testing.T) {
	reply, err := ParseLeadReply(`{"collected": {"name": "A", "email": "", "platform": null, "extra": 0}, "response_text": "ok"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "A"}, reply.Collected)
}

func TestParseLeadReplyErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain prose", "Happy to help! Just tell me a bit about yourself."},
		{"empty", ""},
		{"broken json", `{"collected": {"name": "A"`},
		{"object without expected keys", `{"foo": "bar"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ParseLeadReply(tt.input)
			require.Error(t, err)
			assert.Nil(t, reply)
		})
	}
}

func TestParseLeadReplyCoercesScalars(t *testing.T) {
	reply, err := ParseLeadReply(`{"collected": {"followers": 12000, "verified": true}, "response_text": "ok"}`)
	require.NoError(t, err)
	assert.Equal(t, "12000", reply.Collected["followers"])
	assert.Equal(t, "true", reply.Collected["verified"])
}
