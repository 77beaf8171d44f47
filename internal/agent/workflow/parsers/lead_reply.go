package parsers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxErrSnippet = 200       // limit error snippet size
)

// LeadReply is the structured payload expected from the extraction model.
type LeadReply struct {
	Collected    map[string]string
	ResponseText string
}

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	jsonObjectRe  = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ParseLeadReply extracts the first well-formed JSON object from a model
// reply, preferring one inside a fenced code block over a bare match, and
// decodes it into a LeadReply. Collected entries with empty or falsy values
// are dropped. Any failure here (no object, malformed JSON, neither
// expected key present) comes back as an error; callers take the fallback
// path explicitly instead of recovering an exception.
func ParseLeadReply(content string) (*LeadReply, error) {
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}

	candidate := content
	if m := fencedBlockRe.FindStringSubmatch(content); m != nil {
		candidate = m[1]
	}

	obj := jsonObjectRe.FindString(candidate)
	if obj == "" {
		return nil, fmt.Errorf("no JSON object in reply: %q", safeSnippet(content))
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &keys); err != nil {
		return nil, fmt.Errorf("malformed JSON in reply: %w", err)
	}
	_, hasCollected := keys["collected"]
	_, hasResponse := keys["response_text"]
	if !hasCollected && !hasResponse {
		return nil, fmt.Errorf("reply JSON missing collected/response_text keys")
	}

	var raw struct {
		Collected    map[string]any `json:"collected"`
		ResponseText string         `json:"response_text"`
	}
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, fmt.Errorf("decode reply JSON: %w", err)
	}

	reply := &LeadReply{
		Collected:    make(map[string]string, len(raw.Collected)),
		ResponseText: raw.ResponseText,
	}
	for k, v := range raw.Collected {
		if s, ok := stringifyTruthy(v); ok {
			reply.Collected[k] = s
		}
	}
	return reply, nil
}

// stringifyTruthy converts a collected value to a string, reporting false
// for values the extractor should treat as absent (null, "", 0, false).
func stringifyTruthy(v any) (string, bool) {
	switch vv := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(vv)
		return s, s != ""
	case bool:
		if !vv {
			return "", false
		}
		return "true", true
	case float64:
		if vv == 0 {
			return "", false
		}
		return strconv.FormatFloat(vv, 'f', -1, 64), true
	default:
		s := strings.TrimSpace(fmt.Sprint(v))
		return s, s != ""
	}
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
