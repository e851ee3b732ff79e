package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the loosely typed body returned by the agent endpoint:
//
//	{"success": true, "response": "text"}
//	{"success": true, "response": {"response": "text"}}
//	{"success": false, "raw_response": "text"}
type envelope struct {
	Success     bool            `json:"success"`
	Response    json.RawMessage `json:"response"`
	RawResponse json.RawMessage `json:"raw_response"`
}

// DecodeEnvelope parses an agent response body and resolves it into a Reply.
// Only malformed JSON is an error; every well-formed body yields some text.
func DecodeEnvelope(data []byte) (Reply, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Reply{}, fmt.Errorf("decoding agent reply: %w", err)
	}
	return env.resolve(), nil
}

func (e envelope) resolve() Reply {
	if !e.Success || isAbsent(e.Response) {
		if raw, ok := stringValue(e.RawResponse); ok && raw != "" {
			return Reply{Kind: ReplyFallback, Text: raw}
		}
		return Reply{Kind: ReplyFallback, Text: ApologyText}
	}

	if text, ok := stringValue(e.Response); ok {
		if text != "" {
			return Reply{Kind: ReplyText, Text: text}
		}
		return Reply{Kind: ReplyFallback, Text: UnableToProcessText}
	}

	var nested struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(e.Response, &nested); err == nil {
		if text, ok := stringValue(nested.Response); ok && text != "" {
			return Reply{Kind: ReplyObject, Text: text}
		}
	}

	return Reply{Kind: ReplyFallback, Text: UnableToProcessText}
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// stringValue reports whether raw is a JSON string and returns it.
func stringValue(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}
