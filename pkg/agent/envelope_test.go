package agent

import "testing"

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind ReplyKind
		wantText string
	}{
		{"object payload", `{"success":true,"response":{"response":"Paris"}}`, ReplyObject, "Paris"},
		{"string payload", `{"success":true,"response":"Paris"}`, ReplyText, "Paris"},
		{"failure with raw text", `{"success":false,"raw_response":"fallback text"}`, ReplyFallback, "fallback text"},
		{"failure without raw text", `{"success":false}`, ReplyFallback, ApologyText},
		{"success without payload", `{"success":true,"raw_response":"raw"}`, ReplyFallback, "raw"},
		{"success with null payload", `{"success":true,"response":null}`, ReplyFallback, ApologyText},
		{"missing success flag", `{"response":"ignored","raw_response":"used"}`, ReplyFallback, "used"},
		{"empty raw text", `{"success":false,"raw_response":""}`, ReplyFallback, ApologyText},
		{"non-string raw text", `{"success":false,"raw_response":42}`, ReplyFallback, ApologyText},
		{"object without reply field", `{"success":true,"response":{"other":"x"}}`, ReplyFallback, UnableToProcessText},
		{"object with non-string reply", `{"success":true,"response":{"response":7}}`, ReplyFallback, UnableToProcessText},
		{"empty string payload", `{"success":true,"response":""}`, ReplyFallback, UnableToProcessText},
		{"array payload", `{"success":true,"response":["Paris"]}`, ReplyFallback, UnableToProcessText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := DecodeEnvelope([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeEnvelope() error: %v", err)
			}
			if reply.Kind != tt.wantKind {
				t.Errorf("Expected kind %s, got %s", tt.wantKind, reply.Kind)
			}
			if reply.Text != tt.wantText {
				t.Errorf("Expected text %q, got %q", tt.wantText, reply.Text)
			}
		})
	}
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	for _, body := range []string{"", "not json", `{"success":`, `{"success":"yes"}`} {
		if _, err := DecodeEnvelope([]byte(body)); err == nil {
			t.Errorf("Expected error for body %q", body)
		}
	}
}
