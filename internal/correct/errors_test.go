package correct

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want Kind
	}{
		{"api_key_plain", "gemini: API key not configured", KindCredential},
		{"api_key_rejected", "gemini API error (status 400, INVALID_ARGUMENT): API key not valid", KindCredential},
		{"api_key_snake", "error: invalid api_key provided", KindCredential},
		{"unauthenticated", "rpc error: code = Unauthenticated desc = request not authorized", KindCredential},
		{"quota", "gemini API error (status 429, RESOURCE_EXHAUSTED): Quota exceeded", KindQuota},
		{"timeout", "openai request: Client.Timeout exceeded while awaiting headers", KindTimeout},
		{"deadline", "context deadline exceeded", KindTimeout},
		{"connection", "dial tcp: connection refused", KindTransient},
		{"server_error", "gemini API error (status 500): internal error", KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(errors.New(tt.msg)); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestFatal(t *testing.T) {
	if !Fatal(KindCredential) || !Fatal(KindQuota) {
		t.Error("credential and quota errors must be fatal")
	}
	if Fatal(KindTransient) || Fatal(KindTimeout) {
		t.Error("transient and timeout errors must not be fatal")
	}
}

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"Kubernetes", 1},
		{"Kubernetes, etcd", 2},
		{" a ,, b , ", 2},
	}
	for _, tt := range tests {
		if got := ParseKeywords(tt.in); len(got) != tt.want {
			t.Errorf("ParseKeywords(%q) = %v, want %d entries", tt.in, got, tt.want)
		}
	}
}
