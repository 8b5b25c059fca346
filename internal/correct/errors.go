package correct

import (
	"errors"
	"strings"
)

// Kind classifies an oracle failure for retry policy and HTTP status mapping.
type Kind int

const (
	// KindTransient failures are retried and then degrade to the original text.
	KindTransient Kind = iota
	// KindCredential means the API key was rejected or missing. Never retried.
	KindCredential
	// KindQuota means the usage quota is exhausted. Never retried.
	KindQuota
	// KindTimeout means the call exceeded its deadline. Retried like a
	// transient failure but reported with a timeout-specific message.
	KindTimeout
)

// OracleError wraps an oracle failure with its classified kind so the HTTP
// boundary can map each cause to a distinct status and message.
type OracleError struct {
	Kind Kind
	Err  error
}

func (e *OracleError) Error() string { return e.Err.Error() }
func (e *OracleError) Unwrap() error { return e.Err }

// Classify inspects an oracle error's text to determine its kind. Substring
// matching on free-text messages; the upstream APIs do not expose stable
// machine-readable codes for these cases.
func Classify(err error) Kind {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "API key") ||
		strings.Contains(lower, "api_key") ||
		strings.Contains(lower, "unauthenticated") ||
		strings.Contains(lower, "invalid authentication"):
		return KindCredential
	case strings.Contains(lower, "quota") ||
		strings.Contains(lower, "resource_exhausted"):
		return KindQuota
	case strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline"):
		return KindTimeout
	default:
		return KindTransient
	}
}

// Fatal reports whether a kind aborts the correction request instead of
// degrading to the original text.
func Fatal(k Kind) bool { return k == KindCredential || k == KindQuota }

// AsOracleError extracts an *OracleError from an error chain.
func AsOracleError(err error) (*OracleError, bool) {
	var oe *OracleError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}
