package securitytxt

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind or RuleID rather than matching error strings;
// Error() text is for humans and may change.
type Kind string

const (
	// KindMarkerNotFound: the start marker is absent, or no end marker
	// follows the first start marker.
	KindMarkerNotFound Kind = "MarkerNotFound"
	// KindSectionNotFound: no .security.txt ELF section (or the buffer is
	// not an ELF image). Non-fatal for Decode, which falls back to scanning.
	KindSectionNotFound Kind = "SectionNotFound"
	// KindMalformedSection: the ELF section exists but its reference is
	// structurally wrong. Fatal for the ELF path; Decode still falls back.
	KindMalformedSection Kind = "MalformedSection"
	// KindInvalidEncoding: a payload token is not valid UTF-8.
	KindInvalidEncoding Kind = "InvalidEncoding"
	// KindOddTokenCount: the key/value token stream has odd length.
	KindOddTokenCount Kind = "OddTokenCount"
	// KindNotFound: both lookup paths failed; no security.txt in the buffer.
	KindNotFound Kind = "NotFound"
	// KindEncode: the record cannot be serialized.
	KindEncode Kind = "Encode"
	// KindValidation: the record decoded but violates a validity rule.
	KindValidation Kind = "Validation"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. SECTXT-SCAN-001) naming the violated
// invariant. Use errors.As to extract *Error for structured handling.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
