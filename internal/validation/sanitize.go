// Package validation sanitizes account payloads before they reach the store.
//
// It applies a declarative allow-list of field rules to an untyped JSON
// payload: fields not named in the table are dropped silently, and the first
// failing field aborts the whole operation. String values that pass their
// checks are trimmed and escaped so stored data can never carry executable
// markup, regardless of how the UI renders it.
package validation

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"pogo-accounts/internal/models"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindEmail
	kindDate
	kindInt
)

// fieldRule describes how one allow-listed field is validated. Checks run in
// order: presence, type/format, then pattern/enum/length/range.
type fieldRule struct {
	name     string
	required bool
	kind     fieldKind
	maxLen   int
	pattern  *regexp.Regexp
	enum     []string
	min, max int
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	countryPattern  = regexp.MustCompile(`^[a-zA-Z\s-]+$`)

	validate = validator.New()
)

// accountRules is the allow-list for account payloads. Order matters only for
// which error is reported first; the walk is sequential and fail-fast.
var accountRules = []fieldRule{
	{name: "username", required: true, kind: kindString, maxLen: 50, pattern: usernamePattern},
	{name: "email", required: true, kind: kindEmail, maxLen: 100},
	{name: "team", required: true, kind: kindString, enum: models.Teams},
	{name: "country", kind: kindString, maxLen: 50, pattern: countryPattern},
	{name: "birthday", kind: kindDate},
	{name: "level", kind: kindInt, min: 1, max: 50},
}

// SanitizeCreate validates a full create payload. All required fields must be
// present.
func SanitizeCreate(payload map[string]any) (map[string]any, error) {
	return sanitize(payload, false)
}

// SanitizeUpdate validates a partial update payload. Required fields may be
// absent, but at least one allow-listed field must survive.
func SanitizeUpdate(payload map[string]any) (map[string]any, error) {
	out, err := sanitize(payload, true)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &InvalidValueError{Field: "body", Reason: "no updatable fields in payload"}
	}
	return out, nil
}

func sanitize(payload map[string]any, partial bool) (map[string]any, error) {
	out := make(map[string]any, len(accountRules))

	for _, rule := range accountRules {
		raw, present := payload[rule.name]
		if !present || raw == nil {
			if rule.required && !partial {
				return nil, &MissingFieldError{Field: rule.name}
			}
			continue
		}

		value, err := rule.apply(raw, partial)
		if err != nil {
			return nil, err
		}
		if value == nil {
			// Optional field reduced to nothing (e.g. whitespace-only string).
			continue
		}
		out[rule.name] = value
	}

	return out, nil
}

// apply runs the rule's check sequence against a single raw value and returns
// the normalized value, nil to skip the field, or a validation error.
func (r fieldRule) apply(raw any, partial bool) (any, error) {
	switch r.kind {
	case kindInt:
		return r.applyInt(raw)
	case kindDate:
		return r.applyDate(raw)
	default:
		return r.applyString(raw, partial)
	}
}

func (r fieldRule) applyString(raw any, partial bool) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, &InvalidFormatError{Field: r.name, Reason: "expected a string"}
	}

	s = strings.TrimSpace(s)
	if s == "" {
		if r.required && !partial {
			return nil, &MissingFieldError{Field: r.name}
		}
		if r.required && partial {
			return nil, &InvalidValueError{Field: r.name, Reason: "must not be blank"}
		}
		return nil, nil
	}

	if r.kind == kindEmail {
		if err := validate.Var(s, "email"); err != nil {
			return nil, &InvalidFormatError{Field: r.name, Reason: "not a valid email address"}
		}
		s = strings.ToLower(s)
	}

	if r.maxLen > 0 && len(s) > r.maxLen {
		return nil, &InvalidValueError{Field: r.name, Reason: fmt.Sprintf("longer than %d characters", r.maxLen)}
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		return nil, &InvalidValueError{Field: r.name, Reason: "contains disallowed characters"}
	}
	if len(r.enum) > 0 {
		s = strings.ToLower(s)
		if !contains(r.enum, s) {
			return nil, &InvalidValueError{Field: r.name, Reason: fmt.Sprintf("must be one of %s", strings.Join(r.enum, ", "))}
		}
	}

	return escapeString(s), nil
}

func (r fieldRule) applyDate(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, &InvalidFormatError{Field: r.name, Reason: "expected an ISO-8601 date string"}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, &InvalidFormatError{Field: r.name, Reason: "not an ISO-8601 date"}
	}
	return t, nil
}

func (r fieldRule) applyInt(raw any) (any, error) {
	var n int
	switch v := raw.(type) {
	case float64:
		// JSON numbers decode as float64; reject fractional values.
		if v != math.Trunc(v) {
			return nil, &InvalidFormatError{Field: r.name, Reason: "expected an integer"}
		}
		n = int(v)
	case int:
		n = v
	default:
		return nil, &InvalidFormatError{Field: r.name, Reason: "expected an integer"}
	}

	if n < r.min || n > r.max {
		return nil, &InvalidValueError{Field: r.name, Reason: fmt.Sprintf("must be between %d and %d", r.min, r.max)}
	}
	return n, nil
}

// escapeString applies two layers of escaping: a generic pass that strips
// control characters and doubles backslashes, then HTML-entity escaping. The
// redundancy is intentional; stored values must stay inert even if one layer
// is bypassed elsewhere.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r < 0x20 && r != '\n' && r != '\t':
			// drop raw control characters
		default:
			b.WriteRune(r)
		}
	}
	return html.EscapeString(b.String())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
