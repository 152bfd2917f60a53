package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	ruleRequired  = "required"
	ruleURL       = "url"
	ruleEmail     = "email"
	ruleMin       = "min"
	ruleMax       = "max"
	ruleSometimes = "sometimes"
)

var (
	// Conventional HTTP/HTTPS URL: optional scheme, domain or IPv4 host,
	// optional port, path, query and fragment.
	urlPattern = regexp.MustCompile(`(?i)^(https?://)?((([a-z\d]([a-z\d-]*[a-z\d])*)\.)+[a-z]{2,}|((\d{1,3}\.){3}\d{1,3}))(:\d+)?(/[-a-z\d%_.~+]*)*(\?[;&a-z\d%_.~+=-]*)?(#[-a-z\d_]*)?$`)

	// Conventional local@domain-with-dot email shape.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func (v *Validation) applyRule(field string, value any, rule string) {
	name, param, _ := strings.Cut(rule, ":")

	switch name {
	case ruleRequired:
		if isFalsy(value) {
			v.addError(field, fmt.Sprintf("The %s is required.", field))
		}

	case ruleURL:
		if !isFalsy(value) && !urlPattern.MatchString(stringValue(value)) {
			v.addError(field, fmt.Sprintf("The %s must be a valid URL.", field))
		}

	case ruleEmail:
		if !isFalsy(value) && !emailPattern.MatchString(stringValue(value)) {
			v.addError(field, fmt.Sprintf("The %s must be a valid email.", field))
		}

	case ruleMin:
		// Length rules are skipped silently for falsy values and for values
		// without a length. Accepted policy, not an oversight.
		if isFalsy(value) {
			return
		}
		length, ok := lengthOf(value)
		if !ok {
			return
		}
		if limit, err := strconv.Atoi(param); err == nil && length < limit {
			v.addError(field, fmt.Sprintf("The %s must be at least %s characters long.", field, param))
		}

	case ruleMax:
		if isFalsy(value) {
			return
		}
		length, ok := lengthOf(value)
		if !ok {
			return
		}
		if limit, err := strconv.Atoi(param); err == nil && length > limit {
			v.addError(field, fmt.Sprintf("The %s must not be greater than %s characters.", field, param))
		}
	}
}

// isFalsy implements the deliberately loose emptiness test used by "required":
// nil, empty string, false and numeric zero all count as empty.
func isFalsy(value any) bool {
	switch t := value.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	case float32:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}

// lengthOf reports the length of values that have one: character count for
// strings, element count for slices and maps.
func lengthOf(value any) (int, bool) {
	switch t := value.(type) {
	case string:
		return utf8.RuneCountInString(t), true
	case []any:
		return len(t), true
	case map[string]any:
		return len(t), true
	}
	return 0, false
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
