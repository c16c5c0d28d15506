package schema

import (
	"strconv"
	"strings"
	"time"
)

// AnswerMap holds one collected value per question id. Value shapes after
// coercion: text -> string, number -> float64 or nil, select -> string or
// nil, multiselect -> []string, boolean -> bool, date -> ISO-8601 string
// or nil. Keys with no matching question are orphans: kept in the map,
// ignored by the form layer.
type AnswerMap map[string]any

const dateOnly = "2006-01-02"

// Coerce maps a raw decoded JSON value onto the canonical shape for the
// question type. It is the single place legacy encodings are tolerated
// (booleans stored as "true", numbers stored as strings, date-only date
// strings) so the rest of the engine never type-switches on wire shapes.
func Coerce(t QuestionType, value any) any {
	switch t {
	case TypeNumber:
		return coerceNumber(value)
	case TypeBoolean:
		return coerceBoolean(value)
	case TypeDate:
		return coerceDate(value)
	case TypeSelect:
		if s, ok := value.(string); ok && s != "" {
			return s
		}
		return nil
	case TypeMultiSelect:
		return coerceMulti(value)
	default:
		// text and any unknown future type
		return coerceText(value)
	}
}

func coerceText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func coerceNumber(value any) any {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return n
	default:
		return nil
	}
}

// coerceBoolean treats true and the legacy string "true" as on; any other
// value, including "false" and absence, is off.
func coerceBoolean(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// coerceDate normalizes to an ISO-8601 timestamp at UTC midnight; the
// time component is never collected. Unparsable input clears the answer.
func coerceDate(value any) any {
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	s = strings.TrimSpace(s)

	if d, err := time.Parse(dateOnly, s); err == nil {
		return d.UTC().Format(time.RFC3339)
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		d := ts.UTC()
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	}
	return nil
}

func coerceMulti(value any) []string {
	out := []string{}
	switch v := value.(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// IsBlank reports whether a coerced value counts as "no answer" for
// required-field validation. Multiselect requires at least one selected
// value; boolean is never blank (an untouched toggle is a valid false).
func IsBlank(t QuestionType, value any) bool {
	switch t {
	case TypeBoolean:
		return false
	case TypeMultiSelect:
		vs, ok := value.([]string)
		return !ok || len(vs) == 0
	case TypeNumber, TypeDate, TypeSelect:
		return value == nil
	default:
		s, ok := value.(string)
		return !ok || strings.TrimSpace(s) == ""
	}
}
