package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Per-field coercion table. Conversational models frequently transmit numbers
// as quoted strings ("50000"); each helper accepts exactly the shapes listed
// in its doc comment and nothing else.

// Number coerces a raw value into a float64. Accepted shapes: JSON number,
// or a JSON string holding a parseable number.
func Number(field string, raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return n, nil
		}
	}

	return 0, &TypeMismatchError{Field: field, Want: "number", Got: shape(raw)}
}

// Integer coerces a raw value into an int. Accepted shapes: JSON integer, a
// JSON number with no fractional part, or a JSON string holding either.
func Integer(field string, raw json.RawMessage) (int, error) {
	n, err := Number(field, raw)
	if err != nil {
		return 0, &TypeMismatchError{Field: field, Want: "integer", Got: shape(raw)}
	}
	if n != float64(int(n)) {
		return 0, &TypeMismatchError{Field: field, Want: "integer", Got: "fractional number"}
	}
	return int(n), nil
}

// String coerces a raw value into a trimmed string. Accepted shapes: JSON
// string, or a bare JSON number (stringified).
func String(field string, raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	}

	return "", &TypeMismatchError{Field: field, Want: "string", Got: shape(raw)}
}

// StringList coerces a raw value into a list of trimmed strings. Accepted
// shapes: JSON array of strings, or a single JSON string (comma-delimited
// entries are split).
func StringList(field string, raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		out := []string{}
		for _, item := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	}

	return nil, &TypeMismatchError{Field: field, Want: "string list", Got: shape(raw)}
}

// NumberMap coerces a raw value into a category→amount mapping. Accepted
// shape: JSON object whose values are numbers or quoted numbers. Entries that
// fail numeric coercion are dropped individually rather than failing the
// whole map; the caller decides whether an empty result is acceptable.
func NumberMap(field string, raw json.RawMessage) (map[string]float64, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &TypeMismatchError{Field: field, Want: "object", Got: shape(raw)}
	}

	out := make(map[string]float64, len(entries))
	for key, value := range entries {
		n, err := Number(field+"."+key, value)
		if err != nil {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(key))] = n
	}
	return out, nil
}

// shape describes a raw value's JSON type for error messages.
func shape(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "empty"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
