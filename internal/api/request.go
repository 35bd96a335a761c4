package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// payload is a loosely typed request body. The frontend sends JSON for
// fetch-style calls and form-encoded bodies for legacy jQuery calls, so
// every field accessor tolerates both string and native JSON values.
type payload map[string]interface{}

// decodeBody reads the request body as JSON, falling back to
// form-urlencoded parsing when the body is not valid JSON.
func decodeBody(r *http.Request) payload {
	raw, err := io.ReadAll(r.Body)
	if err != nil || len(raw) == 0 {
		return payload{}
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err == nil {
		return payload(data)
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return payload{}
	}
	data = make(map[string]interface{}, len(values))
	for key := range values {
		data[key] = values.Get(key)
	}
	return payload(data)
}

// str returns the named field as a trimmed string.
func (p payload) str(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// has reports whether the key was supplied at all. Partial updates depend
// on the distinction between absent and empty.
func (p payload) has(key string) bool {
	_, ok := p[key]
	return ok
}

// number returns the named field as a float64. ok is false when the field
// is absent or not numeric.
func (p payload) number(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// integer returns the named field as an int64, truncating floats.
func (p payload) integer(key string) (int64, bool) {
	f, ok := p.number(key)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// boolean returns the named field as a bool, with def for absent fields.
func (p payload) boolean(key string, def bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	case float64:
		return v != 0
	}
	return def
}

// queryInt parses an integer query parameter, returning def when absent or
// malformed.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// totalPages computes ceil(total/limit). Callers must have validated
// limit >= 1 already.
func totalPages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}
