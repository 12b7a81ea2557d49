package lambda

import (
	"encoding/json"
	"net/url"
	"strings"
)

// jsonCookiePrefix marks a cookie value that carries a JSON document instead
// of a plain string.
const jsonCookiePrefix = "j:"

// parseCookies decodes a Cookie header into a name/value map. Values are
// percent-decoded; values starting with the JSON prefix are decoded into
// structured values. Malformed pairs are skipped rather than failing the
// request.
func parseCookies(header string) map[string]interface{} {
	cookies := make(map[string]interface{})
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, found := strings.Cut(part, "=")
		if !found || name == "" {
			continue
		}
		value, err := url.QueryUnescape(raw)
		if err != nil {
			value = raw
		}
		cookies[name] = decodeCookieValue(value)
	}
	return cookies
}

// decodeCookieValue applies the JSON-prefixed-value convention. Values that
// carry the prefix but do not parse stay plain strings.
func decodeCookieValue(value string) interface{} {
	if !strings.HasPrefix(value, jsonCookiePrefix) {
		return value
	}
	var out interface{}
	if err := json.Unmarshal([]byte(value[len(jsonCookiePrefix):]), &out); err != nil {
		return value
	}
	return out
}

// EncodeCookieValue is the inverse of the decode convention: strings are
// percent-encoded as-is, anything else is JSON-encoded behind the prefix.
// Use it when building Set-Cookie header values.
func EncodeCookieValue(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return url.QueryEscape(s), nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(jsonCookiePrefix + string(b)), nil
}
