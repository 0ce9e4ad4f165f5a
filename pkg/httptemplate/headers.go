package httptemplate

import (
	"net/http"
	"strings"
)

// ParseHeaders splits a rendered header block of comma separated Name:Value pairs.
// Each pair is split at its first ':', so values may contain colons.
// Entries without a separator or with an empty name are returned in dropped
// so the caller can warn about them.
func ParseHeaders(block string) (headers http.Header, dropped []string) {
	headers = make(http.Header)
	block = strings.TrimSpace(block)
	if block == "" {
		return headers, nil
	}

	for _, entry := range strings.Split(block, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			dropped = append(dropped, entry)
			continue
		}
		headers.Set(name, strings.TrimSpace(value))
	}
	return headers, dropped
}

// NormalizeMethod upper-cases m. Empty and unsupported methods become POST.
func NormalizeMethod(m string) string {
	switch m = strings.ToUpper(strings.TrimSpace(m)); m {
	case http.MethodGet, http.MethodPost, http.MethodPut:
		return m
	default:
		return http.MethodPost
	}
}

// HasBody reports whether requests with method carry a payload.
func HasBody(method string) bool {
	method = NormalizeMethod(method)
	return method == http.MethodPost || method == http.MethodPut
}
