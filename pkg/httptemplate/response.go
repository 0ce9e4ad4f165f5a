package httptemplate

import (
	"regexp"
	"strconv"
	"strings"
)

// ProviderCodeKey is the JSON key providers use to echo a code they chose themselves.
const ProviderCodeKey = "oneTimePassword"

// Matcher decides which provider responses count as success.
type Matcher struct {
	// ExpectedStatus, when set, is compared as text with the status code and overrides every other rule.
	ExpectedStatus string
	// BodyContains, when set, must appear in the body of a 2xx response.
	BodyContains string
}

// Interpretation is the verdict on a provider response.
type Interpretation struct {
	Success   bool
	Status    int
	ErrorBody string // raw body of a failed response
}

// Interpret applies m to a response.
func Interpret(status int, body string, m Matcher) Interpretation {
	res := Interpretation{Status: status}

	if expected := strings.TrimSpace(m.ExpectedStatus); expected != "" {
		res.Success = strconv.Itoa(status) == expected
	} else {
		res.Success = status >= 200 && status <= 299 &&
			(m.BodyContains == "" || strings.Contains(body, m.BodyContains))
	}

	if !res.Success {
		res.ErrorBody = body
	}
	return res
}

// ExtractField finds a numeric value for key in a JSON-ish body.
// Only "key":"123" and "key":123 are recognized. The earliest occurrence wins.
// This is not a JSON parser: nested objects, escapes and non-numeric values are not handled.
func ExtractField(body, key string) (string, bool) {
	if body == "" || key == "" {
		return "", false
	}
	m := fieldPattern(key).FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// ExtractProviderCode looks for a provider-issued code under ProviderCodeKey.
func ExtractProviderCode(body string) (string, bool) {
	return ExtractField(body, ProviderCodeKey)
}

var providerCodePattern = buildFieldPattern(ProviderCodeKey)

func fieldPattern(key string) *regexp.Regexp {
	if key == ProviderCodeKey {
		return providerCodePattern
	}
	return buildFieldPattern(key)
}

func buildFieldPattern(key string) *regexp.Regexp {
	// Alternation keeps leftmost-first semantics, so the earliest occurrence in either form wins.
	k := regexp.QuoteMeta(key)
	return regexp.MustCompile(`"` + k + `"\s*:\s*(?:"([0-9]+)"|([0-9]+))`)
}
