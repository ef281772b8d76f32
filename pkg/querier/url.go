package querier

import (
	"net/url"
	"strings"
)

// Placeholder marks position of the word in a lookup URL template.
const Placeholder = "{}"

// DefaultURLTemplate looks words up in the Chinese-Vietnamese dictionary.
const DefaultURLTemplate = "http://2.vndic.net/index.php?word={}&dict=cn_vi"

// BuildLookupURL substitutes percent-encoded word into template.
// "http://host/?word={}" and "你" gives "http://host/?word=%E4%BD%A0"
func BuildLookupURL(template, word string) string {
	return strings.Replace(template, Placeholder, EscapeWord(word), 1)
}

// EscapeWord escapes every byte of UTF-8 encoded word except unreserved
// characters (RFC 3986), so the result is safe in any URL component.
func EscapeWord(word string) string {
	// QueryEscape leaves only unreserved characters as is, but encodes space
	// as '+', a literal '+' is already escaped at this point.
	return strings.Replace(url.QueryEscape(word), "+", "%20", -1)
}

// resolveReference turns site-relative reference into absolute URL
func resolveReference(baseURL, reference string) string {
	if strings.HasPrefix(reference, "/") {
		return strings.TrimRight(baseURL, "/") + reference
	}
	return reference
}

// baseFromTemplate returns scheme and host of template
func baseFromTemplate(template string) string {
	u, err := url.Parse(strings.Replace(template, Placeholder, "", -1))
	if err != nil || u.Host == "" {
		return ""
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
}
