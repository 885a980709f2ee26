package browser

import (
	"net/url"
	"regexp"
	"strings"
)

// HomeURL is the page a new browser window shows
const HomeURL = "https://www.google.com/webhp?igu=1"

// SearchURL is the prefix for address bar searches
const SearchURL = "https://www.google.com/search?q="

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// Normalize turns address bar input into a URL
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if schemePattern.MatchString(input) {
		return input
	}

	if isHost(input) {
		return "https://" + input
	}
	return SearchURL + escapeComponent(input)
}

func isHost(input string) bool {
	if input == "" || strings.ContainsAny(input, " \t\n<>\"{}|\\^`") {
		return false
	}
	u, err := url.Parse("https://" + input)
	return err == nil && u.Hostname() != ""
}

// escapeComponent escapes like a browser's encodeURIComponent
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
