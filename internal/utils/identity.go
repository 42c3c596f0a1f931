package utils

import "strings"

// NormalizePhone strips every non-digit character. An empty result means
// "no phone".
func NormalizePhone(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// MaskEmail hides the middle of the local part ("alice@x.com" ->
// "a***e@x.com") for OTP request responses.
func MaskEmail(e string) string {
	e = strings.TrimSpace(e)
	at := strings.Index(e, "@")
	if at < 0 {
		return e
	}
	name, dom := e[:at], e[at+1:]
	if name == "" {
		return e
	}
	if len(name) <= 2 {
		return name[:1] + "*@" + dom
	}
	return name[:1] + strings.Repeat("*", len(name)-2) + name[len(name)-1:] + "@" + dom
}
