package crawler

import "strings"

// DetectRiskHint reports whether a fetched page looks like a consent wall or
// bot check rather than real content.
func DetectRiskHint(body string) string {
	s := strings.TrimSpace(body)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "captcha") || strings.Contains(lower, "unusual traffic") {
		return "captcha"
	}
	if strings.Contains(lower, "consent.youtube.com") || strings.Contains(lower, "before you continue") {
		return "consent"
	}
	if strings.Contains(lower, "sign in to confirm") {
		return "sign_in"
	}
	return ""
}
