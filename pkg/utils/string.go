package utils

// Truncate shortens s to at most maxLen bytes, marking the cut with an
// ellipsis. Used to keep free-form prompts out of log lines at full length.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
