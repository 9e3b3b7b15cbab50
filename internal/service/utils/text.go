package utils

// TruncateRunes caps s at n runes. Display names and chat text are Arabic,
// so the cap must count runes, not bytes.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
