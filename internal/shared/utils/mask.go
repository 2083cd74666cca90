package utils

// MaskToken shortens a secret token for safe logging.
// Example: "3f9a0c1d...e4" -> "3f9a0c1d***"
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "***"
}
