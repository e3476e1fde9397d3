package auth

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// DefaultWeakPasswords are rejected as passwords or password prefixes.
var DefaultWeakPasswords = []string{
	"admin", "password", "123456", "secret", "admin123", "password123",
	"123456789", "12345678", "qwerty", "abc123", "letmein", "welcome",
	"monkey", "1234567890", "password1", "admin1", "test", "test123",
	"default", "root", "tnsystems",
}

// MinPasswordLength applies to both site accounts.
const MinPasswordLength = 12

var keyboardPatterns = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm", "qwerty", "asdfgh", "zxcvb"}

// ValidateAdminCredentials checks ADMIN_USER and ADMIN_USER_PASSWORD at
// startup. The API refuses to start when it returns an error. Messages never
// include the password.
func ValidateAdminCredentials() error {
	user := os.Getenv("ADMIN_USER")
	pass := os.Getenv("ADMIN_USER_PASSWORD")
	if user == "" {
		return fmt.Errorf("admin credentials validation failed: ADMIN_USER must not be empty")
	}
	if pass == "" {
		return fmt.Errorf("admin credentials validation failed: ADMIN_USER_PASSWORD must not be empty")
	}
	if reason := passwordWeakness(pass); reason != "" {
		return fmt.Errorf("admin credentials validation failed: ADMIN_USER_PASSWORD %s", reason)
	}
	return nil
}

// ValidateEditorCredentials checks the optional editor account. A bad editor
// configuration never stops startup: the account is disabled by unsetting
// EDITOR_USER and the API runs admin-only.
func ValidateEditorCredentials(logger *slog.Logger) {
	user := os.Getenv("EDITOR_USER")
	pass := os.Getenv("EDITOR_USER_PASSWORD")

	disable := func(msg string) {
		logger.Warn(msg + " - disabling editor role")
		_ = os.Unsetenv("EDITOR_USER")
		_ = os.Unsetenv("EDITOR_USER_PASSWORD")
	}

	switch {
	case user == "":
		logger.Info("editor role not configured - running in admin-only mode")
	case pass == "":
		disable("EDITOR_USER_PASSWORD is empty")
	case user == os.Getenv("ADMIN_USER"):
		disable("EDITOR_USER cannot be the same as ADMIN_USER")
	default:
		if reason := passwordWeakness(pass); reason != "" {
			disable("EDITOR_USER_PASSWORD " + reason)
			return
		}
		logger.Info("editor role configured", slog.String("user", user))
	}
}

// passwordWeakness returns why pass is unacceptable, or "".
func passwordWeakness(pass string) string {
	if len(pass) < MinPasswordLength {
		return fmt.Sprintf("must be at least %d characters (current length: %d)", MinPasswordLength, len(pass))
	}
	if isSimpleNumericPattern(pass) {
		return "must not be a simple numeric pattern"
	}
	if isKeyboardPattern(pass) {
		return "must not be a keyboard pattern"
	}
	lower := strings.ToLower(pass)
	for _, weak := range DefaultWeakPasswords {
		if lower == weak {
			return "must not be a weak password"
		}
		// Long passphrases may start with a common word.
		if strings.HasPrefix(lower, weak) && len(pass) < MinPasswordLength+5 {
			return "must not be based on common weak passwords"
		}
	}
	return ""
}

// isSimpleNumericPattern matches repeated characters and runs of ascending
// or descending digits such as "123456789012".
func isSimpleNumericPattern(pass string) bool {
	if isRepeatedChar(pass) {
		return true
	}
	for _, ch := range pass {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	asc, desc := true, true
	for i := 1; i < len(pass); i++ {
		diff := int(pass[i]) - int(pass[i-1])
		if diff != 1 && diff != -9 {
			asc = false
		}
		if diff != -1 && diff != 9 {
			desc = false
		}
	}
	return asc || desc
}

func isRepeatedChar(pass string) bool {
	if pass == "" {
		return false
	}
	return strings.Count(pass, pass[:1]) == len(pass)
}

func isKeyboardPattern(pass string) bool {
	lower := strings.ToLower(pass)
	for _, p := range keyboardPatterns {
		if strings.Contains(lower, p) || strings.Contains(lower, reverse(p)) {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
