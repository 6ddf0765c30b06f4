// Package redact маскирует персональные данные и секреты перед записью в лог.
package redact

import "strings"

// tokenTail — сколько последних символов токена остаётся видимым.
const tokenTail = 4

// Email оставляет первые две руны локальной части и домен: "al***@example.com".
// Строки без ровно одного '@' целиком заменяются на "***".
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local := []rune(parts[0])
	if len(local) > 2 {
		return string(local[:2]) + "***@" + parts[1]
	}

	return "***@" + parts[1]
}

// Token показывает только хвост длинного токена, чтобы строки лога можно было сопоставить.
func Token(s string) string {
	if len(s) < 3*tokenTail {
		return "[REDACTED_TOKEN]"
	}

	return "***" + s[len(s)-tokenTail:]
}

func Password() string { return "[REDACTED_PASSWORD]" }
