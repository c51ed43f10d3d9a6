package errors

import (
	"strings"
	"unicode"
)

// maxMonitorName bounds monitor names passed on the xrandr command line.
const maxMonitorName = 128

// ValidateMonitorName validates a monitor name before it is handed to xrandr.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No whitespace or control characters
//   - No leading '-', which xrandr would read as an option
//   - Maximum length of 128 characters
func ValidateMonitorName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidMonitor, "monitor name cannot be empty")
	}

	if len(name) > maxMonitorName {
		return New(ErrCodeInvalidMonitor, "monitor name too long (max %d characters)", maxMonitorName)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidMonitor, "monitor name contains whitespace or control characters: %q", name)
		}
	}

	if strings.HasPrefix(name, "-") {
		return New(ErrCodeInvalidMonitor, "monitor name cannot start with '-': %q", name)
	}

	return nil
}

// ValidateFormat checks that format is one of the allowed values.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
