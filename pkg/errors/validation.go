package errors

import (
	"strings"
	"unicode"
)

// ValidateExtension validates a document extension taken from configuration
// or a command-line flag. A single leading dot is tolerated; the returned
// value never carries it.
//
// The validation rules are:
//   - No empty extensions
//   - No path separators or wildcard characters
//   - No control characters or whitespace
//   - Maximum length of 32 characters
func ValidateExtension(ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "", New(ErrCodeInvalidArgument, "extension cannot be empty")
	}
	if len(ext) > 32 {
		return "", New(ErrCodeInvalidArgument, "extension too long (max 32 characters)")
	}
	if strings.ContainsAny(ext, "/\\*?[].") {
		return "", New(ErrCodeInvalidArgument, "extension %q contains invalid characters", ext)
	}
	for _, r := range ext {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return "", New(ErrCodeInvalidArgument, "extension %q contains whitespace or control characters", ext)
		}
	}
	return ext, nil
}

// ValidateFormat checks that format is one of the allowed names,
// case-insensitively, and returns its lower-case form.
func ValidateFormat(format string, allowed []string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

// ValidateFormats splits a comma separated list and validates every entry.
// Duplicates are removed; order of first appearance is kept.
func ValidateFormats(list string, allowed []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ValidateFormat(part, allowed)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, New(ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}
