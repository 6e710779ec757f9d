package slug

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxLength is the longest slug the application accepts. Slugs appear
// as DNS labels in tenant subdomains, which caps them at 63 octets.
const MaxLength = 63

var validPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// IsValid reports whether s is an acceptable organization slug:
// non-empty, at most MaxLength characters, lowercase letters, digits
// and hyphens only.
func IsValid(s string) bool {
	if s == "" || len(s) > MaxLength {
		return false
	}
	return validPattern.MatchString(s)
}

// Make derives a slug from an arbitrary display name: lowercased,
// non-alphanumeric runs collapsed to single hyphens, trimmed to
// MaxLength without leaving a trailing hyphen.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	s := strings.Trim(b.String(), "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}
