// Package isbn cleans ISBN strings copied from a page or typed by a user.
package isbn

import "strings"

// Normalize keeps the digits and uppercase X of raw, in order, and accepts the
// result only when it is 10 or 13 characters long. Check digits are not
// verified. A rejected input returns ("", false).
func Normalize(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == 'X' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if Kind(s) == 0 {
		return "", false
	}
	return s, true
}

// Kind returns 10 or 13 for a normalized ISBN of that length, else 0.
func Kind(s string) int {
	switch len(s) {
	case 10, 13:
		return len(s)
	}
	return 0
}
