package lexer

import "unicode/utf8"

// ── Character classes ─────────────────────────────────────────────────────────
//
// The classes below follow the Dhall grammar. They work on bytes where the
// class is ASCII-only, and on runes where non-ASCII input is allowed.

// IsAlpha reports whether c is an ASCII letter.
func IsAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// IsDigit reports whether c is a decimal digit.
func IsDigit(c byte) bool { return c >= '0' && c <= '9' }

// IsHexDigit reports whether c is a hexadecimal digit of either case.
func IsHexDigit(c byte) bool {
	return IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// IsBit reports whether c is '0' or '1'.
func IsBit(c byte) bool { return c == '0' || c == '1' }

// HexValue returns the value of the hexadecimal digit c.
func HexValue(c byte) int {
	switch {
	case IsDigit(c):
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// IsSimpleLabelFirst reports whether c may start a simple label.
func IsSimpleLabelFirst(c byte) bool { return IsAlpha(c) || c == '_' }

// IsSimpleLabelNext reports whether c may continue a simple label.
func IsSimpleLabelNext(c byte) bool {
	return IsAlpha(c) || IsDigit(c) || c == '-' || c == '/' || c == '_'
}

// IsQuotedLabelChar reports whether c may appear between backticks.
func IsQuotedLabelChar(c byte) bool {
	return (c >= 0x20 && c <= 0x5F) || (c >= 0x61 && c <= 0x7E)
}

// IsSimpleLabel reports whether s has the shape of a simple label. It does
// not check for keywords.
func IsSimpleLabel(s string) bool {
	if s == "" || !IsSimpleLabelFirst(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsSimpleLabelNext(s[i]) {
			return false
		}
	}
	return true
}

// IsValidNonASCII reports whether a decoded rune of the given encoded size
// is a non-ASCII scalar value allowed in source text. Non-characters
// (U+xFFFE and U+xFFFF in every plane) are rejected.
func IsValidNonASCII(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	if r < 0x80 || r > utf8.MaxRune {
		return false
	}
	return r&0xFFFE != 0xFFFE
}

// IsValidCodePoint reports whether r may be produced by a \u escape.
func IsValidCodePoint(r rune) bool {
	if r < 0 || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		return false
	}
	return r&0xFFFE != 0xFFFE
}

// IsDoubleQuoteChar reports whether the ASCII byte c may appear unescaped in
// a double-quoted text literal.
func IsDoubleQuoteChar(c byte) bool {
	return (c >= 0x20 && c <= 0x21) || (c >= 0x23 && c <= 0x5B) || (c >= 0x5D && c <= 0x7F)
}

// IsPathChar reports whether c may appear in an unquoted path component.
func IsPathChar(c byte) bool {
	switch {
	case c == 0x21:
	case c >= 0x24 && c <= 0x27:
	case c >= 0x2A && c <= 0x2B:
	case c >= 0x2D && c <= 0x2E:
	case c >= 0x30 && c <= 0x3B:
	case c == 0x3D:
	case c >= 0x40 && c <= 0x5A:
	case c >= 0x5E && c <= 0x7A:
	case c == 0x7C:
	case c == 0x7E:
	default:
		return false
	}
	return true
}

// IsQuotedPathChar reports whether the ASCII byte c may appear in a quoted
// path component. Non-ASCII input is checked with IsValidNonASCII.
func IsQuotedPathChar(c byte) bool {
	return (c >= 0x20 && c <= 0x21) || (c >= 0x23 && c <= 0x2E) || (c >= 0x30 && c <= 0x7F)
}

// IsUnreserved reports whether c is an RFC 3986 unreserved character.
func IsUnreserved(c byte) bool {
	return IsAlpha(c) || IsDigit(c) || c == '-' || c == '.' || c == '_' || c == '~'
}

// IsSubDelim reports whether c is a URL sub-delimiter. Unlike RFC 3986 the
// Dhall grammar leaves out '(', ')' and ',' so that URLs can sit inside
// parentheses and lists.
func IsSubDelim(c byte) bool {
	switch c {
	case '!', '$', '&', '\'', '*', '+', ';', '=':
		return true
	}
	return false
}

// IsBashEnvName reports whether s is a bash-style environment variable name.
func IsBashEnvName(s string) bool {
	if s == "" || !(IsAlpha(s[0]) || s[0] == '_') {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !(IsAlpha(s[i]) || IsDigit(s[i]) || s[i] == '_') {
			return false
		}
	}
	return true
}

// IsPOSIXEnvChar reports whether c may appear unescaped in a quoted POSIX
// environment variable name.
func IsPOSIXEnvChar(c byte) bool {
	return (c >= 0x20 && c <= 0x21) || (c >= 0x23 && c <= 0x3C) || (c >= 0x3E && c <= 0x5B) || (c >= 0x5D && c <= 0x7E)
}

// ScanSimpleLabel returns the end offset of the simple label starting at off
// in s, or off when there is none.
func ScanSimpleLabel(s string, off int) int {
	if off >= len(s) || !IsSimpleLabelFirst(s[off]) {
		return off
	}
	i := off + 1
	for i < len(s) && IsSimpleLabelNext(s[i]) {
		i++
	}
	return i
}
