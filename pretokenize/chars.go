package pretokenize

import "unicode"

// IsWhitespace reports whether r carries the Unicode White_Space property
// (covering U+00A0, U+2028/U+2029, the ideographic space, etc.).
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// IsControl reports whether r is a control or format character. Tab,
// newline and carriage return count as whitespace instead.
func IsControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r)
}

// IsPunctuation reports whether r is punctuation. The four ASCII symbol
// runs ($, +, <, =, >, ^, `, |, ~ among them) count as punctuation even
// though Unicode classes them as symbols, matching the behavior the
// pretrained vocabularies were built with.
func IsPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) || (r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

// IsCJKChar reports whether r is a CJK ideograph. The eight ranges cover the
// ideograph blocks only; Kana and Hangul are not isolated.
func IsCJKChar(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}
