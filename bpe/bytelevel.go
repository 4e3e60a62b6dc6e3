package bpe

import "strings"

// Byte-level BPE does not merge raw bytes: every byte is first remapped to a
// printable stand-in character so the vocabulary and merges files stay
// readable text. Bytes that are already printable in Latin-1 map to
// themselves; the remaining 68 map to consecutive code points from U+0100.
// A space therefore becomes 'Ġ' (U+0120), a newline 'Ċ' (U+010A). The two
// tables below form the bijection and are fixed for the life of the process.
var (
	byteEncoder = buildByteEncoder()
	byteDecoder = buildByteDecoder()
)

func buildByteEncoder() [256]rune {
	var enc [256]rune
	next := 0
	for b := range 256 {
		switch {
		case b >= '!' && b <= '~', b >= '¡' && b <= '¬', b >= '®' && b <= 'ÿ':
			enc[b] = rune(b)
		default:
			enc[b] = rune(256 + next)
			next++
		}
	}
	return enc
}

func buildByteDecoder() map[rune]byte {
	dec := make(map[rune]byte, 256)
	for b, r := range byteEncoder {
		dec[r] = byte(b)
	}
	return dec
}

// BytesToPrintable remaps every byte of the UTF-8 encoding of s to its
// printable stand-in, one rune per byte.
func BytesToPrintable(s string) string {
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = byteEncoder[s[i]]
	}
	return string(runes)
}

// PrintableToBytes inverts BytesToPrintable, turning each stand-in rune back
// into the byte it encodes. Runes outside the table, such as those of special
// tokens spliced into decoded text, are passed through unchanged.
func PrintableToBytes(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if b, ok := byteDecoder[r]; ok {
			sb.WriteByte(b)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
