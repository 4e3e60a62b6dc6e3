package pretokenize

import (
	"strings"
	"unicode/utf8"

	"github.com/gomlx/go-tokenizers/api"
)

// SpecialTokenSet is the vocabulary view the special-token scanner needs.
// *vocab.Vocab satisfies it.
type SpecialTokenSet interface {
	// SpecialTokens returns the registered special tokens ordered longest
	// first, so that the first prefix match is the longest match.
	SpecialTokens() []string
	// UnknownValue returns the unknown-token string.
	UnknownValue() string
}

// fragment cuts a sub-token out of parent. Both bounds are given as byte
// and character positions; the offset is derived from the reference
// offsets so it stays correct even over non-contiguous ranges.
func fragment(parent api.TokenRef, byteLo, byteHi, charLo, charHi int, mask api.Mask) api.TokenRef {
	refs := parent.ReferenceOffsets[charLo:charHi]
	return api.TokenRef{
		Text:             parent.Text[byteLo:byteHi],
		Offset:           api.Offset{Begin: refs[0], End: refs[len(refs)-1] + 1},
		ReferenceOffsets: refs,
		Mask:             mask,
	}
}

// SplitOnChar splits token at every character where test reports true.
// Separator characters are emitted as their own single-character tokens
// carrying mask when addSeparators is set, and dropped otherwise. Only
// unmasked tokens are split; tokens already classified pass through
// unchanged.
func SplitOnChar(token api.TokenRef, test func(rune) bool, addSeparators bool, mask api.Mask) []api.TokenRef {
	if token.Mask != api.MaskNone {
		return []api.TokenRef{token}
	}
	var out []api.TokenRef
	charBegin, bytesBegin := 0, 0
	charIdx := 0
	for byteIdx, r := range token.Text {
		if test(r) {
			if charBegin < charIdx {
				out = append(out, fragment(token, bytesBegin, byteIdx, charBegin, charIdx, api.MaskNone))
			}
			if addSeparators {
				out = append(out, fragment(token, byteIdx, byteIdx+utf8.RuneLen(r), charIdx, charIdx+1, mask))
			}
			charBegin = charIdx + 1
			bytesBegin = byteIdx + utf8.RuneLen(r)
		}
		charIdx++
	}
	if charBegin < charIdx {
		out = append(out, fragment(token, bytesBegin, len(token.Text), charBegin, charIdx, api.MaskNone))
	}
	return out
}

// WhitespaceTokenize splits token on runs of Unicode whitespace, dropping
// the whitespace itself.
func WhitespaceTokenize(token api.TokenRef) []api.TokenRef {
	return SplitOnChar(token, IsWhitespace, false, api.MaskWhitespace)
}

// SplitOnPunctuation splits token around punctuation, each punctuation
// character becoming its own token.
func SplitOnPunctuation(token api.TokenRef) []api.TokenRef {
	return SplitOnChar(token, IsPunctuation, true, api.MaskPunctuation)
}

// TokenizeCJKChars splits off every CJK ideograph as its own token.
func TokenizeCJKChars(token api.TokenRef) []api.TokenRef {
	return SplitOnChar(token, IsCJKChar, true, api.MaskCJK)
}

// SplitOnSpecialTokens scans token left to right for exact occurrences of
// registered special tokens, the longest special winning at each position.
// Matches become tokens masked Special, or Unknown when the match is the
// unknown token itself; the fragments in between stay unmasked for further
// processing. Tokens already classified pass through unchanged.
func SplitOnSpecialTokens(token api.TokenRef, specials SpecialTokenSet) []api.TokenRef {
	if token.Mask != api.MaskNone {
		return []api.TokenRef{token}
	}
	ordered := specials.SpecialTokens()
	unknown := specials.UnknownValue()

	var out []api.TokenRef
	charBegin, bytesBegin := 0, 0
	charIdx, byteIdx := 0, 0
	text := token.Text
	for byteIdx < len(text) {
		var matched string
		for _, s := range ordered {
			if s != "" && strings.HasPrefix(text[byteIdx:], s) {
				matched = s
				break
			}
		}
		if matched == "" {
			_, size := utf8.DecodeRuneInString(text[byteIdx:])
			byteIdx += size
			charIdx++
			continue
		}
		if charBegin < charIdx {
			out = append(out, fragment(token, bytesBegin, byteIdx, charBegin, charIdx, api.MaskNone))
		}
		mask := api.MaskSpecial
		if matched == unknown {
			mask = api.MaskUnknown
		}
		matchedChars := utf8.RuneCountInString(matched)
		out = append(out, fragment(token, byteIdx, byteIdx+len(matched), charIdx, charIdx+matchedChars, mask))
		byteIdx += len(matched)
		charIdx += matchedChars
		charBegin, bytesBegin = charIdx, byteIdx
	}
	if charBegin < charIdx {
		out = append(out, fragment(token, bytesBegin, len(text), charBegin, charIdx, api.MaskNone))
	}
	return out
}
