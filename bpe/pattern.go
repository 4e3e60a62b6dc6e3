package bpe

import (
	"github.com/dlclark/regexp2"

	"github.com/gomlx/go-tokenizers/api"
)

// GPT2Pattern is the pretokenization pattern of the byte-level families:
// common English contractions, then letter runs, digit runs and symbol runs
// each with an optional leading space, then whitespace. The lookahead keeps
// the final space of a whitespace run attached to the word that follows it.
const GPT2Pattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

// CompilePattern compiles a pretokenization pattern for SplitOnPattern.
func CompilePattern(expr string) (*regexp2.Regexp, error) {
	return regexp2.Compile(expr, regexp2.RE2)
}

// SplitOnPattern splits token into the pattern's matches, keeping the text
// between matches as fragments of their own. Only unmasked tokens are split;
// tokens already classified pass through unchanged.
func SplitOnPattern(token api.TokenRef, re *regexp2.Regexp) []api.TokenRef {
	if token.Mask != api.MaskNone {
		return []api.TokenRef{token}
	}
	runes := []rune(token.Text)
	var out []api.TokenRef
	var last int
	for m, _ := re.FindRunesMatch(runes); m != nil; m, _ = re.FindNextMatch(m) {
		if m.Length == 0 {
			continue
		}
		if last < m.Index {
			out = append(out, runeFragment(token, runes, last, m.Index))
		}
		out = append(out, runeFragment(token, runes, m.Index, m.Index+m.Length))
		last = m.Index + m.Length
	}
	if last < len(runes) {
		out = append(out, runeFragment(token, runes, last, len(runes)))
	}
	return out
}

// runeFragment cuts the [lo, hi) character range out of parent, deriving the
// offset from the reference offsets it inherits.
func runeFragment(parent api.TokenRef, runes []rune, lo, hi int) api.TokenRef {
	refs := parent.ReferenceOffsets[lo:hi]
	return api.TokenRef{
		Text:             string(runes[lo:hi]),
		Offset:           api.Offset{Begin: refs[0], End: refs[len(refs)-1] + 1},
		ReferenceOffsets: refs,
		Mask:             api.MaskNone,
	}
}
