// Package pretokenize turns raw text into coarse tokens (words,
// punctuation, CJK ideographs, protected special tokens) while tracking,
// for every character of every token, the index of the original input
// character it came from. Subword segmenters slice those reference
// offsets further; they never recompute positions from substring
// arithmetic, which would drift as soon as lowercasing or accent
// stripping changes character counts.
//
// The package exposes the individual stages (splitters and per-character
// transforms) for tokenizer families that compose their own variant, plus
// Run, the standard word-model pipeline.
package pretokenize

import (
	"strings"
	"unicode/utf8"

	"github.com/gomlx/go-tokenizers/api"
)

// Options selects the optional transforms of the standard pipeline.
type Options struct {
	// Lowercase applies full Unicode lowercasing to non-special tokens.
	Lowercase bool
	// StripAccents decomposes non-special tokens and drops combining marks.
	StripAccents bool
}

// Run executes the standard pipeline: whitespace split, special-token
// protection, punctuation split, CJK isolation, then cleaning and the
// configured case/accent transforms, finally dropping empty tokens.
// Special and Unknown tokens pass through stages untouched; the returned
// tokens cover the input minus discarded whitespace, in order.
func Run(text string, specials SpecialTokenSet, opts Options) []api.Token {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	refs := make([]api.OffsetSize, utf8.RuneCountInString(text))
	for i := range refs {
		refs[i] = api.OffsetSize(i)
	}

	stream := []api.TokenRef{api.NewTokenRef(text, refs)}
	stream = flatSplit(stream, WhitespaceTokenize)
	stream = flatSplit(stream, func(t api.TokenRef) []api.TokenRef {
		return SplitOnSpecialTokens(t, specials)
	})
	stream = flatSplit(stream, SplitOnPunctuation)
	stream = flatSplit(stream, TokenizeCJKChars)

	out := make([]api.Token, 0, len(stream))
	for _, ref := range stream {
		token := ref.ToOwned()
		if token.Mask != api.MaskSpecial && token.Mask != api.MaskUnknown {
			CleanText(&token)
			if opts.Lowercase {
				Lowercase(&token)
			}
			if opts.StripAccents {
				StripAccents(&token)
			}
		}
		if token.Text == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}

func flatSplit(stream []api.TokenRef, split func(api.TokenRef) []api.TokenRef) []api.TokenRef {
	out := make([]api.TokenRef, 0, len(stream))
	for _, token := range stream {
		out = append(out, split(token)...)
	}
	return out
}
