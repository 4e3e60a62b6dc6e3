// Package wordpiece implements greedy longest-match subword segmentation:
// at each position the longest vocabulary entry wins, non-initial pieces
// carrying the "##" continuation prefix. A word with no viable
// decomposition collapses into a single unknown token spanning the whole
// word.
package wordpiece

import (
	"github.com/gomlx/go-tokenizers/api"
)

const (
	// ContinuationPrefix marks non-initial pieces in the vocabulary.
	ContinuationPrefix = "##"
	// DefaultMaxWordLen is the character count above which a word is not
	// segmented at all and becomes a single unknown token.
	DefaultMaxWordLen = 100
)

// Vocabulary is the lookup surface the segmenter needs. *vocab.Vocab
// satisfies it.
type Vocabulary interface {
	// HasToken reports whether token exists, without unknown fallback.
	HasToken(token string) bool
	// UnknownValue returns the unknown-token string.
	UnknownValue() string
}

// Tokenize splits token into vocabulary pieces. The first piece is masked
// Begin, later pieces Continuation; each piece's reference offsets are the
// parent's slice for the characters it covers, the "##" decoration adding
// none.
func Tokenize(token api.TokenRef, vocab Vocabulary, maxWordLen int) []api.Token {
	runes := []rune(token.Text)
	if len(runes) > maxWordLen {
		return []api.Token{unknownFor(token, vocab)}
	}

	var pieces []api.Token
	begin := 0
	for begin < len(runes) {
		matched := ""
		end := len(runes)
		for begin < end {
			candidate := string(runes[begin:end])
			if begin > 0 {
				candidate = ContinuationPrefix + candidate
			}
			if vocab.HasToken(candidate) {
				matched = candidate
				break
			}
			end--
		}
		if matched == "" {
			return []api.Token{unknownFor(token, vocab)}
		}
		refs := token.ReferenceOffsets[begin:end]
		mask := api.MaskBegin
		if begin > 0 {
			mask = api.MaskContinuation
		}
		pieces = append(pieces, api.Token{
			Text:             matched,
			Offset:           api.Offset{Begin: refs[0], End: refs[len(refs)-1] + 1},
			ReferenceOffsets: append([]api.OffsetSize(nil), refs...),
			Mask:             mask,
		})
		begin = end
	}
	return pieces
}

// unknownFor replaces the whole word with the unknown token, keeping the
// word's offsets so the caller can still locate it in the input.
func unknownFor(token api.TokenRef, vocab Vocabulary) api.Token {
	return api.Token{
		Text:             vocab.UnknownValue(),
		Offset:           token.Offset,
		ReferenceOffsets: append([]api.OffsetSize(nil), token.ReferenceOffsets...),
		Mask:             api.MaskUnknown,
	}
}
