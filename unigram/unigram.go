// Package unigram implements SentencePiece-Unigram segmentation: a dynamic
// program over a string finds the piece sequence with the highest summed
// log-probability. Characters no piece covers are admitted one at a time at
// a penalty score, and adjacent fallback characters come out coalesced into
// a single unknown token.
package unigram

import (
	"math"
	"slices"

	"github.com/gomlx/go-tokenizers/api"
)

// WordBoundary marks the start of a word in SentencePiece vocabularies,
// standing in for the space that preceded it.
const WordBoundary = "▁"

// unknownPenalty is subtracted from the model's lowest piece score to score
// the single-character fallback, so any real piece beats a fallback.
const unknownPenalty = 10.0

// Model is the scoring surface the segmenter needs.
// *vocab.SentencePieceModel satisfies it.
type Model interface {
	// PieceScore returns the log-probability of a piece string, if it exists.
	PieceScore(piece string) (float32, bool)
	// MaxPieceLength returns the character length of the longest piece.
	MaxPieceLength() int
	// MinScore returns the smallest piece log-probability in the model.
	MinScore() float32
	// UnknownValue returns the unknown piece's string.
	UnknownValue() string
}

// span is one piece of the best path over [start, end) character positions.
type span struct {
	start, end int
	unknown    bool
}

// Tokenize segments token along the highest-scoring piece path. Pieces carry
// the parent's reference offsets for the characters they cover; fallback
// runs and pieces spelled like the unknown piece are masked Unknown, all
// others None.
func Tokenize(token api.TokenRef, model Model) []api.Token {
	runes := []rune(token.Text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	unknownScore := float64(model.MinScore()) - unknownPenalty

	// best[i] scores the best segmentation of runes[:i], parent[i] is where
	// its final piece starts, and fallback[i] marks that piece as the
	// single-character unknown fallback. Longer pieces are tried first so
	// that on equal scores the longest piece wins.
	best := make([]float64, n+1)
	parent := make([]int, n+1)
	fallback := make([]bool, n+1)
	for i := 1; i <= n; i++ {
		best[i] = math.Inf(-1)
		parent[i] = -1
	}

	maxLen := model.MaxPieceLength()
	for i := 1; i <= n; i++ {
		for length := min(maxLen, i); length >= 1; length-- {
			j := i - length
			score, ok := model.PieceScore(string(runes[j:i]))
			if !ok {
				continue
			}
			if cand := best[j] + float64(score); cand > best[i] {
				best[i] = cand
				parent[i] = j
				fallback[i] = false
			}
		}
		if math.IsInf(best[i], -1) {
			best[i] = best[i-1] + unknownScore
			parent[i] = i - 1
			fallback[i] = true
		}
	}

	var spans []span
	for pos := n; pos > 0; pos = parent[pos] {
		s := span{start: parent[pos], end: pos, unknown: fallback[pos]}
		if !s.unknown && string(runes[s.start:s.end]) == model.UnknownValue() {
			s.unknown = true
		}
		spans = append(spans, s)
	}
	slices.Reverse(spans)

	out := make([]api.Token, 0, len(spans))
	for _, s := range spans {
		if s.unknown && len(out) > 0 && out[len(out)-1].Mask == api.MaskUnknown {
			prev := &out[len(out)-1]
			prev.Text += string(runes[s.start:s.end])
			prev.ReferenceOffsets = append(prev.ReferenceOffsets, token.ReferenceOffsets[s.start:s.end]...)
			prev.Offset.End = prev.ReferenceOffsets[len(prev.ReferenceOffsets)-1] + 1
			continue
		}
		refs := append([]api.OffsetSize(nil), token.ReferenceOffsets[s.start:s.end]...)
		mask := api.MaskNone
		if s.unknown {
			mask = api.MaskUnknown
		}
		out = append(out, api.Token{
			Text:             string(runes[s.start:s.end]),
			Offset:           api.Offset{Begin: refs[0], End: refs[len(refs)-1] + 1},
			ReferenceOffsets: refs,
			Mask:             mask,
		})
	}
	return out
}
