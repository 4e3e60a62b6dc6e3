package api

import "iter"

// ConsolidatedTokens walks tokens in maximal groups belonging to one word:
// each group starts at a token whose mask is anything but MaskContinuation
// and extends over the MaskContinuation tokens that follow it. Concatenating
// the groups in order yields the original sequence with no gaps.
//
//	for word := range api.ConsolidatedTokens(tokens) {
//		// word is a sub-slice of tokens forming one word
//	}
func ConsolidatedTokens(tokens []Token) iter.Seq[[]Token] {
	return consolidated(tokens, func(t Token) Mask { return t.Mask })
}

// ConsolidatedTokenRefs is ConsolidatedTokens over borrowed token views.
func ConsolidatedTokenRefs(tokens []TokenRef) iter.Seq[[]TokenRef] {
	return consolidated(tokens, func(t TokenRef) Mask { return t.Mask })
}

func consolidated[T any](tokens []T, mask func(T) Mask) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		begin := 0
		for cursor := 1; cursor <= len(tokens); cursor++ {
			if cursor == len(tokens) || mask(tokens[cursor]) != MaskContinuation {
				if !yield(tokens[begin:cursor]) {
					return
				}
				begin = cursor
			}
		}
	}
}
