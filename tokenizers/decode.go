package tokenizers

import (
	"strings"

	"github.com/gomlx/go-tokenizers/bpe"
	"github.com/gomlx/go-tokenizers/unigram"
	"github.com/gomlx/go-tokenizers/wordpiece"
)

// Decode maps IDs back to text. With skipSpecialTokens the registered
// special tokens are dropped before joining; with
// cleanUpTokenizationSpaces the spacing artifacts joining leaves around
// punctuation and English contractions are tightened.
func (b *Base) Decode(ids []int64, skipSpecialTokens, cleanUpTokenizationSpaces bool) string {
	text := b.scheme.join(b.decodeToTokens(ids, skipSpecialTokens))
	if cleanUpTokenizationSpaces {
		text = cleanUpTokenization(text)
	}
	return text
}

// decodeToTokens maps each ID to its token string, IDs absent from the
// vocabulary mapping to the unknown token.
func (b *Base) decodeToTokens(ids []int64, skipSpecialTokens bool) []string {
	tokens := make([]string, 0, len(ids))
	for _, id := range ids {
		if skipSpecialTokens && b.vocab.IsSpecialID(id) {
			continue
		}
		tokens = append(tokens, b.vocab.IDToToken(id))
	}
	return tokens
}

// join is the default assembly: tokens separated by single spaces.
func (b *Base) join(tokens []string) string { return joinSpaces(tokens) }

func joinSpaces(tokens []string) string { return strings.Join(tokens, " ") }

// joinWordPiece glues "##" continuations back onto their word.
func joinWordPiece(tokens []string) string {
	joined := strings.Join(tokens, " ")
	return strings.TrimSpace(strings.ReplaceAll(joined, " "+wordpiece.ContinuationPrefix, ""))
}

// joinByteLevel concatenates the printable stand-in alphabet and decodes
// it back to the original bytes.
func joinByteLevel(tokens []string) string {
	return bpe.PrintableToBytes(strings.Join(tokens, ""))
}

// joinEndOfWord concatenates pieces and turns each "</w>" marker into a
// space.
func joinEndOfWord(tokens []string) string {
	joined := strings.Join(tokens, "")
	return strings.TrimSpace(strings.ReplaceAll(joined, bpe.EndOfWordMarker, " "))
}

// joinContinuation glues "@@ " continuations back onto their word.
func joinContinuation(tokens []string) string {
	joined := strings.Join(tokens, " ")
	return strings.TrimSpace(strings.ReplaceAll(joined, bpe.ContinuationMarker+" ", ""))
}

// joinSentencePiece concatenates pieces and turns each word-boundary
// marker into a space.
func joinSentencePiece(tokens []string) string {
	joined := strings.Join(tokens, "")
	return strings.TrimSpace(strings.ReplaceAll(joined, unigram.WordBoundary, " "))
}

// cleanUpTokenization removes spacing artifacts decoding leaves before
// punctuation and inside English contractions. The replacements run in
// this exact order.
func cleanUpTokenization(text string) string {
	for _, r := range [...][2]string{
		{" .", "."},
		{" !", "!"},
		{" ?", "?"},
		{" ,", ","},
		{" ' ", "'"},
		{" n't", "n't"},
		{" 'm", "'m"},
		{" do not", " don't"},
		{" 's", "'s"},
		{" 've", "'ve"},
		{" 're", "'re"},
	} {
		text = strings.ReplaceAll(text, r[0], r[1])
	}
	return text
}
