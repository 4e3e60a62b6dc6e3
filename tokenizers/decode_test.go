package tokenizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeKeepsSpecialTokens(t *testing.T) {
	tok := NewBase(baseTestVocab(t), true, true)

	got := tok.Decode([]int64{10, 0, 1, 2, 3}, false, false)
	assert.Equal(t, "[PAD] hello world [UNK] !", got)
}

func TestDecodeSkipsSpecialTokens(t *testing.T) {
	tok := NewBase(baseTestVocab(t), true, true)

	got := tok.Decode([]int64{10, 0, 1, 2, 3}, true, false)
	assert.Equal(t, "hello world !", got)
}

func TestDecodeCleansUpSpaces(t *testing.T) {
	tok := NewBase(baseTestVocab(t), true, true)

	got := tok.Decode([]int64{10, 0, 1, 2, 3}, true, true)
	assert.Equal(t, "hello world!", got)
}

func TestDecodeUnknownID(t *testing.T) {
	tok := NewBase(baseTestVocab(t), true, true)

	// IDs outside the vocabulary decode to the unknown token.
	got := tok.Decode([]int64{0, 9999}, false, false)
	assert.Equal(t, "hello [UNK]", got)
}

func TestDecodeList(t *testing.T) {
	tok := NewBase(baseTestVocab(t), true, true)

	got := tok.DecodeList([][]int64{{0, 1}, {3}, {}}, false, false)
	assert.Equal(t, []string{"hello world", "!", ""}, got)
}

func TestCleanUpTokenization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation", "hello world ! How are you ?", "hello world! How are you?"},
		{"comma and period", "one , two .", "one, two."},
		{"contraction nt", "do n't stop", "don't stop"},
		{"contraction s", "it 's here", "it's here"},
		{"contraction ve", "we 've left", "we've left"},
		{"contraction re", "they 're gone", "they're gone"},
		{"contraction m", "i 'm fine", "i'm fine"},
		{"do not", "please do not go", "please don't go"},
		{"quoted", "isn ' t", "isn't"},
		{"untouched", "nothing to fix", "nothing to fix"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanUpTokenization(tc.in))
		})
	}
}

func TestJoinWordPiece(t *testing.T) {
	got := joinWordPiece([]string{"una", "##ffa", "##ble", "world"})
	assert.Equal(t, "unaffable world", got)
}

func TestJoinEndOfWord(t *testing.T) {
	got := joinEndOfWord([]string{"hel", "lo</w>", "world</w>"})
	assert.Equal(t, "hello world", got)
}

func TestJoinContinuation(t *testing.T) {
	got := joinContinuation([]string{"hel@@", "lo", "world"})
	assert.Equal(t, "hello world", got)
}

func TestJoinSentencePiece(t *testing.T) {
	got := joinSentencePiece([]string{"▁hello", "▁wor", "ld"})
	assert.Equal(t, "hello world", got)
}

func TestJoinSpaces(t *testing.T) {
	assert.Equal(t, "a b c", joinSpaces([]string{"a", "b", "c"}))
	assert.Equal(t, "", joinSpaces(nil))
}
