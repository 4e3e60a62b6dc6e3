package tokenizers

import (
	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

// SentencePiece is a plain SentencePiece Unigram tokenizer: the ▁-marking
// pipeline and the Viterbi segmenter with no framing tokens, for models
// that use a raw "spiece.model" without a transformer family's specials.
type SentencePiece struct {
	spm
}

var _ api.Tokenizer = (*SentencePiece)(nil)

// NewSentencePiece loads the SentencePiece model at path and returns a
// plain SentencePiece tokenizer.
func NewSentencePiece(path string, lowerCase bool) (*SentencePiece, error) {
	v, model, err := loadSentencePiece(path, vocab.NewSentencePiece)
	if err != nil {
		return nil, err
	}
	t := &SentencePiece{}
	t.spm = newSPM(v, model, lowerCase, false, t)
	return t, nil
}
