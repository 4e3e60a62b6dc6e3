package tokenizers

import (
	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

// T5 is the SentencePiece Unigram tokenizer of the T5 family; each
// sequence is closed with a trailing "</s>".
type T5 struct {
	spm
}

var _ api.Tokenizer = (*T5)(nil)

// NewT5 loads the SentencePiece model at path ("spiece.model") and
// returns a T5 tokenizer.
func NewT5(path string, lowerCase bool) (*T5, error) {
	v, model, err := loadSentencePiece(path, vocab.NewT5)
	if err != nil {
		return nil, err
	}
	t := &T5{}
	t.spm = newSPM(v, model, lowerCase, false, t)
	return t, nil
}

func (t *T5) frame(seq sequence, pair *sequence) framed {
	eos := t.vocab.TokenToID(vocab.T5Eos)
	var f framed
	f.addPayload(seq, 0)
	f.addSpecial(eos, 0)
	if pair != nil {
		f.addPayload(*pair, 1)
		f.addSpecial(eos, 1)
	}
	return f
}
