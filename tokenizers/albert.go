package tokenizers

import (
	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

// ALBERT is the SentencePiece Unigram tokenizer of the ALBERT family,
// framed like BERT with "[CLS]" and "[SEP]".
type ALBERT struct {
	spm
}

var _ api.Tokenizer = (*ALBERT)(nil)

// NewALBERT loads the SentencePiece model at path ("spiece.model") and
// returns an ALBERT tokenizer.
func NewALBERT(path string, lowerCase, stripAccents bool) (*ALBERT, error) {
	v, model, err := loadSentencePiece(path, vocab.NewALBERT)
	if err != nil {
		return nil, err
	}
	t := &ALBERT{}
	t.spm = newSPM(v, model, lowerCase, stripAccents, t)
	return t, nil
}

func (t *ALBERT) frame(seq sequence, pair *sequence) framed {
	var f framed
	f.addSpecial(t.vocab.TokenToID(vocab.ALBERTCls), 0)
	f.addPayload(seq, 0)
	f.addSpecial(t.vocab.TokenToID(vocab.ALBERTSep), 0)
	if pair != nil {
		f.addPayload(*pair, 1)
		f.addSpecial(t.vocab.TokenToID(vocab.ALBERTSep), 1)
	}
	return f
}
