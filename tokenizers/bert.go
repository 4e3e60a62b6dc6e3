package tokenizers

import (
	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
	"github.com/gomlx/go-tokenizers/wordpiece"
)

// BERT is the WordPiece tokenizer of the BERT family: the whitespace and
// punctuation pipeline, greedy longest-match segmentation, and
// "[CLS] ... [SEP]" framing.
type BERT struct {
	Base
}

var _ api.Tokenizer = (*BERT)(nil)

// NewBERT loads the line-per-token vocabulary at path ("vocab.txt") and
// returns a BERT tokenizer.
func NewBERT(path string, lowerCase, stripAccents bool) (*BERT, error) {
	v, err := vocab.NewBERT(path)
	if err != nil {
		return nil, err
	}
	t := &BERT{}
	t.Base = newBase(v, lowerCase, stripAccents, t)
	return t, nil
}

func (t *BERT) segment(token api.TokenRef) []api.Token {
	return wordpiece.Tokenize(token, t.vocab, wordpiece.DefaultMaxWordLen)
}

func (t *BERT) frame(seq sequence, pair *sequence) framed {
	var f framed
	f.addSpecial(t.vocab.TokenToID(vocab.BERTCls), 0)
	f.addPayload(seq, 0)
	f.addSpecial(t.vocab.TokenToID(vocab.BERTSep), 0)
	if pair != nil {
		f.addPayload(*pair, 1)
		f.addSpecial(t.vocab.TokenToID(vocab.BERTSep), 1)
	}
	return f
}

func (t *BERT) join(tokens []string) string { return joinWordPiece(tokens) }
