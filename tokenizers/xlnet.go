package tokenizers

import (
	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

// XLNet is the SentencePiece Unigram tokenizer of the XLNet family. Its
// framing is a suffix arrangement: the payload comes first, "<sep>"
// closes each sequence and a single "<cls>" ends the input with segment
// ID 2.
type XLNet struct {
	spm
}

var _ api.Tokenizer = (*XLNet)(nil)

// NewXLNet loads the SentencePiece model at path ("spiece.model") and
// returns an XLNet tokenizer.
func NewXLNet(path string, lowerCase, stripAccents bool) (*XLNet, error) {
	v, model, err := loadSentencePiece(path, vocab.NewXLNet)
	if err != nil {
		return nil, err
	}
	t := &XLNet{}
	t.spm = newSPM(v, model, lowerCase, stripAccents, t)
	return t, nil
}

func (t *XLNet) frame(seq sequence, pair *sequence) framed {
	sep := t.vocab.TokenToID(vocab.XLNetSep)
	var f framed
	f.addPayload(seq, 0)
	f.addSpecial(sep, 0)
	if pair != nil {
		f.addPayload(*pair, 1)
		f.addSpecial(sep, 1)
	}
	f.addSpecial(t.vocab.TokenToID(vocab.XLNetCls), 2)
	return f
}
