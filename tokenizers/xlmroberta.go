package tokenizers

import (
	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

// XLMRoberta is the SentencePiece Unigram tokenizer of the XLM-RoBERTa
// family. IDs follow the fairseq layout ("<s> <pad> </s> <unk>" at 0-3,
// model pieces shifted up); like T5, each sequence is closed with a
// trailing "</s>".
type XLMRoberta struct {
	spm
}

var _ api.Tokenizer = (*XLMRoberta)(nil)

// NewXLMRoberta loads the SentencePiece model at path
// ("sentencepiece.bpe.model") and returns an XLM-RoBERTa tokenizer.
func NewXLMRoberta(path string, lowerCase bool) (*XLMRoberta, error) {
	v, model, err := loadSentencePiece(path, vocab.NewXLMRoberta)
	if err != nil {
		return nil, err
	}
	t := &XLMRoberta{}
	t.spm = newSPM(v, model, lowerCase, false, t)
	return t, nil
}

func (t *XLMRoberta) frame(seq sequence, pair *sequence) framed {
	eos := t.vocab.TokenToID(vocab.RobertaEos)
	var f framed
	f.addPayload(seq, 0)
	f.addSpecial(eos, 0)
	if pair != nil {
		f.addPayload(*pair, 1)
		f.addSpecial(eos, 1)
	}
	return f
}
