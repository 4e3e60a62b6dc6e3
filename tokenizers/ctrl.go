package tokenizers

import (
	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/bpe"
	"github.com/gomlx/go-tokenizers/pretokenize"
	"github.com/gomlx/go-tokenizers/vocab"
)

// CTRL is the word-level BPE tokenizer of the CTRL family: whitespace
// splitting only, continuation pieces suffixed with "@@", no framing
// tokens. Control codes are ordinary vocabulary entries.
type CTRL struct {
	Base
	segmenter *bpe.Segmenter
}

var _ api.Tokenizer = (*CTRL)(nil)

// NewCTRL loads the JSON vocabulary and the merges file and returns a
// CTRL tokenizer.
func NewCTRL(vocabPath, mergesPath string, lowerCase bool) (*CTRL, error) {
	v, err := vocab.NewCTRL(vocabPath)
	if err != nil {
		return nil, err
	}
	merges, err := bpe.LoadMerges(mergesPath)
	if err != nil {
		return nil, err
	}
	t := &CTRL{segmenter: bpe.NewSegmenter(merges, bpe.Options{EndOfWord: true, Continuation: true})}
	t.Base = newBase(v, lowerCase, false, t)
	return t, nil
}

func (t *CTRL) pretokenize(text string) []api.Token {
	token := api.NewToken(text)
	var out []api.Token
	for _, ref := range pretokenize.SplitOnSpecialTokens(token.AsRef(), t.vocab) {
		if ref.Mask == api.MaskSpecial || ref.Mask == api.MaskUnknown {
			out = append(out, ref.ToOwned())
			continue
		}
		for _, word := range pretokenize.WhitespaceTokenize(ref) {
			frag := word.ToOwned()
			if t.opts.Lowercase {
				pretokenize.Lowercase(&frag)
			}
			out = append(out, frag)
		}
	}
	return out
}

func (t *CTRL) segment(token api.TokenRef) []api.Token {
	return t.segmenter.Tokenize(token)
}

func (t *CTRL) join(tokens []string) string { return joinContinuation(tokens) }
