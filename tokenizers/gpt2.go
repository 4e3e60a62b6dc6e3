package tokenizers

import (
	"github.com/dlclark/regexp2"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/bpe"
	"github.com/gomlx/go-tokenizers/pretokenize"
	"github.com/gomlx/go-tokenizers/vocab"
)

// GPT2 is the byte-level BPE tokenizer of the GPT-2 family. Text is cut
// by the GPT-2 pattern, each fragment's bytes are remapped to printable
// stand-ins and merged; no framing tokens are added. Every byte of the
// input is representable, so nothing is ever unknown.
type GPT2 struct {
	Base
	segmenter *bpe.Segmenter
	pattern   *regexp2.Regexp
}

var _ api.Tokenizer = (*GPT2)(nil)

// NewGPT2 loads the JSON vocabulary ("vocab.json") and the merges file
// ("merges.txt") and returns a GPT-2 tokenizer.
func NewGPT2(vocabPath, mergesPath string, lowerCase bool) (*GPT2, error) {
	v, err := vocab.NewGPT2(vocabPath)
	if err != nil {
		return nil, err
	}
	merges, err := bpe.LoadMerges(mergesPath)
	if err != nil {
		return nil, err
	}
	pattern, err := bpe.CompilePattern(bpe.GPT2Pattern)
	if err != nil {
		return nil, err
	}
	t := &GPT2{
		segmenter: bpe.NewSegmenter(merges, bpe.Options{ByteLevel: true}),
		pattern:   pattern,
	}
	t.Base = newBase(v, lowerCase, false, t)
	return t, nil
}

func (t *GPT2) pretokenize(text string) []api.Token {
	token := api.NewToken(text)
	return byteLevelTokens(token, t.vocab, t.opts.Lowercase, t.pattern)
}

func (t *GPT2) segment(token api.TokenRef) []api.Token {
	return t.segmenter.Tokenize(token)
}

func (t *GPT2) join(tokens []string) string { return joinByteLevel(tokens) }

// byteLevelTokens is the byte-level pretokenization chain shared by GPT-2
// and RoBERTa: protect special tokens, optionally lowercase, then cut by
// the pattern. No text is cleaned or dropped; whitespace stays part of
// the fragments so the byte mapping can represent it.
func byteLevelTokens(token api.Token, specials pretokenize.SpecialTokenSet, lowerCase bool, pattern *regexp2.Regexp) []api.Token {
	var out []api.Token
	for _, ref := range pretokenize.SplitOnSpecialTokens(token.AsRef(), specials) {
		if ref.Mask == api.MaskSpecial || ref.Mask == api.MaskUnknown {
			out = append(out, ref.ToOwned())
			continue
		}
		frag := ref.ToOwned()
		if lowerCase {
			pretokenize.Lowercase(&frag)
		}
		for _, piece := range bpe.SplitOnPattern(frag.AsRef(), pattern) {
			out = append(out, piece.ToOwned())
		}
	}
	return out
}
