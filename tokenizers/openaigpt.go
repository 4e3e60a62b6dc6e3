package tokenizers

import (
	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/bpe"
	"github.com/gomlx/go-tokenizers/vocab"
)

// OpenAIGPT is the end-of-word BPE tokenizer of the original GPT: the
// whitespace and punctuation pipeline, then merging with "</w>" glued to
// each word's final character. Accent stripping follows the lowercasing
// flag, as the reference implementation ties them together.
type OpenAIGPT struct {
	Base
	segmenter *bpe.Segmenter
}

var _ api.Tokenizer = (*OpenAIGPT)(nil)

// NewOpenAIGPT loads the JSON vocabulary and the merges file and returns
// an original-GPT tokenizer.
func NewOpenAIGPT(vocabPath, mergesPath string, lowerCase bool) (*OpenAIGPT, error) {
	v, err := vocab.NewOpenAIGPT(vocabPath)
	if err != nil {
		return nil, err
	}
	merges, err := bpe.LoadMerges(mergesPath)
	if err != nil {
		return nil, err
	}
	t := &OpenAIGPT{segmenter: bpe.NewSegmenter(merges, bpe.Options{EndOfWord: true})}
	t.Base = newBase(v, lowerCase, lowerCase, t)
	return t, nil
}

func (t *OpenAIGPT) segment(token api.TokenRef) []api.Token {
	return t.segmenter.Tokenize(token)
}

func (t *OpenAIGPT) join(tokens []string) string { return joinEndOfWord(tokens) }
