package tokenizers

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/bpe"
	"github.com/gomlx/go-tokenizers/vocab"
)

// Roberta is the byte-level BPE tokenizer of the RoBERTa family: the
// GPT-2 pipeline plus "<s> ... </s>" framing. With addPrefixSpace a space
// is prepended to inputs not starting with one, so the first word carries
// the word-initial marker like every other word.
type Roberta struct {
	Base
	segmenter      *bpe.Segmenter
	pattern        *regexp2.Regexp
	addPrefixSpace bool
}

var _ api.Tokenizer = (*Roberta)(nil)

// NewRoberta loads the JSON vocabulary ("vocab.json") and the merges file
// ("merges.txt") and returns a RoBERTa tokenizer.
func NewRoberta(vocabPath, mergesPath string, lowerCase, addPrefixSpace bool) (*Roberta, error) {
	v, err := vocab.NewRoberta(vocabPath)
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
	t := &Roberta{
		segmenter:      bpe.NewSegmenter(merges, bpe.Options{ByteLevel: true}),
		pattern:        pattern,
		addPrefixSpace: addPrefixSpace,
	}
	t.Base = newBase(v, lowerCase, false, t)
	return t, nil
}

func (t *Roberta) pretokenize(text string) []api.Token {
	token := api.NewToken(text)
	if t.addPrefixSpace && !strings.HasPrefix(token.Text, " ") {
		// The prepended space belongs to no input character; it reuses the
		// first character's offset.
		refs := make([]api.OffsetSize, 0, len(token.ReferenceOffsets)+1)
		var first api.OffsetSize
		if len(token.ReferenceOffsets) > 0 {
			first = token.ReferenceOffsets[0]
		}
		refs = append(append(refs, first), token.ReferenceOffsets...)
		token.Text = " " + token.Text
		token.ReferenceOffsets = refs
	}
	return byteLevelTokens(token, t.vocab, t.opts.Lowercase, t.pattern)
}

func (t *Roberta) segment(token api.TokenRef) []api.Token {
	return t.segmenter.Tokenize(token)
}

func (t *Roberta) frame(seq sequence, pair *sequence) framed {
	bos := t.vocab.TokenToID(vocab.RobertaBos)
	eos := t.vocab.TokenToID(vocab.RobertaEos)
	var f framed
	f.addSpecial(bos, 0)
	f.addPayload(seq, 0)
	f.addSpecial(eos, 0)
	if pair != nil {
		f.addSpecial(eos, 1)
		f.addPayload(*pair, 1)
		f.addSpecial(eos, 1)
	}
	return f
}

func (t *Roberta) join(tokens []string) string { return joinByteLevel(tokens) }
