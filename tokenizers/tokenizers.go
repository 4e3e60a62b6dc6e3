// Package tokenizers implements the tokenization pipelines of the
// supported pretrained model families: BERT, ALBERT, GPT-2, OpenAI GPT,
// RoBERTa, CTRL, XLNet, T5 and XLM-RoBERTa, plus a plain SentencePiece
// tokenizer and the whitespace-and-punctuation Base they all build on.
//
// Every family runs the same stages over one vocabulary: pretokenization
// (offset-preserving splitting and normalization), segmentation (subword
// pieces), then for encoding truncation and special-token framing, and for
// decoding per-family joining. The stages a family customizes are captured
// by an internal scheme; the encode and decode drivers and the batch
// helpers are shared.
package tokenizers

import (
	"strings"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/pretokenize"
	"github.com/gomlx/go-tokenizers/vocab"
)

// scheme is the per-family surface of the pipeline. Base implements every
// method with the default behavior; family tokenizers embed Base and
// override the stages that differ.
type scheme interface {
	// pretokenize splits text into pipeline tokens with offsets attached.
	pretokenize(text string) []api.Token
	// segment splits one pipeline token into vocabulary pieces. It is not
	// called for Special or Unknown tokens; those pass through whole.
	segment(token api.TokenRef) []api.Token
	// frame assembles the final input from the tokenized sequence(s),
	// inserting the family's special tokens. pair is nil for single
	// sequences.
	frame(seq sequence, pair *sequence) framed
	// join assembles decoded token strings back into readable text.
	join(tokens []string) string
}

// Base drives pretokenization, segmentation, truncation, framing and
// decoding over one vocabulary. On its own it runs the whitespace and
// punctuation pipeline with no subword segmentation and no framing
// tokens; the family tokenizers embed it and override parts of the
// scheme. Construct with NewBase or a family constructor; the zero value
// is not usable.
type Base struct {
	vocab  *vocab.Vocab
	opts   pretokenize.Options
	scheme scheme
}

var _ api.Tokenizer = (*Base)(nil)

// NewBase returns a tokenizer running the default pipeline over v.
func NewBase(v *vocab.Vocab, lowerCase, stripAccents bool) *Base {
	t := &Base{}
	*t = newBase(v, lowerCase, stripAccents, t)
	return t
}

// NewBaseFromFile loads a line-per-token vocabulary with "[UNK]" as its
// only special token and returns the default pipeline over it.
func NewBaseFromFile(path string, lowerCase, stripAccents bool) (*Base, error) {
	v, err := vocab.FromFile(path, vocab.BERTUnknown)
	if err != nil {
		return nil, err
	}
	return NewBase(v, lowerCase, stripAccents), nil
}

// newBase builds the embedded core of a family tokenizer; s is the outer
// tokenizer, whose scheme methods drive the pipeline.
func newBase(v *vocab.Vocab, lowerCase, stripAccents bool, s scheme) Base {
	return Base{
		vocab:  v,
		opts:   pretokenize.Options{Lowercase: lowerCase, StripAccents: stripAccents},
		scheme: s,
	}
}

// Vocab returns the tokenizer's vocabulary.
func (b *Base) Vocab() *vocab.Vocab { return b.vocab }

func (b *Base) pretokenize(text string) []api.Token {
	return pretokenize.Run(text, b.vocab, b.opts)
}

func (b *Base) segment(token api.TokenRef) []api.Token {
	return []api.Token{token.ToOwned()}
}

// tokenizeToTokens runs pretokenization and segmentation. Inputs that are
// empty after trimming yield no tokens at all.
func (b *Base) tokenizeToTokens(text string) []api.Token {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []api.Token
	for _, token := range b.scheme.pretokenize(text) {
		if token.Mask == api.MaskSpecial || token.Mask == api.MaskUnknown {
			out = append(out, token)
			continue
		}
		out = append(out, b.scheme.segment(token.AsRef())...)
	}
	return out
}

// Tokenize splits text into token strings.
func (b *Base) Tokenize(text string) []string {
	tokens := b.tokenizeToTokens(text)
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = token.Text
	}
	return out
}

// TokenizeWithOffsets splits text into token strings along with each
// token's offset, reference offsets and mask. Offsets are rederived from
// the reference offsets, so tokens whose every character was produced by
// a transform with no surviving source character report a nil offset.
func (b *Base) TokenizeWithOffsets(text string) api.TokensWithOffsets {
	tokens := b.tokenizeToTokens(text)
	out := api.TokensWithOffsets{
		Tokens:           make([]string, len(tokens)),
		Offsets:          make([]*api.Offset, len(tokens)),
		ReferenceOffsets: make([][]api.OffsetSize, len(tokens)),
		Masks:            make([]api.Mask, len(tokens)),
	}
	for i, token := range tokens {
		out.Tokens[i] = token.Text
		out.Offsets[i] = offsetFromRefs(token.ReferenceOffsets)
		out.ReferenceOffsets[i] = token.ReferenceOffsets
		out.Masks[i] = token.Mask
	}
	return out
}

// ConvertTokensToIDs maps token strings to vocabulary IDs, unknown tokens
// mapping to the unknown-token ID.
func (b *Base) ConvertTokensToIDs(tokens []string) []int64 {
	return b.vocab.ConvertTokensToIDs(tokens)
}

// ConvertTokensToString assembles token strings back into text using the
// family's joining rules.
func (b *Base) ConvertTokensToString(tokens []string) string {
	return b.scheme.join(tokens)
}

// offsetFromRefs derives a token's offset from its reference offsets: the
// first reference through one past the last, nil when none remain.
func offsetFromRefs(refs []api.OffsetSize) *api.Offset {
	if len(refs) == 0 {
		return nil
	}
	return api.Offset{Begin: refs[0], End: refs[len(refs)-1] + 1}.Option()
}
