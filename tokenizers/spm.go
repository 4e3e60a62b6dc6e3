package tokenizers

import (
	"strings"
	"unicode/utf8"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/pretokenize"
	"github.com/gomlx/go-tokenizers/unigram"
	"github.com/gomlx/go-tokenizers/vocab"
)

// spm carries what the SentencePiece-backed families (ALBERT, XLNet, T5,
// XLM-RoBERTa and the plain SentencePiece tokenizer) share: the scoring
// model for the Viterbi segmenter and the SentencePiece pretokenization
// chain. Families embed it and add their framing.
type spm struct {
	Base
	model *vocab.SentencePieceModel
}

func newSPM(v *vocab.Vocab, model *vocab.SentencePieceModel, lowerCase, stripAccents bool, s scheme) spm {
	return spm{Base: newBase(v, lowerCase, stripAccents, s), model: model}
}

func (t *spm) pretokenize(text string) []api.Token {
	return spmPretokenize(text, t.vocab, t.opts)
}

func (t *spm) segment(token api.TokenRef) []api.Token {
	return unigram.Tokenize(token, t.model)
}

func (t *spm) join(tokens []string) string { return joinSentencePiece(tokens) }

// spmPretokenize splits text on registered special tokens and normalizes
// each ordinary fragment: cleaning, NFKC, the configured case folding and
// accent stripping, then trailing whitespace removal and the rewrite of
// every remaining whitespace character to the ▁ word-boundary marker. A
// fragment not starting with the marker gets one prepended; it carries
// the fragment's first reference offset. Each surviving fragment comes
// back as one token for the segmenter's lattice to split.
func spmPretokenize(text string, specials pretokenize.SpecialTokenSet, opts pretokenize.Options) []api.Token {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	token := api.NewToken(text)
	var out []api.Token
	for _, ref := range pretokenize.SplitOnSpecialTokens(token.AsRef(), specials) {
		if ref.Mask == api.MaskSpecial || ref.Mask == api.MaskUnknown {
			out = append(out, ref.ToOwned())
			continue
		}
		frag := ref.ToOwned()
		pretokenize.CleanText(&frag)
		pretokenize.DecomposeNFKC(&frag)
		if opts.Lowercase {
			pretokenize.Lowercase(&frag)
		}
		if opts.StripAccents {
			pretokenize.StripAccents(&frag)
		}
		trimTrailingSpace(&frag)
		if len(frag.Text) == 0 {
			continue
		}
		markWordBoundaries(&frag)
		out = append(out, frag)
	}
	return out
}

// trimTrailingSpace drops trailing whitespace characters along with their
// reference offsets.
func trimTrailingSpace(token *api.Token) {
	text := token.Text
	chars := len(token.ReferenceOffsets)
	for len(text) > 0 {
		r, size := utf8.DecodeLastRuneInString(text)
		if !pretokenize.IsWhitespace(r) {
			break
		}
		text = text[:len(text)-size]
		chars--
	}
	token.Text = text
	token.ReferenceOffsets = token.ReferenceOffsets[:chars]
	refreshTokenOffset(token)
}

// markWordBoundaries rewrites every whitespace character to the ▁ marker,
// one for one, then prepends a marker when the rewritten text does not
// already start with one. A fragment whose first character was whitespace
// therefore gets no extra marker.
func markWordBoundaries(token *api.Token) {
	var sb strings.Builder
	sb.Grow(len(token.Text) + len(unigram.WordBoundary))
	for _, r := range token.Text {
		if pretokenize.IsWhitespace(r) {
			sb.WriteString(unigram.WordBoundary)
			continue
		}
		sb.WriteRune(r)
	}
	text := sb.String()
	refs := token.ReferenceOffsets
	if !strings.HasPrefix(text, unigram.WordBoundary) {
		text = unigram.WordBoundary + text
		var first api.OffsetSize
		if len(refs) > 0 {
			first = refs[0]
		}
		refs = append([]api.OffsetSize{first}, refs...)
	}
	token.Text = text
	token.ReferenceOffsets = refs
	refreshTokenOffset(token)
}

func refreshTokenOffset(token *api.Token) {
	if o := offsetFromRefs(token.ReferenceOffsets); o != nil {
		token.Offset = *o
		return
	}
	token.Offset = api.Offset{}
}

// loadSentencePiece reads one model file for both the ID vocabulary and
// the scoring model, registering the family's special tokens.
func loadSentencePiece(path string, newVocab func(string) (*vocab.Vocab, error)) (*vocab.Vocab, *vocab.SentencePieceModel, error) {
	v, err := newVocab(path)
	if err != nil {
		return nil, nil, err
	}
	model, err := vocab.LoadSentencePieceModel(path)
	if err != nil {
		return nil, nil, err
	}
	return v, model, nil
}
