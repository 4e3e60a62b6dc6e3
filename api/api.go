// Package api defines the shared data model and interfaces of the tokenizers:
// tokens with their provenance offsets, masks classifying what each token
// represents, the TokenizedInput produced by encoding, and the Tokenizer
// interface implemented by every model family.
//
// It is a leaf package so that vocabularies, segmenters and tokenizer
// implementations can all share the same types without import cycles.
package api

import "strconv"

// OffsetSize is the integer type used for character positions in the original
// input string. Positions are counted in Unicode code points, not bytes.
type OffsetSize = uint32

// Offset is a half-open character range [Begin, End) into the original input
// string. An offset with End <= Begin denotes "no offset", used for tokens
// that were injected rather than read from the input.
type Offset struct {
	Begin OffsetSize `json:"begin"`
	End   OffsetSize `json:"end"`
}

// NewOffset creates an Offset from begin/end character positions.
func NewOffset(begin, end OffsetSize) Offset {
	return Offset{Begin: begin, End: end}
}

// Valid reports whether the offset covers at least one character.
func (o Offset) Valid() bool {
	return o.End > o.Begin
}

// Option returns the offset itself when it covers at least one character, or
// nil for placeholder offsets such as those of injected framing tokens.
func (o Offset) Option() *Offset {
	if !o.Valid() {
		return nil
	}
	return &o
}

// Mask classifies what a token represents. It is set by the pretokenizer and
// the subword segmenters and carried through to the encoded output.
type Mask uint8

const (
	// MaskNone is the default: no particular classification, further
	// processing may still apply to the token.
	MaskNone Mask = iota
	// MaskWhitespace marks a token representing whitespace in any form.
	MaskWhitespace
	// MaskPunctuation marks a token representing punctuation.
	MaskPunctuation
	// MaskCJK marks a single Chinese/Japanese/Korean ideograph isolated by
	// the pretokenizer.
	MaskCJK
	// MaskSpecial marks a special marker token such as a separator or class
	// marker.
	MaskSpecial
	// MaskBegin marks the first sub-token of a word split into several
	// sub-tokens; the following sub-tokens carry MaskContinuation.
	MaskBegin
	// MaskContinuation marks every sub-token of a word except the first.
	MaskContinuation
	// MaskUnfinished marks every sub-token of a word except the last, the
	// mirror image of MaskContinuation.
	MaskUnfinished
	// MaskUnknown marks a token that is out of vocabulary and will decode to
	// the unknown token.
	MaskUnknown
)

var maskNames = [...]string{
	MaskNone:         "None",
	MaskWhitespace:   "Whitespace",
	MaskPunctuation:  "Punctuation",
	MaskCJK:          "CJK",
	MaskSpecial:      "Special",
	MaskBegin:        "Begin",
	MaskContinuation: "Continuation",
	MaskUnfinished:   "Unfinished",
	MaskUnknown:      "Unknown",
}

// String returns the mask name, e.g. "Special".
func (m Mask) String() string {
	if int(m) < len(maskNames) {
		return maskNames[m]
	}
	return "Mask(" + strconv.Itoa(int(m)) + ")"
}

// MarshalText serializes the mask as its name, so JSON output carries
// readable strings instead of enum ordinals.
func (m Mask) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a mask from its name.
func (m *Mask) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range maskNames {
		if name == s {
			*m = Mask(i)
			return nil
		}
	}
	return ValueErrorf("unknown mask name %q", s)
}

// Token is an owned token: a fragment of text together with the character
// range it came from, the per-character provenance indices, and its mask.
type Token struct {
	// Text of the token. May differ from the original input fragment after
	// lowercasing, accent stripping, or decoration markers are applied.
	Text string `json:"text"`
	// Offset is the [Begin, End) character range in the original input.
	Offset Offset `json:"offset"`
	// ReferenceOffsets holds one original-input character index per character
	// of Text. Decoration characters added by segmenters do not appear here.
	ReferenceOffsets []OffsetSize `json:"reference_offsets"`
	// Mask classifies the token.
	Mask Mask `json:"mask"`
}

// NewToken creates a standalone token whose reference offsets cover
// 0..charCount, i.e. the token is its own original input.
func NewToken(text string) Token {
	size := OffsetSize(len([]rune(text)))
	refs := make([]OffsetSize, size)
	for i := range refs {
		refs[i] = OffsetSize(i)
	}
	return Token{
		Text:             text,
		Offset:           Offset{Begin: 0, End: size},
		ReferenceOffsets: refs,
		Mask:             MaskNone,
	}
}

// AsRef returns a TokenRef sharing this token's backing data.
func (t *Token) AsRef() TokenRef {
	return TokenRef{
		Text:             t.Text,
		Offset:           t.Offset,
		ReferenceOffsets: t.ReferenceOffsets,
		Mask:             t.Mask,
	}
}

// TokenRef is a borrowed view of a token: it shares the text and the
// reference-offset slice rather than owning copies. The pretokenizer consumes
// a TokenRef spanning the whole input.
type TokenRef struct {
	Text             string
	Offset           Offset
	ReferenceOffsets []OffsetSize
	Mask             Mask
}

// NewTokenRef creates a view over text whose characters map to the given
// original-input indices. len(offsets) must equal the character count of text.
func NewTokenRef(text string, offsets []OffsetSize) TokenRef {
	return TokenRef{
		Text:             text,
		Offset:           Offset{Begin: 0, End: OffsetSize(len(offsets))},
		ReferenceOffsets: offsets,
		Mask:             MaskNone,
	}
}

// ToOwned materializes an owned Token, copying the reference offsets.
func (t TokenRef) ToOwned() Token {
	refs := make([]OffsetSize, len(t.ReferenceOffsets))
	copy(refs, t.ReferenceOffsets)
	return Token{
		Text:             t.Text,
		Offset:           t.Offset,
		ReferenceOffsets: refs,
		Mask:             t.Mask,
	}
}

// TokensWithOffsets is the result of TokenizeWithOffsets: token strings plus
// the per-token provenance the pipeline tracked while producing them.
type TokensWithOffsets struct {
	// Tokens are the token strings, as fed to ConvertTokensToIDs.
	Tokens []string `json:"tokens"`
	// Offsets holds the original-input character range per token, nil where a
	// token cannot be related back to the input.
	Offsets []*Offset `json:"offsets"`
	// ReferenceOffsets holds the per-character original-input indices per
	// token.
	ReferenceOffsets [][]OffsetSize `json:"reference_offsets"`
	// Masks classifies each token.
	Masks []Mask `json:"masks"`
}

// TokenizedInput is the final product of encoding a sequence or a sequence
// pair: the framed ID sequence plus all parallel bookkeeping vectors. All
// slice fields except OverflowingTokens have the same length.
type TokenizedInput struct {
	// TokenIDs is the framed ID sequence fed to the model.
	TokenIDs []int64 `json:"token_ids"`
	// SegmentIDs is 0 for first-sequence tokens (and their framing) and 1 for
	// second-sequence tokens (XLNet additionally uses 2 for its class token).
	SegmentIDs []int8 `json:"segment_ids"`
	// SpecialTokensMask is 1 where the position was injected by framing,
	// 0 elsewhere.
	SpecialTokensMask []int8 `json:"special_tokens_mask"`
	// OverflowingTokens holds the IDs truncated off, preceded by any
	// stride-induced replay of the kept tail.
	OverflowingTokens []int64 `json:"overflowing_tokens"`
	// NumTruncatedTokens counts the tokens dropped from the raw concatenation
	// to fit the requested maximum length.
	NumTruncatedTokens int `json:"num_truncated_tokens"`
	// TokenOffsets maps each position back to a character range in the
	// corresponding original input, nil for injected tokens.
	TokenOffsets []*Offset `json:"token_offsets"`
	// ReferenceOffsets holds per-position character provenance indices.
	ReferenceOffsets [][]OffsetSize `json:"reference_offsets"`
	// Mask classifies each position.
	Mask []Mask `json:"mask"`
}

// TruncationStrategy selects how an over-long sequence or sequence pair is
// cut down to the requested maximum length during encoding.
type TruncationStrategy int

const (
	// LongestFirst removes tokens one by one from whichever sequence is
	// currently longer (the first sequence on ties).
	LongestFirst TruncationStrategy = iota
	// OnlyFirst removes tokens from the first sequence only.
	OnlyFirst
	// OnlySecond removes tokens from the second sequence only.
	OnlySecond
	// DoNotTruncate fails instead of removing tokens.
	DoNotTruncate
)

var truncationNames = [...]string{
	LongestFirst:  "longest_first",
	OnlyFirst:     "only_first",
	OnlySecond:    "only_second",
	DoNotTruncate: "do_not_truncate",
}

// String returns the strategy's flag-friendly name, e.g. "longest_first".
func (s TruncationStrategy) String() string {
	if int(s) >= 0 && int(s) < len(truncationNames) {
		return truncationNames[s]
	}
	return "TruncationStrategy(" + strconv.Itoa(int(s)) + ")"
}

// ParseTruncationStrategy parses a strategy from its flag-friendly name.
func ParseTruncationStrategy(s string) (TruncationStrategy, error) {
	for i, name := range truncationNames {
		if name == s {
			return TruncationStrategy(i), nil
		}
	}
	return LongestFirst, ValueErrorf("unknown truncation strategy %q", s)
}

// Tokenizer converts text to token strings and integer IDs and back, the way
// one specific pretrained model family does it. Implementations are safe for
// concurrent use once constructed.
type Tokenizer interface {
	// Tokenize splits text into token strings.
	Tokenize(text string) []string

	// TokenizeWithOffsets splits text into token strings together with the
	// offsets, reference offsets and masks the pipeline tracked.
	TokenizeWithOffsets(text string) TokensWithOffsets

	// TokenizeList tokenizes each text in order.
	TokenizeList(texts []string) [][]string

	// ConvertTokensToIDs maps token strings to vocabulary IDs; unknown tokens
	// map to the unknown-token ID, never an error.
	ConvertTokensToIDs(tokens []string) []int64

	// ConvertTokensToString assembles token strings back into readable text
	// using the family's joining rules.
	ConvertTokensToString(tokens []string) string

	// Encode tokenizes text, truncates it to maxLen with the given strategy
	// and stride, and frames it with the family's special tokens. It fails
	// only for invalid truncation requests.
	Encode(text string, maxLen int, strategy TruncationStrategy, stride int) (TokenizedInput, error)

	// EncodePair behaves like Encode for a sequence pair, producing segment
	// IDs distinguishing the two sequences.
	EncodePair(text, textPair string, maxLen int, strategy TruncationStrategy, stride int) (TokenizedInput, error)

	// EncodeList encodes each text in order.
	EncodeList(texts []string, maxLen int, strategy TruncationStrategy, stride int) ([]TokenizedInput, error)

	// EncodePairList encodes each pair in order.
	EncodePairList(pairs []TextPair, maxLen int, strategy TruncationStrategy, stride int) ([]TokenizedInput, error)

	// Decode maps IDs back to text, optionally dropping special tokens and
	// cleaning up tokenization artifacts around punctuation.
	Decode(ids []int64, skipSpecialTokens, cleanUpTokenizationSpaces bool) string

	// DecodeList decodes each ID sequence in order.
	DecodeList(ids [][]int64, skipSpecialTokens, cleanUpTokenizationSpaces bool) []string
}

// TextPair is one (first sequence, second sequence) input to EncodePairList.
type TextPair struct {
	Text     string `json:"text"`
	TextPair string `json:"text_pair"`
}
