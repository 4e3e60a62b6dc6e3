package tokenizers

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/vocab"
)

// appendPiece serializes one SentencePiece message into a ModelProto buffer.
func appendPiece(buf []byte, p vocab.SentencePiece) []byte {
	var msg []byte
	msg = protowire.AppendTag(msg, 1, protowire.BytesType)
	msg = protowire.AppendBytes(msg, []byte(p.Piece))
	msg = protowire.AppendTag(msg, 2, protowire.Fixed32Type)
	msg = protowire.AppendFixed32(msg, math.Float32bits(p.Score))
	if p.Type != 0 {
		msg = protowire.AppendTag(msg, 3, protowire.VarintType)
		msg = protowire.AppendVarint(msg, uint64(p.Type))
	}
	buf = protowire.AppendTag(buf, 1, protowire.BytesType)
	buf = protowire.AppendBytes(buf, msg)
	return buf
}

// writeModelProto writes a serialized SentencePiece model file; a piece's
// ID is its position in the list.
func writeModelProto(t *testing.T, pieces ...vocab.SentencePiece) string {
	t.Helper()
	var buf []byte
	for _, p := range pieces {
		buf = appendPiece(buf, p)
	}
	path := filepath.Join(t.TempDir(), "spiece.model")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

// spmScoredPieces are the content pieces shared by the family test models.
// Scores make "▁hello ▁world !" the unique cheap path and leave "▁" as an
// expensive single-character piece.
func spmScoredPieces() []vocab.SentencePiece {
	return []vocab.SentencePiece{
		{Piece: "▁hello", Score: -1},
		{Piece: "▁world", Score: -2},
		{Piece: "!", Score: -7},
		{Piece: "▁", Score: -10},
	}
}

func newTestALBERT(t *testing.T) *ALBERT {
	t.Helper()
	pieces := append([]vocab.SentencePiece{
		{Piece: "<unk>", Type: vocab.PieceUnknown},
		{Piece: "[CLS]", Type: vocab.PieceControl},
		{Piece: "[SEP]", Type: vocab.PieceControl},
		{Piece: "[MASK]", Type: vocab.PieceControl},
		{Piece: "<pad>", Type: vocab.PieceControl},
	}, spmScoredPieces()...)
	tok, err := NewALBERT(writeModelProto(t, pieces...), true, false)
	require.NoError(t, err)
	return tok
}

func TestALBERTTokenize(t *testing.T) {
	tok := newTestALBERT(t)

	got := tok.TokenizeWithOffsets("Hello world!")
	want := api.TokensWithOffsets{
		Tokens:  []string{"▁hello", "▁world", "!"},
		Offsets: []*api.Offset{off(0, 5), off(5, 11), off(11, 12)},
		ReferenceOffsets: [][]api.OffsetSize{
			{0, 0, 1, 2, 3, 4}, {5, 6, 7, 8, 9, 10}, {11},
		},
		Masks: []api.Mask{api.MaskNone, api.MaskNone, api.MaskNone},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestALBERTProtectsSpecialTokens(t *testing.T) {
	tok := newTestALBERT(t)

	got := tok.TokenizeWithOffsets("hello [MASK] world!")
	want := api.TokensWithOffsets{
		Tokens: []string{"▁hello", "[MASK]", "▁world", "!"},
		Offsets: []*api.Offset{
			off(0, 5), off(6, 12), off(12, 18), off(18, 19),
		},
		ReferenceOffsets: [][]api.OffsetSize{
			{0, 0, 1, 2, 3, 4}, contiguous(6, 12),
			contiguous(12, 18), contiguous(18, 19),
		},
		Masks: []api.Mask{
			api.MaskNone, api.MaskSpecial, api.MaskNone, api.MaskNone,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestALBERTUnknownCharacters(t *testing.T) {
	tok := newTestALBERT(t)

	// x, y and z appear in no piece; the fallback characters come out
	// coalesced as one unknown token.
	assert.Equal(t, []string{"▁hello", "▁", "xyz", "!"}, tok.Tokenize("hello xyz!"))

	got, err := tok.Encode("hello xyz!", 10, api.LongestFirst, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5, 8, 0, 7, 2}, got.TokenIDs)
	assert.Equal(t, []int8{1, 0, 0, 0, 0, 1}, got.SpecialTokensMask)
	assert.Equal(t, []api.Mask{
		api.MaskSpecial, api.MaskNone, api.MaskNone,
		api.MaskUnknown, api.MaskNone, api.MaskSpecial,
	}, got.Mask)
}

func TestALBERTEncodePair(t *testing.T) {
	tok := newTestALBERT(t)

	got, err := tok.EncodePair("hello world!", "hello", 16, api.LongestFirst, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5, 6, 7, 2, 5, 2}, got.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0, 0, 0, 1, 1}, got.SegmentIDs)
	assert.Equal(t, []int8{1, 0, 0, 0, 1, 0, 1}, got.SpecialTokensMask)
	assert.Equal(t, []*api.Offset{
		nil, off(0, 5), off(5, 11), off(11, 12), nil, off(0, 5), nil,
	}, got.TokenOffsets)
}

func TestALBERTDecode(t *testing.T) {
	tok := newTestALBERT(t)

	assert.Equal(t, "hello world!", tok.Decode([]int64{1, 5, 6, 7, 2}, true, false))
	assert.Equal(t, "[CLS] hello world![SEP]", tok.Decode([]int64{1, 5, 6, 7, 2}, false, false))
}

func TestALBERTMissingSpecialPiece(t *testing.T) {
	pieces := append([]vocab.SentencePiece{
		{Piece: "<unk>", Type: vocab.PieceUnknown},
	}, spmScoredPieces()...)
	_, err := NewALBERT(writeModelProto(t, pieces...), true, false)
	require.Error(t, err)
	assert.True(t, api.IsTokenNotFound(err))
}

func newTestXLNet(t *testing.T) *XLNet {
	t.Helper()
	pieces := append([]vocab.SentencePiece{
		{Piece: "<unk>", Type: vocab.PieceUnknown},
		{Piece: "<s>", Type: vocab.PieceControl},
		{Piece: "</s>", Type: vocab.PieceControl},
		{Piece: "<cls>", Type: vocab.PieceControl},
		{Piece: "<sep>", Type: vocab.PieceControl},
		{Piece: "<pad>", Type: vocab.PieceControl},
		{Piece: "<mask>", Type: vocab.PieceControl},
	}, spmScoredPieces()...)
	tok, err := NewXLNet(writeModelProto(t, pieces...), false, false)
	require.NoError(t, err)
	return tok
}

func TestXLNetEncode(t *testing.T) {
	tok := newTestXLNet(t)

	got, err := tok.Encode("hello world!", 10, api.LongestFirst, 0)
	require.NoError(t, err)
	// Suffix framing: the payload first, then "<sep>" and "<cls>", the
	// latter under segment ID 2.
	assert.Equal(t, []int64{7, 8, 9, 4, 3}, got.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0, 0, 2}, got.SegmentIDs)
	assert.Equal(t, []int8{0, 0, 0, 1, 1}, got.SpecialTokensMask)
	assert.Equal(t, []*api.Offset{
		off(0, 5), off(5, 11), off(11, 12), nil, nil,
	}, got.TokenOffsets)
}

func TestXLNetEncodePair(t *testing.T) {
	tok := newTestXLNet(t)

	got, err := tok.EncodePair("hello world!", "hello", 16, api.LongestFirst, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8, 9, 4, 7, 4, 3}, got.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0, 0, 1, 1, 2}, got.SegmentIDs)
	assert.Equal(t, []int8{0, 0, 0, 1, 0, 1, 1}, got.SpecialTokensMask)
}

// newTestT5 lays the specials out like the released T5 models: "<pad>" at
// 0, "</s>" at 1 and "<unk>" at 2.
func newTestT5(t *testing.T) *T5 {
	t.Helper()
	pieces := append([]vocab.SentencePiece{
		{Piece: "<pad>", Type: vocab.PieceControl},
		{Piece: "</s>", Type: vocab.PieceControl},
		{Piece: "<unk>", Type: vocab.PieceUnknown},
	}, spmScoredPieces()...)
	pieces = append(pieces, vocab.SentencePiece{Piece: "▁fit", Score: -3})
	tok, err := NewT5(writeModelProto(t, pieces...), false)
	require.NoError(t, err)
	return tok
}

func TestT5Encode(t *testing.T) {
	tok := newTestT5(t)

	got, err := tok.Encode("hello world!", 10, api.LongestFirst, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5, 1}, got.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0, 0}, got.SegmentIDs)
	assert.Equal(t, []int8{0, 0, 0, 1}, got.SpecialTokensMask)
	assert.Equal(t, []*api.Offset{
		off(0, 5), off(5, 11), off(11, 12), nil,
	}, got.TokenOffsets)
}

func TestT5EncodePair(t *testing.T) {
	tok := newTestT5(t)

	got, err := tok.EncodePair("hello world!", "hello", 16, api.LongestFirst, 0)
	require.NoError(t, err)
	// Each sequence is closed with its own trailing "</s>".
	assert.Equal(t, []int64{3, 4, 5, 1, 3, 1}, got.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0, 0, 1, 1}, got.SegmentIDs)
	assert.Equal(t, []int8{0, 0, 0, 1, 0, 1}, got.SpecialTokensMask)
}

func TestT5EncodeTruncates(t *testing.T) {
	tok := newTestT5(t)

	got, err := tok.Encode("hello world!", 3, api.LongestFirst, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 1}, got.TokenIDs)
	assert.Equal(t, []int64{5}, got.OverflowingTokens)
	assert.Equal(t, 1, got.NumTruncatedTokens)
}

func TestT5TrimsTrailingWhitespace(t *testing.T) {
	tok := newTestT5(t)

	assert.Equal(t, []string{"▁hello"}, tok.Tokenize("hello \t "))
	// Interior whitespace runs keep one marker per character.
	assert.Equal(t, []string{"▁hello", "▁", "▁world"}, tok.Tokenize("hello  world"))
}

func TestT5LeadingWhitespaceSingleMarker(t *testing.T) {
	tok := newTestT5(t)

	// The leading space becomes the word-boundary marker itself; no second
	// marker is prepended, and the piece's offset covers the space.
	got := tok.TokenizeWithOffsets(" hello")
	want := api.TokensWithOffsets{
		Tokens:           []string{"▁hello"},
		Offsets:          []*api.Offset{off(0, 6)},
		ReferenceOffsets: [][]api.OffsetSize{contiguous(0, 6)},
		Masks:            []api.Mask{api.MaskNone},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestT5NormalizesLigature(t *testing.T) {
	tok := newTestT5(t)

	// NFKC expands U+FB01 to "fi"; both expansion characters point back at
	// the ligature's position.
	got := tok.TokenizeWithOffsets("ﬁt")
	want := api.TokensWithOffsets{
		Tokens:           []string{"▁fit"},
		Offsets:          []*api.Offset{off(0, 2)},
		ReferenceOffsets: [][]api.OffsetSize{{0, 0, 0, 1}},
		Masks:            []api.Mask{api.MaskNone},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestT5Decode(t *testing.T) {
	tok := newTestT5(t)

	assert.Equal(t, "hello world!", tok.Decode([]int64{3, 4, 5, 1}, true, false))
}

func TestT5MissingFile(t *testing.T) {
	_, err := NewT5(filepath.Join(t.TempDir(), "missing.model"), false)
	require.Error(t, err)
	assert.True(t, api.IsFileNotFound(err))
}

func newTestXLMRoberta(t *testing.T) *XLMRoberta {
	t.Helper()
	pieces := append([]vocab.SentencePiece{
		{Piece: "<unk>", Type: vocab.PieceUnknown},
		{Piece: "<s>", Type: vocab.PieceControl},
		{Piece: "</s>", Type: vocab.PieceControl},
	}, spmScoredPieces()...)
	tok, err := NewXLMRoberta(writeModelProto(t, pieces...), false)
	require.NoError(t, err)
	return tok
}

func TestXLMRobertaFairseqIDs(t *testing.T) {
	tok := newTestXLMRoberta(t)

	// "<s> <pad> </s> <unk>" take IDs 0-3, the model's pieces shift up by
	// one and "<mask>" closes the vocabulary.
	got := tok.ConvertTokensToIDs([]string{"▁hello", "▁world", "!", "▁", "<mask>", "<s>", "zzz"})
	assert.Equal(t, []int64{4, 5, 6, 7, 8, 0, 3}, got)
}

func TestXLMRobertaEncode(t *testing.T) {
	tok := newTestXLMRoberta(t)

	got, err := tok.Encode("hello world!", 10, api.LongestFirst, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6, 2}, got.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0, 0}, got.SegmentIDs)
	assert.Equal(t, []int8{0, 0, 0, 1}, got.SpecialTokensMask)
}

func TestXLMRobertaEncodePair(t *testing.T) {
	tok := newTestXLMRoberta(t)

	got, err := tok.EncodePair("hello world!", "hello", 16, api.LongestFirst, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6, 2, 4, 2}, got.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0, 0, 1, 1}, got.SegmentIDs)
	assert.Equal(t, []int8{0, 0, 0, 1, 0, 1}, got.SpecialTokensMask)
}

func newTestSentencePiece(t *testing.T) *SentencePiece {
	t.Helper()
	pieces := append([]vocab.SentencePiece{
		{Piece: "<unk>", Type: vocab.PieceUnknown},
	}, spmScoredPieces()...)
	tok, err := NewSentencePiece(writeModelProto(t, pieces...), false)
	require.NoError(t, err)
	return tok
}

func TestSentencePieceEncodeNoFraming(t *testing.T) {
	tok := newTestSentencePiece(t)

	got, err := tok.Encode("hello world!", 10, api.LongestFirst, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, got.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0}, got.SegmentIDs)
	assert.Equal(t, []int8{0, 0, 0}, got.SpecialTokensMask)
	assert.Equal(t, []*api.Offset{
		off(0, 5), off(5, 11), off(11, 12),
	}, got.TokenOffsets)
}

func TestSentencePieceDecode(t *testing.T) {
	tok := newTestSentencePiece(t)

	assert.Equal(t, "hello world!", tok.Decode([]int64{1, 2, 3}, false, false))
}
