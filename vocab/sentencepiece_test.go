package vocab

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/gomlx/go-tokenizers/api"
)

// appendPiece serializes one SentencePiece message into a ModelProto buffer.
func appendPiece(buf []byte, p SentencePiece) []byte {
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

// writeModelProto builds a serialized SentencePiece model file from pieces,
// including a trainer-spec stand-in so parsing has unknown fields to skip.
func writeModelProto(t *testing.T, pieces ...SentencePiece) string {
	t.Helper()
	var buf []byte
	for _, p := range pieces {
		buf = appendPiece(buf, p)
	}
	// trainer_spec (field 2) and an unknown varint field, both skipped.
	buf = protowire.AppendTag(buf, 2, protowire.BytesType)
	buf = protowire.AppendBytes(buf, []byte{0x08, 0x01})
	buf = protowire.AppendTag(buf, 99, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 7)

	path := filepath.Join(t.TempDir(), "spiece.model")
	require.NoError(t, os.WriteFile(path, buf, 0644))
	return path
}

func testPieces() []SentencePiece {
	return []SentencePiece{
		{Piece: "<unk>", Score: 0, Type: PieceUnknown},
		{Piece: "▁hello", Score: -1.5},
		{Piece: "▁world", Score: -2.25},
		{Piece: "lo", Score: -3.5},
	}
}

func TestLoadSentencePieceModel(t *testing.T) {
	path := writeModelProto(t, testPieces()...)
	m, err := LoadSentencePieceModel(path)
	require.NoError(t, err)

	assert.Equal(t, 4, m.Len())
	assert.Equal(t, "▁hello", m.PieceAt(1).Piece)
	assert.Equal(t, float32(-2.25), m.PieceAt(2).Score)
	assert.Equal(t, PieceUnknown, m.PieceAt(0).Type)
	assert.Equal(t, PieceNormal, m.PieceAt(3).Type)

	id, ok := m.PieceID("lo")
	require.True(t, ok)
	assert.Equal(t, int32(3), id)
	_, ok = m.PieceID("missing")
	assert.False(t, ok)

	// "▁hello" is six characters.
	assert.Equal(t, 6, m.MaxPieceLength())
	assert.Equal(t, float32(-3.5), m.MinScore())
	assert.Equal(t, int32(0), m.UnknownID())
}

func TestFromSentencePieceFile(t *testing.T) {
	path := writeModelProto(t, testPieces()...)
	v, err := FromSentencePieceFile(path, "<unk>")
	require.NoError(t, err)

	assert.Equal(t, 4, v.Len())
	assert.Equal(t, int64(1), v.TokenToID("▁hello"))
	assert.Equal(t, int64(0), v.TokenToID("oov"))
	assert.Equal(t, "▁world", v.IDToToken(2))
	assert.True(t, v.IsSpecial("<unk>"))
}

func TestLoadSentencePieceModelFileNotFound(t *testing.T) {
	_, err := LoadSentencePieceModel(filepath.Join(t.TempDir(), "missing.model"))
	require.Error(t, err)
	assert.True(t, api.IsFileNotFound(err))
}

func TestLoadSentencePieceModelCorrupt(t *testing.T) {
	// Length prefix truncated mid-varint.
	path := filepath.Join(t.TempDir(), "spiece.model")
	require.NoError(t, os.WriteFile(path, []byte{0x0A, 0xFF}, 0644))

	_, err := LoadSentencePieceModel(path)
	require.Error(t, err)
	assert.True(t, api.IsVocabularyParsing(err))
}

func TestLoadSentencePieceModelEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spiece.model")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := LoadSentencePieceModel(path)
	require.Error(t, err)
	assert.True(t, api.IsVocabularyParsing(err))
}

func TestNewSentencePieceModelEmptyPieces(t *testing.T) {
	m := NewSentencePieceModel(nil)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, float32(0), m.MinScore())
	assert.Equal(t, 0, m.MaxPieceLength())
}
