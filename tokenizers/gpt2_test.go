package tokenizers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/go-tokenizers/api"
)

// writeJSONVocab writes a vocab.json token→ID object.
func writeJSONVocab(t *testing.T, values map[string]int64) string {
	t.Helper()
	data, err := json.Marshal(values)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "vocab.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// writeMergesFile writes a merges.txt with the version header; a pair's
// rank is its line position.
func writeMergesFile(t *testing.T, pairs ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "merges.txt")
	content := "#version: 0.2\n" + strings.Join(pairs, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestGPT2(t *testing.T) *GPT2 {
	t.Helper()
	vocabPath := writeJSONVocab(t, map[string]int64{
		"hello": 0, "Ġworld": 1, "<|endoftext|>": 2, "!": 3,
		"w": 4, "or": 5, "ld": 6, "Ġ": 7,
	})
	mergesPath := writeMergesFile(t,
		"h e", "l l", "ll o", "he llo",
		"Ġ w", "o r", "Ġw or", "l d", "Ġwor ld")
	tok, err := NewGPT2(vocabPath, mergesPath, false)
	require.NoError(t, err)
	return tok
}

func TestGPT2Tokenize(t *testing.T) {
	tok := newTestGPT2(t)

	got := tok.TokenizeWithOffsets("hello world!")
	want := api.TokensWithOffsets{
		Tokens:  []string{"hello", "Ġworld", "!"},
		Offsets: []*api.Offset{off(0, 5), off(5, 11), off(11, 12)},
		ReferenceOffsets: [][]api.OffsetSize{
			contiguous(0, 5), contiguous(5, 11), contiguous(11, 12),
		},
		Masks: []api.Mask{api.MaskBegin, api.MaskBegin, api.MaskBegin},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestGPT2SplitsUnmergedWord(t *testing.T) {
	tok := newTestGPT2(t)

	// "helloworld" is one pattern fragment; the merges only get it to
	// four pieces.
	got := tok.TokenizeWithOffsets("helloworld")
	assert.Equal(t, []string{"hello", "w", "or", "ld"}, got.Tokens)
	assert.Equal(t, []*api.Offset{
		off(0, 5), off(5, 6), off(6, 8), off(8, 10),
	}, got.Offsets)
	assert.Equal(t, []api.Mask{
		api.MaskBegin, api.MaskContinuation,
		api.MaskContinuation, api.MaskContinuation,
	}, got.Masks)
}

func TestGPT2ProtectsSpecialToken(t *testing.T) {
	tok := newTestGPT2(t)

	got := tok.TokenizeWithOffsets("hello <|endoftext|>")
	assert.Equal(t, []string{"hello", "Ġ", "<|endoftext|>"}, got.Tokens)
	assert.Equal(t, []api.Mask{
		api.MaskBegin, api.MaskBegin, api.MaskSpecial,
	}, got.Masks)
	assert.Equal(t, []int64{0, 7, 2}, tok.ConvertTokensToIDs(got.Tokens))
}

func TestGPT2Encode(t *testing.T) {
	tok := newTestGPT2(t)

	got, err := tok.Encode("hello world!", 10, api.LongestFirst, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 3}, got.TokenIDs)
	assert.Equal(t, []int8{0, 0, 0}, got.SegmentIDs)
	assert.Equal(t, []int8{0, 0, 0}, got.SpecialTokensMask)
	assert.Equal(t, []*api.Offset{
		off(0, 5), off(5, 11), off(11, 12),
	}, got.TokenOffsets)
}

func TestGPT2Decode(t *testing.T) {
	tok := newTestGPT2(t)

	assert.Equal(t, "hello world!", tok.Decode([]int64{0, 1, 3}, false, false))
	assert.Equal(t, "hello world!", tok.Decode([]int64{0, 1, 3, 2}, true, false))
}

func TestGPT2ByteFidelity(t *testing.T) {
	tok := newTestGPT2(t)

	// "é" encodes as the stand-ins "Ã©"; joining restores the raw bytes.
	assert.Equal(t, "héllo", tok.ConvertTokensToString([]string{"h", "Ã©", "llo"}))
}
