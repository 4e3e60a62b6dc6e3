// Package vocab implements the vocabulary surface shared by all tokenizer
// families: an immutable token↔ID mapping with a registry of special tokens
// and a guaranteed unknown-token fallback, plus loaders for the vocabulary
// file formats the pretrained models ship (line-per-token text, JSON
// token→ID objects, SentencePiece model protos and GGUF metadata).
package vocab

import (
	"bufio"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/gomlx/go-tokenizers/api"
)

// Vocab maps tokens to IDs and back. A Vocab is immutable once constructed
// and safe for concurrent use; tokenizer instances share it by pointer.
type Vocab struct {
	values         map[string]int64
	indices        map[int64]string
	specialValues  map[string]int64
	specialIndices map[int64]string
	unknownValue   string

	// specials sorted longest-first, for the pretokenizer's matcher.
	specialsByLength []string
}

// New builds a vocabulary from an explicit token→ID table. unknownValue and
// every token in specials must be present in values; a missing one fails
// with a TokenNotFoundError. The values map is not copied and must not be
// modified afterwards.
func New(values map[string]int64, unknownValue string, specials ...string) (*Vocab, error) {
	v := &Vocab{
		values:        values,
		specialValues: make(map[string]int64),
		unknownValue:  unknownValue,
	}
	if err := v.registerSpecial(unknownValue); err != nil {
		return nil, err
	}
	for _, token := range specials {
		if err := v.registerSpecial(token); err != nil {
			return nil, err
		}
	}
	v.indices = swapKeyValues(v.values)
	v.specialIndices = swapKeyValues(v.specialValues)
	v.specialsByLength = make([]string, 0, len(v.specialValues))
	for token := range v.specialValues {
		v.specialsByLength = append(v.specialsByLength, token)
	}
	sort.Slice(v.specialsByLength, func(i, j int) bool {
		a, b := v.specialsByLength[i], v.specialsByLength[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return v, nil
}

// registerSpecial marks token as special, requiring it to exist in values.
func (v *Vocab) registerSpecial(token string) error {
	id, ok := v.values[token]
	if !ok {
		return api.ErrTokenNotFound(token)
	}
	v.specialValues[token] = id
	return nil
}

// FromFile reads a line-per-token vocabulary file: UTF-8 text, one token per
// line, the zero-based line index being the token ID. Surrounding whitespace
// on each line is trimmed.
func FromFile(path, unknownValue string, specials ...string) (*Vocab, error) {
	values, err := readVocabFile(path)
	if err != nil {
		return nil, err
	}
	return New(values, unknownValue, specials...)
}

func readVocabFile(path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, api.ErrFileNotFound(path, err)
	}
	defer f.Close()

	values := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var index int64
	for scanner.Scan() {
		values[strings.TrimSpace(scanner.Text())] = index
		index++
	}
	if err := scanner.Err(); err != nil {
		return nil, api.ErrVocabularyParsing(path, err)
	}
	return values, nil
}

// FromJSONFile reads a JSON object mapping token strings to integer IDs, the
// format GPT-2 and RoBERTa ship as vocab.json.
func FromJSONFile(path, unknownValue string, specials ...string) (*Vocab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, api.ErrFileNotFound(path, err)
	}
	values := make(map[string]int64)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, api.ErrVocabularyParsing(path, err)
	}
	return New(values, unknownValue, specials...)
}

// Len returns the number of tokens in the vocabulary.
func (v *Vocab) Len() int { return len(v.values) }

// UnknownValue returns the unknown-token string, e.g. "[UNK]" or "<unk>".
func (v *Vocab) UnknownValue() string { return v.unknownValue }

// TokenToID maps a token to its ID. Unrecognized tokens map to the
// unknown-token ID; the lookup never fails.
func (v *Vocab) TokenToID(token string) int64 {
	if id, ok := v.specialValues[token]; ok {
		return id
	}
	if id, ok := v.values[token]; ok {
		return id
	}
	return v.values[v.unknownValue]
}

// IDToToken maps an ID to its token. Unrecognized IDs map to the
// unknown-token string.
func (v *Vocab) IDToToken(id int64) string {
	if token, ok := v.specialIndices[id]; ok {
		return token
	}
	if token, ok := v.indices[id]; ok {
		return token
	}
	return v.unknownValue
}

// ConvertTokensToIDs maps each token to its ID, unknown tokens included.
func (v *Vocab) ConvertTokensToIDs(tokens []string) []int64 {
	ids := make([]int64, len(tokens))
	for i, token := range tokens {
		ids[i] = v.TokenToID(token)
	}
	return ids
}

// HasToken reports whether token exists in the vocabulary (without the
// unknown fallback). Subword segmenters use this for candidate lookups.
func (v *Vocab) HasToken(token string) bool {
	_, ok := v.values[token]
	return ok
}

// IsSpecial reports whether token is a registered special token.
func (v *Vocab) IsSpecial(token string) bool {
	_, ok := v.specialValues[token]
	return ok
}

// IsSpecialID reports whether id belongs to a registered special token.
func (v *Vocab) IsSpecialID(id int64) bool {
	_, ok := v.specialIndices[id]
	return ok
}

// SpecialTokens returns the registered special tokens ordered longest first
// (ties alphabetical), the order the pretokenizer's matcher wants. The
// returned slice is shared; callers must not modify it.
func (v *Vocab) SpecialTokens() []string {
	return v.specialsByLength
}

// swapKeyValues inverts a map. With duplicate values the surviving key is
// unspecified, mirroring how the reference vocabularies behave when a file
// lists the same token twice.
func swapKeyValues[K comparable, V comparable](in map[K]V) map[V]K {
	out := make(map[V]K, len(in))
	for k, val := range in {
		out[val] = k
	}
	return out
}
