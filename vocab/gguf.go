package vocab

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/gomlx/go-tokenizers/api"
)

const (
	ggufMagic      = "GGUF"
	ggufMinVersion = 2

	// Keys under which llama.cpp-style GGUF files store their tokenizer.
	ggufKeyModel      = "tokenizer.ggml.model"
	ggufKeyTokens     = "tokenizer.ggml.tokens"
	ggufKeyScores     = "tokenizer.ggml.scores"
	ggufKeyTokenTypes = "tokenizer.ggml.token_type"
	ggufKeyMerges     = "tokenizer.ggml.merges"
)

// ggufValueType is the type tag of a GGUF metadata value.
type ggufValueType uint32

const (
	ggufTypeUint8   ggufValueType = 0
	ggufTypeInt8    ggufValueType = 1
	ggufTypeUint16  ggufValueType = 2
	ggufTypeInt16   ggufValueType = 3
	ggufTypeUint32  ggufValueType = 4
	ggufTypeInt32   ggufValueType = 5
	ggufTypeFloat32 ggufValueType = 6
	ggufTypeBool    ggufValueType = 7
	ggufTypeString  ggufValueType = 8
	ggufTypeArray   ggufValueType = 9
	ggufTypeUint64  ggufValueType = 10
	ggufTypeInt64   ggufValueType = 11
	ggufTypeFloat64 ggufValueType = 12
)

// GGUFValue wraps a GGUF metadata value with typed accessors. Accessors
// return zero values when the underlying type doesn't match.
type GGUFValue struct {
	data any
}

// Raw returns the underlying value without conversion.
func (v GGUFValue) Raw() any { return v.data }

// String returns the value as a string, or "" if it is not one.
func (v GGUFValue) String() string {
	s, _ := v.data.(string)
	return s
}

// Strings returns the value as a string slice, or nil if it is not one.
func (v GGUFValue) Strings() []string {
	s, _ := v.data.([]string)
	return s
}

// Bool returns the value as a bool, or false if it is not one.
func (v GGUFValue) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

// Int returns the value as an int64, accepting any integer type.
func (v GGUFValue) Int() int64 {
	switch n := v.data.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

// Uint returns the value as a uint64, accepting any integer type.
func (v GGUFValue) Uint() uint64 {
	switch n := v.data.(type) {
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	case int8:
		return uint64(n)
	case int16:
		return uint64(n)
	case int32:
		return uint64(n)
	case int64:
		return uint64(n)
	default:
		return 0
	}
}

// Floats returns the value as a float32 slice, converting from float64
// arrays if needed. Returns nil for non-float arrays.
func (v GGUFValue) Floats() []float32 {
	switch s := v.data.(type) {
	case []float32:
		return s
	case []float64:
		out := make([]float32, len(s))
		for i, f := range s {
			out[i] = float32(f)
		}
		return out
	default:
		return nil
	}
}

// Ints returns the value as an int32 slice, accepting the integer array
// types GGUF writers use for token types.
func (v GGUFValue) Ints() []int32 {
	switch s := v.data.(type) {
	case []int32:
		return s
	case []int64:
		out := make([]int32, len(s))
		for i, n := range s {
			out[i] = int32(n)
		}
		return out
	case []uint32:
		out := make([]int32, len(s))
		for i, n := range s {
			out[i] = int32(n)
		}
		return out
	case []int16:
		out := make([]int32, len(s))
		for i, n := range s {
			out[i] = int32(n)
		}
		return out
	case []uint8:
		out := make([]int32, len(s))
		for i, n := range s {
			out[i] = int32(n)
		}
		return out
	default:
		return nil
	}
}

// GGUFKeyValue is one metadata entry of a GGUF file.
type GGUFKeyValue struct {
	Key string
	GGUFValue
}

// GGUFFile holds the metadata section of a GGUF model file. Only the
// key-value header is read; tensor data is never touched.
type GGUFFile struct {
	// Version is the GGUF format version (2 or 3).
	Version uint32
	// NumTensors is the tensor count from the header, kept for inspection.
	NumTensors uint64
	// KeyValues holds the metadata pairs in file order.
	KeyValues []GGUFKeyValue

	byKey map[string]*GGUFKeyValue
	path  string
}

// OpenGGUF reads the metadata section of a GGUF file. The tokenizer
// vocabulary, scores, and merges are available through the accessors.
func OpenGGUF(path string) (*GGUFFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, api.ErrFileNotFound(path, err)
	}
	defer f.Close()

	file, err := readGGUF(bufio.NewReaderSize(f, 32<<10))
	if err != nil {
		return nil, api.ErrVocabularyParsing(path, err)
	}
	file.path = path
	return file, nil
}

func readGGUF(r io.Reader) (*GGUFFile, error) {
	var magic [4]byte
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if string(magic[:]) != ggufMagic {
		return nil, fmt.Errorf("invalid magic %q, expected %q", magic[:], ggufMagic)
	}

	file := &GGUFFile{}
	if err := binary.Read(r, binary.LittleEndian, &file.Version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if file.Version < ggufMinVersion {
		return nil, fmt.Errorf("unsupported version %d (minimum %d)", file.Version, ggufMinVersion)
	}

	var kvCount uint64
	if err := binary.Read(r, binary.LittleEndian, &file.NumTensors); err != nil {
		return nil, fmt.Errorf("read tensor count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &kvCount); err != nil {
		return nil, fmt.Errorf("read kv count: %w", err)
	}

	// The key-value section precedes the tensor infos, so reading stops
	// here once every pair is in.
	file.KeyValues = make([]GGUFKeyValue, 0, kvCount)
	for range kvCount {
		kv, err := readGGUFKeyValue(r)
		if err != nil {
			return nil, fmt.Errorf("read kv pair %d/%d: %w", len(file.KeyValues), kvCount, err)
		}
		file.KeyValues = append(file.KeyValues, kv)
	}

	file.byKey = make(map[string]*GGUFKeyValue, len(file.KeyValues))
	for i := range file.KeyValues {
		file.byKey[file.KeyValues[i].Key] = &file.KeyValues[i]
	}
	return file, nil
}

// Path returns the local path the file was opened from.
func (f *GGUFFile) Path() string { return f.path }

// Get looks up a metadata value by key.
func (f *GGUFFile) Get(key string) (GGUFValue, bool) {
	kv, ok := f.byKey[key]
	if !ok {
		return GGUFValue{}, false
	}
	return kv.GGUFValue, true
}

// Architecture returns "general.architecture", or "" when absent.
func (f *GGUFFile) Architecture() string {
	v, _ := f.Get("general.architecture")
	return v.String()
}

// TokenizerModel returns "tokenizer.ggml.model" (e.g. "llama", "gpt2"),
// or "" when absent.
func (f *GGUFFile) TokenizerModel() string {
	v, _ := f.Get(ggufKeyModel)
	return v.String()
}

// Tokens returns the vocabulary strings in ID order, or nil when absent.
func (f *GGUFFile) Tokens() []string {
	v, _ := f.Get(ggufKeyTokens)
	return v.Strings()
}

// Scores returns the per-token scores, or nil when absent.
func (f *GGUFFile) Scores() []float32 {
	v, _ := f.Get(ggufKeyScores)
	return v.Floats()
}

// TokenTypes returns the per-token type tags, or nil when absent. The
// numbering matches the SentencePiece piece types.
func (f *GGUFFile) TokenTypes() []int32 {
	v, _ := f.Get(ggufKeyTokenTypes)
	return v.Ints()
}

// Merges returns the BPE merge list ("left right" per entry), or nil when
// absent.
func (f *GGUFFile) Merges() []string {
	v, _ := f.Get(ggufKeyMerges)
	return v.Strings()
}

// SpecialTokenID returns the ID stored under
// "tokenizer.ggml.<name>_token_id", e.g. name "bos", "eos", "unknown" or
// "padding".
func (f *GGUFFile) SpecialTokenID(name string) (int64, bool) {
	v, ok := f.Get("tokenizer.ggml." + name + "_token_id")
	if !ok {
		return 0, false
	}
	return v.Int(), true
}

// Vocabulary builds a vocabulary from the token list: every token maps to
// its position. unknownValue and specials must exist among the tokens.
func (f *GGUFFile) Vocabulary(unknownValue string, specials ...string) (*Vocab, error) {
	tokens := f.Tokens()
	if len(tokens) == 0 {
		return nil, api.ErrVocabularyParsing(f.path, errors.Errorf("missing %s", ggufKeyTokens))
	}
	values := make(map[string]int64, len(tokens))
	for i, tok := range tokens {
		values[tok] = int64(i)
	}
	return New(values, unknownValue, specials...)
}

// SentencePieceModel assembles the token, score, and type arrays into a
// scored piece model for Unigram tokenization.
func (f *GGUFFile) SentencePieceModel() (*SentencePieceModel, error) {
	tokens := f.Tokens()
	if len(tokens) == 0 {
		return nil, api.ErrVocabularyParsing(f.path, errors.Errorf("missing %s", ggufKeyTokens))
	}
	scores := f.Scores()
	if len(scores) == 0 {
		return nil, api.ErrVocabularyParsing(f.path, errors.Errorf("missing %s", ggufKeyScores))
	}
	types := f.TokenTypes()

	pieces := make([]SentencePiece, len(tokens))
	for i, tok := range tokens {
		p := SentencePiece{Piece: tok, Type: PieceNormal}
		if i < len(scores) {
			p.Score = scores[i]
		}
		if i < len(types) && types[i] != 0 {
			p.Type = PieceType(types[i])
		}
		pieces[i] = p
	}
	return NewSentencePieceModel(pieces), nil
}

// FromGGUF builds a vocabulary straight from a GGUF file's metadata.
func FromGGUF(path, unknownValue string, specials ...string) (*Vocab, error) {
	f, err := OpenGGUF(path)
	if err != nil {
		return nil, err
	}
	return f.Vocabulary(unknownValue, specials...)
}

// SentencePieceModelFromGGUF loads the scored piece model embedded in a
// GGUF file's metadata.
func SentencePieceModelFromGGUF(path string) (*SentencePieceModel, error) {
	f, err := OpenGGUF(path)
	if err != nil {
		return nil, err
	}
	return f.SentencePieceModel()
}

// Binary reading helpers.

// readGGUFString reads a GGUF string: uint64 length prefix followed by that
// many bytes.
func readGGUFString(r io.Reader) (string, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", fmt.Errorf("read string length: %w", err)
	}
	if length > 1<<20 { // sanity bound for a single string
		return "", fmt.Errorf("string length %d exceeds 1MB limit", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string data: %w", err)
	}
	return string(buf), nil
}

func readGGUFKeyValue(r io.Reader) (GGUFKeyValue, error) {
	key, err := readGGUFString(r)
	if err != nil {
		return GGUFKeyValue{}, fmt.Errorf("read key: %w", err)
	}

	var typeTag uint32
	if err := binary.Read(r, binary.LittleEndian, &typeTag); err != nil {
		return GGUFKeyValue{}, fmt.Errorf("read value type for %q: %w", key, err)
	}

	val, err := readGGUFValue(r, ggufValueType(typeTag))
	if err != nil {
		return GGUFKeyValue{}, fmt.Errorf("read value for %q (type %d): %w", key, typeTag, err)
	}
	return GGUFKeyValue{Key: key, GGUFValue: val}, nil
}

func readGGUFValue(r io.Reader, vtype ggufValueType) (GGUFValue, error) {
	switch vtype {
	case ggufTypeUint8:
		var v uint8
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeInt8:
		var v int8
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeUint16:
		var v uint16
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeInt16:
		var v int16
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeUint32:
		var v uint32
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeInt32:
		var v int32
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeFloat32:
		var v float32
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeBool:
		var v uint8
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return GGUFValue{}, err
		}
		return GGUFValue{data: v != 0}, nil
	case ggufTypeString:
		s, err := readGGUFString(r)
		return GGUFValue{data: s}, err
	case ggufTypeUint64:
		var v uint64
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeInt64:
		var v int64
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeFloat64:
		var v float64
		err := binary.Read(r, binary.LittleEndian, &v)
		return GGUFValue{data: v}, err
	case ggufTypeArray:
		return readGGUFArray(r)
	default:
		return GGUFValue{}, fmt.Errorf("unknown value type %d", vtype)
	}
}

// readGGUFArray reads a typed array: uint32 element type, uint64 count,
// then the elements.
func readGGUFArray(r io.Reader) (GGUFValue, error) {
	var elemType uint32
	if err := binary.Read(r, binary.LittleEndian, &elemType); err != nil {
		return GGUFValue{}, fmt.Errorf("read array element type: %w", err)
	}
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return GGUFValue{}, fmt.Errorf("read array count: %w", err)
	}

	switch ggufValueType(elemType) {
	case ggufTypeUint8:
		return readGGUFArrayOf[uint8](r, count)
	case ggufTypeInt8:
		return readGGUFArrayOf[int8](r, count)
	case ggufTypeUint16:
		return readGGUFArrayOf[uint16](r, count)
	case ggufTypeInt16:
		return readGGUFArrayOf[int16](r, count)
	case ggufTypeUint32:
		return readGGUFArrayOf[uint32](r, count)
	case ggufTypeInt32:
		return readGGUFArrayOf[int32](r, count)
	case ggufTypeFloat32:
		return readGGUFArrayOf[float32](r, count)
	case ggufTypeUint64:
		return readGGUFArrayOf[uint64](r, count)
	case ggufTypeInt64:
		return readGGUFArrayOf[int64](r, count)
	case ggufTypeFloat64:
		return readGGUFArrayOf[float64](r, count)
	case ggufTypeBool:
		return readGGUFBools(r, count)
	case ggufTypeString:
		return readGGUFStrings(r, count)
	default:
		return GGUFValue{}, fmt.Errorf("unsupported array element type %d", elemType)
	}
}

func readGGUFArrayOf[T any](r io.Reader, count uint64) (GGUFValue, error) {
	vals := make([]T, count)
	for i := range count {
		if err := binary.Read(r, binary.LittleEndian, &vals[i]); err != nil {
			return GGUFValue{}, fmt.Errorf("read array element %d: %w", i, err)
		}
	}
	return GGUFValue{data: vals}, nil
}

func readGGUFBools(r io.Reader, count uint64) (GGUFValue, error) {
	vals := make([]bool, count)
	for i := range count {
		var b uint8
		if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
			return GGUFValue{}, fmt.Errorf("read bool array element %d: %w", i, err)
		}
		vals[i] = b != 0
	}
	return GGUFValue{data: vals}, nil
}

func readGGUFStrings(r io.Reader, count uint64) (GGUFValue, error) {
	vals := make([]string, count)
	for i := range count {
		s, err := readGGUFString(r)
		if err != nil {
			return GGUFValue{}, fmt.Errorf("read string array element %d: %w", i, err)
		}
		vals[i] = s
	}
	return GGUFValue{data: vals}, nil
}
