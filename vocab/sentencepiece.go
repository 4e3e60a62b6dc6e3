package vocab

import (
	"math"
	"os"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/gomlx/go-tokenizers/api"
)

// PieceType is the sentence-piece kind from the SentencePiece model proto.
type PieceType int32

const (
	PieceNormal      PieceType = 1
	PieceUnknown     PieceType = 2
	PieceControl     PieceType = 3
	PieceUserDefined PieceType = 4
	PieceUnused      PieceType = 5
	PieceByte        PieceType = 6
)

// SentencePiece is one entry of a SentencePiece model: the piece string, its
// log-probability, and its kind. The piece's ID is its position in the model.
type SentencePiece struct {
	Piece string
	Score float32
	Type  PieceType
}

// SentencePieceModel holds the pieces of a SentencePiece model in ID order,
// indexed for the Unigram lattice: piece lookup, per-ID scores, and the
// bounds the dynamic program needs.
type SentencePieceModel struct {
	pieces      []SentencePiece
	ids         map[string]int32
	maxPieceLen int
	minScore    float32
	unknownID   int32
}

// NewSentencePieceModel indexes an already-loaded piece list, e.g. one read
// from GGUF metadata.
func NewSentencePieceModel(pieces []SentencePiece) *SentencePieceModel {
	m := &SentencePieceModel{
		pieces:    pieces,
		ids:       make(map[string]int32, len(pieces)),
		minScore:  float32(math.Inf(1)),
		unknownID: 0,
	}
	for i, p := range pieces {
		m.ids[p.Piece] = int32(i)
		if n := utf8.RuneCountInString(p.Piece); n > m.maxPieceLen {
			m.maxPieceLen = n
		}
		if p.Score < m.minScore {
			m.minScore = p.Score
		}
		if p.Type == PieceUnknown {
			m.unknownID = int32(i)
		}
	}
	if len(pieces) == 0 {
		m.minScore = 0
	}
	return m
}

// LoadSentencePieceModel reads and indexes a serialized SentencePiece
// ModelProto file ("spiece.model" / "tokenizer.model").
func LoadSentencePieceModel(path string) (*SentencePieceModel, error) {
	pieces, err := readModelProto(path)
	if err != nil {
		return nil, err
	}
	return NewSentencePieceModel(pieces), nil
}

// Len returns the number of pieces.
func (m *SentencePieceModel) Len() int { return len(m.pieces) }

// PieceAt returns the piece with the given ID.
func (m *SentencePieceModel) PieceAt(id int32) SentencePiece { return m.pieces[id] }

// PieceID looks a piece string up, reporting whether it exists.
func (m *SentencePieceModel) PieceID(piece string) (int32, bool) {
	id, ok := m.ids[piece]
	return id, ok
}

// PieceScore returns the log-probability of a piece string, if it exists.
func (m *SentencePieceModel) PieceScore(piece string) (float32, bool) {
	id, ok := m.ids[piece]
	if !ok {
		return 0, false
	}
	return m.pieces[id].Score, true
}

// UnknownValue returns the string of the piece marked unknown, or "<unk>"
// for an empty model.
func (m *SentencePieceModel) UnknownValue() string {
	if len(m.pieces) == 0 {
		return "<unk>"
	}
	return m.pieces[m.unknownID].Piece
}

// MaxPieceLength returns the character length of the longest piece, bounding
// how far the Unigram lattice looks back.
func (m *SentencePieceModel) MaxPieceLength() int { return m.maxPieceLen }

// MinScore returns the smallest piece log-probability; the unknown-character
// fallback is scored below it.
func (m *SentencePieceModel) MinScore() float32 { return m.minScore }

// UnknownID returns the ID of the piece marked unknown in the model
// (conventionally 0).
func (m *SentencePieceModel) UnknownID() int32 { return m.unknownID }

// FromSentencePieceFile builds a vocabulary from a SentencePiece model file:
// every piece maps to its position. unknownValue and specials must exist
// among the pieces.
func FromSentencePieceFile(path, unknownValue string, specials ...string) (*Vocab, error) {
	pieces, err := readModelProto(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]int64, len(pieces))
	for i, p := range pieces {
		values[p.Piece] = int64(i)
	}
	return New(values, unknownValue, specials...)
}

// readModelProto maps the file read-only and decodes the pieces. The decoded
// strings are copies, so the mapping is released before returning.
func readModelProto(path string) ([]SentencePiece, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, api.ErrFileNotFound(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, api.ErrVocabularyParsing(path, err)
	}
	if info.Size() == 0 {
		return nil, api.ErrVocabularyParsing(path, errors.New("empty model file"))
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, api.ErrVocabularyParsing(path, err)
	}
	defer data.Unmap()

	pieces, err := decodeModelProto(data)
	if err != nil {
		return nil, api.ErrVocabularyParsing(path, err)
	}
	return pieces, nil
}

// decodeModelProto walks the ModelProto wire format, keeping only field 1
// (the repeated SentencePiece messages) and skipping trainer and normalizer
// specs.
func decodeModelProto(b []byte) ([]SentencePiece, error) {
	var pieces []SentencePiece
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		if num == 1 && typ == protowire.BytesType {
			msg, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			piece, err := decodeSentencePiece(msg)
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, piece)
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
	}
	return pieces, nil
}

// decodeSentencePiece decodes one SentencePiece message: piece=1 (string),
// score=2 (float), type=3 (enum, default NORMAL).
func decodeSentencePiece(b []byte) (SentencePiece, error) {
	sp := SentencePiece{Type: PieceNormal}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return sp, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return sp, protowire.ParseError(n)
			}
			if !utf8.Valid(v) {
				return sp, errors.New("piece is not valid UTF-8")
			}
			sp.Piece = string(v)
			b = b[n:]
		case num == 2 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return sp, protowire.ParseError(n)
			}
			sp.Score = math.Float32frombits(v)
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return sp, protowire.ParseError(n)
			}
			sp.Type = PieceType(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return sp, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return sp, nil
}
