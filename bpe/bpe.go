// Package bpe implements byte-pair-encoding subword segmentation driven by a
// learned merge-rank table: the adjacent pair with the lowest rank merges
// first, repeatedly, until no adjacent pair is ranked. Three dialects are
// covered by one engine: the byte-level form that first remaps UTF-8 bytes to
// printable characters (GPT-2, RoBERTa), the lowercased word form that glues
// a "</w>" marker onto the final character (OpenAI GPT), and the form that
// suffixes non-final pieces with "@@" (CTRL).
package bpe

import (
	"cmp"
	"strings"
	"unicode/utf8"

	heap "github.com/emirpasic/gods/v2/trees/binaryheap"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gomlx/go-tokenizers/api"
)

const (
	// EndOfWordMarker is glued to a word's final character before merging so
	// that word-final pieces are distinct vocabulary entries.
	EndOfWordMarker = "</w>"
	// ContinuationMarker suffixes every piece except a word's last.
	ContinuationMarker = "@@"

	// cacheSize bounds the per-segmenter merge cache.
	cacheSize = 8192
)

// Options selects the dialect of a Segmenter.
type Options struct {
	// ByteLevel remaps each byte of a token's UTF-8 encoding to a printable
	// stand-in character before merging, so merging never crosses byte
	// boundaries of the original text representation.
	ByteLevel bool
	// EndOfWord glues EndOfWordMarker onto the final character before
	// merging.
	EndOfWord bool
	// Continuation suffixes every piece except the last with
	// ContinuationMarker and strips the EndOfWordMarker from the last piece.
	// Set together with EndOfWord.
	Continuation bool
}

// Segmenter splits single words into subword pieces by replaying learned
// merges. It is safe for concurrent use: the merge table is read-only and
// the cache is internally synchronized.
type Segmenter struct {
	merges *Merges
	opts   Options
	cache  *lru.Cache[string, []string]
}

// NewSegmenter creates a Segmenter over the given merge table.
func NewSegmenter(merges *Merges, opts Options) *Segmenter {
	cache, _ := lru.New[string, []string](cacheSize)
	return &Segmenter{merges: merges, opts: opts, cache: cache}
}

// Tokenize splits token into subword pieces. The first piece is masked
// Begin, later pieces Continuation. Each piece's reference offsets are the
// parent's entries for the characters it covers; in byte-level mode every
// stand-in character carries the offset of the original character whose
// encoding it came from, and marker decorations carry none.
func (s *Segmenter) Tokenize(token api.TokenRef) []api.Token {
	if token.Text == "" {
		return nil
	}

	// charOf maps each symbol-space character to the index of the input
	// character it represents. In byte-level mode several stand-ins can map
	// to one multi-byte character.
	var word string
	var charOf []int
	if s.opts.ByteLevel {
		word = BytesToPrintable(token.Text)
		charOf = make([]int, 0, len(token.Text))
		char := 0
		for _, r := range token.Text {
			for range utf8.RuneLen(r) {
				charOf = append(charOf, char)
			}
			char++
		}
	} else {
		word = token.Text
		charOf = make([]int, utf8.RuneCountInString(word))
		for i := range charOf {
			charOf[i] = i
		}
	}

	pieces, ok := s.cache.Get(word)
	if !ok {
		pieces = s.merge(word)
		if s.opts.Continuation {
			for i := range pieces[:len(pieces)-1] {
				pieces[i] += ContinuationMarker
			}
			pieces[len(pieces)-1] = strings.TrimSuffix(pieces[len(pieces)-1], EndOfWordMarker)
		}
		s.cache.Add(word, pieces)
	}

	out := make([]api.Token, 0, len(pieces))
	pos := 0
	for i, piece := range pieces {
		consumed := utf8.RuneCountInString(piece)
		switch {
		case s.opts.Continuation && i < len(pieces)-1:
			consumed -= utf8.RuneCountInString(ContinuationMarker)
		case !s.opts.Continuation && s.opts.EndOfWord && i == len(pieces)-1:
			consumed -= utf8.RuneCountInString(EndOfWordMarker)
		}
		refs := make([]api.OffsetSize, consumed)
		for k := range consumed {
			refs[k] = token.ReferenceOffsets[charOf[pos+k]]
		}
		pos += consumed
		mask := api.MaskContinuation
		if i == 0 {
			mask = api.MaskBegin
		}
		out = append(out, api.Token{
			Text:             piece,
			Offset:           api.Offset{Begin: refs[0], End: refs[consumed-1] + 1},
			ReferenceOffsets: refs,
			Mask:             mask,
		})
	}
	return out
}

// symbol is one entry of the in-progress merge state: a doubly linked list
// kept in a flat slice so candidate pairs can address symbols by stable
// index. Merged-away entries keep nil runes as tombstones.
type symbol struct {
	prev, next int
	runes      []rune
}

// candidate is a proposed merge of two adjacent symbols with its rank.
type candidate struct {
	left, right int
	rank        int
	value       string
}

// merge replays the ranked merges over word and returns the surviving
// pieces. Candidates are agenda-ordered by rank, then by position, so the
// lowest rank always merges first and the leftmost occurrence wins ties.
func (s *Segmenter) merge(word string) []string {
	runes := []rune(word)
	symbols := make([]symbol, len(runes))
	for i := range runes {
		symbols[i] = symbol{prev: i - 1, next: i + 1, runes: []rune{runes[i]}}
	}
	if s.opts.EndOfWord {
		last := &symbols[len(symbols)-1]
		last.runes = []rune(string(last.runes) + EndOfWordMarker)
	}

	pairUp := func(left, right int) *candidate {
		if left < 0 || right >= len(symbols) {
			return nil
		}
		a, b := string(symbols[left].runes), string(symbols[right].runes)
		rank, ok := s.merges.Rank(a, b)
		if !ok {
			return nil
		}
		return &candidate{left: left, right: right, rank: rank, value: a + b}
	}

	agenda := heap.NewWith(func(a, b *candidate) int {
		return cmp.Or(cmp.Compare(a.rank, b.rank), cmp.Compare(a.left, b.left))
	})
	for i := range len(symbols) - 1 {
		if c := pairUp(i, i+1); c != nil {
			agenda.Push(c)
		}
	}

	for !agenda.Empty() {
		c, _ := agenda.Pop()

		// A popped candidate may be stale: one of its symbols was merged
		// away, or changed content, after the candidate was pushed.
		left, right := symbols[c.left], symbols[c.right]
		if len(left.runes) == 0 || len(right.runes) == 0 ||
			string(left.runes)+string(right.runes) != c.value {
			continue
		}

		symbols[c.left].runes = append(left.runes, right.runes...)
		symbols[c.right].runes = nil
		symbols[c.left].next = right.next
		if right.next < len(symbols) {
			symbols[right.next].prev = c.left
		}

		if c := pairUp(symbols[c.left].prev, c.left); c != nil {
			agenda.Push(c)
		}
		if c := pairUp(c.left, symbols[c.left].next); c != nil {
			agenda.Push(c)
		}
	}

	pieces := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if len(sym.runes) > 0 {
			pieces = append(pieces, string(sym.runes))
		}
	}
	return pieces
}
