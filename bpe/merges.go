package bpe

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/gomlx/go-tokenizers/api"
)

// mergePair is one learned merge: two adjacent symbols that fuse into one.
type mergePair struct {
	left, right string
}

// Merges is the learned merge table: each pair of adjacent symbols maps to
// its rank, lower ranks merging first. Built once, then read-only.
type Merges struct {
	ranks map[mergePair]int
}

// Rank returns the merge priority of the (left, right) pair and whether the
// pair is in the table at all.
func (m *Merges) Rank(left, right string) (int, bool) {
	rank, ok := m.ranks[mergePair{left: left, right: right}]
	return rank, ok
}

// Len returns the number of merge pairs in the table.
func (m *Merges) Len() int { return len(m.ranks) }

// LoadMerges reads a merges.txt file: a version header line, then one
// "left right" pair per line, ranked by line order.
func LoadMerges(path string) (*Merges, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, api.ErrFileNotFound(path, err)
	}
	defer f.Close()

	m, err := ParseMerges(f)
	if err != nil {
		return nil, api.ErrVocabularyParsing(path, err)
	}
	return m, nil
}

// ParseMerges parses merges.txt content. The first line is a version header
// and is ignored; every following non-empty line must hold exactly two
// space-separated symbols. The line index after the header is the rank.
func ParseMerges(r io.Reader) (*Merges, error) {
	ranks := make(map[mergePair]int)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	rank := 0
	header := true
	for scanner.Scan() {
		line := scanner.Text()
		if header {
			header = false
			continue
		}
		if line == "" {
			continue
		}
		fields := strings.Split(line, " ")
		if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
			return nil, errors.Errorf("malformed merge pair %q at rank %d", line, rank)
		}
		ranks[mergePair{left: fields[0], right: fields[1]}] = rank
		rank++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Merges{ranks: ranks}, nil
}

// MergesFromLines builds a merge table from pre-split "left right" lines with
// no header, the form GGUF metadata carries.
func MergesFromLines(lines []string) (*Merges, error) {
	ranks := make(map[mergePair]int, len(lines))
	for rank, line := range lines {
		fields := strings.Split(line, " ")
		if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
			return nil, api.ErrVocabularyParsing("merges", errors.Errorf("malformed merge pair %q at rank %d", line, rank))
		}
		ranks[mergePair{left: fields[0], right: fields[1]}] = rank
	}
	return &Merges{ranks: ranks}, nil
}
