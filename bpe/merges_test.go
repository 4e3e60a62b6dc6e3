package bpe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gomlx/go-tokenizers/api"
)

func TestParseMerges(t *testing.T) {
	m, err := ParseMerges(strings.NewReader("#version: 0.2\nh e\nl l\nhe ll\n"))
	if err != nil {
		t.Fatalf("ParseMerges: %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	for i, pair := range [][2]string{{"h", "e"}, {"l", "l"}, {"he", "ll"}} {
		rank, ok := m.Rank(pair[0], pair[1])
		if !ok || rank != i {
			t.Errorf("Rank(%q, %q) = %d, %v, want %d, true", pair[0], pair[1], rank, ok, i)
		}
	}
	if _, ok := m.Rank("ll", "he"); ok {
		t.Error("Rank found a pair that was never learned")
	}
}

func TestParseMergesSkipsBlankLines(t *testing.T) {
	m, err := ParseMerges(strings.NewReader("#version: 0.2\na b\n\nc d\n\n"))
	if err != nil {
		t.Fatalf("ParseMerges: %v", err)
	}
	if rank, ok := m.Rank("c", "d"); !ok || rank != 1 {
		t.Errorf("Rank(c, d) = %d, %v, want 1, true", rank, ok)
	}
}

func TestParseMergesMalformed(t *testing.T) {
	if _, err := ParseMerges(strings.NewReader("#version: 0.2\na b c\n")); err == nil {
		t.Error("ParseMerges accepted a three-field line")
	}
	if _, err := ParseMerges(strings.NewReader("#version: 0.2\nlonely\n")); err == nil {
		t.Error("ParseMerges accepted a line without a pair")
	}
}

func TestLoadMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merges.txt")
	if err := os.WriteFile(path, []byte("#version: 0.2\nh e\nhe y\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := LoadMerges(path)
	if err != nil {
		t.Fatalf("LoadMerges: %v", err)
	}
	if rank, ok := m.Rank("he", "y"); !ok || rank != 1 {
		t.Errorf("Rank(he, y) = %d, %v, want 1, true", rank, ok)
	}
}

func TestLoadMergesNotFound(t *testing.T) {
	_, err := LoadMerges(filepath.Join(t.TempDir(), "missing.txt"))
	if !api.IsFileNotFound(err) {
		t.Errorf("LoadMerges error = %v, want a FileNotFoundError", err)
	}
}

func TestLoadMergesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merges.txt")
	if err := os.WriteFile(path, []byte("#version: 0.2\na b c\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadMerges(path)
	if !api.IsVocabularyParsing(err) {
		t.Errorf("LoadMerges error = %v, want a VocabularyParsingError", err)
	}
}

func TestMergesFromLines(t *testing.T) {
	m, err := MergesFromLines([]string{"h e", "l l"})
	if err != nil {
		t.Fatalf("MergesFromLines: %v", err)
	}
	if rank, ok := m.Rank("l", "l"); !ok || rank != 1 {
		t.Errorf("Rank(l, l) = %d, %v, want 1, true", rank, ok)
	}
	if _, err := MergesFromLines([]string{"no pair here"}); err == nil {
		t.Error("MergesFromLines accepted a malformed line")
	}
}
