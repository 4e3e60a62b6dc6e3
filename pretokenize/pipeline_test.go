package pretokenize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gomlx/go-tokenizers/api"
)

func bertSpecials() specialSet {
	return specialSet{
		tokens:  []string{"[MASK]", "[CLS]", "[PAD]", "[SEP]", "[UNK]"},
		unknown: "[UNK]",
	}
}

func TestRunSentenceWithSpecial(t *testing.T) {
	got := Run("Sentence with [MASK] token.", bertSpecials(),
		Options{Lowercase: true, StripAccents: true})
	want := []api.Token{
		ctok("sentence", 0, 8, api.MaskNone),
		ctok("with", 9, 13, api.MaskNone),
		ctok("[MASK]", 14, 20, api.MaskSpecial),
		ctok("token", 21, 26, api.MaskNone),
		ctok(".", 26, 27, api.MaskPunctuation),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestRunPunctuationAndAccents(t *testing.T) {
	got := Run("Allons, Flipote, allons; que d'eux je me délivre.", bertSpecials(),
		Options{Lowercase: true, StripAccents: true})
	want := []api.Token{
		ctok("allons", 0, 6, api.MaskNone),
		ctok(",", 6, 7, api.MaskPunctuation),
		ctok("flipote", 8, 15, api.MaskNone),
		ctok(",", 15, 16, api.MaskPunctuation),
		ctok("allons", 17, 23, api.MaskNone),
		ctok(";", 23, 24, api.MaskPunctuation),
		ctok("que", 25, 28, api.MaskNone),
		ctok("d", 29, 30, api.MaskNone),
		ctok("'", 30, 31, api.MaskPunctuation),
		ctok("eux", 31, 34, api.MaskNone),
		ctok("je", 35, 37, api.MaskNone),
		ctok("me", 38, 40, api.MaskNone),
		ctok("delivre", 41, 48, api.MaskNone),
		ctok(".", 48, 49, api.MaskPunctuation),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestRunCJKAndSpecials(t *testing.T) {
	got := Run("[UNK]中华人民共和国 [PAD] asdf", bertSpecials(),
		Options{Lowercase: true, StripAccents: true})
	want := []api.Token{
		ctok("[UNK]", 0, 5, api.MaskUnknown),
		ctok("中", 5, 6, api.MaskCJK),
		ctok("华", 6, 7, api.MaskCJK),
		ctok("人", 7, 8, api.MaskCJK),
		ctok("民", 8, 9, api.MaskCJK),
		ctok("共", 9, 10, api.MaskCJK),
		ctok("和", 10, 11, api.MaskCJK),
		ctok("国", 11, 12, api.MaskCJK),
		ctok("[PAD]", 13, 18, api.MaskSpecial),
		ctok("asdf", 19, 23, api.MaskNone),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestRunEmptyInput(t *testing.T) {
	if got := Run("", bertSpecials(), Options{}); got != nil {
		t.Errorf("Run(\"\") = %v, want nil", got)
	}
	if got := Run("  \t\n ", bertSpecials(), Options{}); got != nil {
		t.Errorf("Run(whitespace) = %v, want nil", got)
	}
}

func TestRunWithoutTransforms(t *testing.T) {
	got := Run("Hello WORLD", bertSpecials(), Options{})
	want := []api.Token{
		ctok("Hello", 0, 5, api.MaskNone),
		ctok("WORLD", 6, 11, api.MaskNone),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestRunSpecialSurvivesTransforms(t *testing.T) {
	// Case transforms would break the bracket sequence; protection runs
	// first and shields it.
	got := Run("x [MASK] y", bertSpecials(), Options{Lowercase: true})
	want := []api.Token{
		ctok("x", 0, 1, api.MaskNone),
		ctok("[MASK]", 2, 8, api.MaskSpecial),
		ctok("y", 9, 10, api.MaskNone),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}
