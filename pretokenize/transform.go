package pretokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/gomlx/go-tokenizers/api"
)

// The transforms below rewrite a token's text character by character,
// carrying each source character's reference offset to every character it
// produces. Deletions drop the offset, expansions duplicate it. They are
// not applied to Special or Unknown tokens; the pipeline enforces that.

// CleanText drops control and format characters (and U+0000/U+FFFD) and
// normalizes any remaining whitespace character to a plain space.
func CleanText(token *api.Token) {
	var sb strings.Builder
	sb.Grow(len(token.Text))
	refs := make([]api.OffsetSize, 0, len(token.ReferenceOffsets))
	i := 0
	for _, r := range token.Text {
		ref := token.ReferenceOffsets[i]
		i++
		switch {
		case r == 0 || r == '�' || IsControl(r):
		case IsWhitespace(r):
			sb.WriteRune(' ')
			refs = append(refs, ref)
		default:
			sb.WriteRune(r)
			refs = append(refs, ref)
		}
	}
	token.Text = sb.String()
	token.ReferenceOffsets = refs
	refreshOffset(token)
}

// Lowercase applies full Unicode lowercasing. The only expanding mapping
// is U+0130 ("İ"), which becomes "i" plus a combining dot above; both
// output characters keep the source character's reference offset.
func Lowercase(token *api.Token) {
	var sb strings.Builder
	sb.Grow(len(token.Text))
	refs := make([]api.OffsetSize, 0, len(token.ReferenceOffsets))
	i := 0
	for _, r := range token.Text {
		ref := token.ReferenceOffsets[i]
		i++
		if r == 'İ' {
			sb.WriteRune('i')
			sb.WriteRune('̇')
			refs = append(refs, ref, ref)
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
		refs = append(refs, ref)
	}
	token.Text = sb.String()
	token.ReferenceOffsets = refs
	refreshOffset(token)
}

// StripAccents decomposes each character canonically (NFD) and discards
// the combining marks, leaving the result decomposed. "é" becomes "e";
// characters that decompose into several base characters (Hangul
// syllables, for instance) spread the source offset over all of them.
func StripAccents(token *api.Token) {
	var sb strings.Builder
	sb.Grow(len(token.Text))
	refs := make([]api.OffsetSize, 0, len(token.ReferenceOffsets))
	i := 0
	for _, r := range token.Text {
		ref := token.ReferenceOffsets[i]
		i++
		for _, d := range norm.NFD.String(string(r)) {
			if unicode.Is(unicode.Mn, d) {
				continue
			}
			sb.WriteRune(d)
			refs = append(refs, ref)
		}
	}
	token.Text = sb.String()
	token.ReferenceOffsets = refs
	refreshOffset(token)
}

// DecomposeNFKC applies NFKC compatibility normalization. It maps offsets
// segment by segment: within one normalization segment the k-th output
// character keeps the k-th input character's reference offset, clamped to
// the segment's last input character when the segment expands. A composed
// character therefore keeps its first source character's offset, and "…"
// spreads its single offset over all three dots.
func DecomposeNFKC(token *api.Token) {
	if norm.NFKC.IsNormalString(token.Text) {
		return
	}
	var sb strings.Builder
	sb.Grow(len(token.Text))
	refs := make([]api.OffsetSize, 0, len(token.ReferenceOffsets))
	var it norm.Iter
	it.InitString(norm.NFKC, token.Text)
	bytePos, charPos := 0, 0
	for !it.Done() {
		out := it.Next()
		src := token.Text[bytePos:it.Pos()]
		srcChars := utf8.RuneCountInString(src)
		k := 0
		for _, r := range string(out) {
			idx := min(k, srcChars-1)
			sb.WriteRune(r)
			refs = append(refs, token.ReferenceOffsets[charPos+idx])
			k++
		}
		bytePos = it.Pos()
		charPos += srcChars
	}
	token.Text = sb.String()
	token.ReferenceOffsets = refs
	refreshOffset(token)
}

// refreshOffset rederives the token's offset from its reference offsets
// after a transform changed the character count.
func refreshOffset(token *api.Token) {
	if len(token.ReferenceOffsets) == 0 {
		token.Offset = api.Offset{}
		return
	}
	token.Offset = api.Offset{
		Begin: token.ReferenceOffsets[0],
		End:   token.ReferenceOffsets[len(token.ReferenceOffsets)-1] + 1,
	}
}
