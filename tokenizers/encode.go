package tokenizers

import (
	"slices"

	"github.com/gomlx/go-tokenizers/api"
)

// sequence is one tokenized side of an encoding before framing: parallel
// ids, offsets, reference offsets and masks.
type sequence struct {
	ids     []int64
	offsets []*api.Offset
	refs    [][]api.OffsetSize
	masks   []api.Mask
}

// newSequence converts pipeline tokens into ID form.
func (b *Base) newSequence(tokens []api.Token) sequence {
	seq := sequence{
		ids:     make([]int64, len(tokens)),
		offsets: make([]*api.Offset, len(tokens)),
		refs:    make([][]api.OffsetSize, len(tokens)),
		masks:   make([]api.Mask, len(tokens)),
	}
	for i, token := range tokens {
		seq.ids[i] = b.vocab.TokenToID(token.Text)
		seq.offsets[i] = offsetFromRefs(token.ReferenceOffsets)
		seq.refs[i] = token.ReferenceOffsets
		seq.masks[i] = token.Mask
	}
	return seq
}

func (s *sequence) len() int { return len(s.ids) }

// pop removes the final entry and returns its ID.
func (s *sequence) pop() int64 {
	last := s.len() - 1
	id := s.ids[last]
	s.ids = s.ids[:last]
	s.offsets = s.offsets[:last]
	s.refs = s.refs[:last]
	s.masks = s.masks[:last]
	return id
}

// splitTail removes the final n entries and returns their IDs in order.
func (s *sequence) splitTail(n int) []int64 {
	cut := s.len() - n
	ids := append([]int64(nil), s.ids[cut:]...)
	s.ids = s.ids[:cut]
	s.offsets = s.offsets[:cut]
	s.refs = s.refs[:cut]
	s.masks = s.masks[:cut]
	return ids
}

// framed is a fully assembled encoding: the payload sequences interleaved
// with the family's framing tokens.
type framed struct {
	ids      []int64
	segments []int8
	special  []int8
	offsets  []*api.Offset
	refs     [][]api.OffsetSize
	masks    []api.Mask
}

// addSpecial appends one framing token. Framing tokens correspond to no
// input text: their offset is nil and their reference offsets are empty.
func (f *framed) addSpecial(id int64, segment int8) {
	f.ids = append(f.ids, id)
	f.segments = append(f.segments, segment)
	f.special = append(f.special, 1)
	f.offsets = append(f.offsets, nil)
	f.refs = append(f.refs, nil)
	f.masks = append(f.masks, api.MaskSpecial)
}

// addPayload appends a tokenized sequence under one segment ID.
func (f *framed) addPayload(seq sequence, segment int8) {
	f.ids = append(f.ids, seq.ids...)
	for range seq.ids {
		f.segments = append(f.segments, segment)
		f.special = append(f.special, 0)
	}
	f.offsets = append(f.offsets, seq.offsets...)
	f.refs = append(f.refs, seq.refs...)
	f.masks = append(f.masks, seq.masks...)
}

// frame is the default framing: the pair concatenated after the first
// sequence with no tokens added, segment IDs 0 then 1.
func (b *Base) frame(seq sequence, pair *sequence) framed {
	var f framed
	f.addPayload(seq, 0)
	if pair != nil {
		f.addPayload(*pair, 1)
	}
	return f
}

// frameOverhead counts the tokens framing adds around empty payloads.
func (b *Base) frameOverhead(pair bool) int {
	var empty, emptyPair sequence
	if pair {
		return len(b.scheme.frame(empty, &emptyPair).ids)
	}
	return len(b.scheme.frame(empty, nil).ids)
}

// Encode tokenizes text, truncates it to maxLen with the given strategy
// and stride, and frames it with the family's special tokens.
func (b *Base) Encode(text string, maxLen int, strategy api.TruncationStrategy, stride int) (api.TokenizedInput, error) {
	return b.encode(text, nil, maxLen, strategy, stride)
}

// EncodePair behaves like Encode for a sequence pair. The second
// sequence's offsets refer to positions within the second text.
func (b *Base) EncodePair(text, textPair string, maxLen int, strategy api.TruncationStrategy, stride int) (api.TokenizedInput, error) {
	return b.encode(text, &textPair, maxLen, strategy, stride)
}

func (b *Base) encode(text string, textPair *string, maxLen int, strategy api.TruncationStrategy, stride int) (api.TokenizedInput, error) {
	seq := b.newSequence(b.tokenizeToTokens(text))
	var pair *sequence
	if textPair != nil {
		p := b.newSequence(b.tokenizeToTokens(*textPair))
		pair = &p
	}

	total := seq.len() + b.frameOverhead(pair != nil)
	if pair != nil {
		total += pair.len()
	}
	numTruncated := 0
	if total > maxLen {
		numTruncated = total - maxLen
	}
	overflow, err := truncateSequences(&seq, pair, numTruncated, strategy, stride)
	if err != nil {
		return api.TokenizedInput{}, err
	}

	f := b.scheme.frame(seq, pair)
	return api.TokenizedInput{
		TokenIDs:           f.ids,
		SegmentIDs:         f.segments,
		SpecialTokensMask:  f.special,
		OverflowingTokens:  overflow,
		NumTruncatedTokens: numTruncated,
		TokenOffsets:       f.offsets,
		ReferenceOffsets:   f.refs,
		Mask:               f.masks,
	}, nil
}

// truncateSequences removes numToRemove tokens from seq (and pair) under
// the given strategy. The returned overflow holds removed IDs in their
// original order; when LongestFirst alternates over a pair, only IDs
// removed from the first sequence are reported. With a positive stride
// the last stride kept payload IDs are prepended to the overflow so a
// follow-up window can overlap this one.
func truncateSequences(seq, pair *sequence, numToRemove int, strategy api.TruncationStrategy, stride int) ([]int64, error) {
	if numToRemove <= 0 {
		return nil, nil
	}
	var overflow []int64
	switch strategy {
	case api.LongestFirst:
		if pair == nil {
			if seq.len() < numToRemove {
				return nil, api.ValueErrorf("sequence to truncate is too short to respect the provided max_len")
			}
			overflow = seq.splitTail(numToRemove)
			break
		}
		if seq.len()+pair.len() < numToRemove {
			return nil, api.ValueErrorf("sequence pair to truncate is too short to respect the provided max_len")
		}
		for range numToRemove {
			if seq.len() >= pair.len() {
				overflow = append(overflow, seq.pop())
			} else {
				pair.pop()
			}
		}
		slices.Reverse(overflow)
	case api.OnlyFirst:
		if seq.len() < numToRemove {
			return nil, api.ValueErrorf("first sequence too short for only_first truncation")
		}
		overflow = seq.splitTail(numToRemove)
	case api.OnlySecond:
		if pair == nil {
			return nil, api.ValueErrorf("invalid truncation strategy for single sentence truncation")
		}
		if pair.len() < numToRemove {
			return nil, api.ValueErrorf("second sequence too short for only_second truncation")
		}
		overflow = pair.splitTail(numToRemove)
	case api.DoNotTruncate:
		return nil, api.ValueErrorf("truncation needed but no truncation requested")
	default:
		return nil, api.ValueErrorf("unknown truncation strategy %v", strategy)
	}
	if stride > 0 {
		overflow = append(keptTail(seq, pair, stride), overflow...)
	}
	return overflow, nil
}

// keptTail returns the last n IDs of the kept payload, the pair
// concatenated after the first sequence, n clamped to what remains.
func keptTail(seq, pair *sequence, n int) []int64 {
	ids := seq.ids
	if pair != nil && pair.len() > 0 {
		ids = append(append([]int64(nil), seq.ids...), pair.ids...)
	}
	if n > len(ids) {
		n = len(ids)
	}
	return append([]int64(nil), ids[len(ids)-n:]...)
}
