package tokenizers

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gomlx/go-tokenizers/api"
)

// The batch helpers fan out over a bounded worker pool and write results
// by index, so outputs line up with inputs regardless of completion
// order. Tokenizers are safe for concurrent use once constructed.

// TokenizeList tokenizes each text in order.
func (b *Base) TokenizeList(texts []string) [][]string {
	out := make([][]string, len(texts))
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range texts {
		group.Go(func() error {
			out[i] = b.Tokenize(text)
			return nil
		})
	}
	_ = group.Wait()
	return out
}

// EncodeList encodes each text in order. The first error stops the batch.
func (b *Base) EncodeList(texts []string, maxLen int, strategy api.TruncationStrategy, stride int) ([]api.TokenizedInput, error) {
	out := make([]api.TokenizedInput, len(texts))
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range texts {
		group.Go(func() error {
			input, err := b.encode(text, nil, maxLen, strategy, stride)
			if err != nil {
				return err
			}
			out[i] = input
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodePairList encodes each pair in order. The first error stops the
// batch.
func (b *Base) EncodePairList(pairs []api.TextPair, maxLen int, strategy api.TruncationStrategy, stride int) ([]api.TokenizedInput, error) {
	out := make([]api.TokenizedInput, len(pairs))
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, pair := range pairs {
		group.Go(func() error {
			input, err := b.encode(pair.Text, &pair.TextPair, maxLen, strategy, stride)
			if err != nil {
				return err
			}
			out[i] = input
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeList decodes each ID sequence in order.
func (b *Base) DecodeList(ids [][]int64, skipSpecialTokens, cleanUpTokenizationSpaces bool) []string {
	out := make([]string, len(ids))
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, seq := range ids {
		group.Go(func() error {
			out[i] = b.Decode(seq, skipSpecialTokens, cleanUpTokenizationSpaces)
			return nil
		})
	}
	_ = group.Wait()
	return out
}
