package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gomlx/go-tokenizers/api"
)

func newEncodeCmd() *cobra.Command {
	var (
		pair     string
		maxLen   int
		strategy string
		stride   int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "encode [text ...]",
		Short: "Encode text into model-ready token IDs",
		Long: "Encode tokenizes each input, truncates it to --max-len and frames it\n" +
			"with the family's special tokens. Inputs come from the arguments or,\n" +
			"when none are given, one per line from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := newTokenizer(cmd.Context())
			if err != nil {
				return err
			}
			trunc, err := api.ParseTruncationStrategy(strategy)
			if err != nil {
				return err
			}
			texts, err := gatherTexts(args)
			if err != nil {
				return err
			}
			for _, text := range texts {
				var input api.TokenizedInput
				if pair != "" {
					input, err = tok.EncodePair(text, pair, maxLen, trunc, stride)
				} else {
					input, err = tok.Encode(text, maxLen, trunc, stride)
				}
				if err != nil {
					return err
				}
				if asJSON {
					if err := printJSON(encodeResult(tok, text, pair, input)); err != nil {
						return err
					}
					continue
				}
				if _, err := fmt.Fprintln(os.Stdout, renderEncoded(tok, input)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "Second sequence for pair encoding")
	cmd.Flags().IntVar(&maxLen, "max-len", 512, "Maximum encoded length including special tokens")
	cmd.Flags().StringVar(&strategy, "truncation", api.LongestFirst.String(),
		"Truncation strategy: longest_first|only_first|only_second|do_not_truncate")
	cmd.Flags().IntVar(&stride, "stride", 0, "Tokens of overlap carried into the overflow window")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")

	return cmd
}

type encodeOutput struct {
	Text               string   `json:"text"`
	Pair               string   `json:"pair,omitempty"`
	TokenIDs           []int64  `json:"token_ids"`
	Tokens             []string `json:"tokens"`
	SegmentIDs         []int8   `json:"segment_ids"`
	SpecialTokensMask  []int8   `json:"special_tokens_mask"`
	OverflowingTokens  []int64  `json:"overflowing_tokens,omitempty"`
	NumTruncatedTokens int      `json:"num_truncated_tokens,omitempty"`
}

func encodeResult(tok tokenizer, text, pair string, input api.TokenizedInput) encodeOutput {
	tokens := make([]string, len(input.TokenIDs))
	for i, id := range input.TokenIDs {
		tokens[i] = tok.Vocab().IDToToken(id)
	}
	return encodeOutput{
		Text:               text,
		Pair:               pair,
		TokenIDs:           input.TokenIDs,
		Tokens:             tokens,
		SegmentIDs:         input.SegmentIDs,
		SpecialTokensMask:  input.SpecialTokensMask,
		OverflowingTokens:  input.OverflowingTokens,
		NumTruncatedTokens: input.NumTruncatedTokens,
	}
}

func renderEncoded(tok tokenizer, input api.TokenizedInput) string {
	rows := make([][]string, len(input.TokenIDs))
	for i, id := range input.TokenIDs {
		rows[i] = []string{
			strconv.Itoa(i),
			strconv.FormatInt(id, 10),
			tok.Vocab().IDToToken(id),
			strconv.Itoa(int(input.SegmentIDs[i])),
			strconv.Itoa(int(input.SpecialTokensMask[i])),
		}
	}
	out := renderTable([]string{"POS", "ID", "TOKEN", "SEGMENT", "SPECIAL"}, rows)
	if input.NumTruncatedTokens > 0 {
		out += "\n" + dimStyle.Render(fmt.Sprintf("truncated %d tokens, kept %d in the overflow window",
			input.NumTruncatedTokens, len(input.OverflowingTokens)))
	}
	return out
}

// gatherTexts returns the positional arguments, or non-empty stdin lines when
// no arguments were given.
func gatherTexts(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var texts []string
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			texts = append(texts, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read stdin")
	}
	if len(texts) == 0 {
		return nil, api.ValueErrorf("no input text; pass arguments or pipe lines on stdin")
	}
	return texts, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode JSON")
}
