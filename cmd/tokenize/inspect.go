package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gomlx/go-tokenizers/api"
)

func newInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [text ...]",
		Short: "Show tokens with their character offsets and masks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := newTokenizer(cmd.Context())
			if err != nil {
				return err
			}
			texts, err := gatherTexts(args)
			if err != nil {
				return err
			}
			for _, text := range texts {
				split := tok.TokenizeWithOffsets(text)
				if asJSON {
					if err := printJSON(inspectResult(tok, text, split)); err != nil {
						return err
					}
					continue
				}
				if _, err := fmt.Fprintln(os.Stdout, renderInspected(tok, text, split)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")

	return cmd
}

type inspectToken struct {
	Token  string             `json:"token"`
	ID     int64              `json:"id"`
	Offset *[2]api.OffsetSize `json:"offset"`
	Mask   api.Mask           `json:"mask"`
	Refs   []api.OffsetSize   `json:"reference_offsets,omitempty"`
}

type inspectOutput struct {
	Text   string         `json:"text"`
	Tokens []inspectToken `json:"tokens"`
}

func inspectResult(tok tokenizer, text string, split api.TokensWithOffsets) inspectOutput {
	ids := tok.ConvertTokensToIDs(split.Tokens)
	out := inspectOutput{Text: text, Tokens: make([]inspectToken, len(split.Tokens))}
	for i, token := range split.Tokens {
		entry := inspectToken{
			Token: token,
			ID:    ids[i],
			Mask:  split.Masks[i],
			Refs:  split.ReferenceOffsets[i],
		}
		if offset := split.Offsets[i]; offset != nil {
			entry.Offset = &[2]api.OffsetSize{offset.Begin, offset.End}
		}
		out.Tokens[i] = entry
	}
	return out
}

func renderInspected(tok tokenizer, text string, split api.TokensWithOffsets) string {
	runes := []rune(text)
	ids := tok.ConvertTokensToIDs(split.Tokens)
	rows := make([][]string, len(split.Tokens))
	for i, token := range split.Tokens {
		offsetCol, sourceCol := "-", "-"
		if offset := split.Offsets[i]; offset != nil {
			offsetCol = fmt.Sprintf("%d:%d", offset.Begin, offset.End)
			if int(offset.End) <= len(runes) && offset.Begin <= offset.End {
				sourceCol = string(runes[offset.Begin:offset.End])
			}
		}
		rows[i] = []string{
			token,
			strconv.FormatInt(ids[i], 10),
			offsetCol,
			sourceCol,
			split.Masks[i].String(),
		}
	}
	header := labelStyle.Render("input  ") + text
	return header + "\n" + renderTable([]string{"TOKEN", "ID", "OFFSET", "SOURCE", "MASK"}, rows)
}
