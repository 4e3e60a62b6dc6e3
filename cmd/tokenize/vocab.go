package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gomlx/go-tokenizers/api"
)

func newVocabCmd() *cobra.Command {
	var (
		lookupIDs bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "vocab [token ...]",
		Short: "Show vocabulary facts and look up tokens or IDs",
		Long: "Without arguments, vocab prints the vocabulary size, the unknown token\n" +
			"and the registered special tokens. With arguments it looks each one up,\n" +
			"token to ID by default or ID to token with --ids.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := newTokenizer(cmd.Context())
			if err != nil {
				return err
			}
			v := tok.Vocab()
			if len(args) == 0 {
				if asJSON {
					return printJSON(vocabSummary{
						Size:          v.Len(),
						UnknownToken:  v.UnknownValue(),
						SpecialTokens: v.SpecialTokens(),
					})
				}
				_, err := fmt.Fprintln(os.Stdout, renderFacts([][2]string{
					{"size", strconv.Itoa(v.Len())},
					{"unknown", v.UnknownValue()},
					{"special", strings.Join(v.SpecialTokens(), " ")},
				}))
				return err
			}

			lookups, err := lookupArgs(tok, args, lookupIDs)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(lookups)
			}
			rows := make([][]string, len(lookups))
			for i, l := range lookups {
				note := ""
				switch {
				case l.Special:
					note = "special"
				case !l.Known:
					note = "unknown"
				}
				rows[i] = []string{l.Token, strconv.FormatInt(l.ID, 10), note}
			}
			_, err = fmt.Fprintln(os.Stdout, renderTable([]string{"TOKEN", "ID", "NOTE"}, rows))
			return err
		},
	}

	cmd.Flags().BoolVar(&lookupIDs, "ids", false, "Treat arguments as token IDs to resolve into tokens")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")

	return cmd
}

type vocabSummary struct {
	Size          int      `json:"size"`
	UnknownToken  string   `json:"unknown_token"`
	SpecialTokens []string `json:"special_tokens"`
}

type vocabLookup struct {
	Token   string `json:"token"`
	ID      int64  `json:"id"`
	Known   bool   `json:"known"`
	Special bool   `json:"special"`
}

func lookupArgs(tok tokenizer, args []string, byID bool) ([]vocabLookup, error) {
	v := tok.Vocab()
	lookups := make([]vocabLookup, 0, len(args))
	for _, arg := range args {
		if byID {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return nil, api.ValueErrorf("bad token ID %q", arg)
			}
			// IDToToken falls back to the unknown value, so a real hit has
			// to be told apart from the fallback.
			token := v.IDToToken(id)
			known := token != v.UnknownValue() || id == v.TokenToID(v.UnknownValue())
			lookups = append(lookups, vocabLookup{
				Token:   token,
				ID:      id,
				Known:   known,
				Special: v.IsSpecialID(id),
			})
			continue
		}
		lookups = append(lookups, vocabLookup{
			Token:   arg,
			ID:      v.TokenToID(arg),
			Known:   v.HasToken(arg),
			Special: v.IsSpecial(arg),
		})
	}
	return lookups, nil
}
