package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gomlx/go-tokenizers/api"
)

func newDecodeCmd() *cobra.Command {
	var (
		keepSpecial bool
		noCleanup   bool
	)

	cmd := &cobra.Command{
		Use:   "decode [id ...]",
		Short: "Decode token IDs back into text",
		Long: "Decode maps token IDs back to text with the family's joining rules.\n" +
			"IDs come from the arguments or from stdin; separators may be spaces,\n" +
			"commas or JSON-style brackets, so encode --json output pastes back in.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := newTokenizer(cmd.Context())
			if err != nil {
				return err
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, tok.Decode(ids, !keepSpecial, !noCleanup))
			return err
		},
	}

	cmd.Flags().BoolVar(&keepSpecial, "keep-special-tokens", false, "Keep special tokens in the decoded text")
	cmd.Flags().BoolVar(&noCleanup, "no-cleanup", false, "Skip tokenization-artifact cleanup around punctuation")

	return cmd
}

// parseIDs parses token IDs from the arguments, or from stdin when no
// arguments were given.
func parseIDs(args []string) ([]int64, error) {
	fields := args
	if len(fields) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		fields = strings.Fields(string(data))
	}
	isSeparator := func(r rune) bool {
		return r == ',' || r == '[' || r == ']'
	}
	var ids []int64
	for _, f := range fields {
		for _, piece := range strings.FieldsFunc(f, isSeparator) {
			id, err := strconv.ParseInt(piece, 10, 64)
			if err != nil {
				return nil, api.ValueErrorf("bad token ID %q", piece)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, api.ValueErrorf("no token IDs; pass them as arguments or on stdin")
	}
	return ids, nil
}
