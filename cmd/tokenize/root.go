package main

import (
	"context"
	goflag "flag"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/hub"
	"github.com/gomlx/go-tokenizers/tokenizers"
	"github.com/gomlx/go-tokenizers/vocab"
)

var (
	cfgFile   string
	activeCfg Config
)

// familyNames lists the accepted --family values.
var familyNames = []string{
	"bert", "albert", "gpt2", "openai-gpt", "roberta", "ctrl",
	"xlnet", "t5", "xlm-roberta", "sentencepiece",
}

// tokenizer is the surface the subcommands work against: the full
// encode/decode API plus access to the vocabulary for lookups.
type tokenizer interface {
	api.Tokenizer
	Vocab() *vocab.Vocab
}

func NewRootCmd() *cobra.Command {
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Encode, decode and inspect text with pretrained tokenizers",
		Long: "tokenize runs the tokenization pipelines of pretrained transformer\n" +
			"models (BERT, GPT-2, RoBERTa, T5 and friends) from the command line.\n" +
			"Vocabulary files come from local paths or are fetched from a model hub.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := Load(LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	RegisterFlags(cmd.PersistentFlags(), defaults)

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(newEncodeCmd())
	cmd.AddCommand(newDecodeCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newVocabCmd())

	return cmd
}

// newTokenizer builds the tokenizer selected by flags and config: local
// vocabulary files when --vocab is set, otherwise a hub download.
func newTokenizer(ctx context.Context) (tokenizer, error) {
	tok, hubCfg := activeCfg.Resolve()
	family := strings.ToLower(tok.Family)
	if family == "" {
		return nil, api.ValueErrorf("no tokenizer family selected; pass --family or a --model preset that names one")
	}
	if tok.Vocab != "" {
		return newLocalTokenizer(family, tok)
	}
	if hubCfg.Repo == "" {
		return nil, api.ValueErrorf("no vocabulary source; pass --vocab or --model")
	}
	return newHubTokenizer(ctx, family, tok, hubCfg)
}

func newLocalTokenizer(family string, tok TokenizerConfig) (tokenizer, error) {
	needMerges := func() error {
		if tok.Merges == "" {
			return api.ValueErrorf("family %q needs --merges next to --vocab", family)
		}
		return nil
	}
	switch family {
	case "bert":
		return tokenizers.NewBERT(tok.Vocab, tok.LowerCase, tok.StripAccents)
	case "albert":
		return tokenizers.NewALBERT(tok.Vocab, tok.LowerCase, tok.StripAccents)
	case "gpt2":
		if err := needMerges(); err != nil {
			return nil, err
		}
		return tokenizers.NewGPT2(tok.Vocab, tok.Merges, tok.LowerCase)
	case "openai-gpt":
		if err := needMerges(); err != nil {
			return nil, err
		}
		return tokenizers.NewOpenAIGPT(tok.Vocab, tok.Merges, tok.LowerCase)
	case "roberta":
		if err := needMerges(); err != nil {
			return nil, err
		}
		return tokenizers.NewRoberta(tok.Vocab, tok.Merges, tok.LowerCase, tok.PrefixSpace)
	case "ctrl":
		if err := needMerges(); err != nil {
			return nil, err
		}
		return tokenizers.NewCTRL(tok.Vocab, tok.Merges, tok.LowerCase)
	case "xlnet":
		return tokenizers.NewXLNet(tok.Vocab, tok.LowerCase, tok.StripAccents)
	case "t5":
		return tokenizers.NewT5(tok.Vocab, tok.LowerCase)
	case "xlm-roberta":
		return tokenizers.NewXLMRoberta(tok.Vocab, tok.LowerCase)
	case "sentencepiece":
		return tokenizers.NewSentencePiece(tok.Vocab, tok.LowerCase)
	}
	return nil, api.ValueErrorf("unknown tokenizer family %q, want one of %s", family, strings.Join(familyNames, ", "))
}

func newHubTokenizer(ctx context.Context, family string, tok TokenizerConfig, hubCfg HubConfig) (tokenizer, error) {
	repo := hub.New(hubCfg.Repo).
		WithRevision(hubCfg.Revision).
		WithEndpoint(hubCfg.Endpoint).
		WithAuthToken(hubCfg.AuthToken)
	if hubCfg.CacheDir != "" {
		repo = repo.WithCacheDir(hubCfg.CacheDir)
	}
	switch family {
	case "bert":
		return tokenizers.NewBERTFromHub(ctx, repo, tok.LowerCase, tok.StripAccents)
	case "albert":
		return tokenizers.NewALBERTFromHub(ctx, repo, tok.LowerCase, tok.StripAccents)
	case "gpt2":
		return tokenizers.NewGPT2FromHub(ctx, repo, tok.LowerCase)
	case "openai-gpt":
		return tokenizers.NewOpenAIGPTFromHub(ctx, repo, tok.LowerCase)
	case "roberta":
		return tokenizers.NewRobertaFromHub(ctx, repo, tok.LowerCase, tok.PrefixSpace)
	case "ctrl":
		return tokenizers.NewCTRLFromHub(ctx, repo, tok.LowerCase)
	case "xlnet":
		return tokenizers.NewXLNetFromHub(ctx, repo, tok.LowerCase, tok.StripAccents)
	case "t5":
		return tokenizers.NewT5FromHub(ctx, repo, tok.LowerCase)
	case "xlm-roberta":
		return tokenizers.NewXLMRobertaFromHub(ctx, repo, tok.LowerCase)
	case "sentencepiece":
		return tokenizers.NewSentencePieceFromHub(ctx, repo, tok.LowerCase)
	}
	return nil, api.ValueErrorf("unknown tokenizer family %q, want one of %s", family, strings.Join(familyNames, ", "))
}
