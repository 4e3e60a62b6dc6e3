package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gomlx/go-tokenizers/hub"
)

// Config is the CLI configuration, assembled from defaults, an optional
// config file, TOKENIZE_* environment variables and command line flags.
type Config struct {
	Tokenizer TokenizerConfig        `mapstructure:"tokenizer"`
	Hub       HubConfig              `mapstructure:"hub"`
	Models    map[string]ModelConfig `mapstructure:"models"`
}

// TokenizerConfig selects the tokenizer family and its vocabulary files.
type TokenizerConfig struct {
	Family       string `mapstructure:"family"`
	Vocab        string `mapstructure:"vocab"`
	Merges       string `mapstructure:"merges"`
	Model        string `mapstructure:"model"`
	LowerCase    bool   `mapstructure:"lower_case"`
	StripAccents bool   `mapstructure:"strip_accents"`
	PrefixSpace  bool   `mapstructure:"prefix_space"`
}

// HubConfig configures downloads of vocabulary files from a model hub.
type HubConfig struct {
	Repo      string `mapstructure:"repo"`
	Revision  string `mapstructure:"revision"`
	Endpoint  string `mapstructure:"endpoint"`
	CacheDir  string `mapstructure:"cache_dir"`
	AuthToken string `mapstructure:"auth_token"`
}

// ModelConfig is a named preset under the config file's models section. When
// --model matches a preset name, the preset replaces the tokenizer flags
// wholesale, so a preset spells out its own lower_case and friends.
type ModelConfig struct {
	Family       string `mapstructure:"family"`
	Vocab        string `mapstructure:"vocab"`
	Merges       string `mapstructure:"merges"`
	Repo         string `mapstructure:"repo"`
	LowerCase    bool   `mapstructure:"lower_case"`
	StripAccents bool   `mapstructure:"strip_accents"`
	PrefixSpace  bool   `mapstructure:"prefix_space"`
}

// Resolve picks the tokenizer selection for this run. A --model value that
// names a preset from the config file wins over the individual tokenizer
// flags; any other --model value is treated as a hub repository ID.
func (c Config) Resolve() (TokenizerConfig, HubConfig) {
	tok, hubCfg := c.Tokenizer, c.Hub
	if tok.Model == "" {
		return tok, hubCfg
	}
	preset, ok := c.Models[tok.Model]
	if !ok {
		hubCfg.Repo = tok.Model
		return tok, hubCfg
	}
	tok.Family = preset.Family
	tok.Vocab = preset.Vocab
	tok.Merges = preset.Merges
	tok.LowerCase = preset.LowerCase
	tok.StripAccents = preset.StripAccents
	tok.PrefixSpace = preset.PrefixSpace
	hubCfg.Repo = preset.Repo
	return tok, hubCfg
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Tokenizer: TokenizerConfig{
			PrefixSpace: true,
		},
		Hub: HubConfig{
			Revision: hub.DefaultRevision,
			Endpoint: hub.DefaultEndpoint,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("family", defaults.Tokenizer.Family, "Tokenizer family: "+strings.Join(familyNames, "|"))
	fs.String("vocab", defaults.Tokenizer.Vocab, "Local vocabulary file (vocab.txt, vocab.json or SentencePiece model)")
	fs.String("merges", defaults.Tokenizer.Merges, "Local merges.txt for BPE families")
	fs.String("model", defaults.Tokenizer.Model, "Config preset name or hub repository ID, e.g. bert-base-uncased")
	fs.Bool("lower-case", defaults.Tokenizer.LowerCase, "Lowercase the input text")
	fs.Bool("strip-accents", defaults.Tokenizer.StripAccents, "Strip accents from the input text")
	fs.Bool("prefix-space", defaults.Tokenizer.PrefixSpace, "RoBERTa only: prepend a space so the first word gets a word-initial marker")
	fs.String("hub-revision", defaults.Hub.Revision, "Hub revision (branch, tag or commit)")
	fs.String("hub-endpoint", defaults.Hub.Endpoint, "Hub endpoint URL")
	fs.String("hub-cache-dir", defaults.Hub.CacheDir, "Download cache directory (defaults to the user cache dir)")
	fs.String("hub-auth-token", defaults.Hub.AuthToken, "Hub access token for gated repositories")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, errors.Wrap(err, "bind flags")
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("TOKENIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	if err := v.BindEnv("hub.auth_token", "TOKENIZE_HUB_AUTH_TOKEN", "HF_TOKEN"); err != nil {
		return Config{}, errors.Wrap(err, "bind hub token env vars")
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "read config file")
		}
	} else {
		v.SetConfigName("tokenize")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, errors.Wrap(err, "read config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("tokenizer.family", c.Tokenizer.Family)
	v.SetDefault("tokenizer.vocab", c.Tokenizer.Vocab)
	v.SetDefault("tokenizer.merges", c.Tokenizer.Merges)
	v.SetDefault("tokenizer.model", c.Tokenizer.Model)
	v.SetDefault("tokenizer.lower_case", c.Tokenizer.LowerCase)
	v.SetDefault("tokenizer.strip_accents", c.Tokenizer.StripAccents)
	v.SetDefault("tokenizer.prefix_space", c.Tokenizer.PrefixSpace)
	v.SetDefault("hub.revision", c.Hub.Revision)
	v.SetDefault("hub.endpoint", c.Hub.Endpoint)
	v.SetDefault("hub.cache_dir", c.Hub.CacheDir)
	v.SetDefault("hub.auth_token", c.Hub.AuthToken)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("tokenizer.family", "family")
	v.RegisterAlias("tokenizer.vocab", "vocab")
	v.RegisterAlias("tokenizer.merges", "merges")
	v.RegisterAlias("tokenizer.model", "model")
	v.RegisterAlias("tokenizer.lower_case", "lower-case")
	v.RegisterAlias("tokenizer.strip_accents", "strip-accents")
	v.RegisterAlias("tokenizer.prefix_space", "prefix-space")
	v.RegisterAlias("hub.revision", "hub-revision")
	v.RegisterAlias("hub.endpoint", "hub-endpoint")
	v.RegisterAlias("hub.cache_dir", "hub-cache-dir")
	v.RegisterAlias("hub.auth_token", "hub-auth-token")
}
