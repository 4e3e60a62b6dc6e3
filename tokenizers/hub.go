package tokenizers

import (
	"context"

	"github.com/gomlx/go-tokenizers/hub"
)

// File names the pretrained repositories ship, per family.
const (
	vocabTextFile     = "vocab.txt"
	vocabJSONFile     = "vocab.json"
	mergesFile        = "merges.txt"
	spieceModelFile   = "spiece.model"
	xlmRobertaSPMFile = "sentencepiece.bpe.model"
)

// The FromHub constructors download a family's vocabulary files from a
// hub repository (cached locally after the first call) and build the
// tokenizer from them. They are the only constructors that perform
// network I/O, and only before the tokenizer exists.

// NewBERTFromHub downloads "vocab.txt" from repo and returns a BERT
// tokenizer.
func NewBERTFromHub(ctx context.Context, repo *hub.Repo, lowerCase, stripAccents bool) (*BERT, error) {
	path, err := repo.DownloadFile(ctx, vocabTextFile)
	if err != nil {
		return nil, err
	}
	return NewBERT(path, lowerCase, stripAccents)
}

// NewALBERTFromHub downloads "spiece.model" from repo and returns an
// ALBERT tokenizer.
func NewALBERTFromHub(ctx context.Context, repo *hub.Repo, lowerCase, stripAccents bool) (*ALBERT, error) {
	path, err := repo.DownloadFile(ctx, spieceModelFile)
	if err != nil {
		return nil, err
	}
	return NewALBERT(path, lowerCase, stripAccents)
}

// NewGPT2FromHub downloads "vocab.json" and "merges.txt" from repo and
// returns a GPT-2 tokenizer.
func NewGPT2FromHub(ctx context.Context, repo *hub.Repo, lowerCase bool) (*GPT2, error) {
	vocabPath, mergesPath, err := downloadBPEFiles(ctx, repo)
	if err != nil {
		return nil, err
	}
	return NewGPT2(vocabPath, mergesPath, lowerCase)
}

// NewOpenAIGPTFromHub downloads "vocab.json" and "merges.txt" from repo
// and returns an original-GPT tokenizer.
func NewOpenAIGPTFromHub(ctx context.Context, repo *hub.Repo, lowerCase bool) (*OpenAIGPT, error) {
	vocabPath, mergesPath, err := downloadBPEFiles(ctx, repo)
	if err != nil {
		return nil, err
	}
	return NewOpenAIGPT(vocabPath, mergesPath, lowerCase)
}

// NewRobertaFromHub downloads "vocab.json" and "merges.txt" from repo and
// returns a RoBERTa tokenizer.
func NewRobertaFromHub(ctx context.Context, repo *hub.Repo, lowerCase, addPrefixSpace bool) (*Roberta, error) {
	vocabPath, mergesPath, err := downloadBPEFiles(ctx, repo)
	if err != nil {
		return nil, err
	}
	return NewRoberta(vocabPath, mergesPath, lowerCase, addPrefixSpace)
}

// NewCTRLFromHub downloads "vocab.json" and "merges.txt" from repo and
// returns a CTRL tokenizer.
func NewCTRLFromHub(ctx context.Context, repo *hub.Repo, lowerCase bool) (*CTRL, error) {
	vocabPath, mergesPath, err := downloadBPEFiles(ctx, repo)
	if err != nil {
		return nil, err
	}
	return NewCTRL(vocabPath, mergesPath, lowerCase)
}

// NewXLNetFromHub downloads "spiece.model" from repo and returns an XLNet
// tokenizer.
func NewXLNetFromHub(ctx context.Context, repo *hub.Repo, lowerCase, stripAccents bool) (*XLNet, error) {
	path, err := repo.DownloadFile(ctx, spieceModelFile)
	if err != nil {
		return nil, err
	}
	return NewXLNet(path, lowerCase, stripAccents)
}

// NewT5FromHub downloads "spiece.model" from repo and returns a T5
// tokenizer.
func NewT5FromHub(ctx context.Context, repo *hub.Repo, lowerCase bool) (*T5, error) {
	path, err := repo.DownloadFile(ctx, spieceModelFile)
	if err != nil {
		return nil, err
	}
	return NewT5(path, lowerCase)
}

// NewXLMRobertaFromHub downloads "sentencepiece.bpe.model" from repo and
// returns an XLM-RoBERTa tokenizer.
func NewXLMRobertaFromHub(ctx context.Context, repo *hub.Repo, lowerCase bool) (*XLMRoberta, error) {
	path, err := repo.DownloadFile(ctx, xlmRobertaSPMFile)
	if err != nil {
		return nil, err
	}
	return NewXLMRoberta(path, lowerCase)
}

// NewSentencePieceFromHub downloads "spiece.model" from repo and returns
// a plain SentencePiece tokenizer.
func NewSentencePieceFromHub(ctx context.Context, repo *hub.Repo, lowerCase bool) (*SentencePiece, error) {
	path, err := repo.DownloadFile(ctx, spieceModelFile)
	if err != nil {
		return nil, err
	}
	return NewSentencePiece(path, lowerCase)
}

func downloadBPEFiles(ctx context.Context, repo *hub.Repo) (vocabPath, mergesPath string, err error) {
	vocabPath, err = repo.DownloadFile(ctx, vocabJSONFile)
	if err != nil {
		return "", "", err
	}
	mergesPath, err = repo.DownloadFile(ctx, mergesFile)
	if err != nil {
		return "", "", err
	}
	return vocabPath, mergesPath, nil
}
