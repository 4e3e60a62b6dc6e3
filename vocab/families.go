package vocab

// Special tokens of the BERT family.
const (
	BERTUnknown = "[UNK]"
	BERTCls     = "[CLS]"
	BERTSep     = "[SEP]"
	BERTMask    = "[MASK]"
	BERTPad     = "[PAD]"
)

// Special tokens of the ALBERT family. ALBERT keeps BERT's bracketed
// markers but lower-cases the padding and unknown pieces.
const (
	ALBERTUnknown = "<unk>"
	ALBERTCls     = "[CLS]"
	ALBERTSep     = "[SEP]"
	ALBERTMask    = "[MASK]"
	ALBERTPad     = "<pad>"
)

// GPT2EndOfText is GPT-2's only special token; it serves as beginning and
// end of sequence as well as the unknown fallback.
const GPT2EndOfText = "<|endoftext|>"

// OpenAIGPTUnknown is the only special token of the original GPT vocabulary.
const OpenAIGPTUnknown = "<unk>"

// CTRLUnknown is the only special token of the CTRL vocabulary; control
// codes are ordinary vocabulary entries.
const CTRLUnknown = "<unk>"

// Special tokens of the RoBERTa family, shared by XLM-RoBERTa.
const (
	RobertaUnknown = "<unk>"
	RobertaBos     = "<s>"
	RobertaEos     = "</s>"
	RobertaPad     = "<pad>"
	RobertaMask    = "<mask>"
)

// Special tokens of the XLNet family.
const (
	XLNetUnknown = "<unk>"
	XLNetBos     = "<s>"
	XLNetEos     = "</s>"
	XLNetCls     = "<cls>"
	XLNetSep     = "<sep>"
	XLNetPad     = "<pad>"
	XLNetMask    = "<mask>"
)

// Special tokens of the T5 family.
const (
	T5Unknown = "<unk>"
	T5Pad     = "<pad>"
	T5Eos     = "</s>"
)

// SentencePieceUnknown is the conventional unknown piece of plain
// SentencePiece models.
const SentencePieceUnknown = "<unk>"

// NewBERT loads a BERT vocabulary from a line-per-token file ("vocab.txt").
func NewBERT(path string) (*Vocab, error) {
	return FromFile(path, BERTUnknown, BERTCls, BERTSep, BERTMask, BERTPad)
}

// NewALBERT loads an ALBERT vocabulary from a SentencePiece model file
// ("spiece.model").
func NewALBERT(path string) (*Vocab, error) {
	return FromSentencePieceFile(path, ALBERTUnknown, ALBERTCls, ALBERTSep, ALBERTMask, ALBERTPad)
}

// NewGPT2 loads a GPT-2 vocabulary from a JSON token→ID file ("vocab.json").
func NewGPT2(path string) (*Vocab, error) {
	return FromJSONFile(path, GPT2EndOfText)
}

// NewOpenAIGPT loads an original-GPT vocabulary from a JSON token→ID file.
func NewOpenAIGPT(path string) (*Vocab, error) {
	return FromJSONFile(path, OpenAIGPTUnknown)
}

// NewCTRL loads a CTRL vocabulary from a JSON token→ID file.
func NewCTRL(path string) (*Vocab, error) {
	return FromJSONFile(path, CTRLUnknown)
}

// NewRoberta loads a RoBERTa vocabulary from a JSON token→ID file.
func NewRoberta(path string) (*Vocab, error) {
	return FromJSONFile(path, RobertaUnknown, RobertaBos, RobertaEos, RobertaPad, RobertaMask)
}

// NewXLNet loads an XLNet vocabulary from a SentencePiece model file.
func NewXLNet(path string) (*Vocab, error) {
	return FromSentencePieceFile(path, XLNetUnknown,
		XLNetBos, XLNetEos, XLNetCls, XLNetSep, XLNetPad, XLNetMask)
}

// NewT5 loads a T5 vocabulary from a SentencePiece model file.
func NewT5(path string) (*Vocab, error) {
	return FromSentencePieceFile(path, T5Unknown, T5Pad, T5Eos)
}

// NewSentencePiece loads a plain SentencePiece vocabulary with only the
// conventional "<unk>" registered as special.
func NewSentencePiece(path string) (*Vocab, error) {
	return FromSentencePieceFile(path, SentencePieceUnknown)
}

// NewXLMRoberta loads an XLM-RoBERTa vocabulary from a SentencePiece model
// file, applying the fairseq ID layout: "<s>", "<pad>", "</s>" and "<unk>"
// take IDs 0-3, pieces after the model's first three shift up by one, and
// "<mask>" is appended with the highest ID.
func NewXLMRoberta(path string) (*Vocab, error) {
	pieces, err := readModelProto(path)
	if err != nil {
		return nil, err
	}
	values := map[string]int64{
		RobertaBos:     0,
		RobertaPad:     1,
		RobertaEos:     2,
		RobertaUnknown: 3,
	}
	for idx, p := range pieces {
		if idx > 2 {
			values[p.Piece] = int64(idx) + 1
		}
	}
	values[RobertaMask] = int64(len(values))
	return New(values, RobertaUnknown, RobertaBos, RobertaEos, RobertaPad, RobertaMask)
}
