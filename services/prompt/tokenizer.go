package prompt

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Tokenizer turns text into model tokens and back. Encode must be
// deterministic.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

var setLoader sync.Once

type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenTokenizer returns the tokenizer of the given model, falling
// back to cl100k_base for models tiktoken does not know. Vocabularies are
// loaded from the embedded offline copy.
func NewTiktokenTokenizer(model string) (Tokenizer, error) {
	setLoader.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err != nil {
			return nil, err
		}
	}
	return &tiktokenTokenizer{enc: enc}, nil
}

func (t *tiktokenTokenizer) Encode(text string) []int {
	return t.enc.EncodeOrdinary(text)
}

func (t *tiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}
