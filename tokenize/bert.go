//go:build bert

package tokenize

import (
	"fmt"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
)

// The sugarme root package creates $HOME/.cache/tokenizer on start and
// exits if it cannot, so it is only linked with the bert tag.
func init() {
	registry[BertName] = func() Tokenizer { return NewBert() }
}

// Bert splits on whitespace and isolates every punctuation rune.
type Bert struct {
	pre *pretokenizer.BertPreTokenizer
}

func NewBert() *Bert {
	return &Bert{pre: pretokenizer.NewBertPreTokenizer()}
}

func (b *Bert) Tokenize(text string) ([]string, error) {
	pts, err := b.pre.PreTokenize(tk.NewPreTokenizedString(text))
	if err != nil {
		return nil, fmt.Errorf("bert pre-tokenize %q: %w", text, err)
	}

	splits := pts.GetSplits(normalizer.OriginalTarget, tk.Byte)
	tokens := make([]string, 0, len(splits))
	for _, s := range splits {
		tokens = append(tokens, s.Value)
	}
	return tokens, nil
}
