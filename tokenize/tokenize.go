// Package tokenize splits question text into word tokens.
package tokenize

import (
	"fmt"
	"sort"
	"strings"

	prose "github.com/jdkato/prose/tokenize"
	"golang.org/x/text/unicode/norm"
)

const (
	TreebankName  = "treebank"
	WordPunctName = "wordpunct"
	BertName      = "bert"
)

// Tokenizer converts a text into word tokens.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// registry holds the tokenizers compiled into the binary. bert is only
// present when built with the bert tag.
var registry = map[string]func() Tokenizer{
	TreebankName:  func() Tokenizer { return NewTreebank() },
	WordPunctName: func() Tokenizer { return NewWordPunct() },
}

// Names returns the available tokenizer names. The first one is the default.
func Names() []string {
	names := []string{TreebankName}
	var rest []string
	for name := range registry {
		if name != TreebankName {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// New returns the tokenizer registered under name. If normalize is set the
// text is converted to Unicode NFC before tokenization.
func New(name string, normalize bool) (Tokenizer, error) {
	newFn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown tokenizer %q, allowed values are %s", name, strings.Join(Names(), ", "))
	}

	t := newFn()
	if normalize {
		t = Normalized{T: t}
	}
	return t, nil
}

// Treebank segments the text into sentences with Punkt and splits each
// sentence with the Penn Treebank rules: contractions are split ("What's" ->
// "What", "'s") and punctuation is separated from words.
type Treebank struct {
	sentences *prose.PunktSentenceTokenizer
	words     *prose.TreebankWordTokenizer
}

func NewTreebank() *Treebank {
	return &Treebank{
		sentences: prose.NewPunktSentenceTokenizer(),
		words:     prose.NewTreebankWordTokenizer(),
	}
}

func (t *Treebank) Tokenize(text string) ([]string, error) {
	var tokens []string
	for _, s := range t.sentences.Tokenize(text) {
		tokens = append(tokens, t.words.Tokenize(s)...)
	}
	return tokens, nil
}

// WordPunct splits on whitespace and separates runs of punctuation from
// words. It does not split contractions.
type WordPunct struct {
	words *prose.RegexpTokenizer
}

func NewWordPunct() *WordPunct {
	return &WordPunct{words: prose.NewWordPunctTokenizer()}
}

func (w *WordPunct) Tokenize(text string) ([]string, error) {
	return w.words.Tokenize(text), nil
}

// Normalized applies NFC normalization before delegating to T.
type Normalized struct {
	T Tokenizer
}

func (n Normalized) Tokenize(text string) ([]string, error) {
	return n.T.Tokenize(norm.NFC.String(text))
}
