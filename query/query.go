// Package query is an interactive prompt that encodes typed questions with a
// saved dictionary.
package query

import (
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/render"
	"github.com/revelaction/clevrprep/tokenize"
)

const (
	completionThreshold = 2

	// answerPrefix starts a line that looks up an answer instead of a question
	answerPrefix = "="

	maxSuggestions = 12
)

// Handler never changes the dictionary: unknown tokens are shown with id 0.
type Handler struct {
	Tokenizer tokenize.Tokenizer
	Dict      *dictionary.Dictionary
	Printer   render.Printer

	// Out receives messages that are not results.
	Out io.Writer
}

func NewHandler(t tokenize.Tokenizer, d *dictionary.Dictionary, p render.Printer, out io.Writer) *Handler {
	return &Handler{
		Tokenizer: t,
		Dict:      d,
		Printer:   p,
		Out:       out,
	}
}

func (h *Handler) Run() error {
	fmt.Fprintf(h.Out, "🔑 type a question, %sanswer to look up an answer, quit to exit\n", answerPrefix)
	fmt.Fprintf(h.Out, "   %d words, %d answers\n", h.Dict.NumWords(), h.Dict.NumAnswers())

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      ❓ ", h.completer,
			prompt.OptionTitle("clevrprep query"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(maxSuggestions),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
		)

		in = strings.TrimSpace(in)
		if in == "quit" {
			return nil
		}
		if in == "" {
			continue
		}

		history = append(history, in)

		if strings.HasPrefix(in, answerPrefix) {
			answer := strings.TrimSpace(strings.TrimPrefix(in, answerPrefix))
			id, ok := h.Dict.LookupAnswer(answer)
			if !ok {
				fmt.Fprintf(h.Out, "%q: %s\n", answer, render.Unknown)
				continue
			}
			fmt.Fprintf(h.Out, "%q: %d\n", answer, id)
			continue
		}

		e, err := h.Encode(in)
		if err != nil {
			fmt.Fprintf(h.Out, "Error encoding question: %v\n", err)
			continue
		}
		h.Printer.Encoded(e)
	}
}

// Encode tokenizes question and looks every token up.
func (h *Handler) Encode(question string) (render.Encoded, error) {
	tokens, err := h.Tokenizer.Tokenize(question)
	if err != nil {
		return render.Encoded{}, err
	}

	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		// unknown tokens keep the zero id
		ids[i], _ = h.Dict.LookupWord(tok)
	}

	return render.Encoded{Question: question, Tokens: tokens, IDs: ids}, nil
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	return h.Suggest(in.GetWordBeforeCursor())
}

// Suggest returns the dictionary words starting with word.
func (h *Handler) Suggest(word string) []prompt.Suggest {
	s := []prompt.Suggest{}

	if strings.HasPrefix(word, answerPrefix) {
		return s
	}

	if len([]rune(word)) < completionThreshold {
		return s
	}

	for _, e := range h.Dict.WithPrefix(word) {
		if e.Key == word {
			continue
		}
		s = append(s, prompt.Suggest{Text: e.Key, Description: fmt.Sprintf("%d", e.ID)})
		if len(s) == maxSuggestions {
			break
		}
	}

	return s
}
