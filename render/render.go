package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/stat"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	// Unknown is shown for tokens and answers absent from the dictionary.
	Unknown = "<unk>"
)

var (
	Red       = "\033[1;31m"
	Green     = "\033[1;32m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	Off       = "\033[0m"
)

func SupportedFormats() []string {
	return []string{FormatText, FormatJSON}
}

// Encoded is a question encoded against a dictionary. An id of 0 marks a
// token the dictionary does not know.
type Encoded struct {
	Question string   `json:"question"`
	Tokens   []string `json:"tokens"`
	IDs      []int    `json:"ids"`
}

// Printer writes results of the clevrprep commands.
type Printer interface {
	Encoded(e Encoded)
	Stats(split string, s stat.Stats, answers []string)
	Vocab(entries []dictionary.Entry)
}

// Renderer prints human readable text.
type Renderer struct {
	W        io.Writer
	HasColor bool
}

var _ Printer = (*Renderer)(nil)

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{W: w}
}

// New returns the printer of format.
func New(format string, w io.Writer, hasColor bool) (Printer, error) {
	switch format {
	case FormatText:
		return &Renderer{W: w, HasColor: hasColor}, nil
	case FormatJSON:
		return NewJSONRenderer(w), nil
	}
	return nil, fmt.Errorf("unknown format %q, allowed values are %s", format, strings.Join(SupportedFormats(), ", "))
}

// Encoded prints one token per column with its id below it.
func (r *Renderer) Encoded(e Encoded) {
	var top, bottom strings.Builder
	for i, tok := range e.Tokens {
		id := fmt.Sprintf("%d", e.IDs[i])
		w := len([]rune(tok))
		if len(id) > w {
			w = len(id)
		}

		if i > 0 {
			top.WriteString(" ")
			bottom.WriteString(" ")
		}
		top.WriteString(r.token(tok, e.IDs[i], w))
		bottom.WriteString(r.color(Grey256, fmt.Sprintf("%-*s", w, id)))
	}

	fmt.Fprintln(r.W, strings.TrimRight(top.String(), " "))
	fmt.Fprintln(r.W, strings.TrimRight(bottom.String(), " "))
}

func (r *Renderer) token(tok string, id, width int) string {
	padded := tok + strings.Repeat(" ", width-len([]rune(tok)))
	if id == 0 {
		return r.color(Red, padded)
	}
	return r.color(Green256, padded)
}

func (r *Renderer) color(c, s string) string {
	if !r.HasColor {
		return s
	}
	return c + s + Off
}

func (r *Renderer) Stats(split string, s stat.Stats, answers []string) {
	fmt.Fprintf(r.W, "split: %s\n", r.color(Yellow256, split))
	fmt.Fprintf(r.W, "questions: %d\n", s.NumQuestions)
	fmt.Fprintf(r.W, "tokens: %d\n", s.NumTokens)
	fmt.Fprintf(r.W, "tokens per question: mean %.2f std %.2f min %d max %d\n",
		s.TokensPerQuestionMean, s.TokensPerQuestionStd, s.TokensPerQuestionMin, s.TokensPerQuestionMax)
	fmt.Fprintf(r.W, "distinct answers: %d\n", s.NumAnswers)
	fmt.Fprintf(r.W, "question families: %d\n", s.NumFamilies)

	lengths := make([]int, 0, len(s.TokensPerQuestionDis))
	for l := range s.TokensPerQuestionDis {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	for _, l := range lengths {
		fmt.Fprintf(r.W, "  %3d tokens: %d\n", l, s.TokensPerQuestionDis[l])
	}

	if len(s.TopAnswers) > 0 {
		fmt.Fprintln(r.W, "top answers:")
	}
	for _, a := range s.TopAnswers {
		fmt.Fprintf(r.W, "  %-12s %6d\n", AnswerName(answers, a.Answer), a.Count)
	}

	if s.Images == nil {
		return
	}
	fmt.Fprintf(r.W, "images: %d (%d rotated)\n", s.Images.Count, s.Images.Rotated)
	formats := make([]string, 0, len(s.Images.Formats))
	for f := range s.Images.Formats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		fmt.Fprintf(r.W, "  %-12s %6d\n", f, s.Images.Formats[f])
	}
}

func (r *Renderer) Vocab(entries []dictionary.Entry) {
	for _, e := range entries {
		fmt.Fprintf(r.W, "%6s %s\n", r.color(Grey256, fmt.Sprintf("%d", e.ID)), e.Key)
	}
}

// AnswerName returns the answer of id, as listed by
// dictionary.AnswerList, or Unknown.
func AnswerName(answers []string, id int) string {
	if id < 0 || id >= len(answers) {
		return Unknown
	}
	return answers[id]
}
