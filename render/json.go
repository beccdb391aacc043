package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/stat"
)

// JSONRenderer writes results as JSON to a writer, one document per call.
type JSONRenderer struct {
	W io.Writer
}

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

func (r *JSONRenderer) Encoded(e Encoded) {
	json.NewEncoder(r.W).Encode(e)
}

type statsDoc struct {
	Split string `json:"split"`

	Questions int         `json:"questions"`
	Tokens    int         `json:"tokens"`
	Mean      float64     `json:"tokens_per_question_mean"`
	Std       float64     `json:"tokens_per_question_std"`
	Min       int         `json:"tokens_per_question_min"`
	Max       int         `json:"tokens_per_question_max"`
	Lengths   map[int]int `json:"tokens_per_question"`

	Answers    int              `json:"distinct_answers"`
	Families   int              `json:"question_families"`
	TopAnswers []answerCountDoc `json:"top_answers"`

	Images *imagesDoc `json:"images,omitempty"`
}

type imagesDoc struct {
	Count   int            `json:"count"`
	Formats map[string]int `json:"formats"`
	Rotated int            `json:"rotated"`
}

type answerCountDoc struct {
	Answer string `json:"answer"`
	ID     int    `json:"id"`
	Count  int    `json:"count"`
}

func (r *JSONRenderer) Stats(split string, s stat.Stats, answers []string) {
	doc := statsDoc{
		Split:      split,
		Questions:  s.NumQuestions,
		Tokens:     s.NumTokens,
		Mean:       s.TokensPerQuestionMean,
		Std:        s.TokensPerQuestionStd,
		Min:        s.TokensPerQuestionMin,
		Max:        s.TokensPerQuestionMax,
		Lengths:    s.TokensPerQuestionDis,
		Answers:    s.NumAnswers,
		Families:   s.NumFamilies,
		TopAnswers: []answerCountDoc{},
	}
	for _, a := range s.TopAnswers {
		doc.TopAnswers = append(doc.TopAnswers, answerCountDoc{Answer: AnswerName(answers, a.Answer), ID: a.Answer, Count: a.Count})
	}
	if s.Images != nil {
		doc.Images = &imagesDoc{Count: s.Images.Count, Formats: s.Images.Formats, Rotated: s.Images.Rotated}
	}
	json.NewEncoder(r.W).Encode(doc)
}

type entryDoc struct {
	Word string `json:"word"`
	ID   int    `json:"id"`
}

func (r *JSONRenderer) Vocab(entries []dictionary.Entry) {
	docs := make([]entryDoc, len(entries))
	for i, e := range entries {
		docs[i] = entryDoc{Word: e.Key, ID: e.ID}
	}
	json.NewEncoder(r.W).Encode(docs)
}

// compile-time interface check
var _ Printer = (*JSONRenderer)(nil)
