// Package encode turns question files into integer encoded records.
package encode

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/file"
	"github.com/revelaction/clevrprep/progress"
	"github.com/revelaction/clevrprep/storage"
	"github.com/revelaction/clevrprep/tokenize"
)

// Options overrides the default input and output of a split.
type Options struct {
	// QuestionFile replaces {root}/questions/CLEVR_{split}_questions.json
	QuestionFile string

	// ResultFile replaces the default location of the split in the store.
	// Only file based stores support it.
	ResultFile string
}

type Encoder struct {
	Tokenizer tokenize.Tokenizer
	Store     storage.SplitWriter
	Log       zerolog.Logger

	// Progress receives the progress bar. nil disables it.
	Progress io.Writer
}

func NewEncoder(t tokenize.Tokenizer, s storage.SplitWriter) *Encoder {
	return &Encoder{
		Tokenizer: t,
		Store:     s,
		Log:       zerolog.Nop(),
	}
}

// Process encodes the questions of split and writes the records to the
// store. A nil dict starts fresh dictionaries. The returned dictionary is
// dict itself, extended with the tokens and answers of the split, and must
// be passed to the next call.
func (e *Encoder) Process(root, split string, dict *dictionary.Dictionary, opts Options) (*dictionary.Dictionary, error) {
	if dict == nil {
		dict = dictionary.New()
	}

	path := opts.QuestionFile
	if path == "" {
		path = file.QuestionPath(root, split)
	}

	questions, err := file.ReadQuestions(path)
	if err != nil {
		return nil, err
	}

	log := e.Log.With().Str("split", split).Logger()
	log.Info().Str("file", path).Int("questions", len(questions)).Msg("encoding questions")

	words, answers := dict.NumWords(), dict.NumAnswers()

	records, err := e.encode(questions, dict)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", split, err)
	}

	if err := e.write(split, records, opts.ResultFile); err != nil {
		return nil, fmt.Errorf("split %s: %w", split, err)
	}

	log.Info().
		Int("records", len(records)).
		Int("new_words", dict.NumWords()-words).
		Int("new_answers", dict.NumAnswers()-answers).
		Msg("split encoded")

	return dict, nil
}

// encode maps each question to a record, extending dict in place.
func (e *Encoder) encode(questions []dataset.Question, dict *dictionary.Dictionary) (dataset.Split, error) {
	bar := progress.Start(e.Progress, len(questions), nil)
	defer bar.Stop()

	records := make(dataset.Split, 0, len(questions))
	for i, q := range questions {
		words, err := e.Tokenizer.Tokenize(q.Question)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}

		tokens := make([]int, len(words))
		for j, w := range words {
			tokens[j] = dict.Word(w)
		}

		records = append(records, dataset.Record{
			ImageFilename: q.ImageFilename,
			Tokens:        tokens,
			Answer:        dict.Answer(q.Answer),
			FamilyIndex:   q.FamilyIndex,
		})

		bar.Incr()
	}

	return records, nil
}

func (e *Encoder) write(split string, records dataset.Split, resultFile string) error {
	if resultFile == "" {
		return e.Store.WriteSplit(split, records)
	}

	fw, ok := e.Store.(storage.FileSplitWriter)
	if !ok {
		return fmt.Errorf("explicit result file %s: %w", resultFile, storage.ErrUnsupported)
	}
	return fw.WriteSplitFile(resultFile, records)
}
