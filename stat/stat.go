package stat

import (
	"sort"

	gonum "gonum.org/v1/gonum/stat"

	"github.com/revelaction/clevrprep/dataset"
)

type Handler struct {
	stats  Stats
	counts map[int]int
}

// Stats summarizes an encoded split.
type Stats struct {
	NumQuestions int
	NumTokens    int

	TokensPerQuestionMean float64
	TokensPerQuestionStd  float64
	TokensPerQuestionMin  int
	TokensPerQuestionMax  int
	TokensPerQuestionDis  map[int]int

	NumAnswers  int
	NumFamilies int

	// TopAnswers holds the most frequent answer ids, most frequent first.
	TopAnswers []AnswerCount

	// Images is nil when the split has no image manifest.
	Images *ImageStats
}

// ImageStats summarizes the image manifest of a split.
type ImageStats struct {
	Count   int
	Formats map[string]int

	// Rotated counts images whose EXIF orientation is not the default 1.
	Rotated int
}

type AnswerCount struct {
	Answer int
	Count  int
}

const DefaultTop = 5

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{TokensPerQuestionDis: map[int]int{}}
	return &Handler{
		stats:  stats,
		counts: map[int]int{},
	}
}

// Aggregate computes the statistics of records, keeping the top most
// frequent answers.
func (h *Handler) Aggregate(records dataset.Split, top int) {
	h.stats.NumQuestions = len(records)
	if len(records) == 0 {
		return
	}

	lengths := make([]float64, len(records))
	families := map[int]struct{}{}

	h.stats.TokensPerQuestionMin = len(records[0].Tokens)
	for i, r := range records {
		n := len(r.Tokens)
		lengths[i] = float64(n)
		h.stats.NumTokens += n
		h.stats.TokensPerQuestionDis[n]++

		if n < h.stats.TokensPerQuestionMin {
			h.stats.TokensPerQuestionMin = n
		}
		if n > h.stats.TokensPerQuestionMax {
			h.stats.TokensPerQuestionMax = n
		}

		h.counts[r.Answer]++
		families[r.FamilyIndex] = struct{}{}
	}

	h.stats.TokensPerQuestionMean, h.stats.TokensPerQuestionStd = gonum.MeanStdDev(lengths, nil)
	if len(records) == 1 {
		// the sample deviation of one value is NaN
		h.stats.TokensPerQuestionStd = 0
	}

	h.stats.NumAnswers = len(h.counts)
	h.stats.NumFamilies = len(families)

	answers := make([]AnswerCount, 0, len(h.counts))
	for a, c := range h.counts {
		answers = append(answers, AnswerCount{Answer: a, Count: c})
	}
	sort.Slice(answers, func(i, j int) bool {
		if answers[i].Count != answers[j].Count {
			return answers[i].Count > answers[j].Count
		}
		return answers[i].Answer < answers[j].Answer
	})
	if top < len(answers) {
		answers = answers[:top]
	}
	h.stats.TopAnswers = answers
}

// AggregateImages adds the statistics of the image manifest of the split.
func (h *Handler) AggregateImages(images []dataset.Image) {
	is := &ImageStats{Count: len(images), Formats: map[string]int{}}
	for _, img := range images {
		is.Formats[img.Format]++
		if img.Orientation != "" && img.Orientation != "1" {
			is.Rotated++
		}
	}
	h.stats.Images = is
}
