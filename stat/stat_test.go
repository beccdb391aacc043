package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revelaction/clevrprep/dataset"
)

func TestAggregate(t *testing.T) {
	records := dataset.Split{
		{Tokens: []int{1, 2, 3, 4, 5}, Answer: 0, FamilyIndex: 3},
		{Tokens: []int{1, 2, 6}, Answer: 1, FamilyIndex: 3},
		{Tokens: []int{1, 2, 7, 4, 5, 8, 9}, Answer: 0, FamilyIndex: 1},
	}

	h := NewHandler()
	h.Aggregate(records, 1)
	s := h.Get()

	assert.Equal(t, 3, s.NumQuestions)
	assert.Equal(t, 15, s.NumTokens)
	assert.InDelta(t, 5.0, s.TokensPerQuestionMean, 1e-9)
	assert.InDelta(t, 2.0, s.TokensPerQuestionStd, 1e-9)
	assert.Equal(t, 3, s.TokensPerQuestionMin)
	assert.Equal(t, 7, s.TokensPerQuestionMax)
	assert.Equal(t, map[int]int{3: 1, 5: 1, 7: 1}, s.TokensPerQuestionDis)
	assert.Equal(t, 2, s.NumAnswers)
	assert.Equal(t, 2, s.NumFamilies)
	assert.Equal(t, []AnswerCount{{Answer: 0, Count: 2}}, s.TopAnswers)
}

func TestAggregateSingle(t *testing.T) {
	h := NewHandler()
	h.Aggregate(dataset.Split{{Tokens: []int{1, 2}}}, DefaultTop)
	s := h.Get()

	assert.Equal(t, 2.0, s.TokensPerQuestionMean)
	assert.Zero(t, s.TokensPerQuestionStd)
	assert.Len(t, s.TopAnswers, 1)
}

func TestAggregateEmpty(t *testing.T) {
	h := NewHandler()
	h.Aggregate(nil, DefaultTop)
	assert.Zero(t, h.Get().NumQuestions)
}

func TestAggregateImages(t *testing.T) {
	h := NewHandler()
	assert.Nil(t, h.Get().Images)

	h.AggregateImages([]dataset.Image{
		{Name: "a.png", Format: "png"},
		{Name: "b.jpg", Format: "jpeg", Orientation: "1"},
		{Name: "c.jpg", Format: "jpeg", Orientation: "6"},
	})

	assert.Equal(t, &ImageStats{Count: 3, Formats: map[string]int{"png": 1, "jpeg": 2}, Rotated: 1}, h.Get().Images)
}
