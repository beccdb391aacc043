package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/stat"
)

func TestRendererEncoded(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Encoded(Encoded{
		Question: "Is the pyramid red?",
		Tokens:   []string{"Is", "the", "pyramid", "red", "?"},
		IDs:      []int{1, 2, 0, 4, 5},
	})

	assert.Equal(t, "Is the pyramid red ?\n1  2   0       4   5\n", buf.String())
}

func TestRendererColor(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{W: &buf, HasColor: true}
	r.Encoded(Encoded{Tokens: []string{"cone"}, IDs: []int{0}})

	assert.Contains(t, buf.String(), Red+"cone"+Off)
}

func TestRendererStats(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Stats("train", stat.Stats{
		NumQuestions:         2,
		TokensPerQuestionDis: map[int]int{5: 2},
		TopAnswers:           []stat.AnswerCount{{Answer: 1, Count: 2}, {Answer: 9, Count: 1}},
	}, []string{"yes", "no"})

	out := buf.String()
	assert.Contains(t, out, "questions: 2\n")
	assert.Contains(t, out, "    5 tokens: 2\n")
	assert.Contains(t, out, "  no ")
	assert.Contains(t, out, "  "+Unknown)
}

func TestJSONRendererVocab(t *testing.T) {
	var buf bytes.Buffer
	NewJSONRenderer(&buf).Vocab([]dictionary.Entry{{Key: "cube", ID: 3}})

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "cube", got[0]["word"])
	assert.Equal(t, 3.0, got[0]["id"])
}

func TestJSONRendererVocabEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewJSONRenderer(&buf).Vocab(nil)
	assert.JSONEq(t, "[]", buf.String())
}

func TestJSONRendererStats(t *testing.T) {
	var buf bytes.Buffer
	NewJSONRenderer(&buf).Stats("val", stat.Stats{
		NumQuestions: 1,
		TopAnswers:   []stat.AnswerCount{{Answer: 0, Count: 1}},
	}, []string{"yes"})

	var got statsDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "val", got.Split)
	assert.Equal(t, []answerCountDoc{{Answer: "yes", ID: 0, Count: 1}}, got.TopAnswers)
}

func TestNew(t *testing.T) {
	for _, f := range SupportedFormats() {
		p, err := New(f, &bytes.Buffer{}, false)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
	_, err := New("xml", &bytes.Buffer{}, false)
	assert.Error(t, err)
}

func TestRendererStatsImages(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Stats("val", stat.Stats{
		Images: &stat.ImageStats{Count: 3, Formats: map[string]int{"png": 1, "jpeg": 2}, Rotated: 1},
	}, nil)

	out := buf.String()
	assert.Contains(t, out, "images: 3 (1 rotated)\n")
	assert.Contains(t, out, "  jpeg              2\n")

	buf.Reset()
	NewJSONRenderer(&buf).Stats("val", stat.Stats{}, nil)
	assert.NotContains(t, buf.String(), `"images"`)
}
