package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/encode"
	"github.com/revelaction/clevrprep/file"
	"github.com/revelaction/clevrprep/resize"
	"github.com/revelaction/clevrprep/storage/filesystem"
	"github.com/revelaction/clevrprep/storage/pickle"
	"github.com/revelaction/clevrprep/tokenize"
)

var questions = map[string]string{
	dataset.Train: `{"questions": [
		{"question": "Is the cube red?", "answer": "yes", "image_filename": "img001.png", "question_family_index": 3},
		{"question": "How many spheres?", "answer": "2", "image_filename": "img002.png", "question_family_index": 7}
	]}`,
	dataset.Val: `{"questions": [
		{"question": "Is the sphere red?", "answer": "no", "image_filename": "img003.png", "question_family_index": 3}
	]}`,
}

func newRoot(t *testing.T, withVal bool) string {
	t.Helper()
	root := t.TempDir()

	for split, body := range questions {
		if split == dataset.Val && !withVal {
			continue
		}
		path := file.QuestionPath(root, split)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))

		dir := file.ImagePath(root, split)
		require.NoError(t, os.MkdirAll(dir, 0755))
		img := image.NewNRGBA(image.Rect(0, 0, 48, 32))
		img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
		f, err := os.Create(filepath.Join(dir, "img_"+split+".png"))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
	return root
}

func newPipeline(root string) (*Pipeline, *filesystem.Store) {
	store := filesystem.NewStore(root)
	return New(encode.NewEncoder(tokenize.NewTreebank(), store), resize.New(), store), store
}

func TestRun(t *testing.T) {
	root := newRoot(t, true)
	p, store := newPipeline(root)

	dict, err := p.Run(context.Background(), root)
	require.NoError(t, err)
	assert.NotEmpty(t, p.RunID)

	// Is the cube red ? How many spheres + sphere
	assert.Equal(t, 9, dict.NumWords())
	assert.Equal(t, 3, dict.NumAnswers())

	saved, err := store.ReadDictionary()
	require.NoError(t, err)
	assert.Equal(t, dict.Words, saved.Words)
	assert.Equal(t, dict.Answers, saved.Answers)

	val, err := store.ReadSplit(dataset.Val)
	require.NoError(t, err)
	require.Len(t, val, 1)
	assert.Equal(t, []int{1, 2, 9, 4, 5}, val[0].Tokens)
	assert.Equal(t, 2, val[0].Answer)

	for _, split := range dataset.Splits {
		assert.FileExists(t, filepath.Join(file.PreprocessedPath(root, split), "img_"+split+".png"))
		assert.FileExists(t, file.ManifestPath(root, split, filesystem.Ext))
	}
}

func TestRunSkipImages(t *testing.T) {
	root := newRoot(t, true)
	store := pickle.NewStore(root)
	p := New(encode.NewEncoder(tokenize.NewTreebank(), store), resize.New(), store)
	p.SkipImages = true
	p.RunID = "fixed"

	_, err := p.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "fixed", p.RunID)

	assert.FileExists(t, file.DictionaryPath(root, pickle.Ext))
	assert.NoDirExists(t, file.PreprocessedPath(root, dataset.Train))
}

func TestRunStopsAtFirstError(t *testing.T) {
	root := newRoot(t, false)
	p, _ := newPipeline(root)

	_, err := p.Run(context.Background(), root)
	require.Error(t, err)

	// train output stays, nothing after the failure is written
	assert.FileExists(t, file.ResultPath(root, dataset.Train, filesystem.Ext))
	assert.NoFileExists(t, file.DictionaryPath(root, filesystem.Ext))
}

func TestRunCancelled(t *testing.T) {
	root := newRoot(t, true)
	p, _ := newPipeline(root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

// splitRecorder keeps encoded splits in memory.
type splitRecorder struct {
	splits map[string]dataset.Split
}

func (s *splitRecorder) WriteSplit(split string, records dataset.Split) error {
	if s.splits == nil {
		s.splits = map[string]dataset.Split{}
	}
	s.splits[split] = records
	return nil
}

func TestRunKeepsEncoderStore(t *testing.T) {
	root := newRoot(t, true)
	rec := &splitRecorder{}
	enc := encode.NewEncoder(tokenize.NewTreebank(), rec)
	store := filesystem.NewStore(root)

	p := New(enc, resize.New(), store)
	p.SkipImages = true
	assert.Same(t, rec, enc.Store)

	_, err := p.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, rec.splits[dataset.Train], 2)
	assert.Len(t, rec.splits[dataset.Val], 1)
	assert.NoFileExists(t, file.ResultPath(root, dataset.Train, filesystem.Ext))
	assert.FileExists(t, file.DictionaryPath(root, filesystem.Ext))
}
