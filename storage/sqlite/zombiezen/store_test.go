package zombiezen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/storage"
)

func openStore(t *testing.T, runID string) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), DBName), runID)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSplitRoundTrip(t *testing.T) {
	s := openStore(t, "run-1")

	records := dataset.Split{
		{ImageFilename: "img001.png", Tokens: []int{1, 2, 3, 4, 5}, Answer: 0, FamilyIndex: 3},
		{ImageFilename: "img002.png", Tokens: []int{1, 6}, Answer: 1, FamilyIndex: 2},
	}
	require.NoError(t, s.WriteSplit("train", records))

	got, err := s.ReadSplit("train")
	require.NoError(t, err)
	assert.Equal(t, records, got)

	empty, err := s.ReadSplit("val")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWriteSplitReplaces(t *testing.T) {
	s := openStore(t, "")

	require.NoError(t, s.WriteSplit("train", dataset.Split{
		{ImageFilename: "a.png", Tokens: []int{1}},
		{ImageFilename: "b.png", Tokens: []int{2}},
	}))
	require.NoError(t, s.WriteSplit("train", dataset.Split{
		{ImageFilename: "c.png", Tokens: []int{3}},
	}))

	got, err := s.ReadSplit("train")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c.png", got[0].ImageFilename)
}

func TestDictionaryRoundTrip(t *testing.T) {
	s := openStore(t, "")

	empty, err := s.ReadDictionary()
	require.NoError(t, err)
	assert.Zero(t, empty.NumWords())

	d := dictionary.New()
	d.Word("Is")
	d.Word("the")
	d.Answer("yes")
	require.NoError(t, s.WriteDictionary(d))

	d.Word("cube")
	require.NoError(t, s.WriteDictionary(d))

	got, err := s.ReadDictionary()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Is": 1, "the": 2, "cube": 3}, got.Words)
	assert.Equal(t, map[string]int{"yes": 0}, got.Answers)
}

func TestManifest(t *testing.T) {
	s := openStore(t, "run-2")

	images := []dataset.Image{
		{Name: "b.jpg", Width: 640, Height: 480, Format: "jpeg", Orientation: "1"},
		{Name: "a.png", Width: 480, Height: 320, Format: "png"},
	}
	require.NoError(t, s.WriteManifest("val", images))

	got, err := s.ReadManifest("val")
	require.NoError(t, err)
	assert.Equal(t, []dataset.Image{images[1], images[0]}, got)
}

func TestDuplicateRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), DBName)

	s, err := Open(path, "run-3")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path, "run-3")
	assert.Error(t, err)
}

func TestNoExplicitResultFile(t *testing.T) {
	var s storage.SplitWriter = openStore(t, "")
	_, ok := s.(storage.FileSplitWriter)
	assert.False(t, ok)
}
