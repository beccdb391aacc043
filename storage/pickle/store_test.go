package pickle

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	ogorek "github.com/kisielk/og-rek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/dictionary"
)

func TestSplitRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	records := dataset.Split{
		{ImageFilename: "img001.png", Tokens: []int{1, 2, 3, 4, 5}, Answer: 0, FamilyIndex: 3},
		{ImageFilename: "img002.png", Tokens: []int{}, Answer: 1, FamilyIndex: 0},
	}
	require.NoError(t, s.WriteSplit("train", records))

	data, err := os.ReadFile(filepath.Join(root, "train.pkl"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0x80, Protocol}), "protocol header")

	got, err := s.ReadSplit("train")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSplitIsListOfTuples(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	path := filepath.Join(root, "custom.pkl")
	require.NoError(t, s.WriteSplitFile(path, dataset.Split{
		{ImageFilename: "img001.png", Tokens: []int{1, 2}, Answer: 4, FamilyIndex: 9},
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := ogorek.NewDecoder(f).Decode()
	require.NoError(t, err)

	list, ok := v.([]interface{})
	require.True(t, ok, "got %T", v)
	require.Len(t, list, 1)

	tuple, ok := list[0].(ogorek.Tuple)
	require.True(t, ok, "got %T", list[0])
	assert.Equal(t, "img001.png", tuple[0])
	assert.Equal(t, []interface{}{int64(1), int64(2)}, tuple[1])
	assert.Equal(t, int64(4), tuple[2])
	assert.Equal(t, int64(9), tuple[3])
}

func TestDictionaryRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	d := dictionary.New()
	for _, w := range []string{"Is", "the", "cube", "red", "?"} {
		d.Word(w)
	}
	d.Answer("yes")
	d.Answer("no")
	require.NoError(t, s.WriteDictionary(d))

	got, err := s.ReadDictionary()
	require.NoError(t, err)
	assert.Equal(t, d.Words, got.Words)
	assert.Equal(t, d.Answers, got.Answers)

	assert.Equal(t, 6, got.Word("sphere"))
	assert.Equal(t, 2, got.Answer("2"))
}

func TestManifestRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	images := []dataset.Image{
		{Name: "a.png", Width: 480, Height: 320, Format: "png"},
		{Name: "b.jpg", Width: 640, Height: 480, Format: "jpeg", Orientation: "6"},
	}
	require.NoError(t, s.WriteManifest("train", images))

	_, err := os.Stat(filepath.Join(root, "images", "train_manifest.pkl"))
	assert.NoError(t, err)

	got, err := s.ReadManifest("train")
	require.NoError(t, err)
	assert.Equal(t, images, got)
}

func TestReadDictionaryMissing(t *testing.T) {
	_, err := NewStore(t.TempDir()).ReadDictionary()
	assert.Error(t, err)
}
