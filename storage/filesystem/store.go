package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/file"
	"github.com/revelaction/clevrprep/storage"
)

const Ext = ".json"

// Store writes splits, dictionaries and manifests as JSON files under root.
type Store struct {
	root string
}

var _ storage.Store = (*Store)(nil)
var _ storage.FileSplitWriter = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: root}
}

// dictionaryDoc is the on disk layout of the combined dictionary
type dictionaryDoc struct {
	WordDic   map[string]int `json:"word_dic"`
	AnswerDic map[string]int `json:"answer_dic"`
}

func (s *Store) WriteSplit(split string, records dataset.Split) error {
	return s.WriteSplitFile(file.ResultPath(s.root, split, Ext), records)
}

func (s *Store) WriteSplitFile(path string, records dataset.Split) error {
	if records == nil {
		records = dataset.Split{}
	}
	return writeJSON(path, records)
}

func (s *Store) ReadSplit(split string) (dataset.Split, error) {
	var records dataset.Split
	if err := readJSON(file.ResultPath(s.root, split, Ext), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) WriteDictionary(d *dictionary.Dictionary) error {
	return writeJSON(file.DictionaryPath(s.root, Ext), dictionaryDoc{WordDic: d.Words, AnswerDic: d.Answers})
}

func (s *Store) ReadDictionary() (*dictionary.Dictionary, error) {
	var doc dictionaryDoc
	if err := readJSON(file.DictionaryPath(s.root, Ext), &doc); err != nil {
		return nil, err
	}
	return dictionary.FromMaps(doc.WordDic, doc.AnswerDic)
}

func (s *Store) WriteManifest(split string, images []dataset.Image) error {
	if images == nil {
		images = []dataset.Image{}
	}
	return writeJSON(file.ManifestPath(s.root, split, Ext), images)
}

func (s *Store) ReadManifest(split string) ([]dataset.Image, error) {
	var images []dataset.Image
	if err := readJSON(file.ManifestPath(s.root, split, Ext), &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (s *Store) Close() error {
	return nil
}

func writeJSON(path string, v interface{}) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("IO error: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("IO error: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("IO error: %w", cerr)
		}
	}()

	if err := json.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("JSON encoding error in %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("IO error: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("JSON decoding error in %s: %w", path, err)
	}
	return nil
}
