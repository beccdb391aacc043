// Package pickle stores splits and dictionaries as Python pickle files, so
// that training code can read them with pickle.load.
package pickle

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	ogorek "github.com/kisielk/og-rek"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/file"
	"github.com/revelaction/clevrprep/storage"
)

const (
	Ext = ".pkl"

	// Protocol is readable by Python 2.3+ and every Python 3.
	Protocol = 2
)

// Store writes pickle files under root.
type Store struct {
	root string
}

var _ storage.Store = (*Store)(nil)
var _ storage.FileSplitWriter = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) WriteSplit(split string, records dataset.Split) error {
	return s.WriteSplitFile(file.ResultPath(s.root, split, Ext), records)
}

// WriteSplitFile writes a list of (image_filename, token_ids, answer_id,
// question_family_index) tuples.
func (s *Store) WriteSplitFile(path string, records dataset.Split) error {
	list := make([]interface{}, len(records))
	for i, r := range records {
		tokens := r.Tokens
		if tokens == nil {
			tokens = []int{}
		}
		list[i] = ogorek.Tuple{r.ImageFilename, tokens, r.Answer, r.FamilyIndex}
	}
	return dump(path, list)
}

func (s *Store) ReadSplit(split string) (dataset.Split, error) {
	path := file.ResultPath(s.root, split, Ext)
	v, err := load(path)
	if err != nil {
		return nil, err
	}

	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected list, got %T", path, v)
	}

	records := make(dataset.Split, 0, len(list))
	for i, item := range list {
		r, err := toRecord(item)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// WriteDictionary writes {"word_dic": {...}, "answer_dic": {...}}
func (s *Store) WriteDictionary(d *dictionary.Dictionary) error {
	return dump(file.DictionaryPath(s.root, Ext), map[string]interface{}{
		"word_dic":   d.Words,
		"answer_dic": d.Answers,
	})
}

func (s *Store) ReadDictionary() (*dictionary.Dictionary, error) {
	path := file.DictionaryPath(s.root, Ext)
	v, err := load(path)
	if err != nil {
		return nil, err
	}

	m, err := toDict(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	words, err := toIDMap(m["word_dic"])
	if err != nil {
		return nil, fmt.Errorf("%s: word_dic: %w", path, err)
	}
	answers, err := toIDMap(m["answer_dic"])
	if err != nil {
		return nil, fmt.Errorf("%s: answer_dic: %w", path, err)
	}

	return dictionary.FromMaps(words, answers)
}

// WriteManifest writes a list of dicts, one per image.
func (s *Store) WriteManifest(split string, images []dataset.Image) error {
	list := make([]interface{}, len(images))
	for i, img := range images {
		list[i] = map[string]interface{}{
			"name":        img.Name,
			"width":       img.Width,
			"height":      img.Height,
			"format":      img.Format,
			"orientation": img.Orientation,
		}
	}
	return dump(file.ManifestPath(s.root, split, Ext), list)
}

func (s *Store) ReadManifest(split string) ([]dataset.Image, error) {
	path := file.ManifestPath(s.root, split, Ext)
	v, err := load(path)
	if err != nil {
		return nil, err
	}

	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected list, got %T", path, v)
	}

	images := make([]dataset.Image, 0, len(list))
	for i, item := range list {
		img, err := toImage(item)
		if err != nil {
			return nil, fmt.Errorf("%s: image %d: %w", path, i, err)
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *Store) Close() error {
	return nil
}

func dump(path string, v interface{}) (err error) {
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

	enc := ogorek.NewEncoderWithConfig(f, &ogorek.EncoderConfig{Protocol: Protocol})
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("pickle encoding error in %s: %w", path, err)
	}
	return nil
}

func load(path string) (interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	v, err := ogorek.NewDecoder(f).Decode()
	if err != nil {
		return nil, fmt.Errorf("pickle decoding error in %s: %w", path, err)
	}
	return v, nil
}

func toRecord(v interface{}) (dataset.Record, error) {
	var items []interface{}
	switch t := v.(type) {
	case ogorek.Tuple:
		items = t
	case []interface{}:
		items = t
	default:
		return dataset.Record{}, fmt.Errorf("expected tuple, got %T", v)
	}

	if len(items) != 4 {
		return dataset.Record{}, fmt.Errorf("expected 4 elements, got %d", len(items))
	}

	name, ok := items[0].(string)
	if !ok {
		return dataset.Record{}, fmt.Errorf("image_filename: expected str, got %T", items[0])
	}

	list, ok := items[1].([]interface{})
	if !ok {
		return dataset.Record{}, fmt.Errorf("token_ids: expected list, got %T", items[1])
	}
	tokens := make([]int, len(list))
	for i, t := range list {
		id, err := toInt(t)
		if err != nil {
			return dataset.Record{}, fmt.Errorf("token_ids[%d]: %w", i, err)
		}
		tokens[i] = id
	}

	answer, err := toInt(items[2])
	if err != nil {
		return dataset.Record{}, fmt.Errorf("answer_id: %w", err)
	}
	family, err := toInt(items[3])
	if err != nil {
		return dataset.Record{}, fmt.Errorf("question_family_index: %w", err)
	}

	return dataset.Record{ImageFilename: name, Tokens: tokens, Answer: answer, FamilyIndex: family}, nil
}

func toImage(v interface{}) (dataset.Image, error) {
	m, err := toDict(v)
	if err != nil {
		return dataset.Image{}, err
	}

	var img dataset.Image
	for _, key := range []string{"name", "format", "orientation"} {
		str, ok := m[key].(string)
		if !ok {
			return dataset.Image{}, fmt.Errorf("%s: expected str, got %T", key, m[key])
		}
		switch key {
		case "name":
			img.Name = str
		case "format":
			img.Format = str
		case "orientation":
			img.Orientation = str
		}
	}

	if img.Width, err = toInt(m["width"]); err != nil {
		return dataset.Image{}, fmt.Errorf("width: %w", err)
	}
	if img.Height, err = toInt(m["height"]); err != nil {
		return dataset.Image{}, fmt.Errorf("height: %w", err)
	}
	return img, nil
}

func toDict(v interface{}) (map[string]interface{}, error) {
	raw, ok := v.(map[interface{}]interface{})
	if !ok {
		return nil, fmt.Errorf("expected dict, got %T", v)
	}

	m := make(map[string]interface{}, len(raw))
	for k, val := range raw {
		key, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("expected str key, got %T", k)
		}
		m[key] = val
	}
	return m, nil
}

func toIDMap(v interface{}) (map[string]int, error) {
	if v == nil {
		return nil, fmt.Errorf("missing")
	}

	raw, err := toDict(v)
	if err != nil {
		return nil, err
	}

	m := make(map[string]int, len(raw))
	for k, val := range raw {
		id, err := toInt(val)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		m[k] = id
	}
	return m, nil
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case *big.Int:
		if !n.IsInt64() {
			return 0, fmt.Errorf("integer %s out of range", n)
		}
		return int(n.Int64()), nil
	}
	return 0, fmt.Errorf("expected int, got %T", v)
}
