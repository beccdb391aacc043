package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/revelaction/clevrprep/dataset"
)

const (
	QuestionDir = "questions"
	ImageDir    = "images"

	// DictionaryName is the base name of the combined dictionary artifact.
	DictionaryName = "dic"

	preprocessedSuffix = "_preprocessed"
	manifestSuffix     = "_manifest"
)

// QuestionPath returns {root}/questions/CLEVR_{split}_questions.json
func QuestionPath(root, split string) string {
	return filepath.Join(root, QuestionDir, fmt.Sprintf("CLEVR_%s_questions.json", split))
}

// ResultPath returns {root}/{split}{ext}
func ResultPath(root, split, ext string) string {
	return filepath.Join(root, split+ext)
}

// DictionaryPath returns {root}/dic{ext}
func DictionaryPath(root, ext string) string {
	return filepath.Join(root, DictionaryName+ext)
}

// ImagePath returns {root}/images/{split}
func ImagePath(root, split string) string {
	return filepath.Join(root, ImageDir, split)
}

// PreprocessedPath returns {root}/images/{split}_preprocessed
func PreprocessedPath(root, split string) string {
	return filepath.Join(root, ImageDir, split+preprocessedSuffix)
}

// ManifestPath returns {root}/images/{split}_manifest{ext}
func ManifestPath(root, split, ext string) string {
	return filepath.Join(root, ImageDir, split+manifestSuffix+ext)
}

// questionFile mirrors the JSON document. Pointer fields detect missing keys.
type questionFile struct {
	Questions []struct {
		Question      *string `json:"question"`
		Answer        *string `json:"answer"`
		ImageFilename *string `json:"image_filename"`
		FamilyIndex   *int    `json:"question_family_index"`
	} `json:"questions"`
}

// ReadQuestions reads a CLEVR question file. A question lacking any of the
// four required keys is an error.
func ReadQuestions(path string) ([]dataset.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	var doc questionFile
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("JSON decoding error in %s: %w", path, err)
	}

	if doc.Questions == nil {
		return nil, fmt.Errorf("%s: missing key \"questions\"", path)
	}

	questions := make([]dataset.Question, 0, len(doc.Questions))
	for i, q := range doc.Questions {
		switch {
		case q.Question == nil:
			return nil, missingKey(path, i, "question")
		case q.Answer == nil:
			return nil, missingKey(path, i, "answer")
		case q.ImageFilename == nil:
			return nil, missingKey(path, i, "image_filename")
		case q.FamilyIndex == nil:
			return nil, missingKey(path, i, "question_family_index")
		}

		questions = append(questions, dataset.Question{
			Question:      *q.Question,
			Answer:        *q.Answer,
			ImageFilename: *q.ImageFilename,
			FamilyIndex:   *q.FamilyIndex,
		})
	}

	return questions, nil
}

func missingKey(path string, index int, key string) error {
	return fmt.Errorf("%s: question %d: missing key %q", path, index, key)
}
