package dataset

import (
	"encoding/json"
	"fmt"
)

const (
	Train = "train"
	Val   = "val"
)

// Splits are the splits processed by a full run, in processing order.
var Splits = []string{Train, Val}

// Question is one entry of a CLEVR question file.
type Question struct {
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	ImageFilename string `json:"image_filename"`
	FamilyIndex   int    `json:"question_family_index"`
}

// Record is the encoded form of a Question.
//
// It is serialized as the 4-tuple (image_filename, token_ids, answer_id,
// question_family_index).
type Record struct {
	ImageFilename string
	Tokens        []int
	Answer        int
	FamilyIndex   int
}

// Split is the ordered list of records of one split.
type Split []Record

// MarshalJSON writes the record as a 4 element array.
func (r Record) MarshalJSON() ([]byte, error) {
	tokens := r.Tokens
	if tokens == nil {
		tokens = []int{}
	}
	return json.Marshal([]interface{}{r.ImageFilename, tokens, r.Answer, r.FamilyIndex})
}

// UnmarshalJSON reads a 4 element array written by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw) != 4 {
		return fmt.Errorf("record: expected 4 elements, got %d", len(raw))
	}

	if err := json.Unmarshal(raw[0], &r.ImageFilename); err != nil {
		return fmt.Errorf("record image_filename: %w", err)
	}
	if err := json.Unmarshal(raw[1], &r.Tokens); err != nil {
		return fmt.Errorf("record token_ids: %w", err)
	}
	if err := json.Unmarshal(raw[2], &r.Answer); err != nil {
		return fmt.Errorf("record answer_id: %w", err)
	}
	if err := json.Unmarshal(raw[3], &r.FamilyIndex); err != nil {
		return fmt.Errorf("record question_family_index: %w", err)
	}

	return nil
}

// Image describes one resized image of a split. Width and Height are the
// dimensions of the source file.
type Image struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Format is the decoder that read the source file ("png", "jpeg", ...)
	Format string `json:"format"`

	// Orientation is the EXIF orientation tag of the source, if any.
	Orientation string `json:"orientation,omitempty"`
}
