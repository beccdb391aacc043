package dictionary

import (
	"fmt"
	"sort"

	radix "github.com/armon/go-radix"
)

const (
	// FirstWordID is the id of the first word. 0 is never a word id.
	FirstWordID = 1

	// FirstAnswerID is the id of the first answer.
	FirstAnswerID = 0
)

// Dictionary holds the word and answer dictionaries of a dataset.
//
// Ids are assigned in first seen order and never change. The value is
// passed from one encoding call to the next so that ids stay consistent
// across splits.
type Dictionary struct {
	Words   map[string]int
	Answers map[string]int

	nextWord   int
	nextAnswer int
}

// Entry is a string and its id.
type Entry struct {
	Key string
	ID  int
}

// New returns an empty Dictionary.
func New() *Dictionary {
	return &Dictionary{
		Words:      map[string]int{},
		Answers:    map[string]int{},
		nextWord:   FirstWordID,
		nextAnswer: FirstAnswerID,
	}
}

// FromMaps builds a Dictionary from persisted maps. The ids of each map must
// be contiguous from their first id, otherwise new ids could collide.
func FromMaps(words, answers map[string]int) (*Dictionary, error) {
	d := New()

	for w, id := range words {
		d.Words[w] = id
	}
	for a, id := range answers {
		d.Answers[a] = id
	}

	if err := checkContiguous("word", d.Words, FirstWordID); err != nil {
		return nil, err
	}
	if err := checkContiguous("answer", d.Answers, FirstAnswerID); err != nil {
		return nil, err
	}

	d.nextWord = FirstWordID + len(d.Words)
	d.nextAnswer = FirstAnswerID + len(d.Answers)
	return d, nil
}

func checkContiguous(kind string, m map[string]int, first int) error {
	seen := make([]bool, len(m))
	for k, id := range m {
		i := id - first
		if i < 0 || i >= len(m) {
			return fmt.Errorf("%s %q: id %d out of range [%d, %d]", kind, k, id, first, first+len(m)-1)
		}
		if seen[i] {
			return fmt.Errorf("%s %q: id %d assigned twice", kind, k, id)
		}
		seen[i] = true
	}
	return nil
}

// Word returns the id of the token, assigning the next free id if the token
// has not been seen.
func (d *Dictionary) Word(token string) int {
	if id, ok := d.Words[token]; ok {
		return id
	}

	id := d.nextWord
	d.Words[token] = id
	d.nextWord++
	return id
}

// Answer returns the id of the answer, assigning the next free id if the
// answer has not been seen.
func (d *Dictionary) Answer(answer string) int {
	if id, ok := d.Answers[answer]; ok {
		return id
	}

	id := d.nextAnswer
	d.Answers[answer] = id
	d.nextAnswer++
	return id
}

// LookupWord returns the id of the token without assigning one.
func (d *Dictionary) LookupWord(token string) (int, bool) {
	id, ok := d.Words[token]
	return id, ok
}

// LookupAnswer returns the id of the answer without assigning one.
func (d *Dictionary) LookupAnswer(answer string) (int, bool) {
	id, ok := d.Answers[answer]
	return id, ok
}

func (d *Dictionary) NumWords() int {
	return len(d.Words)
}

func (d *Dictionary) NumAnswers() int {
	return len(d.Answers)
}

// AnswerList returns the answers indexed by id.
func (d *Dictionary) AnswerList() []string {
	list := make([]string, len(d.Answers))
	for a, id := range d.Answers {
		list[id-FirstAnswerID] = a
	}
	return list
}

// WithPrefix returns the words starting with prefix, sorted by id.
func (d *Dictionary) WithPrefix(prefix string) []Entry {
	return withPrefix(d.Words, prefix)
}

// AnswersWithPrefix returns the answers starting with prefix, sorted by id.
func (d *Dictionary) AnswersWithPrefix(prefix string) []Entry {
	return withPrefix(d.Answers, prefix)
}

func withPrefix(m map[string]int, prefix string) []Entry {
	tree := radix.New()
	for k, id := range m {
		tree.Insert(k, id)
	}

	var entries []Entry
	tree.WalkPrefix(prefix, func(key string, value interface{}) bool {
		entries = append(entries, Entry{Key: key, ID: value.(int)})
		return false
	})

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}
