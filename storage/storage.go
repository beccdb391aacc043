package storage

import (
	"errors"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/dictionary"
)

const (
	PickleFormat = "pickle"
	JSONFormat   = "json"
	SQLiteFormat = "sqlite"
)

// ErrUnsupported is returned for an operation a backend cannot perform.
var ErrUnsupported = errors.New("operation not supported by storage backend")

// Formats returns the supported storage formats. The first one is the default.
func Formats() []string {
	return []string{PickleFormat, JSONFormat, SQLiteFormat}
}

// SplitWriter defines write operations for encoded splits
type SplitWriter interface {
	// WriteSplit persists the records of a split, replacing any previous
	// output of that split.
	WriteSplit(split string, records dataset.Split) error
}

// FileSplitWriter is implemented by file based backends that can write a
// split to an explicit path instead of their default location.
type FileSplitWriter interface {
	WriteSplitFile(path string, records dataset.Split) error
}

// SplitReader defines read operations for encoded splits
type SplitReader interface {
	ReadSplit(split string) (dataset.Split, error)
}

// DictionaryWriter persists the combined word and answer dictionaries
type DictionaryWriter interface {
	WriteDictionary(d *dictionary.Dictionary) error
}

// DictionaryReader loads the combined word and answer dictionaries
type DictionaryReader interface {
	ReadDictionary() (*dictionary.Dictionary, error)
}

// ManifestWriter persists the list of resized images of a split
type ManifestWriter interface {
	WriteManifest(split string, images []dataset.Image) error
}

// ManifestReader loads the list of resized images of a split
type ManifestReader interface {
	ReadManifest(split string) ([]dataset.Image, error)
}

// Store combines all operations of a backend
type Store interface {
	SplitWriter
	SplitReader
	DictionaryWriter
	DictionaryReader
	ManifestWriter
	ManifestReader

	Close() error
}
