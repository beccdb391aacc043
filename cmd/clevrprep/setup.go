package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/clevrprep/config"
	"github.com/revelaction/clevrprep/encode"
	"github.com/revelaction/clevrprep/resize"
	"github.com/revelaction/clevrprep/storage"
	"github.com/revelaction/clevrprep/storage/filesystem"
	"github.com/revelaction/clevrprep/storage/pickle"
	"github.com/revelaction/clevrprep/storage/sqlite/zombiezen"
	"github.com/revelaction/clevrprep/tokenize"
)

// env is what every command builds from the configuration.
type env struct {
	cfg config.Config
	log zerolog.Logger

	// progress is nil when bars are disabled
	progress io.Writer
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"format":       "storage.format",
	"tokenizer":    "tokenizer.name",
	"normalize":    "tokenizer.normalize",
	"log-level":    "log.level",
	"workers":      "images.workers",
	"size":         "images.size",
	"jpeg-quality": "images.jpeg_quality",
	"skip-images":  "images.skip",
}

func setup(c *cli.Context, ui UI) (*env, error) {
	overrides := map[string]interface{}{}
	for name, key := range flagKeys {
		if c.IsSet(name) {
			overrides[key] = c.Value(name)
		}
	}
	if c.Bool("no-progress") {
		overrides["log.progress"] = false
	}

	cfg, err := config.Load(config.LoadOptions{ConfigFile: c.String("config"), Overrides: overrides})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &env{
		cfg: cfg,
		log: newLogger(ui.Err, cfg.Level()),
	}
	if cfg.Log.Progress {
		e.progress = ui.Err
	}
	return e, nil
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}

// openStore returns the store of the configured format for root.
func (e *env) openStore(root, runID string) (storage.Store, error) {
	switch e.cfg.Storage.Format {
	case storage.PickleFormat:
		return pickle.NewStore(root), nil
	case storage.JSONFormat:
		return filesystem.NewStore(root), nil
	case storage.SQLiteFormat:
		return zombiezen.Open(zombiezen.Path(root), runID)
	}
	return nil, fmt.Errorf("unknown format %q", e.cfg.Storage.Format)
}

// openExistingStore opens the store of root for reading. A missing SQLite
// database is an error instead of being created.
func (e *env) openExistingStore(root string) (storage.Store, error) {
	if e.cfg.Storage.Format == storage.SQLiteFormat {
		path := zombiezen.Path(root)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("repository not found: %s", path)
		}
	}
	return e.openStore(root, "")
}

func (e *env) newEncoder(store storage.SplitWriter, log zerolog.Logger) (*encode.Encoder, error) {
	tok, err := tokenize.New(e.cfg.Tokenizer.Name, e.cfg.Tokenizer.Normalize)
	if err != nil {
		return nil, err
	}

	enc := encode.NewEncoder(tok, store)
	enc.Log = log
	enc.Progress = e.progress
	return enc, nil
}

func (e *env) newResizer(log zerolog.Logger) *resize.Resizer {
	r := resize.New()
	r.Size = e.cfg.Images.Size
	r.Workers = e.cfg.Images.Workers
	r.JPEGQuality = e.cfg.Images.JPEGQuality
	r.Log = log
	r.Progress = e.progress
	return r
}

var errUsage = errors.New("wrong number of arguments")

// args returns the positional arguments, checking their number.
func args(c *cli.Context, min, max int, usage string) ([]string, error) {
	n := c.NArg()
	if n < min || n > max {
		return nil, fmt.Errorf("%w, usage: clevrprep %s", errUsage, usage)
	}
	return c.Args().Slice(), nil
}

func join(s []string) string {
	return strings.Join(s, ", ")
}
