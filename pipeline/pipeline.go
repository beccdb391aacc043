// Package pipeline runs the complete preprocessing of a CLEVR dataset root.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/revelaction/clevrprep/dataset"
	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/encode"
	"github.com/revelaction/clevrprep/file"
	"github.com/revelaction/clevrprep/resize"
	"github.com/revelaction/clevrprep/storage"
)

// Store is what a run persists besides the encoded splits.
type Store interface {
	storage.DictionaryWriter
	storage.ManifestWriter
}

type Pipeline struct {
	Encoder *encode.Encoder
	Resizer *resize.Resizer
	Store   Store

	SkipImages bool

	// RunID identifies the run in logs. A random UUID is used if empty.
	RunID string

	Log zerolog.Logger
}

// New returns a pipeline. The encoder writes the splits to its own store,
// store receives the dictionary and the image manifests.
func New(enc *encode.Encoder, r *resize.Resizer, store Store) *Pipeline {
	return &Pipeline{
		Encoder: enc,
		Resizer: r,
		Store:   store,
		Log:     zerolog.Nop(),
	}
}

// Run encodes the train split with fresh dictionaries, the val split with
// the dictionaries returned by train, saves them, and then resizes the
// images of both splits. The first error stops the run; outputs already
// written are kept.
func (p *Pipeline) Run(ctx context.Context, root string) (*dictionary.Dictionary, error) {
	if p.RunID == "" {
		p.RunID = uuid.NewString()
	}
	log := p.Log.With().Str("run", p.RunID).Logger()
	log.Info().Str("root", root).Bool("skip_images", p.SkipImages).Msg("preprocessing started")

	var dict *dictionary.Dictionary
	for _, split := range dataset.Splits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var err error
		dict, err = p.Encoder.Process(root, split, dict, encode.Options{})
		if err != nil {
			return nil, err
		}
	}

	if err := p.Store.WriteDictionary(dict); err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}
	log.Info().Int("words", dict.NumWords()).Int("answers", dict.NumAnswers()).Msg("dictionary saved")

	if p.SkipImages {
		return dict, nil
	}

	for _, split := range dataset.Splits {
		images, err := p.Resizer.Process(ctx, file.ImagePath(root, split), file.PreprocessedPath(root, split))
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", split, err)
		}

		if err := p.Store.WriteManifest(split, images); err != nil {
			return nil, fmt.Errorf("split %s: manifest: %w", split, err)
		}
	}

	log.Info().Msg("preprocessing finished")
	return dict, nil
}
