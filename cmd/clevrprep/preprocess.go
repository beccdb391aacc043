package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/clevrprep/pipeline"
)

// preprocessCommand runs the complete pipeline on a dataset root.
func preprocessCommand(c *cli.Context, ui UI) (err error) {
	a, err := args(c, 1, 1, "[preprocess] <root>")
	if err != nil {
		return err
	}
	root := a[0]

	e, err := setup(c, ui)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := e.log.With().Str("run", runID).Logger()

	store, err := e.openStore(root, runID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc, err := e.newEncoder(store, log)
	if err != nil {
		return err
	}

	p := pipeline.New(enc, e.newResizer(log), store)
	p.SkipImages = e.cfg.Images.Skip
	p.RunID = runID
	p.Log = e.log

	dict, err := p.Run(c.Context, root)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "run %s: %d words, %d answers\n", runID, dict.NumWords(), dict.NumAnswers())
	return nil
}
