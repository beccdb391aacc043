package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/clevrprep/render"
	"github.com/revelaction/clevrprep/stat"
)

func statCommand(c *cli.Context, ui UI) (err error) {
	a, err := args(c, 2, 2, "stat <root> <split>")
	if err != nil {
		return err
	}
	root, split := a[0], a[1]

	e, err := setup(c, ui)
	if err != nil {
		return err
	}

	printer, err := render.New(c.String("output"), ui.Out, !c.Bool("no-color"))
	if err != nil {
		return err
	}

	store, err := e.openExistingStore(root)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	records, err := store.ReadSplit(split)
	if err != nil {
		return err
	}

	// a split encoded alone has no saved dictionary, answers are then
	// shown as unknown
	var answers []string
	dict, err := store.ReadDictionary()
	if err != nil {
		e.log.Warn().Err(err).Msg("no dictionary, answer names not available")
	} else {
		answers = dict.AnswerList()
	}

	hdl := stat.NewHandler()
	hdl.Aggregate(records, c.Int("top"))

	images, err := store.ReadManifest(split)
	if err != nil {
		e.log.Debug().Err(err).Msg("no image manifest")
	} else {
		hdl.AggregateImages(images)
	}

	printer.Stats(split, hdl.Get(), answers)
	return nil
}
