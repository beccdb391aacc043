package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/clevrprep/render"
)

func vocabCommand(c *cli.Context, ui UI) (err error) {
	a, err := args(c, 1, 2, "vocab <root> [prefix]")
	if err != nil {
		return err
	}
	root := a[0]
	var prefix string
	if len(a) == 2 {
		prefix = a[1]
	}

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

	dict, err := store.ReadDictionary()
	if err != nil {
		return err
	}

	if c.Bool("answers") {
		printer.Vocab(dict.AnswersWithPrefix(prefix))
		return nil
	}

	printer.Vocab(dict.WithPrefix(prefix))
	return nil
}
