package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/clevrprep/query"
	"github.com/revelaction/clevrprep/render"
	"github.com/revelaction/clevrprep/tokenize"
)

// Query command
func queryCommand(c *cli.Context, ui UI) (err error) {
	a, err := args(c, 1, 1, "query <root>")
	if err != nil {
		return err
	}

	e, err := setup(c, ui)
	if err != nil {
		return err
	}

	printer, err := render.New(c.String("output"), ui.Out, !c.Bool("no-color"))
	if err != nil {
		return err
	}

	store, err := e.openExistingStore(a[0])
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

	tok, err := tokenize.New(e.cfg.Tokenizer.Name, e.cfg.Tokenizer.Normalize)
	if err != nil {
		return err
	}

	// now present the REPL
	return query.NewHandler(tok, dict, printer, ui.Out).Run()
}
