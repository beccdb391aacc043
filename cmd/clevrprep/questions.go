package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/clevrprep/dictionary"
	"github.com/revelaction/clevrprep/encode"
)

// questionsCommand encodes a single split. With --extend the saved
// dictionary is the starting point and is saved again afterwards.
func questionsCommand(c *cli.Context, ui UI) (err error) {
	a, err := args(c, 2, 2, "questions <root> <split>")
	if err != nil {
		return err
	}
	root, split := a[0], a[1]

	e, err := setup(c, ui)
	if err != nil {
		return err
	}

	store, err := e.openStore(root, "")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc, err := e.newEncoder(store, e.log)
	if err != nil {
		return err
	}

	var dict *dictionary.Dictionary
	if c.Bool("extend") {
		dict, err = store.ReadDictionary()
		if err != nil {
			return err
		}
	}

	dict, err = enc.Process(root, split, dict, encode.Options{
		QuestionFile: c.String("question-file"),
		ResultFile:   c.String("result-file"),
	})
	if err != nil {
		return err
	}

	if c.Bool("extend") {
		if err := store.WriteDictionary(dict); err != nil {
			return err
		}
	}

	fmt.Fprintf(ui.Out, "%s: %d words, %d answers\n", split, dict.NumWords(), dict.NumAnswers())
	return nil
}
