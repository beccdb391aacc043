package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func imagesCommand(c *cli.Context, ui UI) error {
	a, err := args(c, 2, 2, "images <in-dir> <out-dir>")
	if err != nil {
		return err
	}

	e, err := setup(c, ui)
	if err != nil {
		return err
	}

	images, err := e.newResizer(e.log).Process(c.Context, a[0], a[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%d images written to %s\n", len(images), a[1])
	return nil
}
