package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/clevrprep/render"
	"github.com/revelaction/clevrprep/stat"
	"github.com/revelaction/clevrprep/storage"
	"github.com/revelaction/clevrprep/tokenize"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "clevrprep: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:                 "clevrprep",
		Usage:                "preprocess the CLEVR dataset for VQA training",
		ArgsUsage:            "<root>",
		Version:              version(),
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Action: func(c *cli.Context) error {
			return preprocessCommand(c, ui)
		},
		Commands: []*cli.Command{
			{
				Name:      "preprocess",
				Usage:     "encode train and val questions, save the dictionary and resize the images",
				ArgsUsage: "<root>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "skip-images", Usage: "only encode questions"},
				},
				Action: func(c *cli.Context) error {
					return preprocessCommand(c, ui)
				},
			},
			{
				Name:      "questions",
				Usage:     "encode the questions of one split",
				ArgsUsage: "<root> <split>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "question-file", Usage: "read questions from `FILE` instead of the dataset layout"},
					&cli.StringFlag{Name: "result-file", Usage: "write the encoded split to `FILE` (pickle and json formats)"},
					&cli.BoolFlag{Name: "extend", Usage: "start from the saved dictionary and save it extended"},
				},
				Action: func(c *cli.Context) error {
					return questionsCommand(c, ui)
				},
			},
			{
				Name:      "images",
				Usage:     "resize every image of a directory",
				ArgsUsage: "<in-dir> <out-dir>",
				Action: func(c *cli.Context) error {
					return imagesCommand(c, ui)
				},
			},
			{
				Name:      "stat",
				Usage:     "show statistics of an encoded split",
				ArgsUsage: "<root> <split>",
				Flags: append(outputFlags(),
					&cli.IntFlag{Name: "top", Value: stat.DefaultTop, Usage: "number of most frequent answers to show"},
				),
				Action: func(c *cli.Context) error {
					return statCommand(c, ui)
				},
			},
			{
				Name:      "vocab",
				Usage:     "list dictionary entries starting with a prefix",
				ArgsUsage: "<root> [prefix]",
				Flags: append(outputFlags(),
					&cli.BoolFlag{Name: "answers", Usage: "list the answer dictionary instead of words"},
				),
				Action: func(c *cli.Context) error {
					return vocabCommand(c, ui)
				},
			},
			{
				Name:      "query",
				Usage:     "encode questions interactively with the saved dictionary",
				ArgsUsage: "<root>",
				Flags:     outputFlags(),
				Action: func(c *cli.Context) error {
					return queryCommand(c, ui)
				},
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"CLEVRPREP_CONFIG"}, Usage: "read settings from `FILE`"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: fmt.Sprintf("output format (%s)", join(storage.Formats()))},
		&cli.StringFlag{Name: "tokenizer", Usage: fmt.Sprintf("word tokenizer (%s)", join(tokenize.Names()))},
		&cli.BoolFlag{Name: "normalize", Usage: "apply Unicode NFC normalization before tokenizing"},
		&cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error)"},
		&cli.BoolFlag{Name: "no-progress", Usage: "do not draw progress bars"},
		&cli.IntFlag{Name: "workers", Usage: "number of images resized at once"},
		&cli.IntFlag{Name: "size", Usage: "width and height of resized images"},
		&cli.IntFlag{Name: "jpeg-quality", Usage: "quality of JPEG output images (1-100)"},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: render.FormatText, Usage: fmt.Sprintf("output format (%s)", join(render.SupportedFormats()))},
		&cli.BoolFlag{Name: "no-color", Usage: "do not color the output"},
	}
}
