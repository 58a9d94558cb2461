package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bodgit/hsgm"
	"github.com/bodgit/hsgm/image"
	"github.com/bodgit/hsgm/mapfile"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
)

const defaultDB = "hsgm.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func open(c *cli.Context) (*hsgm.HSGM, error) {
	return hsgm.New(c.String("db"), newLogger(c))
}

func main() {
	app := cli.NewApp()

	app.Name = "hsgm"
	app.Usage = "hsgm map definition utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"HSGM_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "parse",
			Usage:       "Parse a map definition and print it as YAML",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				d, err := mapfile.ParseFile(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := d.WriteYAML(os.Stdout); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Import map definitions into the database",
			Description: "",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				h, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer h.Close()

				if err := h.Import(c.Args().Slice()...); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and import every map definition",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				h, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer h.Close()

				if err := h.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "watch",
			Usage:       "Scan a directory then re-import definitions as they change",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				h, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer h.Close()

				if err := h.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				errc, err := h.Watch(ctx, c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := <-errc; err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "lookup",
			Usage:       "Find a binding across all imported definitions",
			Description: "KIND is one of Texture, Collider or Trigger",
			ArgsUsage:   "KIND NAME",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				kind, ok := mapfile.ParseKind(c.Args().Get(0))
				if !ok {
					return cli.NewExitError(fmt.Sprintf("unknown kind %q", c.Args().Get(0)), 1)
				}

				h, err := open(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer h.Close()

				matches, err := h.Lookup(kind, c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, m := range matches {
					fmt.Printf("%s\t%s\n", m.Definition, m.Value)
				}

				return nil
			},
		},
		{
			Name:        "convert",
			Usage:       "Convert an image to PNG",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce to at most this many colors",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "integer scale factor",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				width, height, pixels, err := image.ReadFile(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if scale := c.Int("scale"); scale != 1 {
					if width, height, pixels, err = image.Resize(width, height, pixels, scale); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				if colors := c.Int("colors"); colors > 0 {
					err = image.WritePalettedPNG(c.Args().Get(1), width, height, pixels, colors)
				} else {
					err = image.WritePNG(c.Args().Get(1), width, height, pixels)
				}
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				logger.Printf("Wrote %dx%d image to \"%s\"\n", width, height, c.Args().Get(1))

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
