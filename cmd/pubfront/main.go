package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/eringen/pubfront"
	"github.com/eringen/pubfront/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pubfront",
		Usage:   "a rich-text blog front-end built with Go, Echo, and templ",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the blog server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Value: pubfront.EnvOr("PUBFRONT_CONFIG", "site.yaml"), Usage: "YAML config file (optional)"},
					&cli.StringFlag{Name: "static", Value: "public", Usage: "directory of static assets"},
				},
				Action: runServe,
			},
			{
				Name:      "import",
				Usage:     "load posts from a YAML or JSON file into the database",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Value: pubfront.EnvOr("DATABASE_PATH", "data/blog.db"), Usage: "SQLite database path"},
					&cli.BoolFlag{Name: "watch", Usage: "keep running and reimport whenever FILE changes"},
				},
				Action: runImport,
			},
			{
				Name:      "readtime",
				Usage:     "print the estimated reading time of a rich-text document",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "wpm", Value: 200, Usage: "words per minute"},
					&cli.StringFlag{Name: "counting", Value: "legacy", Usage: "word counting: legacy or fields"},
					&cli.BoolFlag{Name: "words", Usage: "also print the word count"},
				},
				Action: runReadTime,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "pubfront %s\n", version)
					return nil
				},
			},
		},
	}
}

func runServe(c *cli.Context) error {
	cfg, err := pubfront.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	app := pubfront.New(cfg, views.Default(cfg.Name), pubfront.WithStaticDir(c.String("static")))
	defer app.Close()
	return app.Start()
}

func argFile(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one FILE argument, got %d", c.NArg())
	}
	return c.Args().First(), nil
}
